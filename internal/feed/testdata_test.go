package feed

const googleNewsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
	<channel>
		<title>"ransomware" - Google News</title>
		<link>https://news.google.com/search?q=ransomware</link>
		<description>Google News</description>
		<item>
			<title>LockBit affiliate arrested in Poland - The Record</title>
			<link>https://therecord.media/lockbit-affiliate-arrested?utm_source=rss</link>
			<guid>item-1</guid>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
			<description>&lt;a href="https://therecord.media/lockbit"&gt;LockBit affiliate arrested&lt;/a&gt;&amp;nbsp;&lt;font color="#6f6f6f"&gt;The Record&lt;/font&gt;</description>
			<content:encoded><![CDATA[<p>Police in <b>Poland</b> arrested a suspect.</p><img src="https://img.example.com/lockbit.jpg"><script>alert(1)</script>]]></content:encoded>
		</item>
		<item>
			<title>Anti-phishing tips - part 2 - Krebs on Security</title>
			<link>https://krebsonsecurity.com/phishing-tips</link>
			<guid>item-2</guid>
			<pubDate>Thu, 02 Jan 2025 08:30:00 GMT</pubDate>
			<description>Plain description</description>
			<enclosure url="https://img.example.com/phish.png" type="image/png"/>
		</item>
		<item>
			<title>Duplicate of the first - Elsewhere</title>
			<link>https://therecord.media/lockbit-affiliate-arrested</link>
			<guid>item-3</guid>
		</item>
		<item>
			<title>Headline without publisher</title>
			<link>https://www.bleepingcomputer.com/news/security/zero-day/</link>
			<guid>item-4</guid>
		</item>
		<item>
			<title>Broken link - Nowhere</title>
			<link>javascript:alert(1)</link>
			<guid>item-5</guid>
		</item>
	</channel>
</rss>`
