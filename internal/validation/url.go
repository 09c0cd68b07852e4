package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLValidator checks article links and source endpoints and reduces them to
// a canonical form, so the same story reached through tracking links keeps a
// single identity.
type URLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewURLValidator creates a new validator with secure defaults
func NewURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  false,
		AllowPrivateIPs: false,
		MaxLength:       2048,
	}
}

// NewPermissiveURLValidator creates a validator that allows local development
// endpoints such as an httptest server.
func NewPermissiveURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates an absolute http(s) URL and returns its
// canonical form: lower-case scheme and host, no fragment, no utm_* params.
func (v *URLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parsedURL.Scheme = strings.ToLower(parsedURL.Scheme)
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	parsedURL.Host = strings.ToLower(parsedURL.Host)

	if err := v.validateHostSecurity(parsedURL.Hostname()); err != nil {
		return "", err
	}
	if err := validateQuerySecurity(parsedURL); err != nil {
		return "", err
	}

	parsedURL.Fragment = ""
	parsedURL.RawFragment = ""
	stripTrackingParams(parsedURL)

	return parsedURL.String(), nil
}

// Valid reports whether input passes ValidateAndNormalize.
func (v *URLValidator) Valid(input string) bool {
	_, err := v.ValidateAndNormalize(input)
	return err == nil
}

// validateHostSecurity performs security checks on the hostname (no port)
func (v *URLValidator) validateHostSecurity(hostname string) error {
	if hostname == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}

	if isObfuscatedHostname(hostname) {
		return fmt.Errorf("suspicious hostname detected")
	}

	return nil
}

func validateQuerySecurity(parsedURL *url.URL) error {
	raw := strings.ToLower(parsedURL.RawQuery)
	if strings.Contains(raw, "<script") || strings.Contains(raw, "javascript:") {
		return fmt.Errorf("suspicious query parameters detected")
	}
	return nil
}

// stripTrackingParams removes utm_* campaign parameters, keeping the rest in
// their original order.
func stripTrackingParams(u *url.URL) {
	if u.RawQuery == "" {
		return
	}
	parts := strings.Split(u.RawQuery, "&")
	kept := parts[:0]
	for _, p := range parts {
		name := strings.ToLower(strings.SplitN(p, "=", 2)[0])
		if p == "" || strings.HasPrefix(name, "utm_") {
			continue
		}
		kept = append(kept, p)
	}
	u.RawQuery = strings.Join(kept, "&")
}

// isLocalhost checks if a hostname refers to localhost
func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}

// isPrivateIP checks if an IP address is loopback, link-local or in a private range
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// isObfuscatedHostname flags dotted-quad lookalikes made only of hex labels.
func isObfuscatedHostname(hostname string) bool {
	hostname = strings.ToLower(hostname)
	if hostname == "0.0.0.0" || hostname == "255.255.255.255" {
		return true
	}
	if len(hostname) <= 8 || strings.Count(hostname, ".") != 3 {
		return false
	}
	if net.ParseIP(hostname) != nil {
		return false
	}
	for _, part := range strings.Split(hostname, ".") {
		if part == "" || !isHexString(part) {
			return false
		}
	}
	return true
}

// isHexString checks if a string contains only hexadecimal characters
func isHexString(s string) bool {
	for _, char := range s {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')) {
			return false
		}
	}
	return true
}
