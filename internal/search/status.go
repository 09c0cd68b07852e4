package search

// Status is what the orchestrator is currently waiting on.
type Status int

const (
	StatusIdle Status = iota
	StatusLoadingDefault
	StatusSearching
	StatusRefreshing
)

func (s Status) String() string {
	switch s {
	case StatusLoadingDefault:
		return "loading"
	case StatusSearching:
		return "searching"
	case StatusRefreshing:
		return "refreshing"
	default:
		return "idle"
	}
}

// Channel identifies an independent request stream. Each channel carries
// its own staleness token.
type Channel int

const (
	ChannelDefault Channel = iota
	ChannelSearch
	channelCount
)

func (c Channel) String() string {
	if c == ChannelSearch {
		return "search"
	}
	return "default"
}

// Origin says where the default feed currently on screen came from.
type Origin int

const (
	OriginNone Origin = iota
	OriginRemote
	OriginCache
	OriginPlaceholder
)

func (o Origin) String() string {
	switch o {
	case OriginRemote:
		return "remote"
	case OriginCache:
		return "cache"
	case OriginPlaceholder:
		return "placeholder"
	default:
		return "none"
	}
}
