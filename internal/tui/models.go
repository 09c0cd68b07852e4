package tui

type View int

const (
	ViewSearch View = iota
	ViewReader
)

// Focus is the part of the search view receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusList
)
