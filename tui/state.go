package tui

type state int

const (
	pickerState state = iota
	historyState
	loadingState
	playerState
	repeatState
	errorState
)
