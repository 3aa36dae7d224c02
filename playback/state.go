package playback

// State is the transport state of the loaded file.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Active reports whether a player process is owned in this state.
func (s State) Active() bool {
	return s == Playing || s == Paused
}
