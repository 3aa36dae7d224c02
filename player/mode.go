package player

// Mode selects how a session renders video.
type Mode int

const (
	DecoderBacked Mode = iota
	DefaultHandlerBacked
)

func (m Mode) String() string {
	switch m {
	case DecoderBacked:
		return "decoder"
	case DefaultHandlerBacked:
		return "system"
	default:
		return "unknown"
	}
}

// SupportsOffset reports whether playback can start somewhere other than the beginning.
func (m Mode) SupportsOffset() bool {
	return m == DecoderBacked
}

// TracksExit reports whether the spawned process lives exactly as long as playback,
// so that its exit means the cycle is over. OS openers hand the file off and return.
func (m Mode) TracksExit() bool {
	return m == DecoderBacked
}
