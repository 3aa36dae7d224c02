package playback

import (
	"errors"
	"fmt"
)

// ErrNoMedia is returned by operations that need a loaded file.
var ErrNoMedia = errors.New("no file loaded")

// LoadError reports that Path could not be opened as a media file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
