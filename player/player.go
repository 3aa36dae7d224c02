// Package player launches and supervises the external process that renders a video.
//
// Two backends exist: ffplay from the FFmpeg toolchain, which honours a start
// offset and lives exactly as long as playback, and the OS default handler, which
// takes neither an offset nor stays attached to the file it opened.
package player

// Process is a running (or finished) playback process owned by exactly one caller.
type Process interface {
	// Mode reports which backend spawned the process.
	Mode() Mode

	// Pid returns the operating system process id.
	Pid() int

	// Running is a non-blocking liveness check.
	Running() bool

	// ExitErr returns the result of waiting on the process once it has exited,
	// and nil while it runs.
	ExitErr() error

	// Terminate stops the process and waits for it to be reaped.
	// Calling it on an exited or already terminated process is a no-op.
	Terminate() error
}
