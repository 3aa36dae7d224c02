package constant

// Platform identifiers for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	FreeBSD = "freebsd"
	OpenBSD = "openbsd"
	Android = "android"
)
