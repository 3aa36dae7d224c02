// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Toolchain - these keys locate and bound the external decoder toolchain.
const (
	PlayerFFplay         = "player.ffplay"
	PlayerFFprobe        = "player.ffprobe"
	PlayerDetectTimeout  = "player.detect_timeout"
	PlayerProbeTimeout   = "player.probe_timeout"
	PlayerTerminateGrace = "player.terminate_grace"
	PlayerProbeCache     = "player.probe_cache"
)

// Playback Behaviour - these keys tune how the supervisor drives a session.
const (
	PlayerResumePolicy = "player.resume_policy"
	PlayerForceSystem  = "player.force_system"
	PlayerRepeat       = "player.repeat"
	PlayerVolume       = "player.volume"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's refresh and layout.
const (
	TUITickInterval = "tui.tick_interval"
	TUIShowPath     = "tui.show_path"
)

// History Tracking - these keys configure the persistence of recently played files.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
