// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/reprise-cli/reprise/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a registered symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Play
	Pause
	Stop
	Repeat
	Infinity
	Video
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "x", kaomoji: "(×﹏×)", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress: {emoji: "👾", nerd: "", plain: "~", kaomoji: "(•̀ᴗ•́)و", squares: "🟦"},
	Play:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "🟩"},
	Pause:    {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(－ω－)", squares: "🟨"},
	Stop:     {emoji: "⏹️", nerd: "", plain: "[]", kaomoji: "(￣^￣)", squares: "🟥"},
	Repeat:   {emoji: "🔁", nerd: "", plain: "x", kaomoji: "(↻)", squares: "🟪"},
	Infinity: {emoji: "♾️", nerd: "", plain: "inf", kaomoji: "(∞)", squares: "🟪"},
	Video:    {emoji: "🎬", nerd: "", plain: "*", kaomoji: "(⌐■_■)", squares: "⬛"},
}

// Get retrieves the visual representation for the receiver based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
