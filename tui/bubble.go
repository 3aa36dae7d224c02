package tui

import (
	"context"
	"os"
	"time"

	"github.com/reprise-cli/reprise/config"
	"github.com/reprise-cli/reprise/constant"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/util"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble is the whole UI model. It is the only caller of the supervisor,
// which keeps every supervisor call on the event loop.
type statefulBubble struct {
	ctx context.Context

	state state
	trail util.Trail[state]

	keymap *statefulKeymap

	// components
	pickerC   filepicker.Model
	historyC  list.Model
	repeatC   textinput.Model
	progressC progress.Model
	spinnerC  spinner.Model
	helpC     help.Model

	sup *playback.Supervisor

	// recorded is the number of completed cycles already written to history.
	recorded int

	tickInterval time.Duration
	showPath     bool

	loadingPath  string
	loadRun      *loadRun
	lastError    error
	repeatNotice mo.Option[string]

	width, height int

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering where to go back to.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Do not push these states to history
	if !lo.Contains([]state{
		loadingState,
		errorState,
	}, b.state) {
		b.trail.Visit(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if s, ok := b.trail.Back().Get(); ok {
		b.setState(s)
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := util.Max(width-xx, 0)
	listHeight := util.Max(height-yy, 0)

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.width = util.Max(width-x, 1)
	b.height = util.Max(height-y, 1)

	b.progressC.Width = b.width
	b.repeatC.Width = b.width
	b.helpC.Width = listWidth
}

func newBubble(ctx context.Context, sup *playback.Supervisor, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		ctx:          ctx,
		keymap:       keymap,
		sup:          sup,
		tickInterval: config.Millis(key.TUITickInterval),
		showPath:     viper.GetBool(key.TUIShowPath),
		repeatNotice: mo.None[string](),
		options:      options,
	}

	if bubble.tickInterval <= 0 {
		bubble.tickInterval = 200 * time.Millisecond
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.pickerC = filepicker.New()
	bubble.pickerC.AllowedTypes = constant.VideoExtensions
	bubble.pickerC.AutoHeight = true
	if wd, err := os.Getwd(); err == nil {
		bubble.pickerC.CurrentDirectory = wd
	}

	bubble.repeatC = textinput.New()
	bubble.repeatC.Placeholder = "3, or inf to loop forever"
	bubble.repeatC.CharLimit = 12
	bubble.repeatC.Prompt = "Repeat: "

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.historyC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.historyC.KeyMap = keymap.forList()
	bubble.historyC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.historyC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.historyC.Title = "Recently Played"
	bubble.historyC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1)
	bubble.historyC.Styles.NoItems = paddingStyle
	bubble.historyC.SetStatusBarItemName("file", "files")
	bubble.historyC.SetShowPagination(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
