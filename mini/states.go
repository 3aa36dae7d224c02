package mini

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reprise-cli/reprise/history"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/log"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/util"
	"github.com/samber/lo"
)

type state int

const (
	fileSelectState state = iota + 1
	historySelectState
	repeatState
	playState
	afterPlayState
	quitState
)

const refreshInterval = 250 * time.Millisecond

func (m *mini) handleFileSelectState() error {
	title("Open Video")

	var path string
	err := ask(&survey.Input{
		Message: "File",
		Suggest: suggestFiles,
		Help:    "Tab completes paths",
	}, &path, survey.WithValidator(survey.Required), survey.WithValidator(readable))
	if err != nil {
		return err
	}

	m.path = path
	m.newState(repeatState)
	return nil
}

func (m *mini) handleHistorySelectState() error {
	records, err := history.Sorted()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fail("Nothing played yet")
		m.setState(fileSelectState)
		return nil
	}

	const other = "Open another file"
	options := append(lo.Map(records, func(r *history.Record, _ int) string {
		return r.String()
	}), other)

	title("Recently Played")
	var index int
	if err := ask(&survey.Select{Message: "Play", Options: options}, &index); err != nil {
		return err
	}

	if index == len(records) {
		m.newState(fileSelectState)
		return nil
	}

	m.path = records[index].Path
	m.sup.SetRepeat(records[index].Repeat)
	m.newState(repeatState)
	return nil
}

func (m *mini) handleRepeatState() error {
	var answer string
	err := ask(&survey.Input{
		Message: "Repeat",
		Default: m.sup.Repeat().String(),
		Help:    "A positive number, or inf to loop until stopped",
	}, &answer, survey.WithValidator(func(ans interface{}) error {
		_, err := playback.ParseRepeat(fmt.Sprint(ans))
		return err
	}))
	if err != nil {
		return err
	}

	m.sup.SetRepeat(lo.Must(playback.ParseRepeat(answer)))
	m.newState(playState)
	return nil
}

func (m *mini) handlePlayState() error {
	erase := progress("Probing " + filepath.Base(m.path) + "...")
	err := m.sup.Load(m.ctx, m.path)
	erase()
	if err != nil {
		fail(err.Error())
		m.setState(fileSelectState)
		return nil
	}

	status := m.sup.Status()
	if err := history.Opened(status.Path, m.sup.Repeat()); err != nil {
		log.Warnf("save history: %v", err)
	}
	m.recorded = 0

	if err := m.sup.Play(); err != nil {
		return err
	}

	if err := m.watch(); err != nil {
		return err
	}

	if m.state != quitState {
		m.setState(afterPlayState)
	}
	return nil
}

// watch ticks the supervisor and redraws the status line until playback stops or
// the context is cancelled.
func (m *mini) watch() error {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	erase := util.PrintErasable(truncate(statusLine(m.sup.Status())))
	defer func() { erase() }()

	for {
		select {
		case <-m.ctx.Done():
			m.sup.Stop()
			m.setState(quitState)
			return nil
		case <-ticker.C:
		}

		err := m.sup.Tick()
		status := m.sup.Status()
		m.record(status)

		erase()
		erase = util.PrintErasable(truncate(statusLine(status)))

		if err != nil {
			return err
		}

		if status.State == playback.Stopped {
			return nil
		}
	}
}

func (m *mini) record(status playback.Status) {
	if status.Completed > m.recorded {
		if err := history.AddCycles(status.Path, status.Completed-m.recorded); err != nil {
			log.Warnf("save history: %v", err)
		}
	}
	m.recorded = status.Completed
}

func (m *mini) handleAfterPlayState() error {
	status := m.sup.Status()
	fmt.Printf("%s %s %s\n",
		icon.Get(icon.Success),
		filepath.Base(status.Path),
		style.Faint(util.Quantify(status.Completed, "cycle", "cycles")),
	)

	const (
		replay = "Replay"
		repeat = "Change repeat and replay"
		open   = "Open another file"
		recent = "Recently played"
		quit   = "Quit"
	)

	var choice string
	err := ask(&survey.Select{
		Message: "Next",
		Options: []string{replay, repeat, open, recent, quit},
	}, &choice)
	if err != nil {
		return err
	}

	switch choice {
	case replay:
		m.setState(playState)
	case repeat:
		m.setState(repeatState)
	case open:
		m.setState(fileSelectState)
	case recent:
		m.setState(historySelectState)
	case quit:
		m.setState(quitState)
	}

	return nil
}

func statusLine(s playback.Status) string {
	stateIcon := icon.Get(icon.Play)
	switch s.State {
	case playback.Paused:
		stateIcon = icon.Get(icon.Pause)
	case playback.Stopped, playback.Idle:
		stateIcon = icon.Get(icon.Stop)
	}

	target := s.Repeat.String()
	if s.Repeat.IsInfinite() {
		target = icon.Get(icon.Infinity)
	}

	return fmt.Sprintf("%s %s %s / %s %s %d/%s",
		stateIcon,
		filepath.Base(s.Path),
		util.Clock(s.Elapsed),
		util.Clock(s.Duration),
		icon.Get(icon.Repeat),
		s.Cycle(),
		target,
	)
}
