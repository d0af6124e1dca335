package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/ema-espeak/core/audio"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
	"github.com/koscakluka/ema-espeak/core/engine/simulated"
	"github.com/koscakluka/ema-espeak/core/playback"
	"github.com/koscakluka/ema-espeak/core/speaker"
	"github.com/koscakluka/ema-espeak/internal/config"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	wordStyle  = lipgloss.NewStyle().Reverse(true)
	markStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type wordMsg struct{ position, length int }

type markMsg struct{ name string }

type doneMsg struct{}

type errMsg struct{ err error }

type readerModel struct {
	ctx     context.Context
	speaker *speaker.Speaker
	player  *playback.Player

	input    textinput.Model
	text     []rune
	word     wordMsg
	mark     string
	speaking bool
	width    int
	err      error
}

func runTUI(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("tui", flag.ContinueOnError)
	voice := flags.String("voice", cfg.Voice, "voice language")
	rate := flags.Int("rate", cfg.Rate, "words per minute")
	if err := flags.Parse(args); err != nil {
		return err
	}

	client, closeClient, err := openPlayer(cfg, audio.GetDefaultEncodingInfo())
	if err != nil {
		return err
	}
	defer closeClient()
	player := playback.NewPlayer(client)

	e, err := newEngine(cfg, simulated.WithAudioSink(player))
	if err != nil {
		return err
	}
	b, err := startBridge(ctx, cfg, e, bridge.WithPlayback(true))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(context.Background()); err != nil {
			slog.Warn("failed to close bridge", "error", err)
		}
	}()

	director, err := speaker.NewDirector(b)
	if err != nil {
		return err
	}
	s := director.NewSpeaker(speakerOptions(*voice, *rate)...)

	input := textinput.New()
	input.Placeholder = "type something to say"
	input.Focus()

	program := tea.NewProgram(readerModel{
		ctx:     ctx,
		speaker: s,
		player:  player,
		input:   input,
		width:   80,
	}, tea.WithContext(ctx), tea.WithAltScreen())

	s.AddCallback(func(n bridge.Notification) {
		switch n.Kind {
		case engine.EventWord:
			program.Send(wordMsg{position: n.Position, length: n.Length})
		case engine.EventMark:
			program.Send(markMsg{name: n.Name})
		case engine.EventMsgTerminated:
			program.Send(doneMsg{})
		}
	})

	_, err = program.Run()
	if err := s.Stop(context.Background()); err != nil {
		slog.Warn("failed to stop speech", "error", err)
	}
	return err
}

func (m readerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m readerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			return m, m.stop()
		case tea.KeyEnter:
			text := m.input.Value()
			if text == "" {
				return m, nil
			}
			m.text = []rune(text)
			m.word = wordMsg{}
			m.mark = ""
			m.err = nil
			m.speaking = true
			m.input.Reset()
			return m, m.say(text)
		}
	case wordMsg:
		m.word = msg
		return m, nil
	case markMsg:
		m.mark = msg.name
		return m, nil
	case doneMsg:
		m.speaking = false
		m.word = wordMsg{}
		return m, nil
	case errMsg:
		m.err = msg.err
		m.speaking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m readerModel) View() string {
	status := "enter speak · esc stop · ctrl+c quit"
	if m.speaking {
		status = "speaking · " + status
	}

	lines := []string{titleStyle.Render("espeak"), ""}
	if len(m.text) > 0 {
		lines = append(lines, wordwrap.String(highlight(m.text, m.word), max(m.width-2, 20)), "")
	}
	if m.mark != "" {
		lines = append(lines, markStyle.Render("mark "+m.mark))
	}
	if m.err != nil {
		lines = append(lines, errorStyle.Render(m.err.Error()))
	}
	lines = append(lines, m.input.View(), helpStyle.Render(status))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m readerModel) say(text string) tea.Cmd {
	return func() tea.Msg {
		if err := m.speaker.Say(m.ctx, text, bridge.WithSSML(true)); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m readerModel) stop() tea.Cmd {
	return func() tea.Msg {
		if err := m.speaker.Stop(m.ctx); err != nil {
			return errMsg{err: err}
		}
		m.player.Clear()
		return doneMsg{}
	}
}

// highlight renders text with the word at the 1-based rune position
// highlighted.
func highlight(text []rune, word wordMsg) string {
	if word.length <= 0 || word.position < 1 || word.position > len(text) {
		return string(text)
	}
	start := word.position - 1
	end := min(start+word.length, len(text))
	return string(text[:start]) + wordStyle.Render(string(text[start:end])) + string(text[end:])
}
