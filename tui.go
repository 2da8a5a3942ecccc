//go:build !gui

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blinkreader/blink/internal/book"
	"github.com/blinkreader/blink/internal/engine"
	"github.com/blinkreader/blink/internal/timing"
)

var (
	orpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	currentWordStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF5555"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	paragraphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))
)

// Engine notifications forwarded into the bubbletea loop.
type (
	wordMsg   book.Position
	statusMsg engine.Status
	viewMsg   engine.ViewMode
)

type tuiModel struct {
	sess     *session
	bar      progress.Model
	width    int
	height   int
	notice   string
	quitting bool
}

func newTUIModel(sess *session) tuiModel {
	m := tuiModel{
		sess:   sess,
		bar:    progress.New(progress.WithDefaultGradient()),
		width:  80,
		height: 24,
	}
	if sess.clamped {
		m.notice = "Saved position was out of bounds; resumed at the nearest word."
	} else if sess.resumed {
		m.notice = "Resumed from saved position. Press SPACE to start."
	}
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	eng := m.sess.eng

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case " ":
			eng.Toggle()

		case "+", "=", "up":
			m.sess.setWPM(timing.ClampWPM(eng.WPM() + timing.WPMStep))

		case "-", "down":
			m.sess.setWPM(timing.ClampWPM(eng.WPM() - timing.WPMStep))

		case "right":
			eng.NextWord()

		case "left":
			eng.PrevWord()

		case "]":
			eng.NextChapter()

		case "[":
			eng.PrevChapter()

		case "r":
			eng.RestartParagraph()

		case "v":
			if eng.ViewMode() == engine.ViewRSVP {
				eng.SetViewMode(engine.ViewParagraph)
			} else {
				eng.SetViewMode(engine.ViewRSVP)
			}

		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = m.width - 4
		return m, nil

	case wordMsg, statusMsg, viewMsg:
		// State lives in the engine; a notification only means "redraw".
		return m, nil
	}

	return m, nil
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}

	eng := m.sess.eng
	info, ok := eng.CurrentWordInfo()
	if !ok {
		return "No text to read."
	}

	pause := ""
	if eng.Status() != engine.StatusPlaying {
		pause = pausedStyle.Render(" [PAUSED]")
	}

	current := m.sess.book.WordNumber(info.Position)
	total := m.sess.book.TotalWords()
	status := statusStyle.Render(
		fmt.Sprintf("%s | Chapter %d/%d | Word %d/%d | %d WPM%s",
			info.ChapterTitle,
			info.Position.Chapter+1,
			info.ChapterCount,
			current,
			total,
			eng.WPM(),
			pause,
		),
	)

	controls := controlsStyle.Render(
		"SPACE: play/pause  ↑/↓: speed  ←/→: word  [/]: chapter  R: paragraph  V: view  Q: quit")

	var body string
	if eng.ViewMode() == engine.ViewParagraph {
		body = m.paragraphView(info)
	} else {
		body = anchorWord(formatWord(info.Word), info.Word, m.width)
	}

	percent := 0.0
	if total > 0 {
		percent = float64(current) / float64(total)
	}
	bar := "  " + m.bar.ViewAs(percent)

	// Status on top, progress bar and controls at the bottom.
	avail := m.height - 4
	if avail < 1 {
		avail = 1
	}
	bodyLines := strings.Count(body, "\n") + 1
	vPad := (avail - bodyLines) / 2
	if vPad < 0 {
		vPad = 0
	}

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("\n", vPad))
	sb.WriteString(body)

	remaining := avail - vPad - bodyLines
	for i := 0; i <= remaining; i++ {
		sb.WriteString("\n")
	}
	if m.notice != "" {
		sb.WriteString(noticeStyle.Render("  " + m.notice))
	}
	sb.WriteString("\n")
	sb.WriteString(bar)
	sb.WriteString("\n")
	sb.WriteString(controls)

	return sb.String()
}

// paragraphView renders the current paragraph with the current word
// highlighted, wrapped to the window width.
func (m tuiModel) paragraphView(info engine.WordInfo) string {
	para := m.sess.book.Chapters[info.Position.Chapter].Paragraphs[info.Position.Paragraph]

	parts := make([]string, len(para.Words))
	for i, w := range para.Words {
		if i == info.Position.Word {
			parts[i] = currentWordStyle.Render(w.Text)
		} else {
			parts[i] = w.Text
		}
	}

	width := m.width - 8
	if width < 20 {
		width = 20
	}
	return paragraphStyle.Width(width).PaddingLeft(4).Render(strings.Join(parts, " "))
}

// formatWord styles a word with its recognition point emphasized.
func formatWord(w book.Word) string {
	runes := []rune(w.Text)
	if len(runes) == 0 {
		return ""
	}
	orp := w.RecognitionOffset
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	if orp < 0 {
		orp = 0
	}

	before := string(runes[:orp])
	focus := string(runes[orp])
	after := ""
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}

	return wordStyle.Render(before) +
		orpStyle.Render(focus) +
		wordStyle.Render(after)
}

// anchorWord pads a formatted word so its recognition point sits at the
// horizontal center of the window.
func anchorWord(formatted string, w book.Word, width int) string {
	anchor := width / 2
	pad := anchor - w.RecognitionOffset
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + formatted
}
