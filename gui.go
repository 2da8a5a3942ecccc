//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/blinkreader/blink/internal/book"
	"github.com/blinkreader/blink/internal/engine"
	"github.com/blinkreader/blink/internal/timing"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var opts sessionOptions
	flag.IntVar(&opts.wpm, "w", 0, "Words per minute (default: last used)")
	flag.BoolVar(&opts.fresh, "fresh", false, "Ignore saved reading position")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Blink - Speed Reading Tool (GUI)\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  blink [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Play/pause\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓      Speed up/down\n")
		fmt.Fprintf(os.Stderr, "  ←/→      Previous/next word\n")
		fmt.Fprintf(os.Stderr, "  [/]      Previous/next chapter\n")
		fmt.Fprintf(os.Stderr, "  F        Fullscreen\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("blink %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	path := ""
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if opts.wpm != 0 {
		opts.wpm = timing.ClampWPM(opts.wpm)
	}

	sess, err := newSession(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.close()

	runGUI(sess)
}

const guiFontSize float32 = 72

func runGUI(sess *session) {
	eng := sess.eng

	a := app.New()
	w := a.NewWindow("blink - Speed Reader")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	controlsLabel := widget.NewLabel("SPACE: play/pause  ↑/↓: speed  ←/→: word  [/]: chapter  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	wordContainer := container.NewStack()

	updateDisplay := func() {
		info, ok := eng.CurrentWordInfo()
		if !ok {
			return
		}

		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}

		wordContainer.Objects = []fyne.CanvasObject{
			newWordDisplay(info.Word, canvasWidth),
		}
		wordContainer.Refresh()

		pause := ""
		if eng.Status() != engine.StatusPlaying {
			pause = " [PAUSED]"
		}
		current := sess.book.WordNumber(info.Position)
		total := sess.book.TotalWords()
		statusLabel.SetText(fmt.Sprintf("%s | Word %d/%d | %d WPM%s",
			info.ChapterTitle, current, total, eng.WPM(), pause))
	}

	// Engine notifications arrive on the engine's timer goroutine; hand the
	// redraw back to the fyne main thread.
	offWord := eng.OnWordChange(func(book.Position) {
		fyne.Do(updateDisplay)
	})
	defer offWord()
	offStatus := eng.OnStatusChange(func(engine.Status) {
		fyne.Do(updateDisplay)
	})
	defer offStatus()

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			eng.Toggle()

		case fyne.KeyUp:
			sess.setWPM(timing.ClampWPM(eng.WPM() + timing.WPMStep))
			updateDisplay()

		case fyne.KeyDown:
			sess.setWPM(timing.ClampWPM(eng.WPM() - timing.WPMStep))
			updateDisplay()

		case fyne.KeyLeft:
			eng.PrevWord()

		case fyne.KeyRight:
			eng.NextWord()

		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())

		case fyne.KeyQ:
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case '[':
			eng.PrevChapter()
		case ']':
			eng.NextChapter()
		case 'r', 'R':
			eng.RestartParagraph()
		}
	})

	w.SetContent(container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		wordContainer,
	))
	w.Resize(fyne.NewSize(800, 600))

	updateDisplay()
	w.ShowAndRun()
}

// newWordDisplay lays the word out with its recognition point anchored at
// the horizontal center of the window.
func newWordDisplay(word book.Word, windowWidth float32) *fyne.Container {
	runes := []rune(word.Text)
	orp := word.RecognitionOffset
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	if orp < 0 {
		orp = 0
	}

	before := ""
	focus := ""
	after := ""
	if len(runes) > 0 {
		before = string(runes[:orp])
		focus = string(runes[orp])
		if orp+1 < len(runes) {
			after = string(runes[orp+1:])
		}
	}

	beforeText := canvas.NewText(before, color.White)
	beforeText.TextSize = guiFontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	focusText.TextSize = guiFontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, color.White)
	afterText.TextSize = guiFontSize
	afterText.TextStyle.Bold = true

	beforeSize := beforeText.MinSize()
	focusSize := focusText.MinSize()

	centerX := windowWidth / 2
	beforeX := centerX - beforeSize.Width
	if beforeX < 0 {
		beforeX = 0
	}

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			focusText,
			afterText,
		},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(centerX, 0))
	afterText.Move(fyne.NewPos(centerX+focusSize.Width, 0))

	return c
}

type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var maxH float32
	for _, o := range objects {
		size := o.MinSize()
		if size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(0, maxH)
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var maxH float32
	for _, o := range objects {
		objSize := o.MinSize()
		if objSize.Height > maxH {
			maxH = objSize.Height
		}
	}

	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	for _, o := range objects {
		pos := o.Position()
		o.Move(fyne.NewPos(pos.X, y))
		o.Resize(o.MinSize())
	}
}
