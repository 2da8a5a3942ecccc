//go:build !gui

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blinkreader/blink/internal/book"
	"github.com/blinkreader/blink/internal/engine"
	"github.com/blinkreader/blink/internal/extract"
	"github.com/blinkreader/blink/internal/library"
	"github.com/blinkreader/blink/internal/timing"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts sessionOptions
	var lengthDelay, freqDelay bool

	root := &cobra.Command{
		Use:   "blink [file]",
		Short: "RSVP speed reader for books",
		Long: `Blink presents the words of a book one at a time at a controllable
rate. It reads EPUB, Markdown, and plain text, remembers where you
stopped in each book, and highlights the recognition point of every
word.`,
		Example: `  blink book.epub            Read a book at the saved speed
  blink -w 500 notes.md      Read Markdown at 500 WPM
  cat file.txt | blink       Read from stdin
  blink library              List recently read books`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if opts.wpm != 0 {
				opts.wpm = timing.ClampWPM(opts.wpm)
			}
			if cmd.Flags().Changed("length-delay") {
				opts.lengthDelay = &lengthDelay
			}
			if cmd.Flags().Changed("freq-delay") {
				opts.freqDelay = &freqDelay
			}
			sess, err := newSession(path, opts)
			if err != nil {
				return err
			}
			defer sess.close()
			return runTUI(sess)
		},
	}

	root.Flags().IntVarP(&opts.wpm, "wpm", "w", 0, "words per minute (default: last used)")
	root.Flags().BoolVar(&opts.fresh, "fresh", false, "ignore the saved reading position")
	root.Flags().BoolVar(&opts.paragraph, "paragraph", false, "start in paragraph view")
	root.Flags().BoolVar(&lengthDelay, "length-delay", false, "slow down on long words")
	root.Flags().BoolVar(&freqDelay, "freq-delay", false, "slow down on uncommon words")

	root.AddCommand(newLibraryCmd(), newChaptersCmd(), newVersionCmd())
	return root
}

func newLibraryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List recently read books",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := library.Open(library.DefaultPath())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No books in the library yet.")
				return nil
			}
			for _, e := range entries {
				author := e.Author
				if author == "" {
					author = "unknown author"
				}
				fmt.Printf("%s — %s\n    %s  (chapter %d, last read %s)\n",
					e.Title, author, e.Path,
					e.Position.Chapter+1,
					e.LastReadAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to list")
	return cmd
}

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <file>",
		Short: "Print the chapter structure of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := extract.FromFile(args[0])
			if err != nil {
				return err
			}
			if !extract.Playable(b) {
				return extract.ErrNoContent
			}
			fmt.Printf("%s", b.Title)
			if b.Author != "" {
				fmt.Printf(" — %s", b.Author)
			}
			fmt.Printf(" (%d words)\n", b.TotalWords())
			for i, ch := range b.Chapters {
				start := b.WordNumber(book.Position{Chapter: i})
				fmt.Printf("%3d. %s (%d paragraphs, starts at word %d)\n",
					i+1, ch.Title, len(ch.Paragraphs), start)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("blink %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// runTUI runs the bubbletea program, forwarding engine notifications into
// its message loop.
func runTUI(sess *session) error {
	p := tea.NewProgram(newTUIModel(sess), tea.WithAltScreen())

	offWord := sess.eng.OnWordChange(func(pos book.Position) {
		p.Send(wordMsg(pos))
	})
	defer offWord()
	offStatus := sess.eng.OnStatusChange(func(st engine.Status) {
		p.Send(statusMsg(st))
	})
	defer offStatus()
	offView := sess.eng.OnViewModeChange(func(m engine.ViewMode) {
		p.Send(viewMsg(m))
	})
	defer offView()

	_, err := p.Run()
	return err
}
