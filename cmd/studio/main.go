package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"

	"diagramstudio/clipboard"
	"diagramstudio/config"
	"diagramstudio/diagram"
	"diagramstudio/logging"
	"diagramstudio/tui"
)

func main() {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		debug   = flag.String("debug", "", "Write debug logs to this file")
		newType = flag.String("new-type", "rectangle", "Element type added with the n key")
		help    = flag.Bool("help", false, "Show help")
	)
	cfg.RegisterFlags(flag.CommandLine)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [diagram.json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Interactive diagram editor for the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSettings are read from ~/%s first; flags override them.\n", config.RCFile)
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  v h c        select, pan and connect tools\n")
		fmt.Fprintf(os.Stderr, "  n            add an element\n")
		fmt.Fprintf(os.Stderr, "  r R b B      quick-create right, left, below, above\n")
		fmt.Fprintf(os.Stderr, "  l            cycle the selected connection's line style\n")
		fmt.Fprintf(os.Stderr, "  f + - 0      fit, zoom in, zoom out, reset view\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+C/X/V/D copy, cut, paste, duplicate\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+Z/Y     undo, redo\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+S       save\n")
		fmt.Fprintf(os.Stderr, "  q, Ctrl+Q    quit\n")
	}
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if *debug != "" {
		f, err := os.OpenFile(*debug, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var filename string
	if flag.NArg() > 0 {
		filename = flag.Arg(0)
	}

	if err := run(filename, cfg, *newType); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(filename string, cfg config.Config, newType string) error {
	d, err := loadDiagram(filename)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	opts := cfg.Options()
	if cfg.SystemClipboard {
		if board := (clipboard.SystemBoard{}); board.Available() {
			opts.Board = board
		} else {
			logging.Logger().Warn("system clipboard unavailable")
		}
	}

	app := tui.New(screen, diagram.NewMemoryStore(d), diagram.BasicRegistry(), tui.Config{
		Filename: filename,
		Options:  opts,
		NewType:  newType,
	})
	return app.Run()
}

// loadDiagram reads filename, or starts empty when it is unset or does
// not exist yet.
func loadDiagram(filename string) (*diagram.Diagram, error) {
	if filename == "" {
		return &diagram.Diagram{}, nil
	}
	d, err := diagram.LoadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Logger().Info("starting new diagram", "file", filename)
		return &diagram.Diagram{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diagram: %w", err)
	}
	logging.Logger().Info("loaded diagram", "file", filename, "elements", len(d.Elements), "connections", len(d.Connections))
	return d, nil
}
