// Command routeviz renders a diagram's connector routes to a PNG, checks
// them, or converts the diagram to another text format.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/export"
	"diagramstudio/logging"
	"diagramstudio/pathfinding"
	"diagramstudio/preview"
	"diagramstudio/validation"
)

func main() {
	var (
		output    = flag.String("o", "", "Output file (default: input name with the format's extension)")
		format    = flag.String("format", "png", "Output format: png, mermaid, graphviz, json")
		scale     = flag.Float64("scale", 1, "Pixels per diagram unit")
		padding   = flag.Float64("padding", 20, "Margin around the content in diagram units")
		noPorts   = flag.Bool("no-ports", false, "Hide port markers")
		waypoints = flag.Bool("waypoints", true, "Mark connection waypoints")
		validate  = flag.Bool("validate", false, "Check every route and exit non-zero on problems")
		strict    = flag.Bool("strict", false, "With -validate, also report routes crossing frames")
		stats     = flag.Bool("stats", false, "Print route cache statistics")
		verbose   = flag.Bool("v", false, "Log to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] diagram.json\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s diagram.json                     # Write diagram.png\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -validate diagram.json           # Check routes only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format mermaid -o - diagram.json\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	input := flag.Arg(0)
	d, err := diagram.LoadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading diagram: %v\n", err)
		os.Exit(1)
	}

	reg := diagram.BasicRegistry()
	router := pathfinding.NewRouter(reg, pathfinding.NewPathCache(256))

	if *validate {
		v := validation.NewRouteValidator(reg, router)
		v.SetStrictMode(*strict)
		errs := v.Validate(d)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		if len(errs) > 0 {
			fmt.Fprintf(os.Stderr, "%d problem(s) in %d connection(s)\n", len(errs), len(d.Connections))
			os.Exit(1)
		}
		fmt.Printf("%d route(s) ok\n", len(d.Connections))
		os.Exit(0)
	}

	base := strings.TrimSuffix(input, ".json")
	if *format != "png" {
		if err := writeText(d, reg, *format, *output, input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	out := *output
	if out == "" {
		out = base + ".png"
	}
	opts := preview.DefaultOptions()
	opts.Scale = *scale
	opts.Padding = *padding
	opts.ShowPorts = !*noPorts
	opts.ShowWaypoints = *waypoints

	r, err := preview.NewRenderer(reg, router, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := r.SavePNG(d, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *stats {
		fmt.Printf("routes: %d, %s\n", len(d.Connections), router.Cache())
	}
	fmt.Printf("wrote %s\n", out)
}

// writeText exports d in a text format. An output of "-" writes to stdout.
func writeText(d *diagram.Diagram, reg diagram.Registry, name, out, input string) error {
	f, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	ex, err := export.NewExporter(f, reg)
	if err != nil {
		return err
	}
	text, err := ex.Export(d)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", ex.GetFormatName(), err)
	}

	if out == "-" {
		_, err := fmt.Print(text)
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(input, ".json") + ex.GetFileExtension()
	}
	if out == input {
		return fmt.Errorf("refusing to overwrite %s", input)
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
