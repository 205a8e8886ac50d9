package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/veildocs/redact"
	"github.com/veildocs/redact/pkg/config"
)

func main() {
	output := flag.String("o", "", "output PDF path (default: <input>-redacted.pdf)")
	targets := flag.String("targets", "", "comma-separated phrases to redact")
	removeLogos := flag.Bool("remove-logos", false, "strip detected logo images")
	placeholders := flag.Bool("placeholders", false, "draw placeholders where logos were removed")
	configPath := flag.String("config", "", "optional YAML config with heuristic thresholds")
	quiet := flag.Bool("q", false, "suppress per-page progress")
	flag.Parse()

	if flag.NArg() != 1 || *targets == "" {
		fmt.Fprintln(os.Stderr, "Usage: redact [flags] -targets \"phrase one,phrase two\" <input.pdf>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	outputPath := *output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".pdf") + "-redacted.pdf"
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	opts := []redact.Option{
		redact.WithConfig(cfg),
		redact.WithRemoveLogos(*removeLogos),
		redact.WithPlaceholders(*placeholders),
	}
	if !*quiet {
		opts = append(opts, redact.WithProgress(func(page, total int) {
			log.Printf("page %d/%d done", page, total)
		}))
	}

	outcome, err := redact.Redact(inputPath, outputPath, splitTargets(*targets), opts...)
	if err != nil {
		log.Fatalf("Redaction failed: %v", err)
	}

	fmt.Printf("Document kind: %s\n", outcome.Kind)
	fmt.Printf("Output: %s\n", outcome.OutputPath)
	if outcome.Note != "" {
		fmt.Printf("Note: %s\n", outcome.Note)
	}
	fmt.Printf("Audit log (%d entries):\n", outcome.Log.Len())
	for _, entry := range outcome.Log.Entries() {
		fmt.Printf("  %s\n", entry)
	}
}

func splitTargets(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
