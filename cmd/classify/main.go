package main

import (
	"fmt"
	"log"
	"os"

	"github.com/veildocs/redact"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: classify <pdf_file>...")
		os.Exit(2)
	}

	for _, path := range os.Args[1:] {
		kind, profile, err := redact.Classify(path)
		if err != nil {
			log.Fatalf("Failed to classify %s: %v", path, err)
		}

		fmt.Printf("%s: %s (%.0f%% of %d sampled pages image-only)\n",
			path, kind, profile.ImageOnlyFraction*100, len(profile.Sampled))
		for _, ps := range profile.Sampled {
			marker := "text"
			if ps.ImageOnly {
				marker = "image-only"
			}
			fmt.Printf("  page %d: %d tokens (%s)\n", ps.PageIndex, ps.Tokens, marker)
		}
	}
}
