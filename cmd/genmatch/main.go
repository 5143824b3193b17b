// Command genmatch writes a synthetic PFF-shaped match (event, metadata
// and roster documents) for local experiments with the converter.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/okian/gandula/internal/fixtures"
)

func main() {
	outDir := flag.String("out", ".", "directory the three documents are written to")
	events := flag.Int("events", 40, "number of raw events to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	match, err := fixtures.Generate(
		fixtures.WithEventCount(*events),
		fixtures.WithSeed(*seed),
	)
	if err != nil {
		os.Stderr.WriteString("generate match: " + err.Error() + "\n")
		os.Exit(1)
	}

	files := map[string][]byte{
		"events.json":   match.EventData,
		"metadata.json": match.MetaData,
		"rosters.json":  match.RosterData,
	}
	for name, data := range files {
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			os.Stderr.WriteString("write " + path + ": " + err.Error() + "\n")
			os.Exit(1)
		}
	}
}
