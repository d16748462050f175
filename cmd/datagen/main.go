package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vanshika/routemap/backend/internal/generator"
	"github.com/vanshika/routemap/backend/internal/mapfile"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		nodes          = flag.Int("nodes", cfg.NumNodes, "number of connected nodes to generate")
		extraEdges     = flag.Int("edges", cfg.ExtraEdges, "number of edges added on top of the spanning tree")
		parallelChance = flag.Float64("parallel-edge-chance", cfg.ParallelEdgeChance, "probability that an extra edge duplicates an existing road")
		maxWeight      = flag.Int("max-weight", cfg.MaxWeight, "maximum edge weight")
		isolated       = flag.Int("isolated", cfg.Isolated, "number of unreachable nodes to append")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output         = flag.String("output", filepath.Join("data", "map.json"), "file to write the map document to")
		format         = flag.String("format", "", "output format: json or yaml (defaults to the output file extension)")
		writeStdout    = flag.Bool("stdout", false, "write the map to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumNodes:           *nodes,
		ExtraEdges:         *extraEdges,
		ParallelEdgeChance: clampProbability(*parallelChance),
		MaxWeight:          *maxWeight,
		Isolated:           *isolated,
		Seed:               *seed,
	}

	outFormat := mapfile.FormatFromPath(*output)
	if *format != "" {
		parsed, err := mapfile.ParseFormat(*format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid format: %v\n", err)
			os.Exit(1)
		}
		outFormat = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	g, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := mapfile.Encode(os.Stdout, g, outFormat); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write map to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := mapfile.Write(*output, g, outFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write map: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes and %d edges into %s\n", len(g.Nodes), len(g.Edges), *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
