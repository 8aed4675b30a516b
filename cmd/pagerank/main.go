// Command pagerank ranks the nodes of a directed graph by power iteration on
// a group of cooperating workers.
//
// Usage:
//
//	pagerank [flags] row_col.txt damping
//	  0.0 < damping <= 1.0
//
// The graph file starts with "rows nonzeros", followed by one "row col" pair
// per line; each pair is an edge col → row of weight 1.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/graphio"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/pagerank"
	"github.com/katalvlaran/distrank/report"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pagerank: ")
	os.Exit(realMain(os.Args[1:]))
}

// realMain parses args, runs the group and returns the process exit code.
func realMain(args []string) int {
	fs := flag.NewFlagSet("pagerank", flag.ContinueOnError)
	workers := fs.Int("workers", 4, "number of cooperating workers")
	tol := fs.Float64("tol", pagerank.DefaultTolerance, "L1 change at which iteration stops")
	maxIter := fs.Int("max-iter", pagerank.DefaultMaxIterations, "iteration cap")
	dangling := fs.String("dangling", pagerank.DefaultDangling.String(), "dangling node policy: error, selfloop or uniform")
	plotPath := fs.String("plot", "", "write a convergence chart to this file (.png, .svg, .pdf)")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), "usage: pagerank [flags] row_col.txt damping\n  0.0 < damping <= 1.0\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return 2
	}

	path := fs.Arg(0)
	damping, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		log.Printf("damping %q: %v", fs.Arg(1), err)
		return 2
	}
	policy, err := pagerank.ParseDanglingPolicy(*dangling)
	if err != nil {
		log.Print(err)
		return 2
	}

	text := report.NewText(os.Stdout)
	reporters := report.Multi{text}
	var chart *report.Plot
	if *plotPath != "" {
		chart = report.NewPlot(*plotPath)
		reporters = append(reporters, chart)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = run(ctx, path, *workers, []pagerank.Option{
		pagerank.WithDamping(damping),
		pagerank.WithTolerance(*tol),
		pagerank.WithMaxIterations(*maxIter),
		pagerank.WithDanglingPolicy(policy),
		pagerank.WithReporter(reporters),
	}); err != nil {
		log.Print(err)
		return 1
	}
	if err = text.Err(); err != nil {
		log.Print(err)
		return 1
	}
	if chart != nil && chart.Err() != nil {
		log.Print(chart.Err())
		return 1
	}

	return 0
}

// run starts the group; only the root member touches the graph file.
func run(ctx context.Context, path string, workers int, opts []pagerank.Option) error {
	g, err := collective.NewGroup(workers)
	if err != nil {
		return err
	}
	load := func(context.Context) (*matrix.Dense, error) {
		gr, err := graphio.Load(path)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Loaded %s: %d rows, %d nonzeros\n", path, gr.Matrix.Rows(), gr.Nonzeros)
		return gr.Matrix, nil
	}

	return g.Run(ctx, func(ctx context.Context, c collective.Comm) error {
		_, err := pagerank.Run(ctx, c, load, opts...)
		return err
	})
}
