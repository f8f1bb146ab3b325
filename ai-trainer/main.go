package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donyori/gorecover"
	"github.com/muesli/termenv"
)

func main() {
	var runErr error
	err := gorecover.Recover(func() {
		runErr = run(os.Args[1:], os.Stdout)
	})
	if err == nil {
		err = runErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	opts := defaultOptions()
	flags := flag.NewFlagSet("ai-trainer", flag.ContinueOnError)
	flags.IntVar(&opts.generations, "generations", opts.generations, "number of generations to run")
	flags.IntVar(&opts.matches, "matches", opts.matches, "openings played by every pair of contenders per generation")
	flags.IntVar(&opts.populationSize, "population", opts.populationSize, "contenders per generation")
	flags.Int64Var(&opts.seed, "seed", opts.seed, "random seed, 0 picks one from the clock")
	flags.IntVar(&opts.boardSize, "size", opts.boardSize, "board size used for training games")
	flags.StringVar(&opts.out, "out", opts.out, "file receiving the champion score table as JSON")
	flags.StringVar(&opts.base, "base", opts.base, "optional JSON score table to start from")
	flags.BoolVar(&opts.noColor, "no-color", opts.noColor, "disable coloured output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	if err := opts.validate(); err != nil {
		return err
	}

	output := termenv.NewOutput(stdout)
	if opts.noColor || termenv.EnvNoColor() {
		output = termenv.NewOutput(stdout, termenv.WithProfile(termenv.Ascii))
	}
	logger := log.New(stdout, "[trainer] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := newTrainer(opts, output, logger)
	if err != nil {
		return err
	}
	champion, err := t.Run(ctx)
	if champion.ID != "" {
		if writeErr := writeScoreTable(opts.out, champion.Weights); writeErr != nil {
			return writeErr
		}
		logger.Printf("champion %s written to %s", champion.ID, opts.out)
	}
	return err
}
