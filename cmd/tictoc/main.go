package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/jaminalder/tictoc/internal/config"
	"github.com/jaminalder/tictoc/internal/console"
	"github.com/jaminalder/tictoc/internal/search"
)

var (
	configPath    = flag.String("config", os.Getenv("TICTOC_CONFIG"), "Path to a YAML config file")
	computerFirst = flag.Bool("computer-first", false, "Let the computer open")
	seed          = flag.Int64("seed", 0, "Seed for the computer's tie-breaks, 0 for random")
)

func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *computerFirst {
		cfg.ComputerFirst = true
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rng := rand.New(rand.NewSource(cfg.Seed))
	loop := &console.Loop{
		In:            os.Stdin,
		Out:           os.Stdout,
		Player:        search.NewPlayer(search.WithSeed(rng.Int63()), search.WithLogger(log)),
		ComputerFirst: cfg.ComputerFirst,
		Rand:          rng,
		Log:           log,
	}
	if _, err := loop.Run(ctx); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
