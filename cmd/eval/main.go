// Command eval loads a previously exported value table, prints the
// expected final score for the start of a game, and cross-checks the
// table with a Monte Carlo simulation under the optimal policy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benjaminbarrett1/yahtzee/cache"
	"github.com/benjaminbarrett1/yahtzee/config"
	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/montecarlo"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	cfg.AdjustRelativePaths(exPath)
	setupLogging(&cfg)

	obj, err := cache.Load(&cfg, "tablefile:"+cfg.TableFilePath(), valuetable.CacheLoadFunc)
	if err != nil {
		log.Fatal().Err(err).Str("filename", cfg.TableFilePath()).Msg("loading value table")
	}
	table := obj.(*valuetable.Table)

	root := gamestate.State{Open: gamestate.AllCategories}
	if !table.IsKnown(root.Index()) {
		log.Fatal().Msg("table is incomplete: root state is unknown")
	}
	rootEV, err := table.Get(root.Index())
	if err != nil {
		log.Fatal().Err(err).Msg("root lookup")
	}
	fmt.Printf("expected final score under optimal play: %.4f\n", rootEV)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	simmer := montecarlo.NewSimmer(dice.NewEnumerator(), table)
	simmer.SetIterations(cfg.GetInt("sim-iterations"))
	if threads := cfg.GetInt("threads"); threads > 0 {
		simmer.SetThreads(threads)
	}
	res, err := simmer.Simulate(ctx, gamestate.AllCategories)
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	fmt.Printf("simulated mean over %d games: %.4f (±%.4f at 95%%)\n",
		res.Iterations, res.Mean, res.CIHalfWidth)
	if err := res.Histogram(os.Stdout); err != nil {
		log.Err(err).Msg("rendering histogram")
	}
	if err := simmer.Compare(res, gamestate.AllCategories); err != nil {
		log.Fatal().Err(err).Msg("table disagrees with simulation")
	}
}

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	var logger zerolog.Logger
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
}
