// Command analyze computes the optimal-play value table for the full game
// and exports it to the configured table file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benjaminbarrett1/yahtzee/analyzer"
	"github.com/benjaminbarrett1/yahtzee/config"
	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

var GitVersion string

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
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
	log.Info().Str("version", GitVersion).Interface("config", cfg.AllSettings()).Msg("analyze-start")

	if cpuprofile := cfg.GetString("cpu-profile"); cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enumerator := dice.NewEnumerator()
	table := valuetable.New()
	solver := analyzer.NewSolver(enumerator, table)
	if threads := cfg.GetInt("threads"); threads > 0 {
		solver.SetThreads(threads)
	}

	if err := solver.Solve(ctx); err != nil {
		log.Fatal().Err(err).Msg("backward induction failed")
	}
	if err := solver.Verify(gamestate.AllCategories); err != nil {
		log.Fatal().Err(err).Msg("fill verification failed")
	}

	if err := os.MkdirAll(cfg.GetString("data-path"), 0o755); err != nil {
		log.Fatal().Err(err).Msg("creating data directory")
	}
	if err := table.Save(cfg.TableFilePath()); err != nil {
		log.Fatal().Err(err).Msg("exporting value table")
	}

	rootEV, err := table.Get(gamestate.State{Open: gamestate.AllCategories}.Index())
	if err != nil {
		log.Fatal().Err(err).Msg("root lookup")
	}
	fmt.Printf("expected final score under optimal play: %.4f\n", rootEV)

	if memprofile := cfg.GetString("mem-profile"); memprofile != "" {
		f, err := os.Create(memprofile)
		if err != nil {
			panic("could not create memory profile: " + err.Error())
		}
		defer f.Close()
		memstats := &runtime.MemStats{}
		runtime.ReadMemStats(memstats)
		log.Info().Interface("memstats", memstats).Msg("memory-stats")
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic("could not write memory profile: " + err.Error())
		}
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
