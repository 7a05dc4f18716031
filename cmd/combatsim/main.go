// Package main provides the combat simulator: it populates an arena, lets
// every combatant fight under its tactics domain and reports the outcome,
// optionally recording each session to PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/config"
	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/combatlog"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/encounter"
	"github.com/cory-johannsen/melee/internal/observability"
	"github.com/cory-johannsen/melee/internal/runner"
	"github.com/cory-johannsen/melee/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	arenaID := flag.String("arena", "pit", "arena to fight in")
	playerPath := flag.String("player", "content/players/fighter.yaml", "player character spec")
	seed := flag.Int64("seed", -1, "first oracle seed; 0 = random, -1 = simulation.seed from config")
	rounds := flag.Int("rounds", 0, "maximum rounds per run; 0 = simulation.rounds from config")
	runs := flag.Int("runs", 1, "number of runs, seeded consecutively")
	workers := flag.Int("workers", 4, "runs played at once")
	record := flag.Bool("record", false, "record sessions to the database (also enabled by simulation.record)")
	tactics := flag.String("tactics", "", "tactics domain for combatants that name none; empty = melee")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	firstSeed := cfg.Simulation.Seed
	if *seed >= 0 {
		firstSeed = *seed
	}
	if firstSeed == 0 {
		if firstSeed, err = dice.NewSeed(); err != nil {
			logger.Fatal("drawing seed", zap.Error(err))
		}
	}
	maxRounds := cfg.Simulation.Rounds
	if *rounds > 0 {
		maxRounds = *rounds
	}

	content, err := encounter.LoadContent(cfg.Content, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	spec, err := actor.LoadPlayerSpec(*playerPath)
	if err != nil {
		logger.Fatal("loading player", zap.Error(err))
	}

	ctx := context.Background()

	var rec encounter.Recorder
	if *record || cfg.Simulation.Record {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database, *workers, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("dsn", postgres.RedactDSN(cfg.Database.DSN())),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		rec = postgres.NewCombatLogRepository(pool.DB())
	}

	// Narration is only readable for a single run.
	var narrator combat.Narrator
	if *runs == 1 {
		narrator = combat.NarratorFunc(func(text string, _ combat.Channel) {
			fmt.Fprintln(os.Stdout, text)
		})
	}

	results := make([]*encounter.Result, *runs)
	batch := runner.New(logger, *workers)
	for i := range results {
		runSeed := firstSeed + int64(i)
		batch.Add(fmt.Sprintf("%s-%d", *arenaID, runSeed), runner.JobFunc(func(ctx context.Context) error {
			e, err := encounter.New(content, encounter.Options{
				ArenaID:          *arenaID,
				Player:           spec,
				Oracle:           dice.NewOracle(dice.NewSeededSource(runSeed), logger),
				Tuning:           &cfg.Combat,
				InstructionLimit: cfg.Simulation.ScriptInstructionLimit,
				Narrator:         narrator,
				DefaultDomain:    *tactics,
				Logger:           logger,
			})
			if err != nil {
				return err
			}
			defer e.Close()
			results[i], err = e.Run(ctx, maxRounds, runSeed, rec)
			return err
		}))
	}
	if err := batch.Run(ctx); err != nil {
		logger.Error("simulation stopped", zap.Error(err))
	}

	wins := map[string]int{}
	for _, res := range results {
		if res == nil {
			continue
		}
		s, sum := res.Session, res.Summary
		winner := s.Winner
		if winner == "" {
			winner = "undecided"
		}
		wins[winner]++
		fmt.Fprintf(os.Stdout, "%s seed=%d rounds=%d winner=%s actions=%d hits=%d damage=%d kills=%d\n",
			s.ID, s.Seed, s.Rounds, winner, sum.Actions, sum.Hits, sum.Damage, sum.Kills)
	}
	fmt.Fprintf(os.Stdout, "%d runs in %s: player=%d monsters=%d undecided=%d [%s]\n",
		len(results), *arenaID, wins[combatlog.WinnerPlayer], wins[combatlog.WinnerMonsters], wins["undecided"], time.Since(start))
}
