package encounter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/combatlog"
	"github.com/cory-johannsen/melee/internal/observability"
)

// Recorder persists a session and its attack log.
type Recorder interface {
	CreateSession(ctx context.Context, s *combatlog.Session) error
	AppendEntries(ctx context.Context, entries []*combatlog.Entry) error
	FinishSession(ctx context.Context, s *combatlog.Session) error
}

// Result is a finished run.
type Result struct {
	Session *combatlog.Session
	Entries []*combatlog.Entry
	Summary combatlog.Summary
}

// Run plays up to maxRounds rounds or until the fight is decided. Every
// attack becomes a combatlog entry; when rec is non-nil the session and each
// round's entries are persisted as they happen.
//
// Precondition: maxRounds must be >= 1.
// Postcondition: Returns the finished session with every entry in order, or
// the first context or recorder error.
func (e *Encounter) Run(ctx context.Context, maxRounds int, seed int64, rec Recorder) (*Result, error) {
	start := time.Now()
	session, err := combatlog.NewSession(e.arena, e.playerName(), seed, start.UTC())
	if err != nil {
		return nil, err
	}
	e.logger = observability.SimulationLogger(e.logger, session.ID.String(), seed)
	if rec != nil {
		if err := rec.CreateSession(ctx, session); err != nil {
			return nil, fmt.Errorf("recording session: %w", err)
		}
	}

	res := &Result{Session: session}
	for e.round < maxRounds && !e.Over() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		turns := e.PlayRound()
		entries := e.entries(session, turns)
		if rec != nil && len(entries) > 0 {
			if err := rec.AppendEntries(ctx, entries); err != nil {
				return nil, fmt.Errorf("recording round %d: %w", e.round, err)
			}
		}
		res.Entries = append(res.Entries, entries...)
		e.logger.Debug("round played",
			zap.Int("round", e.round),
			zap.Int("turns", len(turns)),
			zap.Int("attacks", len(entries)),
		)
	}

	session.Finish(e.round, e.Winner(), time.Now().UTC())
	if rec != nil {
		if err := rec.FinishSession(ctx, session); err != nil {
			return nil, fmt.Errorf("recording result: %w", err)
		}
	}
	res.Summary = combatlog.Summarize(res.Entries)

	e.logger.Info("encounter finished",
		zap.String("arena", e.arena),
		zap.String("winner", session.Winner),
		zap.Int("rounds", session.Rounds),
		zap.Int("hits", res.Summary.Hits),
		zap.Int("kills", res.Summary.Kills),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// entries converts the attacks among turns into log entries.
func (e *Encounter) entries(s *combatlog.Session, turns []Turn) []*combatlog.Entry {
	var out []*combatlog.Entry
	for _, t := range turns {
		if t.Outcome == nil {
			continue
		}
		attacker, _ := e.Sim.Roster.Get(t.ActorID)
		defender, _ := e.Sim.Roster.Get(t.TargetID)
		out = append(out, combatlog.NewEntry(s.ID, e.round, len(out), attacker, defender, *t.Outcome))
	}
	return out
}
