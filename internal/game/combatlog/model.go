// Package combatlog defines the persisted record of a simulation run and the
// pure logic that builds it from attack outcomes.
package combatlog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/melee/internal/game/combat"
)

// Session is one simulation run.
//
// EndedAt is nil until the run is finished.
type Session struct {
	ID     uuid.UUID
	Arena  string
	Player string
	Seed   int64

	Rounds int
	// Winner is "player", "monsters" or "" for an unfinished or drawn run.
	Winner string

	StartedAt time.Time
	EndedAt   *time.Time
}

// Outcome values a finished session may record.
const (
	WinnerPlayer   = "player"
	WinnerMonsters = "monsters"
)

// Entry is one melee action inside a session.
//
// ID is set by the persistence layer; zero indicates an unsaved entry.
type Entry struct {
	ID        int64
	SessionID uuid.UUID
	Round     int
	// Seq orders entries within a round.
	Seq int

	AttackerID    string
	DefenderID    string
	Acted         bool
	Cancelled     bool
	DidHit        bool
	Damage        int
	Attacks       int
	DefenderAlive bool
	Messages      []string

	CreatedAt time.Time
}

// Summary aggregates a session's entries.
type Summary struct {
	Actions int
	Hits    int
	Damage  int
	Kills   int
}

// NewSession starts a session record with a fresh ID.
//
// Precondition: arena and player must be non-empty.
// Postcondition: Returns a Session with ID set and StartedAt at now.
func NewSession(arena, player string, seed int64, now time.Time) (*Session, error) {
	var errs []error
	if arena == "" {
		errs = append(errs, errors.New("arena must not be empty"))
	}
	if player == "" {
		errs = append(errs, errors.New("player must not be empty"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("combatlog: new session: %w", errors.Join(errs...))
	}
	return &Session{ID: uuid.New(), Arena: arena, Player: player, Seed: seed, StartedAt: now}, nil
}

// Finish marks the session complete.
//
// Postcondition: EndedAt is set and Rounds and Winner are recorded.
func (s *Session) Finish(rounds int, winner string, now time.Time) {
	s.Rounds = rounds
	s.Winner = winner
	s.EndedAt = &now
}

// NewEntry converts an attack outcome into a log entry.
func NewEntry(sessionID uuid.UUID, round, seq int, attacker, defender combat.Combatant, out combat.AttackOutcome) *Entry {
	msgs := make([]string, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, m.Text)
	}
	return &Entry{
		SessionID:     sessionID,
		Round:         round,
		Seq:           seq,
		AttackerID:    attacker.ID(),
		DefenderID:    defender.ID(),
		Acted:         out.Acted,
		Cancelled:     out.Cancelled,
		DidHit:        out.DidHit,
		Damage:        out.DamageDone,
		Attacks:       out.Attacks,
		DefenderAlive: out.DefenderAlive,
		Messages:      msgs,
	}
}

// Summarize totals entries.
func Summarize(entries []*Entry) Summary {
	var s Summary
	for _, e := range entries {
		if !e.Acted {
			continue
		}
		s.Actions++
		if e.DidHit {
			s.Hits++
		}
		s.Damage += e.Damage
		if !e.DefenderAlive {
			s.Kills++
		}
	}
	return s
}
