package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/melee/internal/game/combatlog"
)

// ErrSessionNotFound is returned when a session lookup yields no results.
var ErrSessionNotFound = errors.New("combat session not found")

// ErrSessionExists is returned when creating a session whose ID is already stored.
var ErrSessionExists = errors.New("combat session already exists")

// ErrDuplicateEntry is returned when an entry's (round, seq) is already
// recorded for its session.
var ErrDuplicateEntry = errors.New("attack log entry already recorded")

// CombatLogRepository persists simulation sessions and their attack log.
type CombatLogRepository struct {
	db *pgxpool.Pool
}

// NewCombatLogRepository creates a CombatLogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCombatLogRepository(db *pgxpool.Pool) *CombatLogRepository {
	return &CombatLogRepository{db: db}
}

// CreateSession inserts s.
//
// Precondition: s.ID must be set; s.Arena and s.Player must be non-empty.
// Postcondition: Returns nil on success or ErrSessionExists on a duplicate ID.
func (r *CombatLogRepository) CreateSession(ctx context.Context, s *combatlog.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO combat_sessions (id, arena, player, seed, rounds, winner, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Arena, s.Player, s.Seed, s.Rounds, s.Winner, s.StartedAt, s.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("inserting combat session: %w", err)
	}
	return nil
}

// FinishSession stores the final rounds, winner and end time of s.
//
// Precondition: s must have been created; s.EndedAt should be set.
// Postcondition: Returns ErrSessionNotFound if no row matched.
func (r *CombatLogRepository) FinishSession(ctx context.Context, s *combatlog.Session) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE combat_sessions SET rounds = $2, winner = $3, ended_at = $4
		WHERE id = $1`,
		s.ID, s.Rounds, s.Winner, s.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("finishing combat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetSession loads the session with the given ID.
//
// Postcondition: Returns ErrSessionNotFound if no such session exists.
func (r *CombatLogRepository) GetSession(ctx context.Context, id uuid.UUID) (*combatlog.Session, error) {
	var s combatlog.Session
	err := r.db.QueryRow(ctx, `
		SELECT id, arena, player, seed, rounds, winner, started_at, ended_at
		FROM combat_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.Arena, &s.Player, &s.Seed, &s.Rounds, &s.Winner, &s.StartedAt, &s.EndedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading combat session: %w", err)
	}
	return &s, nil
}

// AppendEntries records entries in a single transaction, setting each
// entry's ID and CreatedAt.
//
// Precondition: every entry's SessionID must reference a created session.
// Postcondition: Either all entries are stored or none are; a repeated
// (round, seq) yields ErrDuplicateEntry.
func (r *CombatLogRepository) AppendEntries(ctx context.Context, entries []*combatlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, e := range entries {
			msgs := e.Messages
			if msgs == nil {
				msgs = []string{}
			}
			err := tx.QueryRow(ctx, `
				INSERT INTO attack_log
					(session_id, round, seq, attacker_id, defender_id,
					 acted, cancelled, did_hit, damage, attacks, defender_alive, messages)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
				RETURNING id, created_at`,
				e.SessionID, e.Round, e.Seq, e.AttackerID, e.DefenderID,
				e.Acted, e.Cancelled, e.DidHit, e.Damage, e.Attacks, e.DefenderAlive, msgs,
			).Scan(&e.ID, &e.CreatedAt)
			if err != nil {
				if isDuplicateKeyError(err) {
					return fmt.Errorf("round %d seq %d: %w", e.Round, e.Seq, ErrDuplicateEntry)
				}
				return fmt.Errorf("inserting attack log entry: %w", err)
			}
		}
		return nil
	})
}

// ListEntries returns the entries of a session ordered by round then seq.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CombatLogRepository) ListEntries(ctx context.Context, sessionID uuid.UUID) ([]*combatlog.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, round, seq, attacker_id, defender_id,
		       acted, cancelled, did_hit, damage, attacks, defender_alive, messages, created_at
		FROM attack_log WHERE session_id = $1 ORDER BY round ASC, seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attack log: %w", err)
	}
	defer rows.Close()

	var out []*combatlog.Entry
	for rows.Next() {
		var e combatlog.Entry
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.Round, &e.Seq, &e.AttackerID, &e.DefenderID,
			&e.Acted, &e.Cancelled, &e.DidHit, &e.Damage, &e.Attacks, &e.DefenderAlive,
			&e.Messages, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning attack log entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Summarize aggregates a session's acted entries in the database.
//
// Postcondition: Matches combatlog.Summarize over ListEntries.
func (r *CombatLogRepository) Summarize(ctx context.Context, sessionID uuid.UUID) (combatlog.Summary, error) {
	var s combatlog.Summary
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE did_hit),
		       COALESCE(SUM(damage), 0),
		       COUNT(*) FILTER (WHERE NOT defender_alive)
		FROM attack_log WHERE session_id = $1 AND acted`,
		sessionID,
	).Scan(&s.Actions, &s.Hits, &s.Damage, &s.Kills)
	if err != nil {
		return combatlog.Summary{}, fmt.Errorf("summarizing attack log: %w", err)
	}
	return s, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
