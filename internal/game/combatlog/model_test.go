package combatlog_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/combatlog"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

func monster(t *testing.T, id string) *actor.Monster {
	t.Helper()
	m, err := actor.NewMonster(id, &npc.Template{
		ID: "rat", Name: "rat", HitDice: 1, HitPoints: dice.MustParse("1d3"), Speed: 10,
		Attacks: []ruleset.MonsterAttack{{Type: ruleset.AttackBite, Damage: 3}},
	}, dice.NewOracle(dice.Fixed(0), nil), nil, nil)
	require.NoError(t, err)
	return m
}

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := combatlog.NewSession("pit", "Grunt", 42, now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, now, s.StartedAt)
	assert.Nil(t, s.EndedAt)

	s.Finish(7, combatlog.WinnerPlayer, now.Add(time.Minute))
	require.NotNil(t, s.EndedAt)
	assert.Equal(t, 7, s.Rounds)
	assert.Equal(t, combatlog.WinnerPlayer, s.Winner)

	_, err = combatlog.NewSession("", "", 0, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arena must not be empty")
	assert.Contains(t, err.Error(), "player must not be empty")
}

func TestNewEntry(t *testing.T) {
	a, d := monster(t, "a"), monster(t, "d")
	id := uuid.New()
	e := combatlog.NewEntry(id, 3, 1, a, d, combat.AttackOutcome{
		Acted: true, DidHit: true, DamageDone: 5, Attacks: 2,
		Messages: []combat.Message{{Text: "The rat bites the rat."}},
	})
	assert.Equal(t, id, e.SessionID)
	assert.Equal(t, "a", e.AttackerID)
	assert.Equal(t, "d", e.DefenderID)
	assert.Equal(t, 5, e.Damage)
	assert.False(t, e.DefenderAlive)
	assert.Equal(t, []string{"The rat bites the rat."}, e.Messages)
}

func TestSummarize(t *testing.T) {
	entries := []*combatlog.Entry{
		{Acted: true, DidHit: true, Damage: 4, DefenderAlive: true},
		{Acted: true, DidHit: false, DefenderAlive: true},
		{Acted: false, Cancelled: true, DefenderAlive: true},
		{Acted: true, DidHit: true, Damage: 9, DefenderAlive: false},
	}
	assert.Equal(t, combatlog.Summary{Actions: 3, Hits: 2, Damage: 13, Kills: 1}, combatlog.Summarize(entries))
}

func TestProperty_SummarizeBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		entries := make([]*combatlog.Entry, n)
		total := 0
		for i := range entries {
			e := &combatlog.Entry{
				Acted:         rapid.Bool().Draw(rt, "acted"),
				DidHit:        rapid.Bool().Draw(rt, "hit"),
				Damage:        rapid.IntRange(0, 100).Draw(rt, "damage"),
				DefenderAlive: rapid.Bool().Draw(rt, "alive"),
			}
			if e.Acted {
				total += e.Damage
			}
			entries[i] = e
		}
		s := combatlog.Summarize(entries)
		if s.Hits > s.Actions || s.Kills > s.Actions || s.Actions > n {
			rt.Fatalf("inconsistent summary %+v of %d entries", s, n)
		}
		if s.Damage != total {
			rt.Fatalf("damage %d, want %d", s.Damage, total)
		}
	})
}
