package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/tuning"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// Channel classifies a narrated message.
type Channel int

const (
	ChannelPlain Channel = iota
	ChannelCombat
	ChannelWarning
	ChannelGod
	ChannelFlavour
)

func (c Channel) String() string {
	switch c {
	case ChannelCombat:
		return "combat"
	case ChannelWarning:
		return "warning"
	case ChannelGod:
		return "god"
	case ChannelFlavour:
		return "flavour"
	default:
		return "plain"
	}
}

// Message is one line of narration.
type Message struct {
	Text    string
	Channel Channel
}

// Narrator receives combat narration.
type Narrator interface {
	Narrate(text string, ch Channel)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(text string, ch Channel)

// Narrate calls f.
func (f NarratorFunc) Narrate(text string, ch Channel) { f(text, ch) }

// Prompter asks the player to confirm a risky attack.
type Prompter interface {
	Confirm(question string) bool
}

// MeleeEffects runs the scripted on-hit effect named by a weapon's hook.
type MeleeEffects interface {
	OnHit(hook string, att *Attack) error
}

// Conduct is a deed a god may care about.
type Conduct int

const (
	ConductAttackHoly Conduct = iota
	ConductAttackFriend
	ConductAttackNeutral
	ConductKillLiving
	ConductKillUndead
	ConductKillDemon
	ConductKillHoly
	ConductFire
	ConductNecromancy
	ConductChaos
)

var conductNames = []string{
	"attack_holy", "attack_friend", "attack_neutral", "kill_living",
	"kill_undead", "kill_demon", "kill_holy", "fire", "necromancy", "chaos",
}

func (c Conduct) String() string {
	if int(c) < 0 || int(c) >= len(conductNames) {
		return fmt.Sprintf("conduct(%d)", int(c))
	}
	return conductNames[c]
}

// ConductEvent is one recorded conduct.
type ConductEvent struct {
	Conduct Conduct
	Level   int
}

// Ledger records conducts and Xom stimulation. Gods themselves are out of
// scope; the ledger is what they would read.
type Ledger struct {
	Conducts []ConductEvent
	Xom      int
}

// Sim is the explicit context of one simulation: the arena, the oracle,
// every combatant, and the outward sinks. It is not safe for concurrent use.
type Sim struct {
	Oracle   *dice.Oracle
	Grid     *world.Grid
	Roster   *Roster
	Narrator Narrator
	// Prompter may be nil, in which case every prompt is confirmed.
	Prompter Prompter
	// Effects may be nil, in which case weapon hooks are ignored.
	Effects MeleeEffects
	Tuning  tuning.Tuning
	Logger  *zap.Logger
	Ledger  Ledger

	captured     *[]Message
	weaponWarned bool
}

// NewSim creates a simulation context with default tuning.
//
// Precondition: oracle and grid must be non-nil.
// Postcondition: Returns a Sim with an empty roster; a nil logger is replaced
// by zap.NewNop().
func NewSim(oracle *dice.Oracle, grid *world.Grid, logger *zap.Logger) *Sim {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sim{
		Oracle: oracle,
		Grid:   grid,
		Roster: NewRoster(),
		Tuning: tuning.Default(),
		Logger: logger,
	}
}

func (s *Sim) narrate(ch Channel, format string, args ...any) {
	text := capitalise(fmt.Sprintf(format, args...))
	if s.captured != nil {
		*s.captured = append(*s.captured, Message{Text: text, Channel: ch})
	}
	if s.Narrator != nil {
		s.Narrator.Narrate(text, ch)
	}
}

func (s *Sim) confirm(question string) bool {
	if s.Prompter == nil {
		return true
	}
	return s.Prompter.Confirm(question)
}

func (s *Sim) conduct(c Conduct, level int) {
	s.Ledger.Conducts = append(s.Ledger.Conducts, ConductEvent{Conduct: c, Level: level})
	s.Logger.Debug("conduct", zap.Stringer("conduct", c), zap.Int("level", level))
}

func (s *Sim) stimulateXom(amount int) {
	s.Ledger.Xom += amount
}

// capture collects narration into dst until the returned func is called.
// Captures nest: the outermost capture sees every message.
func (s *Sim) capture(dst *[]Message) func() {
	prev := s.captured
	s.captured = dst
	return func() {
		if prev != nil {
			*prev = append(*prev, *dst...)
		}
		s.captured = prev
	}
}

// pick returns one of choices uniformly at random.
func (s *Sim) pick(choices ...string) string {
	return choices[s.Oracle.Random2(len(choices))]
}
