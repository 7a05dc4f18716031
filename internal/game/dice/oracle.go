package dice

import "go.uber.org/zap"

// Oracle supplies every random decision the melee engine makes. It wraps a
// Source and logs each draw at debug level so a combat can be audited.
//
// An Oracle is not safe for concurrent use. The engine relies on calls
// happening in a fixed order: the same Source stream replayed through the
// same call sequence produces the same combat.
type Oracle struct {
	src    Source
	logger *zap.Logger
}

// NewOracle creates an Oracle drawing from src.
//
// Precondition: src must be non-nil. A nil logger is replaced by zap.NewNop().
func NewOracle(src Source, logger *zap.Logger) *Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{src: src, logger: logger}
}

func (o *Oracle) draw(n int) int {
	v := o.src.Intn(n)
	o.logger.Debug("oracle draw", zap.Int("n", n), zap.Int("value", v))
	return v
}

// Random2 returns a uniform value in [0, max). Values of max <= 1 return 0
// without consuming the source.
func (o *Oracle) Random2(max int) int {
	if max <= 1 {
		return 0
	}
	return o.draw(max)
}

// Coinflip returns true half of the time.
func (o *Oracle) Coinflip() bool {
	return o.Random2(2) == 1
}

// RandomRange returns a uniform value in [lo, hi].
func (o *Oracle) RandomRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + o.Random2(hi-lo+1)
}

// RollDice rolls n dice with the given number of sides. Either argument
// being non-positive yields 0.
//
// Postcondition: n <= result <= n*sides when both are positive.
func (o *Oracle) RollDice(n, sides int) int {
	if n <= 0 || sides <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += 1 + o.Random2(sides)
	}
	return total
}

// OneChanceIn reports a 1-in-n event. n <= 1 always succeeds.
func (o *Oracle) OneChanceIn(n int) bool {
	return o.Random2(n) == 0
}

// XChanceInY reports an x-in-y event. x <= 0 never succeeds and x >= y
// always does, in both cases without consuming the source.
func (o *Oracle) XChanceInY(x, y int) bool {
	if x <= 0 {
		return false
	}
	if x >= y {
		return true
	}
	return o.Random2(y) < x
}

// DivRandRound divides num by den and rounds up with probability equal to
// the fractional remainder.
//
// Precondition: den > 0.
func (o *Oracle) DivRandRound(num, den int) int {
	if den <= 0 {
		panic("dice: DivRandRound called with den <= 0")
	}
	q := num / den
	if r := num % den; r > 0 && o.Random2(den) < r {
		q++
	}
	return q
}

// MaybeRandomDiv is DivRandRound when random is set and plain integer
// division otherwise.
func (o *Oracle) MaybeRandomDiv(num, den int, random bool) int {
	if random {
		return o.DivRandRound(num, den)
	}
	return num / den
}

// Random2Avg averages rolls draws, biasing the result toward max/2.
func (o *Oracle) Random2Avg(max, rolls int) int {
	if rolls < 1 {
		rolls = 1
	}
	sum := o.Random2(max)
	for i := 0; i < rolls-1; i++ {
		sum += o.Random2(max + 1)
	}
	return sum / rolls
}

// BestRoll returns the highest of rolls draws of Random2(max).
func (o *Oracle) BestRoll(max, rolls int) int {
	best := 0
	for i := 0; i < rolls; i++ {
		if v := o.Random2(max); v > best {
			best = v
		}
	}
	return best
}

// MaybeRandom2 returns Random2(x) when random is set and x/2 otherwise.
func (o *Oracle) MaybeRandom2(x int, random bool) int {
	if x <= 1 {
		return 0
	}
	if random {
		return o.Random2(x)
	}
	return x / 2
}

// ChooseWeighted returns an index into weights with probability
// proportional to its weight.
//
// Precondition: at least one weight is positive. Panics otherwise.
func (o *Oracle) ChooseWeighted(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		panic("dice: ChooseWeighted requires a positive total weight")
	}
	r := o.Random2(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// Weighted pairs a value with its selection weight.
type Weighted[T any] struct {
	Weight int
	Value  T
}

// Choose picks one value from choices by weight.
//
// Precondition: choices contains at least one positive weight.
func Choose[T any](o *Oracle, choices []Weighted[T]) T {
	weights := make([]int, len(choices))
	for i, c := range choices {
		weights[i] = c.Weight
	}
	return choices[o.ChooseWeighted(weights)].Value
}

// Roll evaluates expr and logs the result at debug level.
//
// Postcondition: result.Total() == sum(result.Dice) + expr.Modifier.
func (o *Oracle) Roll(expr Expression) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = 1 + o.Random2(expr.Sides)
	}
	result := RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
	o.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}
