package dice

// Draw is one recorded call to Source.Intn.
type Draw struct {
	N     int
	Value int
}

// Sequence is a Source that returns scripted values in order, clamped into
// [0, n). Once the script is exhausted it keeps returning Fallback (also
// clamped). Intended for tests that must force a particular branch.
type Sequence struct {
	Values   []int
	Fallback int
	pos      int
}

// NewSequence returns a Sequence over values with a fallback of 0.
func NewSequence(values ...int) *Sequence {
	return &Sequence{Values: values}
}

// Intn returns the next scripted value clamped to [0, n).
func (s *Sequence) Intn(n int) int {
	v := s.Fallback
	if s.pos < len(s.Values) {
		v = s.Values[s.pos]
		s.pos++
	}
	return clamp(v, n)
}

// Remaining reports how many scripted values have not been consumed.
func (s *Sequence) Remaining() int {
	return len(s.Values) - s.pos
}

// Fixed is a Source that always returns the same value clamped to [0, n).
type Fixed int

// Intn returns min(max(f, 0), n-1).
func (f Fixed) Intn(n int) int {
	return clamp(int(f), n)
}

// Recorder wraps a Source and remembers every draw so a run can be replayed.
type Recorder struct {
	src   Source
	draws []Draw
}

// NewRecorder wraps src.
//
// Precondition: src must be non-nil.
func NewRecorder(src Source) *Recorder {
	return &Recorder{src: src}
}

// Intn delegates to the wrapped source and records the result.
func (r *Recorder) Intn(n int) int {
	v := r.src.Intn(n)
	r.draws = append(r.draws, Draw{N: n, Value: v})
	return v
}

// Draws returns a copy of every draw taken so far.
func (r *Recorder) Draws() []Draw {
	out := make([]Draw, len(r.draws))
	copy(out, r.draws)
	return out
}

// Replay returns a Sequence that reproduces the recorded draws.
func (r *Recorder) Replay() *Sequence {
	values := make([]int, len(r.draws))
	for i, d := range r.draws {
		values[i] = d.Value
	}
	return NewSequence(values...)
}

func clamp(v, n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
