package randsrc

// Scripted replays a fixed list of draws in [0, 1). IntN(n) consumes one value v
// and returns int(v*n). Once the script runs out every draw returns Fallback.
type Scripted struct {
	Values   []float64
	Fallback float64

	pos int
}

// NewScripted returns a Scripted source over values with a fallback of 0.99,
// which fails every Chance below 0.99.
func NewScripted(values ...float64) *Scripted {
	return &Scripted{Values: values, Fallback: 0.99}
}

func (s *Scripted) Float64() float64 {
	if s.pos >= len(s.Values) {
		return s.Fallback
	}
	v := s.Values[s.pos]
	s.pos++
	return v
}

func (s *Scripted) IntN(n int) int {
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Consumed is the number of scripted values read so far.
func (s *Scripted) Consumed() int {
	return s.pos
}
