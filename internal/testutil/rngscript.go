package testutil

// RNGScript replays fixed float and int sequences, letting tests steer every
// stochastic branch. Exhausted sequences fall back to neutral values so a
// test that only cares about the first few draws stays short.
type RNGScript struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (s *RNGScript) Float64() float64 {
	if s.fi >= len(s.Floats) {
		return 0.5
	}
	v := s.Floats[s.fi]
	s.fi++
	return v
}

func (s *RNGScript) Intn(n int) int {
	if s.ii >= len(s.Ints) {
		if n > 1 {
			return n / 2
		}
		return 0
	}
	v := s.Ints[s.ii]
	s.ii++
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
