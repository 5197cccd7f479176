package sim

import "math/rand/v2"

// Jitter is the deterministic source of tiny displacements used to break
// exact coincidence between nodes.
type Jitter struct {
	r *rand.Rand
}

func NewJitter(seed int64) *Jitter {
	s := uint64(seed)
	return &Jitter{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Next returns a value in (-5e-7, 5e-7), never exactly zero.
func (j *Jitter) Next() float64 {
	for {
		if v := (j.r.Float64() - 0.5) * 1e-6; v != 0 {
			return v
		}
	}
}

// Float64 exposes the underlying uniform [0,1) stream.
func (j *Jitter) Float64() float64 {
	return j.r.Float64()
}
