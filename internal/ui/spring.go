package ui

import "github.com/charmbracelet/harmonica"

// springField eases a fixed set of values toward moving targets, one spring
// step per frame.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps, n int, frequency, damping float64) springField {
	return springField{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// snap places value i at v at rest.
func (s *springField) snap(i int, v float64) {
	s.pos[i] = v
	s.vel[i] = 0
}
