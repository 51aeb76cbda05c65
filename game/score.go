package game

import "github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"

// Points is the award per destroyed entity type
type Points struct {
	Enemy    int `yaml:"enemy"`
	Asteroid int `yaml:"asteroid"`
}

// DefaultPoints returns the stock awards
func DefaultPoints() Points {
	return Points{Enemy: 100, Asteroid: 50}
}

// Score keeps the running score and the best score seen so far
type Score struct {
	points Points
	value  int
	high   int
	kills  map[sim.Type]int
}

// NewScore starts at zero with a known high score
func NewScore(points Points, high int) *Score {
	return &Score{points: points, high: high, kills: make(map[sim.Type]int)}
}

// Award credits the destruction of an entity of type t and returns the points
func (s *Score) Award(t sim.Type) int {
	var n int
	switch t {
	case sim.TypeEnemy:
		n = s.points.Enemy
	case sim.TypeAsteroid:
		n = s.points.Asteroid
	default:
		return 0
	}
	s.kills[t]++
	s.value += n
	if s.value > s.high {
		s.high = s.value
	}
	return n
}

// Value returns the running score
func (s *Score) Value() int { return s.value }

// High returns the best score including the current run
func (s *Score) High() int { return s.high }

// Kills returns how many entities of type t were destroyed this run
func (s *Score) Kills(t sim.Type) int { return s.kills[t] }

// Reset starts a new run and keeps the high score
func (s *Score) Reset() {
	s.value = 0
	clear(s.kills)
}
