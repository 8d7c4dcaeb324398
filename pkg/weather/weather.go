// Package weather decides whether the site can work on a given cycle
package weather

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/foreman/foreman/pkg/types"
)

// Condition is the weather observed at the start of a cycle
type Condition int

const (
	Clear Condition = iota
	Rainy
	Stormy
)

func (c Condition) String() string {
	switch c {
	case Clear:
		return "Clear"
	case Rainy:
		return "Rainy"
	case Stormy:
		return "Stormy"
	}
	return fmt.Sprintf("Condition(%d)", int(c))
}

// Workable reports whether work can proceed; only rain stops the site
func (c Condition) Workable() bool {
	return c != Rainy
}

// Gate is consulted once per allocation cycle
type Gate interface {
	Allow(ctx context.Context) (Condition, bool)
}

// Fixed always reports the same condition
type Fixed Condition

// Allow implements Gate
func (f Fixed) Allow(ctx context.Context) (Condition, bool) {
	c := Condition(f)
	return c, c.Workable()
}

// RandomGate draws Clear, Rainy or Stormy with equal probability
type RandomGate struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGate creates a random gate. A zero seed seeds from the clock.
func NewRandomGate(seed int64) *RandomGate {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomGate{rng: rand.New(rand.NewSource(seed))}
}

// Allow implements Gate
func (g *RandomGate) Allow(ctx context.Context) (Condition, bool) {
	g.mu.Lock()
	c := Condition(g.rng.Intn(3))
	g.mu.Unlock()
	return c, c.Workable()
}

// FromConfig builds the gate described by cfg; nil means random
func FromConfig(cfg *types.WeatherConfig) (Gate, error) {
	if cfg == nil {
		return NewRandomGate(0), nil
	}
	switch cfg.Mode {
	case types.WeatherModeRandom, "":
		return NewRandomGate(cfg.Seed), nil
	case types.WeatherModeClear:
		return Fixed(Clear), nil
	case types.WeatherModeRainy:
		return Fixed(Rainy), nil
	case types.WeatherModeStormy:
		return Fixed(Stormy), nil
	}
	return nil, fmt.Errorf("unknown weather mode: %s", cfg.Mode)
}

// Switchable wraps a gate that can be replaced while the site is running
type Switchable struct {
	mu   sync.RWMutex
	gate Gate
}

// NewSwitchable wraps gate
func NewSwitchable(gate Gate) *Switchable {
	return &Switchable{gate: gate}
}

// Set replaces the wrapped gate
func (s *Switchable) Set(gate Gate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = gate
}

// Allow implements Gate
func (s *Switchable) Allow(ctx context.Context) (Condition, bool) {
	s.mu.RLock()
	gate := s.gate
	s.mu.RUnlock()
	return gate.Allow(ctx)
}
