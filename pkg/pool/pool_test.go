package pool_test

import (
	"errors"
	"testing"

	"github.com/foreman/foreman/pkg/pool"
	"github.com/foreman/foreman/pkg/types"
)

func newPool(t *testing.T, r types.Resources) *pool.ResourcePool {
	t.Helper()
	p, err := pool.New(r)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	return p
}

func TestNew_RejectsNegative(t *testing.T) {
	_, err := pool.New(types.Resources{Bricks: -1})
	if !errors.Is(err, types.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestTryReserve(t *testing.T) {
	p := newPool(t, types.Resources{Bricks: 100, Cement: 50, Tools: 10})

	tests := []struct {
		name string
		need types.Resources
		want bool
	}{
		{"nothing", types.Resources{}, true},
		{"exact", types.Resources{Bricks: 100, Cement: 50, Tools: 10}, true},
		{"too many bricks", types.Resources{Bricks: 150}, false},
		{"too many tools", types.Resources{Bricks: 1, Tools: 11}, false},
		{"partial", types.Resources{Bricks: 10, Cement: 5, Tools: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.TryReserve(tt.need); got != tt.want {
				t.Errorf("TryReserve(%v) = %v, want %v", tt.need, got, tt.want)
			}
		})
	}

	if got := p.Snapshot(); got != (types.Resources{Bricks: 100, Cement: 50, Tools: 10}) {
		t.Errorf("TryReserve must not mutate the pool, got %v", got)
	}
}

func TestConsumeAndReturn(t *testing.T) {
	p := newPool(t, types.Resources{Bricks: 2, Cement: 1})

	p.ConsumeUnit(types.ResourceBricks)
	p.ConsumeUnit(types.ResourceCement)

	if got := p.Snapshot(); got != (types.Resources{Bricks: 1}) {
		t.Fatalf("unexpected balance after consume: %v", got)
	}

	p.ReturnUnits(types.Resources{Bricks: 1, Cement: 1})
	if got := p.Snapshot(); got != (types.Resources{Bricks: 2, Cement: 1}) {
		t.Errorf("unexpected balance after return: %v", got)
	}
}

func TestConsumeUnit_PanicsWhenEmpty(t *testing.T) {
	p := newPool(t, types.Resources{})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when consuming from an empty pool")
		}
	}()
	p.ConsumeUnit(types.ResourceTools)
}

func TestReturnUnits_PanicsOnNegative(t *testing.T) {
	p := newPool(t, types.Resources{Bricks: 5})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on negative return")
		}
	}()
	p.ReturnUnits(types.Resources{Bricks: -1})
}
