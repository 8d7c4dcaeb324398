// Package pool holds the site's shared stock of bricks, cement and tools
package pool

import (
	"fmt"

	"github.com/foreman/foreman/pkg/types"
)

// ResourcePool tracks the balance of each resource kind.
// It is not safe for concurrent use; the site coordinator serializes access.
type ResourcePool struct {
	balance types.Resources
}

// New creates a pool holding initial
func New(initial types.Resources) (*ResourcePool, error) {
	if initial.HasNegative() {
		return nil, fmt.Errorf("%w: initial pool %s", types.ErrInvalidQuantity, initial)
	}
	return &ResourcePool{balance: initial}, nil
}

// TryReserve reports whether the pool can cover amounts in full.
// A false result leaves the pool untouched.
func (p *ResourcePool) TryReserve(amounts types.Resources) bool {
	return p.balance.Covers(amounts)
}

// ConsumeUnit takes one unit of kind out of the pool
func (p *ResourcePool) ConsumeUnit(kind types.ResourceKind) {
	if p.balance.Get(kind) <= 0 {
		panic(fmt.Sprintf("pool: %s balance would go negative", kind))
	}
	p.balance.Add(kind, -1)
}

// ReturnUnits puts amounts back into the pool
func (p *ResourcePool) ReturnUnits(amounts types.Resources) {
	if amounts.HasNegative() {
		panic(fmt.Sprintf("pool: negative return %s", amounts))
	}
	p.balance = p.balance.Plus(amounts)
}

// Snapshot returns the current balance
func (p *ResourcePool) Snapshot() types.Resources {
	return p.balance
}
