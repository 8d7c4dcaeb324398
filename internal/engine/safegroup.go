package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/foreman/foreman/pkg/logger"
)

// SafeGroup runs named site loops under one errgroup. A panicking loop
// is turned into an error, which cancels the shared context for the rest.
type SafeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

// NewSafeGroup creates a group whose context is cancelled on the first failure
func NewSafeGroup(ctx context.Context, log logger.Logger) (*SafeGroup, context.Context) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	g, ctx := errgroup.WithContext(ctx)
	return &SafeGroup{
		group:  g,
		logger: log.WithComponent("loops"),
	}, ctx
}

// Go starts fn in its own goroutine, labelled name in logs and errors
func (sg *SafeGroup) Go(name string, fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				sg.logger.Error("Loop panic recovered",
					logger.WithField("loop", name),
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(debug.Stack())))
				err = fmt.Errorf("%s loop panic: %v", name, r)
			}
		}()

		sg.logger.Debug("Loop started", logger.WithField("loop", name))
		if err = fn(); err != nil {
			return fmt.Errorf("%s loop: %w", name, err)
		}
		sg.logger.Debug("Loop stopped", logger.WithField("loop", name))
		return nil
	})
}

// SetLimit caps the number of loops running at once
func (sg *SafeGroup) SetLimit(n int) {
	sg.group.SetLimit(n)
}

// Wait blocks until every loop returns and reports the first failure
func (sg *SafeGroup) Wait() error {
	return sg.group.Wait()
}
