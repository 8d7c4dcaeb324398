package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foreman/foreman/internal/engine"
)

func TestSafeGroup_RecoversPanic(t *testing.T) {
	sg, ctx := engine.NewSafeGroup(context.Background(), nil)

	sg.Go("recall", func() error {
		panic("boom")
	})
	sg.Go("cycle", func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("context was not cancelled")
		}
	})

	err := sg.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recall loop panic: boom")
}

func TestSafeGroup_WrapsLoopError(t *testing.T) {
	sentinel := errors.New("stopped")
	sg, _ := engine.NewSafeGroup(context.Background(), nil)

	sg.Go("cycle", func() error { return sentinel })

	err := sg.Wait()
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "cycle loop")
}

func TestSafeGroup_CleanExit(t *testing.T) {
	sg, _ := engine.NewSafeGroup(context.Background(), nil)
	sg.SetLimit(2)

	for i := 0; i < 4; i++ {
		sg.Go("worker", func() error { return nil })
	}
	assert.NoError(t, sg.Wait())
}
