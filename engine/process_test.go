package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	calls := 0
	proc := Poll(time.Millisecond, func(context.Context) bool {
		calls++
		if calls >= 3 {
			cancel()
		}
		return false
	})

	err := proc(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls, 3)
}

func TestProcMgrRun(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	var mgr ProcMgr
	ran := make(chan struct{})
	mgr.Add(func(ctx context.Context) error {
		close(ran)
		<-ctx.Done()
		return ctx.Err()
	})

	go func() {
		<-ran
		cancel()
	}()
	mgr.Run(ctx) // returns once the proc exits
}
