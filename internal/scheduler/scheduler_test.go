package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	runs        int
	deadlineSet bool
}

func (f *fakeRunner) Run(ctx context.Context) error {
	f.runs++
	_, f.deadlineSet = ctx.Deadline()
	return nil
}

func TestStartRunsImmediatelyWithDeadline(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, "@every 1h", time.Minute)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, 1, r.runs, "first pass runs without waiting for a tick")
	assert.True(t, r.deadlineSet, "every pass carries its own timeout")
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&fakeRunner{}, "definitely not cron", time.Minute)
	assert.Error(t, s.Start(context.Background()))
}

func TestRunOnceSkipsAfterShutdown(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, "@every 1h", time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.runOnce(ctx)
	assert.Zero(t, r.runs)
}
