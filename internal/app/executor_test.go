package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jfrog-cleaner/internal/types"
)

func TestDeletionExecutorDryRunSkipsRegistry(t *testing.T) {
	registry := newFakeRegistry()
	executor := newDeletionExecutor(registry, true, 0)

	outcome := executor.Execute(t.Context(), "docker-local", types.Tag{Identifier: "v1", Path: "web/v1"})

	assert.Equal(t, types.OutcomeWouldDelete, outcome.Kind)
	assert.Equal(t, 0, registry.callCount())
	assert.Nil(t, executor.limiter)
}

func TestDeletionExecutorDeletesAtMostOnce(t *testing.T) {
	registry := newFakeRegistry()
	executor := newDeletionExecutor(registry, false, 0)
	tag := types.Tag{Identifier: "v1", Path: "web/v1"}

	first := executor.Execute(t.Context(), "docker-local", tag)
	second := executor.Execute(t.Context(), "docker-local", tag)
	other := executor.Execute(t.Context(), "docker-prod", tag)

	assert.Equal(t, types.OutcomeDeleted, first.Kind)
	assert.Equal(t, first, second)
	assert.Equal(t, types.OutcomeDeleted, other.Kind)
	assert.Equal(t, []string{"docker-local/web/v1", "docker-prod/web/v1"}, registry.deleted())
}

type blockingDeleter struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (d *blockingDeleter) DeleteTag(_ context.Context, _ string, _ string) error {
	if d.calls.Add(1) == 1 {
		close(d.started)
	}
	<-d.release
	return nil
}

func TestDeletionExecutorConcurrentRepeatsShareOneDelete(t *testing.T) {
	deleter := &blockingDeleter{started: make(chan struct{}), release: make(chan struct{})}
	executor := newDeletionExecutor(deleter, false, 0)
	tag := types.Tag{Identifier: "v1", Path: "web/v1"}

	outcomes := make([]types.TagOutcome, 4)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes[0] = executor.Execute(t.Context(), "docker-local", tag)
	}()
	<-deleter.started
	for i := 1; i < len(outcomes); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = executor.Execute(t.Context(), "docker-local", tag)
		}(i)
	}

	assert.Never(t, func() bool { return deleter.calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	close(deleter.release)
	wg.Wait()

	assert.Equal(t, int32(1), deleter.calls.Load())
	for _, outcome := range outcomes {
		assert.Equal(t, types.OutcomeDeleted, outcome.Kind)
	}
}

func TestDeletionExecutorRecordsFailure(t *testing.T) {
	registry := newFakeRegistry()
	registry.deleteErrs["docker-local/web/v1"] = errors.New("HTTP 403")
	executor := newDeletionExecutor(registry, false, 0)

	outcome := executor.Execute(t.Context(), "docker-local", types.Tag{Identifier: "v1", Path: "web/v1"})

	assert.Equal(t, types.OutcomeFailed, outcome.Kind)
	assert.Equal(t, types.FailureReasonDeletionError, outcome.FailureReason)
	assert.Equal(t, "HTTP 403", outcome.Err)
}

func TestDeletionExecutorRateLimitHonoursCancellation(t *testing.T) {
	registry := newFakeRegistry()
	executor := newDeletionExecutor(registry, false, 1)
	require.NotNil(t, executor.limiter)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	outcome := executor.Execute(ctx, "docker-local", types.Tag{Identifier: "v1", Path: "web/v1"})

	assert.Equal(t, types.OutcomeFailed, outcome.Kind)
	assert.Equal(t, types.FailureReasonDeletionError, outcome.FailureReason)
	assert.Empty(t, registry.deleted())
}

func TestDeletionExecutorRateLimitedDeletes(t *testing.T) {
	registry := newFakeRegistry()
	executor := newDeletionExecutor(registry, false, 1000)

	for _, path := range []string{"web/v1", "web/v2", "web/v3"} {
		outcome := executor.Execute(t.Context(), "docker-local", types.Tag{Path: path})
		require.Equal(t, types.OutcomeDeleted, outcome.Kind)
	}
	assert.Len(t, registry.deleted(), 3)
}
