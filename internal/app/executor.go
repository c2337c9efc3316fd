package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"jfrog-cleaner/internal/ports"
	"jfrog-cleaner/internal/types"
)

// deletionExecutor turns deletion candidates into outcomes. A path is sent
// to the registry at most once per run; repeats, including concurrent ones,
// wait for and get the first outcome back.
type deletionExecutor struct {
	deleter ports.TagDeleterPort
	dryRun  bool
	limiter *rate.Limiter

	mu   sync.Mutex
	done map[string]*pendingDeletion
}

type pendingDeletion struct {
	ready   chan struct{}
	outcome types.TagOutcome
}

func newDeletionExecutor(deleter ports.TagDeleterPort, dryRun bool, deleteRate float64) *deletionExecutor {
	var limiter *rate.Limiter
	if deleteRate > 0 && !dryRun {
		limiter = rate.NewLimiter(rate.Limit(deleteRate), 1)
	}
	return &deletionExecutor{
		deleter: deleter,
		dryRun:  dryRun,
		limiter: limiter,
		done:    map[string]*pendingDeletion{},
	}
}

func (e *deletionExecutor) Execute(ctx context.Context, repository string, tag types.Tag) types.TagOutcome {
	key := repository + "/" + tag.Path
	e.mu.Lock()
	if previous, ok := e.done[key]; ok {
		e.mu.Unlock()
		log.Debug().Str("repository", repository).Str("path", tag.Path).Msg("tag already handled in this run")
		<-previous.ready
		return previous.outcome
	}
	pending := &pendingDeletion{ready: make(chan struct{})}
	e.done[key] = pending
	e.mu.Unlock()

	pending.outcome = e.execute(ctx, repository, tag)
	close(pending.ready)
	return pending.outcome
}

func (e *deletionExecutor) execute(ctx context.Context, repository string, tag types.Tag) types.TagOutcome {
	logger := log.With().Str("repository", repository).Str("path", tag.Path).Logger()
	if e.dryRun {
		logger.Debug().Msg("would delete")
		return types.TagOutcome{Tag: tag, Kind: types.OutcomeWouldDelete}
	}
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			logger.Error().Err(err).Msg("delete aborted")
			return failedDeletion(tag, err)
		}
	}
	if err := e.deleter.DeleteTag(ctx, repository, tag.Path); err != nil {
		logger.Error().Err(err).Msg("delete failed")
		return failedDeletion(tag, err)
	}
	logger.Info().Msg("deleted")
	return types.TagOutcome{Tag: tag, Kind: types.OutcomeDeleted}
}

func failedDeletion(tag types.Tag, err error) types.TagOutcome {
	return types.TagOutcome{
		Tag:           tag,
		Kind:          types.OutcomeFailed,
		FailureReason: types.FailureReasonDeletionError,
		Err:           err.Error(),
	}
}
