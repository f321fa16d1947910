package study

import (
	"context"
	"sync"
)

var _ resultSaver = &resultSaverMock{}

type resultSaverMock struct {
	EnqueueFunc func(ctx context.Context, req SaveRequest)

	calls struct {
		Enqueue []struct {
			Ctx context.Context
			Req SaveRequest
		}
	}
	lockEnqueue sync.RWMutex
}

func (mock *resultSaverMock) Enqueue(ctx context.Context, req SaveRequest) {
	callInfo := struct {
		Ctx context.Context
		Req SaveRequest
	}{Ctx: ctx, Req: req}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	if mock.EnqueueFunc != nil {
		mock.EnqueueFunc(ctx, req)
	}
}

func (mock *resultSaverMock) EnqueueCalls() []struct {
	Ctx context.Context
	Req SaveRequest
} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}
