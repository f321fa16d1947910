package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var (
	_ reviewRepo      = &reviewRepoMock{}
	_ sessionRegistry = &sessionRegistryMock{}
	_ txManager       = &txManagerMock{}
)

type reviewRepoMock struct {
	DeleteAllByUserFunc func(ctx context.Context, userID uuid.UUID) (int64, error)

	calls struct {
		DeleteAllByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
	}
	lockDeleteAllByUser sync.RWMutex
}

func (mock *reviewRepoMock) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if mock.DeleteAllByUserFunc == nil {
		panic("reviewRepoMock.DeleteAllByUserFunc: method is nil but reviewRepo.DeleteAllByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockDeleteAllByUser.Lock()
	mock.calls.DeleteAllByUser = append(mock.calls.DeleteAllByUser, callInfo)
	mock.lockDeleteAllByUser.Unlock()
	return mock.DeleteAllByUserFunc(ctx, userID)
}

func (mock *reviewRepoMock) DeleteAllByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockDeleteAllByUser.RLock()
	defer mock.lockDeleteAllByUser.RUnlock()
	return mock.calls.DeleteAllByUser
}

type sessionRegistryMock struct {
	calls struct {
		DropUser []struct {
			UserID uuid.UUID
		}
	}
	lockDropUser sync.RWMutex
}

func (mock *sessionRegistryMock) DropUser(userID uuid.UUID) {
	mock.lockDropUser.Lock()
	mock.calls.DropUser = append(mock.calls.DropUser, struct{ UserID uuid.UUID }{UserID: userID})
	mock.lockDropUser.Unlock()
}

func (mock *sessionRegistryMock) DropUserCalls() []struct {
	UserID uuid.UUID
} {
	mock.lockDropUser.RLock()
	defer mock.lockDropUser.RUnlock()
	return mock.calls.DropUser
}

// txManagerMock runs fn directly and records the outcome.
type txManagerMock struct {
	mu      sync.Mutex
	runs    int
	lastErr error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	mock.mu.Lock()
	mock.runs++
	mock.lastErr = err
	mock.mu.Unlock()
	return err
}
