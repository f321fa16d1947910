package study

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

var _ reviewStore = &reviewStoreMock{}

type reviewStoreMock struct {
	UpsertFunc func(ctx context.Context, userID, sentenceID uuid.UUID, params domain.ReviewUpsert) (*domain.ReviewRecord, error)

	calls struct {
		Upsert []struct {
			UserID     uuid.UUID
			SentenceID uuid.UUID
			Params     domain.ReviewUpsert
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *reviewStoreMock) Upsert(ctx context.Context, userID, sentenceID uuid.UUID, params domain.ReviewUpsert) (*domain.ReviewRecord, error) {
	if mock.UpsertFunc == nil {
		panic("reviewStoreMock.UpsertFunc: method is nil but reviewStore.Upsert was just called")
	}
	callInfo := struct {
		UserID     uuid.UUID
		SentenceID uuid.UUID
		Params     domain.ReviewUpsert
	}{UserID: userID, SentenceID: sentenceID, Params: params}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, userID, sentenceID, params)
}

func (mock *reviewStoreMock) UpsertCalls() []struct {
	UserID     uuid.UUID
	SentenceID uuid.UUID
	Params     domain.ReviewUpsert
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
