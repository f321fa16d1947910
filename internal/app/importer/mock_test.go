package importer

import (
	"context"
	"io"
	"sync"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

type sentenceUpserterMock struct {
	UpsertByExternalIDFunc func(ctx context.Context, s domain.SentenceUpsert) (bool, error)

	calls struct {
		UpsertByExternalID []struct {
			Ctx context.Context
			S   domain.SentenceUpsert
		}
	}
	lockUpsertByExternalID sync.RWMutex
}

func (m *sentenceUpserterMock) UpsertByExternalID(ctx context.Context, s domain.SentenceUpsert) (bool, error) {
	if m.UpsertByExternalIDFunc == nil {
		panic("sentenceUpserterMock.UpsertByExternalIDFunc: method is nil but sentenceUpserter.UpsertByExternalID was just called")
	}
	m.lockUpsertByExternalID.Lock()
	m.calls.UpsertByExternalID = append(m.calls.UpsertByExternalID, struct {
		Ctx context.Context
		S   domain.SentenceUpsert
	}{Ctx: ctx, S: s})
	m.lockUpsertByExternalID.Unlock()
	return m.UpsertByExternalIDFunc(ctx, s)
}

func (m *sentenceUpserterMock) UpsertByExternalIDCalls() []struct {
	Ctx context.Context
	S   domain.SentenceUpsert
} {
	m.lockUpsertByExternalID.RLock()
	defer m.lockUpsertByExternalID.RUnlock()
	return m.calls.UpsertByExternalID
}

type sourceOpenerMock struct {
	OpenFunc func(ctx context.Context, source string) (io.ReadCloser, error)
}

func (m *sourceOpenerMock) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if m.OpenFunc == nil {
		panic("sourceOpenerMock.OpenFunc: method is nil but sourceOpener.Open was just called")
	}
	return m.OpenFunc(ctx, source)
}
