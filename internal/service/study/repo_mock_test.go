package study

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

var _ sentenceRepo = &sentenceRepoMock{}

type sentenceRepoMock struct {
	ListByLanguageFunc func(ctx context.Context, languageCode string) ([]domain.Sentence, error)

	calls struct {
		ListByLanguage []struct {
			LanguageCode string
		}
	}
	lockListByLanguage sync.RWMutex
}

func (mock *sentenceRepoMock) ListByLanguage(ctx context.Context, languageCode string) ([]domain.Sentence, error) {
	if mock.ListByLanguageFunc == nil {
		panic("sentenceRepoMock.ListByLanguageFunc: method is nil but sentenceRepo.ListByLanguage was just called")
	}
	callInfo := struct{ LanguageCode string }{LanguageCode: languageCode}
	mock.lockListByLanguage.Lock()
	mock.calls.ListByLanguage = append(mock.calls.ListByLanguage, callInfo)
	mock.lockListByLanguage.Unlock()
	return mock.ListByLanguageFunc(ctx, languageCode)
}

func (mock *sentenceRepoMock) ListByLanguageCalls() []struct {
	LanguageCode string
} {
	mock.lockListByLanguage.RLock()
	calls := mock.calls.ListByLanguage
	mock.lockListByLanguage.RUnlock()
	return calls
}

var _ reviewRepo = &reviewRepoMock{}

type reviewRepoMock struct {
	ListByUserAndSentencesFunc func(ctx context.Context, userID uuid.UUID, sentenceIDs []uuid.UUID) ([]domain.ReviewRecord, error)

	calls struct {
		ListByUserAndSentences []struct {
			UserID      uuid.UUID
			SentenceIDs []uuid.UUID
		}
	}
	lockListByUserAndSentences sync.RWMutex
}

func (mock *reviewRepoMock) ListByUserAndSentences(ctx context.Context, userID uuid.UUID, sentenceIDs []uuid.UUID) ([]domain.ReviewRecord, error) {
	if mock.ListByUserAndSentencesFunc == nil {
		panic("reviewRepoMock.ListByUserAndSentencesFunc: method is nil but reviewRepo.ListByUserAndSentences was just called")
	}
	callInfo := struct {
		UserID      uuid.UUID
		SentenceIDs []uuid.UUID
	}{UserID: userID, SentenceIDs: sentenceIDs}
	mock.lockListByUserAndSentences.Lock()
	mock.calls.ListByUserAndSentences = append(mock.calls.ListByUserAndSentences, callInfo)
	mock.lockListByUserAndSentences.Unlock()
	return mock.ListByUserAndSentencesFunc(ctx, userID, sentenceIDs)
}

func (mock *reviewRepoMock) ListByUserAndSentencesCalls() []struct {
	UserID      uuid.UUID
	SentenceIDs []uuid.UUID
} {
	mock.lockListByUserAndSentences.RLock()
	calls := mock.calls.ListByUserAndSentences
	mock.lockListByUserAndSentences.RUnlock()
	return calls
}
