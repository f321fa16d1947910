package deck

import (
	"context"
	"sync"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

var _ sentenceRepo = &sentenceRepoMock{}

type sentenceRepoMock struct {
	SearchFunc          func(ctx context.Context, f domain.SentenceFilter) ([]domain.Sentence, error)
	CountByLanguageFunc func(ctx context.Context) (map[string]int, error)

	calls struct {
		Search []struct {
			Ctx context.Context
			F   domain.SentenceFilter
		}
		CountByLanguage []struct {
			Ctx context.Context
		}
	}
	lockSearch          sync.RWMutex
	lockCountByLanguage sync.RWMutex
}

func (mock *sentenceRepoMock) Search(ctx context.Context, f domain.SentenceFilter) ([]domain.Sentence, error) {
	if mock.SearchFunc == nil {
		panic("sentenceRepoMock.SearchFunc: method is nil but sentenceRepo.Search was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.SentenceFilter
	}{Ctx: ctx, F: f}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, f)
}

func (mock *sentenceRepoMock) SearchCalls() []struct {
	Ctx context.Context
	F   domain.SentenceFilter
} {
	mock.lockSearch.RLock()
	defer mock.lockSearch.RUnlock()
	return mock.calls.Search
}

func (mock *sentenceRepoMock) CountByLanguage(ctx context.Context) (map[string]int, error) {
	if mock.CountByLanguageFunc == nil {
		panic("sentenceRepoMock.CountByLanguageFunc: method is nil but sentenceRepo.CountByLanguage was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockCountByLanguage.Lock()
	mock.calls.CountByLanguage = append(mock.calls.CountByLanguage, callInfo)
	mock.lockCountByLanguage.Unlock()
	return mock.CountByLanguageFunc(ctx)
}

func (mock *sentenceRepoMock) CountByLanguageCalls() []struct {
	Ctx context.Context
} {
	mock.lockCountByLanguage.RLock()
	defer mock.lockCountByLanguage.RUnlock()
	return mock.calls.CountByLanguage
}
