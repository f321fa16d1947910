package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
	"github.com/heartmarshall/clozedeck-backend/internal/service/deck"
	"github.com/heartmarshall/clozedeck-backend/internal/service/study"
)

var (
	_ studyService   = &studyServiceMock{}
	_ deckService    = &deckServiceMock{}
	_ profileService = &profileServiceMock{}
)

type sessionCall struct {
	Op        string
	SessionID uuid.UUID
}

// studyServiceMock answers every session operation with SnapshotFunc.
type studyServiceMock struct {
	StartSessionFunc func(ctx context.Context, input study.StartSessionInput) (study.Snapshot, error)
	SubmitAnswerFunc func(ctx context.Context, input study.SubmitAnswerInput) (study.Snapshot, error)
	SnapshotFunc     func(ctx context.Context, op string, sessionID uuid.UUID) (study.Snapshot, error)
	GetDashboardFunc func(ctx context.Context, input study.DashboardInput) (domain.Dashboard, error)

	mu            sync.Mutex
	startCalls    []study.StartSessionInput
	submitCalls   []study.SubmitAnswerInput
	sessionCalls  []sessionCall
	dashboardCall []study.DashboardInput
}

func (m *studyServiceMock) StartSession(ctx context.Context, input study.StartSessionInput) (study.Snapshot, error) {
	if m.StartSessionFunc == nil {
		panic("studyServiceMock.StartSessionFunc: method is nil but studyService.StartSession was just called")
	}
	m.mu.Lock()
	m.startCalls = append(m.startCalls, input)
	m.mu.Unlock()
	return m.StartSessionFunc(ctx, input)
}

func (m *studyServiceMock) SubmitAnswer(ctx context.Context, input study.SubmitAnswerInput) (study.Snapshot, error) {
	if m.SubmitAnswerFunc == nil {
		panic("studyServiceMock.SubmitAnswerFunc: method is nil but studyService.SubmitAnswer was just called")
	}
	m.mu.Lock()
	m.submitCalls = append(m.submitCalls, input)
	m.mu.Unlock()
	return m.SubmitAnswerFunc(ctx, input)
}

func (m *studyServiceMock) session(ctx context.Context, op string, id uuid.UUID) (study.Snapshot, error) {
	if m.SnapshotFunc == nil {
		panic("studyServiceMock.SnapshotFunc: method is nil but studyService." + op + " was just called")
	}
	m.mu.Lock()
	m.sessionCalls = append(m.sessionCalls, sessionCall{Op: op, SessionID: id})
	m.mu.Unlock()
	return m.SnapshotFunc(ctx, op, id)
}

func (m *studyServiceMock) GetSession(ctx context.Context, id uuid.UUID) (study.Snapshot, error) {
	return m.session(ctx, "GetSession", id)
}

func (m *studyServiceMock) GiveUp(ctx context.Context, id uuid.UUID) (study.Snapshot, error) {
	return m.session(ctx, "GiveUp", id)
}

func (m *studyServiceMock) Advance(ctx context.Context, id uuid.UUID) (study.Snapshot, error) {
	return m.session(ctx, "Advance", id)
}

func (m *studyServiceMock) GetDashboard(ctx context.Context, input study.DashboardInput) (domain.Dashboard, error) {
	if m.GetDashboardFunc == nil {
		panic("studyServiceMock.GetDashboardFunc: method is nil but studyService.GetDashboard was just called")
	}
	m.mu.Lock()
	m.dashboardCall = append(m.dashboardCall, input)
	m.mu.Unlock()
	return m.GetDashboardFunc(ctx, input)
}

type deckServiceMock struct {
	SearchFunc    func(ctx context.Context, input deck.SearchInput) ([]domain.Sentence, error)
	LanguagesFunc func(ctx context.Context) ([]deck.Language, error)

	mu          sync.Mutex
	searchCalls []deck.SearchInput
}

func (m *deckServiceMock) Search(ctx context.Context, input deck.SearchInput) ([]domain.Sentence, error) {
	if m.SearchFunc == nil {
		panic("deckServiceMock.SearchFunc: method is nil but deckService.Search was just called")
	}
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, input)
	m.mu.Unlock()
	return m.SearchFunc(ctx, input)
}

func (m *deckServiceMock) Languages(ctx context.Context) ([]deck.Language, error) {
	if m.LanguagesFunc == nil {
		panic("deckServiceMock.LanguagesFunc: method is nil but deckService.Languages was just called")
	}
	return m.LanguagesFunc(ctx)
}

type profileServiceMock struct {
	ResetProgressFunc func(ctx context.Context) (int64, error)
}

func (m *profileServiceMock) ResetProgress(ctx context.Context) (int64, error) {
	if m.ResetProgressFunc == nil {
		panic("profileServiceMock.ResetProgressFunc: method is nil but profileService.ResetProgress was just called")
	}
	return m.ResetProgressFunc(ctx)
}
