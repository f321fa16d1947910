package study

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func newTestBuilder() *Builder {
	return NewBuilder(rand.New(rand.NewPCG(1, 2)), BuilderConfig{})
}

func makePool(n int, base time.Time) []domain.Sentence {
	pool := make([]domain.Sentence, n)
	for i := range pool {
		pool[i] = domain.Sentence{
			ID:           uuid.New(),
			LanguageCode: "es",
			ExternalID:   uuid.NewString(),
			DisplayText:  "... card",
			AnswerTarget: "answer",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return pool
}

func makeRecord(userID uuid.UUID, s domain.Sentence, next, studied time.Time, interval int) domain.ReviewRecord {
	return domain.ReviewRecord{
		ID:              uuid.New(),
		UserID:          userID,
		SentenceID:      s.ID,
		Interval:        interval,
		EaseFactor:      domain.DefaultEaseFactor,
		NextReviewDate:  next,
		RepetitionCount: 1,
		FirstStudiedAt:  ptr(studied),
		LastReviewedAt:  studied,
	}
}

func TestBuilder_StandardSingleNewCard(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(1, now.AddDate(-1, 0, 0))

	queue := newTestBuilder().Build(BuildInput{
		UserID:   uuid.New(),
		Language: "es",
		Mode:     domain.SessionModeStandard,
		Pool:     pool,
		Now:      now,
	})

	require.Len(t, queue, 1)
	assert.Equal(t, pool[0].ID, queue[0].ID)
	assert.Equal(t, domain.CardTypeNew, queue[0].Type)
	assert.Equal(t, 0, queue[0].Interval)
	assert.Equal(t, domain.CardModeStandard, queue[0].Mode)
	assert.Nil(t, queue[0].ReviewID)
	assert.False(t, queue[0].IsRetry)
	assert.False(t, queue[0].LearningStep2)
}

func TestBuilder_StandardDueBeforeNew(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(30, now.AddDate(0, -2, 0))
	longAgo := now.AddDate(0, -1, 0)

	var history []domain.ReviewRecord
	// 4 due (one exactly at the cutoff), 3 scheduled later.
	for i := 0; i < 4; i++ {
		history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, -i), longAgo, 3))
	}
	history[0].NextReviewDate = Windows(now).ReviewCutoff
	for i := 4; i < 7; i++ {
		history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, 5), longAgo, 8))
	}

	queue := newTestBuilder().Build(BuildInput{
		UserID:   userID,
		Language: "es",
		Mode:     domain.SessionModeStandard,
		History:  history,
		Pool:     pool,
		Now:      now,
	})

	// 4 due + min(quota 10, unseen 23).
	require.Len(t, queue, 14)

	for i, c := range queue[:4] {
		assert.Equal(t, domain.CardTypeReview, c.Type, "card %d", i)
		require.NotNil(t, c.ReviewID, "card %d", i)
	}
	for i, c := range queue[4:] {
		assert.Equal(t, domain.CardTypeNew, c.Type, "card %d", i+4)
		assert.Equal(t, 0, c.Interval)
	}

	// Due cards carry the interval of their record.
	intervals := map[uuid.UUID]int{}
	for _, r := range history {
		intervals[r.SentenceID] = r.Interval
	}
	for _, c := range queue[:4] {
		assert.Equal(t, intervals[c.ID], c.Interval)
	}
}

func TestBuilder_NewCardsAreOldestFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(25, now.AddDate(0, -1, 0))

	// Reverse the slice so selection cannot rely on input order.
	reversed := make([]domain.Sentence, len(pool))
	for i := range pool {
		reversed[len(pool)-1-i] = pool[i]
	}

	queue := newTestBuilder().Build(BuildInput{
		UserID: uuid.New(),
		Mode:   domain.SessionModeStandard,
		Pool:   reversed,
		Now:    now,
	})

	require.Len(t, queue, DefaultDailyGoal)

	want := map[uuid.UUID]bool{}
	for _, s := range pool[:DefaultDailyGoal] {
		want[s.ID] = true
	}
	for _, c := range queue {
		assert.True(t, want[c.ID], "unexpected card %s", c.ID)
	}
}

func TestBuilder_StandardQuotaShrinksWithTodaysStudy(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := Windows(now).VirtualDayStart
	pool := makePool(40, now.AddDate(0, -1, 0))

	var history []domain.ReviewRecord
	// 7 first studied today, not due until later.
	for i := 0; i < 7; i++ {
		history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, 3), start.Add(time.Hour), 1))
	}
	// One studied just before the virtual day started.
	history = append(history, makeRecord(userID, pool[7], now.AddDate(0, 0, 3), start.Add(-time.Second), 1))

	queue := newTestBuilder().Build(BuildInput{
		UserID:  userID,
		Mode:    domain.SessionModeStandard,
		History: history,
		Pool:    pool,
		Now:     now,
	})

	require.Len(t, queue, DefaultDailyGoal-7)
	for _, c := range queue {
		assert.Equal(t, domain.CardTypeNew, c.Type)
	}
}

func TestBuilder_StandardGoalReachedNothingDue(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := Windows(now).VirtualDayStart
	pool := makePool(20, now.AddDate(0, -1, 0))

	var history []domain.ReviewRecord
	for i := 0; i < DefaultDailyGoal+2; i++ {
		history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, 3), start.Add(time.Minute), 1))
	}

	queue := newTestBuilder().Build(BuildInput{
		UserID:  userID,
		Mode:    domain.SessionModeStandard,
		History: history,
		Pool:    pool,
		Now:     now,
	})

	assert.Empty(t, queue)
}

func TestBuilder_ResolutionFallsBackToLastReviewed(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := Windows(now).VirtualDayStart
	pool := makePool(20, now.AddDate(0, -1, 0))

	var history []domain.ReviewRecord
	for i := 0; i < 4; i++ {
		r := makeRecord(userID, pool[i], now.AddDate(0, 0, 3), start.Add(time.Minute), 1)
		r.FirstStudiedAt = nil
		history = append(history, r)
	}

	queue := newTestBuilder().Build(BuildInput{
		UserID:  userID,
		Mode:    domain.SessionModeStandard,
		History: history,
		Pool:    pool,
		Now:     now,
	})

	assert.Len(t, queue, DefaultDailyGoal-4)
}

func TestBuilder_BonusIgnoresTodaysStudy(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := Windows(now).VirtualDayStart
	pool := makePool(40, now.AddDate(0, -1, 0))

	var history []domain.ReviewRecord
	for i := 0; i < 12; i++ {
		history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, 3), start.Add(time.Minute), 1))
	}
	// One due review.
	history = append(history, makeRecord(userID, pool[12], now.Add(-time.Hour), now.AddDate(0, 0, -10), 3))

	queue := newTestBuilder().Build(BuildInput{
		UserID:  userID,
		Mode:    domain.SessionModeBonus,
		History: history,
		Pool:    pool,
		Now:     now,
	})

	require.Len(t, queue, 1+DefaultBonusQuota)
	assert.Equal(t, domain.CardTypeReview, queue[0].Type)
	for _, c := range queue {
		assert.Equal(t, domain.CardModeStandard, c.Mode)
	}
}

func TestBuilder_BonusQuotaFromConfig(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuilder(rand.New(rand.NewPCG(3, 4)), BuilderConfig{BonusQuota: 3})

	queue := b.Build(BuildInput{
		UserID: uuid.New(),
		Mode:   domain.SessionModeBonus,
		Pool:   makePool(10, now.AddDate(0, -1, 0)),
		Now:    now,
	})

	assert.Len(t, queue, 3)
}

func TestBuilder_EmptyPool(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, mode := range []domain.SessionMode{domain.SessionModeStandard, domain.SessionModeBonus, domain.SessionModeReviewAll} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			queue := newTestBuilder().Build(BuildInput{
				UserID: uuid.New(),
				Mode:   mode,
				Now:    now,
			})
			assert.NotNil(t, queue)
			assert.Empty(t, queue)
		})
	}
}

func TestBuilder_FreeModeEmptyHistory(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := newTestBuilder().Build(BuildInput{
		UserID: uuid.New(),
		Mode:   domain.SessionModeReviewAll,
		Pool:   makePool(5, now.AddDate(0, -1, 0)),
		Now:    now,
	})

	assert.Empty(t, queue)
}

func TestBuilder_FreeModeLimitAndUniqueness(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(60, now.AddDate(0, -2, 0))

	for _, historySize := range []int{1, 7, 20, 21, 45} {
		var history []domain.ReviewRecord
		for i := 0; i < historySize; i++ {
			// Not due: free mode ignores scheduling.
			history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, 30), now.AddDate(0, 0, -5), 13))
		}

		queue := newTestBuilder().Build(BuildInput{
			UserID:  userID,
			Mode:    domain.SessionModeReviewAll,
			History: history,
			Pool:    pool,
			Now:     now,
		})

		require.Len(t, queue, min(DefaultFreeReviewLimit, historySize), "history %d", historySize)

		seen := map[uuid.UUID]bool{}
		for _, c := range queue {
			assert.False(t, seen[c.ID], "duplicate card %s", c.ID)
			seen[c.ID] = true
			assert.Equal(t, domain.CardTypeReview, c.Type)
			assert.Equal(t, domain.CardModeFree, c.Mode)
			assert.NotNil(t, c.ReviewID)
		}
	}
}

func TestBuilder_FreeModeDeduplicatesHistory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(3, now.AddDate(0, -2, 0))

	history := []domain.ReviewRecord{
		makeRecord(userID, pool[0], now, now, 1),
		makeRecord(userID, pool[0], now, now, 1),
		makeRecord(userID, pool[1], now, now, 1),
	}

	queue := newTestBuilder().Build(BuildInput{
		UserID:  userID,
		Mode:    domain.SessionModeReviewAll,
		History: history,
		Pool:    pool,
		Now:     now,
	})

	assert.Len(t, queue, 2)
}

func TestBuilder_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(30, now.AddDate(0, -2, 0))
	var history []domain.ReviewRecord
	for i := 0; i < 8; i++ {
		history = append(history, makeRecord(userID, pool[i], now.AddDate(0, 0, -1), now.AddDate(0, 0, -9), 3))
	}
	in := BuildInput{UserID: userID, Mode: domain.SessionModeStandard, History: history, Pool: pool, Now: now}

	a := NewBuilder(rand.New(rand.NewPCG(7, 7)), BuilderConfig{}).Build(in)
	b := NewBuilder(rand.New(rand.NewPCG(7, 7)), BuilderConfig{}).Build(in)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestBuilder_NilShufflerKeepsOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := makePool(5, now.AddDate(0, -1, 0))

	queue := NewBuilder(nil, BuilderConfig{}).Build(BuildInput{
		UserID: uuid.New(),
		Mode:   domain.SessionModeStandard,
		Pool:   pool,
		Now:    now,
	})

	require.Len(t, queue, 5)
	for i := range pool {
		assert.Equal(t, pool[i].ID, queue[i].ID)
	}
}

func TestBuilder_Summarize(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := Windows(now).VirtualDayStart
	pool := makePool(15, now.AddDate(0, -2, 0))

	history := []domain.ReviewRecord{
		makeRecord(userID, pool[0], now.AddDate(0, 0, -1), now.AddDate(0, 0, -4), 3),
		makeRecord(userID, pool[1], now.AddDate(0, 0, -2), now.AddDate(0, 0, -5), 3),
		makeRecord(userID, pool[2], now.AddDate(0, 0, 2), start.Add(time.Hour), 1),
		makeRecord(userID, pool[3], now.AddDate(0, 0, 2), start.Add(2*time.Hour), 1),
	}

	got := newTestBuilder().Summarize("es", history, pool, now)

	assert.Equal(t, domain.Dashboard{
		LanguageCode: "es",
		DueCount:     2,
		NewAvailable: 8,
		StudiedToday: 2,
		SeenCards:    4,
		TotalCards:   15,
	}, got)
}
