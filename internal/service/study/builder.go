package study

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

// Default builder limits.
const (
	DefaultDailyGoal       = 10
	DefaultBonusQuota      = 10
	DefaultFreeReviewLimit = 20
)

// Shuffler randomizes element order. *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// BuilderConfig holds the quotas applied by the Builder.
type BuilderConfig struct {
	DailyGoal       int
	BonusQuota      int
	FreeReviewLimit int
}

// Builder assembles ordered session queues. All three modes go through Build.
// It is safe for concurrent use.
type Builder struct {
	mu  sync.Mutex
	rng Shuffler
	cfg BuilderConfig
}

// NewBuilder creates a Builder. Zero config values fall back to the defaults.
func NewBuilder(rng Shuffler, cfg BuilderConfig) *Builder {
	if cfg.DailyGoal <= 0 {
		cfg.DailyGoal = DefaultDailyGoal
	}
	if cfg.BonusQuota <= 0 {
		cfg.BonusQuota = DefaultBonusQuota
	}
	if cfg.FreeReviewLimit <= 0 {
		cfg.FreeReviewLimit = DefaultFreeReviewLimit
	}
	return &Builder{rng: rng, cfg: cfg}
}

// BuildInput is everything Build needs. History holds the learner's review
// records for sentences of Pool; Pool holds every sentence of Language.
type BuildInput struct {
	UserID   uuid.UUID
	Language string
	Mode     domain.SessionMode
	History  []domain.ReviewRecord
	Pool     []domain.Sentence
	Now      time.Time
}

// Build returns the ordered queue for in.Mode. An empty result means there
// is nothing to study.
func (b *Builder) Build(in BuildInput) []domain.SessionCard {
	if in.Mode == domain.SessionModeReviewAll {
		return b.buildFree(in)
	}
	return b.buildDaily(in)
}

// buildFree picks up to FreeReviewLimit distinct studied sentences.
func (b *Builder) buildFree(in BuildInput) []domain.SessionCard {
	if len(in.History) == 0 {
		return []domain.SessionCard{}
	}

	records := distinctBySentence(in.History)
	b.shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	records = records[:min(b.cfg.FreeReviewLimit, len(records))]

	byID := indexPool(in.Pool)
	cards := make([]domain.SessionCard, 0, len(records))
	for i := range records {
		s, ok := byID[records[i].SentenceID]
		if !ok {
			continue
		}
		cards = append(cards, reviewCard(s, &records[i], domain.CardModeFree))
	}

	// Shuffle again after the join.
	b.shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards
}

// buildDaily serves the standard and bonus modes: due reviews first, then
// new cards up to the quota.
func (b *Builder) buildDaily(in BuildInput) []domain.SessionCard {
	if len(in.Pool) == 0 {
		return []domain.SessionCard{}
	}

	windows := Windows(in.Now)
	cardMode := in.Mode.CardMode()

	due := b.dueCards(in, windows, cardMode)
	fresh := b.newCards(in, b.quota(in.Mode, in.History, windows), cardMode)

	queue := make([]domain.SessionCard, 0, len(due)+len(fresh))
	queue = append(queue, due...)
	queue = append(queue, fresh...)
	return queue
}

func (b *Builder) dueCards(in BuildInput, w DailyWindows, mode domain.CardMode) []domain.SessionCard {
	byID := indexPool(in.Pool)

	var cards []domain.SessionCard
	for i := range in.History {
		rec := &in.History[i]
		if !rec.IsDue(w.ReviewCutoff) {
			continue
		}
		s, ok := byID[rec.SentenceID]
		if !ok {
			continue
		}
		cards = append(cards, reviewCard(s, rec, mode))
	}

	b.shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards
}

func (b *Builder) newCards(in BuildInput, quota int, mode domain.CardMode) []domain.SessionCard {
	if quota <= 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(in.History))
	for i := range in.History {
		seen[in.History[i].SentenceID] = struct{}{}
	}

	unseen := make([]domain.Sentence, 0, len(in.Pool))
	for _, s := range in.Pool {
		if _, ok := seen[s.ID]; !ok {
			unseen = append(unseen, s)
		}
	}

	slices.SortStableFunc(unseen, func(a, b domain.Sentence) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	unseen = unseen[:min(quota, len(unseen))]

	cards := make([]domain.SessionCard, 0, len(unseen))
	for _, s := range unseen {
		cards = append(cards, domain.SessionCard{
			Sentence: s,
			Type:     domain.CardTypeNew,
			Interval: 0,
			Mode:     mode,
		})
	}

	b.shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards
}

// quota returns how many new cards the session may introduce.
func (b *Builder) quota(mode domain.SessionMode, history []domain.ReviewRecord, w DailyWindows) int {
	if mode == domain.SessionModeBonus {
		return b.cfg.BonusQuota
	}
	return max(0, b.cfg.DailyGoal-studiedSince(history, w.VirtualDayStart))
}

func (b *Builder) shuffle(n int, swap func(i, j int)) {
	if b.rng == nil || n < 2 {
		return
	}
	b.mu.Lock()
	b.rng.Shuffle(n, swap)
	b.mu.Unlock()
}

// studiedSince counts records whose resolution time is at or after start.
func studiedSince(history []domain.ReviewRecord, start time.Time) int {
	n := 0
	for i := range history {
		if !history[i].ResolutionTime().Before(start) {
			n++
		}
	}
	return n
}

func reviewCard(s domain.Sentence, rec *domain.ReviewRecord, mode domain.CardMode) domain.SessionCard {
	id := rec.ID
	return domain.SessionCard{
		Sentence: s,
		Type:     domain.CardTypeReview,
		ReviewID: &id,
		Interval: rec.Interval,
		Mode:     mode,
	}
}

func indexPool(pool []domain.Sentence) map[uuid.UUID]domain.Sentence {
	m := make(map[uuid.UUID]domain.Sentence, len(pool))
	for _, s := range pool {
		m[s.ID] = s
	}
	return m
}

// distinctBySentence returns a copy of history with one record per sentence.
func distinctBySentence(history []domain.ReviewRecord) []domain.ReviewRecord {
	seen := make(map[uuid.UUID]struct{}, len(history))
	out := make([]domain.ReviewRecord, 0, len(history))
	for _, r := range history {
		if _, ok := seen[r.SentenceID]; ok {
			continue
		}
		seen[r.SentenceID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Summarize computes the dashboard counters with the same rules as Build
// for the standard mode.
func (b *Builder) Summarize(language string, history []domain.ReviewRecord, pool []domain.Sentence, now time.Time) domain.Dashboard {
	w := Windows(now)
	byID := indexPool(pool)

	due, seen := 0, 0
	for i := range history {
		if _, ok := byID[history[i].SentenceID]; !ok {
			continue
		}
		seen++
		if history[i].IsDue(w.ReviewCutoff) {
			due++
		}
	}

	unseen := len(pool) - seen
	return domain.Dashboard{
		LanguageCode: language,
		DueCount:     due,
		NewAvailable: min(b.quota(domain.SessionModeStandard, history, w), max(0, unseen)),
		StudiedToday: studiedSince(history, w.VirtualDayStart),
		SeenCards:    seen,
		TotalCards:   len(pool),
	}
}
