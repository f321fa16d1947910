package domain

// SessionMode selects how a session queue is assembled.
type SessionMode string

const (
	SessionModeStandard  SessionMode = "standard"
	SessionModeBonus     SessionMode = "bonus"
	SessionModeReviewAll SessionMode = "review_all"
)

func (m SessionMode) String() string { return string(m) }

func (m SessionMode) IsValid() bool {
	switch m {
	case SessionModeStandard, SessionModeBonus, SessionModeReviewAll:
		return true
	}
	return false
}

// CardMode returns the per-card mode tag for cards built in this session mode.
func (m SessionMode) CardMode() CardMode {
	if m == SessionModeReviewAll {
		return CardModeFree
	}
	return CardModeStandard
}

// CardType tells whether a session card was already studied.
type CardType string

const (
	CardTypeNew    CardType = "new"
	CardTypeReview CardType = "review"
)

func (t CardType) String() string { return string(t) }

func (t CardType) IsValid() bool {
	switch t {
	case CardTypeNew, CardTypeReview:
		return true
	}
	return false
}

// CardMode decides whether resolving a card is persisted.
// Free cards are practice only.
type CardMode string

const (
	CardModeStandard CardMode = "standard"
	CardModeFree     CardMode = "free"
)

func (m CardMode) String() string { return string(m) }

func (m CardMode) IsValid() bool {
	switch m {
	case CardModeStandard, CardModeFree:
		return true
	}
	return false
}
