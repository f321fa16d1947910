package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone database for minimal images
)

// Validate performs business-rule validation on the loaded configuration
// and fills the derived fields. Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %s)", c.Auth.AccessTokenTTL)
	}

	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}

	if c.Import.Concurrency < 1 {
		return fmt.Errorf("import.concurrency must be >= 1 (got %d)", c.Import.Concurrency)
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 1 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

func (s *StudyConfig) validate() error {
	if s.DailyGoal < 1 {
		return fmt.Errorf("daily_goal must be >= 1 (got %d)", s.DailyGoal)
	}
	if s.BonusQuota < 1 {
		return fmt.Errorf("bonus_quota must be >= 1 (got %d)", s.BonusQuota)
	}
	if s.FreeReviewLimit < 1 {
		return fmt.Errorf("free_review_limit must be >= 1 (got %d)", s.FreeReviewLimit)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0 (got %s)", s.SessionTTL)
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	s.Location = loc

	s.Languages = ParseLanguages(s.LanguagesRaw)
	if len(s.Languages) == 0 {
		return fmt.Errorf("languages must list at least one language code")
	}

	return nil
}
