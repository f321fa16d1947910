// Package importer synchronizes the sentence sheet into the sentence store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/clozedeck-backend/internal/cloze"
	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

// minColumns is external_id, language, part_of_speech and at least one
// content column.
const minColumns = 4

type sentenceUpserter interface {
	UpsertByExternalID(ctx context.Context, s domain.SentenceUpsert) (bool, error)
}

type sourceOpener interface {
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

// Config holds import settings.
type Config struct {
	Source      string
	Concurrency int
	Languages   []string
	DryRun      bool
}

// Result counts the outcome of one import run.
type Result struct {
	Rows     int // data rows read, header excluded
	Synced   int // rows written (changed or unchanged)
	Changed  int // rows inserted or updated
	Skipped  int // malformed rows, unsupported languages and superseded duplicates
	Failed   int // rows rejected by the store
	Duration time.Duration
}

// Importer reads the sheet and upserts each row by its external id.
type Importer struct {
	log    *slog.Logger
	opener sourceOpener
	repo   sentenceUpserter
	cfg    Config
}

// New creates an Importer.
func New(log *slog.Logger, opener sourceOpener, repo sentenceUpserter, cfg Config) *Importer {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Importer{
		log:    log.With("component", "importer"),
		opener: opener,
		repo:   repo,
		cfg:    cfg,
	}
}

// Run imports the configured source. Rows the store rejects are counted
// and logged without aborting the run; a failure to read the source or a
// cancelled context aborts it.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	rc, err := im.opener.Open(ctx, im.cfg.Source)
	if err != nil {
		return Result{}, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	rows, result, err := ParseRows(rc, im.cfg.Languages)
	if err != nil {
		return result, fmt.Errorf("parse source: %w", err)
	}
	im.log.InfoContext(ctx, "sheet parsed",
		slog.Int("rows", result.Rows),
		slog.Int("valid", len(rows)),
		slog.Int("skipped", result.Skipped),
	)

	if im.cfg.DryRun {
		result.Duration = time.Since(start)
		return result, nil
	}

	var synced, changed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.cfg.Concurrency)

	for _, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := im.repo.UpsertByExternalID(gctx, row)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failed.Add(1)
				im.log.WarnContext(gctx, "row rejected",
					slog.String("external_id", row.ExternalID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			synced.Add(1)
			if ok {
				changed.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()

	result.Synced = int(synced.Load())
	result.Changed = int(changed.Load())
	result.Failed = int(failed.Load())
	result.Duration = time.Since(start)

	if err != nil {
		return result, fmt.Errorf("import: %w", err)
	}

	im.log.InfoContext(ctx, "import completed",
		slog.Int("synced", result.Synced),
		slog.Int("changed", result.Changed),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

// ParseRows reads the sheet CSV. The first line is a header. Each data row
// is external_id, language, part_of_speech, content...; content columns are
// rejoined with commas so unquoted commas inside a sentence survive.
// When an external id repeats, the last row wins and the earlier one counts
// as skipped. Result carries Rows and Skipped.
func ParseRows(r io.Reader, languages []string) ([]domain.SentenceUpsert, Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		out    []domain.SentenceUpsert
		index  = map[string]int{}
		result Result
		header = true
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, result, err
		}
		if header {
			header = false
			continue
		}
		if isBlank(record) {
			continue
		}
		result.Rows++

		s, ok := parseRecord(record, languages)
		if !ok {
			result.Skipped++
			continue
		}
		// A repeated external id replaces the earlier row in place.
		if i, dup := index[s.ExternalID]; dup {
			out[i] = s
			result.Skipped++
			continue
		}
		index[s.ExternalID] = len(out)
		out = append(out, s)
	}

	return out, result, nil
}

func parseRecord(record []string, languages []string) (domain.SentenceUpsert, bool) {
	if len(record) < minColumns {
		return domain.SentenceUpsert{}, false
	}

	externalID := strings.TrimSpace(record[0])
	lang := strings.ToLower(strings.TrimSpace(record[1]))
	content := strings.TrimSpace(strings.Join(record[3:], ","))
	if externalID == "" || lang == "" || content == "" {
		return domain.SentenceUpsert{}, false
	}
	if !slices.Contains(languages, lang) {
		return domain.SentenceUpsert{}, false
	}

	parsed := cloze.Parse(content)
	s := domain.SentenceUpsert{
		ExternalID:   externalID,
		LanguageCode: lang,
		RawContent:   content,
		DisplayText:  parsed.DisplayText,
		AnswerTarget: parsed.AnswerTarget,
		Hint:         parsed.Hint,
	}
	if pos := strings.TrimSpace(record[2]); pos != "" {
		s.PartOfSpeech = &pos
	}
	return s, true
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
