// Package services – LinkService
//
// This file implements LinkService, the application-level component that
// drives the entity-linking pipeline for a single run: it resolves the
// run's article into a linking.Context, runs the EntityLinker's cluster
// ranking and split control loop over it, persists one MentionResult row
// per emitted Result, and moves the owning run to its terminal status.
//
// Observability: the public method is OpenTelemetry-instrumented; spans
// include run/user identifiers and the number of results produced.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jlonij/dac/internal/clients"
	"github.com/jlonij/dac/internal/domain"
	"github.com/jlonij/dac/internal/linking"
	"github.com/jlonij/dac/internal/repo"
)

// LinkService orchestrates the entity-linking pipeline for a run: fetching
// the article's OCR/NER context, running the EntityLinker, and persisting
// one MentionResult per emitted linking.Result.
type LinkService struct {
	DB *gorm.DB

	OCR    *clients.OCRClient
	NER    *clients.NERClient
	SRU    *clients.SRUClient
	Linker *linking.EntityLinker
}

// Run executes the linking pipeline for the given run and persists its
// results. On success it moves the run to domain.RunStatusOK; on a pipeline
// failure (context acquisition or linking error) it records the error and
// moves the run to domain.RunStatusError, returning the error to the
// caller so callers may log or surface it.
func (s *LinkService) Run(ctx context.Context, run *domain.LinkRun) ([]domain.MentionResult, error) {
	tr := otel.Tracer("services/LinkService")
	ctx, span := tr.Start(ctx, "Run",
		trace.WithAttributes(
			attribute.String("run.id", run.ID),
			attribute.String("user.id", run.UserID),
		),
	)
	defer span.End()

	artCtx, err := linking.NewContext(ctx, run.ArticleURL, s.OCR, s.NER, s.SRU)
	if err != nil {
		s.fail(ctx, run, err)
		return nil, err
	}

	results, err := s.Linker.Link(ctx, artCtx, run.RequestedText)
	if err != nil {
		s.fail(ctx, run, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("results.count", len(results)))

	var stored []domain.MentionResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			featuresJSON, jerr := json.Marshal(r.Features)
			if jerr != nil {
				return fmt.Errorf("marshaling features for %q: %w", r.Text, jerr)
			}
			m, cerr := repo.CreateMentionResult(tx, run.ID, r.Text, r.Reason, r.Prob, r.Link, r.Label, string(featuresJSON))
			if cerr != nil {
				return cerr
			}
			stored = append(stored, *m)
		}
		return repo.UpdateRunStatus(ctx, tx, run.ID, run.UserID, domain.RunStatusOK, "")
	})
	if err != nil {
		s.fail(ctx, run, err)
		return nil, err
	}

	return stored, nil
}

// fail records err as the run's terminal error status. It deliberately
// ignores the status-update error: the original pipeline error is what
// matters to the caller, and a failed status update here would otherwise
// mask it.
func (s *LinkService) fail(ctx context.Context, run *domain.LinkRun, err error) {
	_ = repo.UpdateRunStatus(ctx, s.DB, run.ID, run.UserID, domain.RunStatusError, err.Error())
}

// ListResults returns all mention results for a run, ordered deterministically.
func (s *LinkService) ListResults(ctx context.Context, runID string) ([]domain.MentionResult, error) {
	return repo.ListMentionResults(s.DB.WithContext(ctx), runID, 0)
}

// ListResultsPage returns a paginated slice of mention results for a run.
func (s *LinkService) ListResultsPage(ctx context.Context, runID string, page, pageSize int) ([]domain.MentionResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountMentionResults(s.DB.WithContext(ctx), runID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.MentionResult{}, 0, nil
	}

	items, err := repo.ListMentionResultsPage(s.DB.WithContext(ctx), runID, offset, pageSize)
	return items, total, err
}
