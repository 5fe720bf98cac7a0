// Run HTTP handlers.
//
// This file exposes REST endpoints for link-run resources:
//   - POST  /runs        (create a run and synchronously execute the linking engine over it)
//   - GET   /runs        (list, paginated, ETag support)
//   - GET   /runs/{id}   (fetch one run with its results)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jlonij/dac/internal/domain"
	"github.com/jlonij/dac/internal/http/middleware"
	"github.com/jlonij/dac/internal/repo"
	"github.com/jlonij/dac/internal/services"
	"github.com/jlonij/dac/internal/utils"
)

//
// Service contracts (context-aware)
//

// RunService defines link-run lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RunService interface {
	// Create starts a new run for userID against articleURL, optionally
	// scoped to one requested mention text.
	Create(ctx context.Context, userID, articleURL, requestedText string) (*domain.LinkRun, error)
	// List returns all runs for a user (legacy, non-paginated).
	List(ctx context.Context, userID string) ([]domain.LinkRun, error)
	// ListPage returns a page of runs for a user and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.LinkRun, int64, error)
	// Get fetches a single run owned by userID.
	Get(ctx context.Context, userID, runID string) (*domain.LinkRun, error)
}

// LinkService defines the entity-linking pipeline operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type LinkService interface {
	// Run executes the linking engine over run and persists its results.
	Run(ctx context.Context, run *domain.LinkRun) ([]domain.MentionResult, error)
	// ListResults returns all mention results for a run (legacy, non-paginated).
	ListResults(ctx context.Context, runID string) ([]domain.MentionResult, error)
	// ListResultsPage returns a page of mention results for a run.
	ListResultsPage(ctx context.Context, runID string, page, pageSize int) ([]domain.MentionResult, int64, error)
}

// FeedbackService defines operations to capture user feedback on mention results.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type FeedbackService interface {
	// Leave submits a feedback value (-1 or 1) for mentionResultID by userID.
	Leave(ctx context.Context, userID, mentionResultID string, value int) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for runs, mention results, and feedback.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	runSvc  RunService
	linkSvc LinkService
	fbSvc   FeedbackService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(runSvc RunService, linkSvc LinkService, fbSvc FeedbackService) *Handlers {
	return &Handlers{runSvc: runSvc, linkSvc: linkSvc, fbSvc: fbSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateRunRequest is the JSON payload for creating and executing a run.
type CreateRunRequest struct {
	// ArticleURL identifies the article to resolve OCR/NER against; required.
	ArticleURL string `json:"article_url" binding:"required" example:"https://resolver.kb.nl/resolve?urn=ddd:1234:mpeg21:a0001"`
	// Mention optionally scopes linking to one specific mention text; when
	// empty every mention found in the article is linked.
	Mention string `json:"mention,omitempty" example:"Jan Jansen"`
}

// MentionResultView is the HTTP-facing projection of a domain.MentionResult.
type MentionResultView struct {
	Text   string   `json:"text"`
	Reason string   `json:"reason"`
	Prob   *float64 `json:"prob,omitempty"`
	Link   string   `json:"link,omitempty"`
	Label  string   `json:"label,omitempty"`
}

// RunOutput is the JSON envelope returned for a run: its terminal status plus
// the linked named entities produced by the engine.
type RunOutput struct {
	RunID     string              `json:"run_id"`
	Status    string              `json:"status"`
	Message   string              `json:"message,omitempty"`
	LinkedNEs []MentionResultView `json:"linkedNEs,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListRunsResponse wraps a page of runs and pagination information.
type ListRunsResponse struct {
	Runs       []domain.LinkRun `json:"runs"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// mentionResultViews converts persisted mention results into their
// HTTP-facing shape.
func mentionResultViews(rows []domain.MentionResult) []MentionResultView {
	out := make([]MentionResultView, 0, len(rows))
	for _, r := range rows {
		out = append(out, MentionResultView{
			Text:   r.Text,
			Reason: r.Reason,
			Prob:   r.Prob,
			Link:   r.Link,
			Label:  r.Label,
		})
	}
	return out
}

// runOutputFor builds the response envelope for run from its persisted
// mention results.
func runOutputFor(run *domain.LinkRun, results []domain.MentionResult) RunOutput {
	out := RunOutput{RunID: run.ID, Status: run.Status, Message: run.ErrorMessage}
	if run.Status == domain.RunStatusOK {
		out.LinkedNEs = mentionResultViews(results)
	}
	return out
}

// runServiceDB returns the underlying *gorm.DB when the wired RunService is
// the concrete *services.RunService, so handlers can reach the idempotency
// store directly. Returns nil for any other implementation (e.g. test doubles).
func runServiceDB(svc RunService) *gorm.DB {
	if s, ok := svc.(*services.RunService); ok {
		return s.DB
	}
	return nil
}

//
// Handlers
//

// CreateRun godoc
// @ID          createRun
// @Summary     Create and execute a link run
// @Description Resolves the article, runs the entity-linking engine synchronously, and returns its result.
// @Tags        Runs
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.CreateRunRequest  true  "Create run payload"
//
// @Success     201  {object}  handlers.RunOutput
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs [post]
func (h *Handlers) CreateRun(c *gin.Context) {
	ctx := c.Request.Context()
	currentUser := userID(c)

	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "article_url required")
		return
	}
	articleURL := strings.TrimSpace(req.ArticleURL)
	mention := strings.TrimSpace(req.Mention)

	idemKey, hasKey := middleware.GetIdempotencyKey(c)
	db := runServiceDB(h.runSvc)

	if hasKey && middleware.IsReplay(c) && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if run, err2 := h.runSvc.Get(ctx, currentUser, rec.RunID); err2 == nil {
				results, _ := h.linkSvc.ListResults(ctx, run.ID)
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, runOutputFor(run, results))
				return
			}
		}
	}

	run, err := h.runSvc.Create(ctx, currentUser, articleURL, mention)
	if err != nil {
		switch err {
		case services.ErrEmptyArticleURL:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "article_url required")
		case services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mention text too long")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	results, runErr := h.linkSvc.Run(ctx, run)
	if runErr != nil {
		if reloaded, gerr := h.runSvc.Get(ctx, currentUser, run.ID); gerr == nil {
			run = reloaded
		} else {
			run.Status = domain.RunStatusError
			run.ErrorMessage = runErr.Error()
		}
	}

	if hasKey && db != nil {
		_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemKey, run.ID, http.StatusCreated, 24*time.Hour)
	}

	ok(c, http.StatusCreated, runOutputFor(run, results))
}

// ListRuns godoc
// @ID          listRuns
// @Summary     List runs (paginated)
// @Description Returns a page of the user's runs. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Runs
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRunsResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /runs [get]
func (h *Handlers) ListRuns(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	if db := runServiceDB(h.runSvc); db != nil {
		count, maxTS, err := repo.RunsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"runs:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.runSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListRunsResponse{
		Runs: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetRun godoc
// @ID          getRun
// @Summary     Fetch a run
// @Description Returns one run owned by the current user, including its linking output.
// @Tags        Runs
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Run ID (UUID)"          format(uuid)
//
// @Success     200  {object}  handlers.RunOutput
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Run not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /runs/{id} [get]
func (h *Handlers) GetRun(c *gin.Context) {
	ctx := c.Request.Context()
	runID := c.Param("id")
	if _, err := uuid.Parse(runID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "run id must be a UUID")
		return
	}

	run, err := h.runSvc.Get(ctx, userID(c), runID)
	if err != nil {
		switch err {
		case services.ErrRunNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "run not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	results, err := h.linkSvc.ListResults(ctx, run.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, runOutputFor(run, results))
}
