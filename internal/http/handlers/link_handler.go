// Mention-result HTTP handlers.
//
// This file exposes:
//   - GET /runs/{id}/results   (list paginated mention results for a run)
//
// Handlers are transport-thin: they validate input, call application
// services, and implement conditional responses (ETag).
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jlonij/dac/internal/repo"
	"github.com/jlonij/dac/internal/services"
)

// ListResultsResponse contains a page of mention results and pagination metadata.
type ListResultsResponse struct {
	Results    []MentionResultView `json:"results"`
	Pagination Pagination          `json:"pagination"`
}

// ListResults godoc
// @ID          listResults
// @Summary     List mention results for a run
// @Description Returns a paginated list of mention results produced by a run.
// @Tags        Runs
// @Produce     json
//
// @Param       id         path   string  true  "Run ID (UUID)"   format(uuid)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListResultsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Run not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /runs/{id}/results [get]
func (h *Handlers) ListResults(c *gin.Context) {
	ctx := c.Request.Context()
	runID := c.Param("id")
	if _, err := uuid.Parse(runID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "run id must be a UUID")
		return
	}

	if _, err := h.runSvc.Get(ctx, userID(c), runID); err != nil {
		switch err {
		case services.ErrRunNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "run not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	if db := runServiceDB(h.runSvc); db != nil {
		count, maxTS, err := repo.MentionResultsStats(ctx, db, runID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"results:%s:%d:%d"`, runID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.linkSvc.ListResultsPage(ctx, runID, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListResultsResponse{
		Results: mentionResultViews(items),
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
