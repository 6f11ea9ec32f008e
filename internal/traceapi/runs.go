package traceapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/roach88/algotrace/internal/store"
)

// RunsResponse is the body of GET /runs.
type RunsResponse struct {
	Status string      `json:"status"`
	Runs   []store.Run `json:"runs"`
}

// RunsQuery is the query string of GET /runs.
type RunsQuery struct {
	Kind      string `form:"kind" binding:"omitempty,oneof=sort search"`
	Algorithm string `form:"algorithm"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// HandleRuns serves GET /runs, newest first. Without a journal the list is
// empty.
func HandleRuns(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := apiTracer.Start(c.Request.Context(), "HandleRuns")
		defer span.End()

		var q RunsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			span.RecordError(err)
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}

		runs := []store.Run{}
		if svc.journal != nil {
			var err error
			runs, err = svc.journal.ListRuns(ctx, store.ListFilter{
				Kind:      store.Kind(q.Kind),
				Algorithm: q.Algorithm,
				Limit:     q.Limit,
			})
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				svc.metrics.ObserveError(ReasonInternal)
				c.JSON(http.StatusInternalServerError, errorBody(ReasonInternal))
				return
			}
		}
		c.Header("X-Run-Count", strconv.Itoa(len(runs)))
		c.JSON(http.StatusOK, RunsResponse{Status: statusSuccess, Runs: runs})
	}
}
