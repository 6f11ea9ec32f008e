package traceapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
)

// SearchRequest is the body of POST /search/:algorithm. Rows use '.', '#',
// 'S' and 'E'.
type SearchRequest struct {
	Grid []string `json:"grid" binding:"required,min=1,max=64,dive,min=1,max=64"`
}

// MazeRequest is the body of POST /maze. Algorithm defaults to bfs.
type MazeRequest struct {
	Rows      int    `json:"rows" binding:"required,min=2,max=64"`
	Cols      int    `json:"cols" binding:"required,min=2,max=64"`
	Seed      int64  `json:"seed"`
	Algorithm string `json:"algorithm"`
}

// SearchResult is the outcome part of a search or maze response.
type SearchResult struct {
	Success      bool            `json:"success"`
	Reason       ir.Reason       `json:"reason,omitempty"`
	Path         []ir.Coord      `json:"path"`
	VisitedOrder []ir.Coord      `json:"visited_order"`
	Expanded     int64           `json:"expanded"`
	Steps        int             `json:"steps"`
	Duration     ir.WireDuration `json:"duration"`
}

// SearchResponse is the success body of POST /search/:algorithm.
type SearchResponse struct {
	Status string `json:"status"`
	SearchResult
}

// MazeResponse is the success body of POST /maze.
type MazeResponse struct {
	Status string   `json:"status"`
	Grid   []string `json:"grid"`
	SearchResult
}

func newSearchResult(out ir.Outcome) SearchResult {
	r := SearchResult{
		Success:      out.Success,
		Reason:       out.Reason,
		Path:         out.Path,
		VisitedOrder: out.VisitOrder,
		Expanded:     out.Metrics.Expanded,
		Steps:        out.Steps,
		Duration:     ir.NewWireDuration(out.Metrics.Elapsed),
	}
	if r.Path == nil {
		r.Path = []ir.Coord{}
	}
	if r.VisitedOrder == nil {
		r.VisitedOrder = []ir.Coord{}
	}
	return r
}

// HandleSearch serves POST /search/:algorithm.
func HandleSearch(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := apiTracer.Start(c.Request.Context(), "HandleSearch")
		defer span.End()

		name := c.Param("algorithm")
		span.SetAttributes(attribute.String("search.algorithm", name))

		alg, err := search.ParseAlgorithm(name)
		if err != nil {
			span.SetStatus(codes.Error, "invalid algorithm")
			svc.metrics.ObserveError(ReasonInvalidAlgorithm)
			invalidAlgorithm(c)
			return
		}

		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid request body")
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}

		g, err := grid.Parse(req.Grid)
		if err == nil {
			err = g.Validate()
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid grid")
			svc.metrics.ObserveError(ReasonInvalidGrid)
			badRequest(c, ReasonInvalidGrid, err)
			return
		}

		h := svc.newSearchHandle()
		out, err := search.RunGrid(ctx, g, alg, h)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if engine.IsConfigError(err) {
				svc.metrics.ObserveError(ReasonInvalidGrid)
				badRequest(c, ReasonInvalidGrid, err)
				return
			}
			slog.Error("search run failed to start", "run_id", h.ID(), "error", err)
			svc.metrics.ObserveError(ReasonInternal)
			c.JSON(http.StatusInternalServerError, errorBody(ReasonInternal))
			return
		}
		svc.finishSearch(ctx, h, alg, req.Grid, out)

		span.SetAttributes(
			attribute.String("run.id", h.ID()),
			attribute.Bool("search.success", out.Success),
		)
		c.JSON(http.StatusOK, SearchResponse{Status: statusSuccess, SearchResult: newSearchResult(out)})
	}
}

// HandleMaze serves POST /maze: generate with the given seed, then solve.
func HandleMaze(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := apiTracer.Start(c.Request.Context(), "HandleMaze")
		defer span.End()

		var req MazeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid request body")
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}

		alg := search.BFS
		if req.Algorithm != "" {
			parsed, err := search.ParseAlgorithm(req.Algorithm)
			if err != nil {
				svc.metrics.ObserveError(ReasonInvalidAlgorithm)
				invalidAlgorithm(c)
				return
			}
			alg = parsed
		}
		span.SetAttributes(
			attribute.Int("maze.rows", req.Rows),
			attribute.Int("maze.cols", req.Cols),
			attribute.Int64("maze.seed", req.Seed),
			attribute.String("search.algorithm", string(alg)),
		)

		start, end := search.DefaultEndpoints(req.Rows, req.Cols)
		g, err := search.GenerateMaze(req.Rows, req.Cols, start, end, search.SeededRand(req.Seed))
		if err != nil {
			span.RecordError(err)
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}

		lines := g.Lines()
		h := svc.newSearchHandle()
		out, err := search.Run(ctx, g, start, end, alg, h)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("maze solve failed to start", "run_id", h.ID(), "error", err)
			svc.metrics.ObserveError(ReasonInternal)
			c.JSON(http.StatusInternalServerError, errorBody(ReasonInternal))
			return
		}
		svc.finishSearch(ctx, h, alg, lines, out)

		c.JSON(http.StatusOK, MazeResponse{
			Status:       statusSuccess,
			Grid:         lines,
			SearchResult: newSearchResult(out),
		})
	}
}
