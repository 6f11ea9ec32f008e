package traceapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/sorting"
)

var apiTracer = otel.Tracer("algotrace.traceapi")

// MaxSortLength caps the number of values accepted by the sort routes.
const MaxSortLength = 4096

// SortRequest is the body of POST /sort/:algorithm.
type SortRequest struct {
	Numbers []int64 `json:"numbers" binding:"required,max=4096"`
}

// SortResponse is the success body of POST /sort/:algorithm.
//
// Result is the milestone history: the initial values followed by the full
// array after every outer pass, merge, partition or heap extraction.
// ResultsLength is the input length, so the history splits into
// len(Result)/ResultsLength frames.
type SortResponse struct {
	Status        string          `json:"status"`
	Result        []int64         `json:"result"`
	ArrayAccesses int64           `json:"array_accesses"`
	Duration      ir.WireDuration `json:"duration"`
	ResultsLength int             `json:"results_length"`
}

// servedSorts lists the algorithms of the HTTP twin. Bogo sort is CLI only.
func servedSorts() []sorting.Algorithm {
	var out []sorting.Algorithm
	for _, a := range sorting.Algorithms() {
		if !a.Probabilistic() {
			out = append(out, a)
		}
	}
	return out
}

func parseServedSort(name string) (sorting.Algorithm, bool) {
	alg, err := sorting.ParseAlgorithm(name)
	if err != nil || alg.Probabilistic() {
		return "", false
	}
	return alg, true
}

// HandleSortAlgorithms serves GET /sort/algorithms.
func HandleSortAlgorithms() gin.HandlerFunc {
	return func(c *gin.Context) {
		names := []string{}
		for _, a := range servedSorts() {
			names = append(names, a.DisplayName())
		}
		c.JSON(http.StatusOK, names)
	}
}

// HandleSort serves POST /sort/:algorithm.
func HandleSort(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := apiTracer.Start(c.Request.Context(), "HandleSort")
		defer span.End()

		name := c.Param("algorithm")
		span.SetAttributes(attribute.String("sort.algorithm", name))

		alg, ok := parseServedSort(name)
		if !ok {
			span.SetStatus(codes.Error, "invalid algorithm")
			svc.metrics.ObserveError(ReasonInvalidAlgorithm)
			invalidAlgorithm(c)
			return
		}

		var req SortRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid request body")
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}
		span.SetAttributes(attribute.Int("sort.length", len(req.Numbers)))

		h := svc.newSortHandle()
		out, err := sorting.Run(ctx, req.Numbers, alg, h)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("sort run failed to start", "run_id", h.ID(), "error", err)
			svc.metrics.ObserveError(ReasonInternal)
			c.JSON(http.StatusInternalServerError, errorBody(ReasonInternal))
			return
		}
		svc.finishSort(ctx, h, alg, req.Numbers, out)

		span.SetAttributes(
			attribute.String("run.id", h.ID()),
			attribute.Int("run.steps", out.Steps),
		)
		c.JSON(http.StatusOK, SortResponse{
			Status:        statusSuccess,
			Result:        sorting.History(h.Snapshots()),
			ArrayAccesses: out.Metrics.Accesses,
			Duration:      ir.NewWireDuration(out.Metrics.Elapsed),
			ResultsLength: len(req.Numbers),
		})
	}
}
