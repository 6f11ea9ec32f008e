package traceapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/replay"
	"github.com/roach88/algotrace/internal/sorting"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
}

// Stream message types.
const (
	MessageSnapshot = "snapshot"
	MessageOutcome  = "outcome"
)

// StreamMessage is one websocket frame sent by /stream. Exactly one of
// Snapshot and Outcome is set.
type StreamMessage struct {
	Type     string           `json:"type"`
	RunID    string           `json:"run_id"`
	Index    int              `json:"index"`
	Snapshot *ir.SortSnapshot `json:"snapshot,omitempty"`
	Outcome  *ir.Outcome      `json:"outcome,omitempty"`
}

// Client actions on /stream.
const (
	ActionCancel  = "cancel"
	ActionRestart = "restart"
)

// StreamCommand is a client frame. Action is ActionCancel or ActionRestart.
type StreamCommand struct {
	Action string `json:"action"`
}

// parseNumbers parses "5,3,8,1".
func parseNumbers(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int64{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > MaxSortLength {
		return nil, fmt.Errorf("numbers: at most %d values", MaxSortLength)
	}
	out := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("numbers[%d]: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func (s *Service) streamDelay(raw string) (time.Duration, error) {
	if raw == "" {
		return s.delay, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("delay: %w", err)
	}
	if d < 0 || d > MaxStreamDelay {
		return 0, fmt.Errorf("delay: must be between 0 and %s", MaxStreamDelay)
	}
	return d, nil
}

// HandleSortStream serves GET /stream/sort/:algorithm?numbers=5,3,8,1&delay=10ms.
//
// The run is paced by delay and every snapshot is forwarded as it is
// recorded, followed by one outcome frame. The client may send
// {"action":"cancel"} or simply close the connection to cancel the run.
// {"action":"restart"} cancels the current run, streams its outcome and
// then streams a fresh run of the same numbers under a new run ID.
func HandleSortStream(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := apiTracer.Start(c.Request.Context(), "HandleSortStream",
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		alg, ok := parseServedSort(c.Param("algorithm"))
		if !ok {
			svc.metrics.ObserveError(ReasonInvalidAlgorithm)
			invalidAlgorithm(c)
			return
		}
		numbers, err := parseNumbers(c.Query("numbers"))
		if err != nil {
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}
		delay, err := svc.streamDelay(c.Query("delay"))
		if err != nil {
			svc.metrics.ObserveError(ReasonInvalidBody)
			badRequest(c, ReasonInvalidBody, err)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		svc.metrics.streamOpened()
		defer svc.metrics.streamClosed()

		closed := make(chan struct{})
		defer close(closed)
		cmds := make(chan StreamCommand)
		go readCommands(ws, cmds, closed)

		sess := &streamSession{svc: svc, ws: ws, alg: alg, numbers: numbers, delay: delay, cmds: cmds}
		defer sess.slot.Cancel(context.Background())

		h := svc.newSortHandle()
		span.SetAttributes(
			attribute.String("run.id", h.ID()),
			attribute.String("sort.algorithm", string(alg)),
			attribute.Int("sort.length", len(numbers)),
		)
		slog.Info("stream opened", "run_id", h.ID(), "algorithm", alg, "delay", delay)

		if err := sess.slot.Replace(ctx, h); err != nil {
			return
		}
		for h != nil {
			h = sess.run(ctx, h)
		}
		if sess.writeErr != nil {
			slog.Info("stream client went away", "error", sess.writeErr)
			return
		}
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
		slog.Info("stream closed", "runs", sess.runs)
	}
}

// streamSession is one websocket connection. Every run of the session
// sorts the same numbers; the slot guarantees a restarted run only starts
// once the run it replaces has stopped.
type streamSession struct {
	svc     *Service
	ws      *websocket.Conn
	alg     sorting.Algorithm
	numbers []int64
	delay   time.Duration
	slot    engine.Slot[ir.SortSnapshot]
	cmds    <-chan StreamCommand

	writeErr error
	runs     int
}

// run streams h until it is terminal and writes its outcome frame.
// Returns the handle installed by a restart command, or nil when the
// session is over.
func (s *streamSession) run(ctx context.Context, h *sorting.Handle) *sorting.Handle {
	s.runs++
	player := replay.New[ir.SortSnapshot](h,
		replay.WithPacer[ir.SortSnapshot](engine.NoDelay{}),
		replay.WithOnFrame[ir.SortSnapshot](func(i int, snap ir.SortSnapshot) {
			if s.writeErr != nil {
				return
			}
			s.writeErr = s.ws.WriteJSON(StreamMessage{Type: MessageSnapshot, RunID: h.ID(), Index: i, Snapshot: &snap})
			if s.writeErr != nil {
				h.Cancel()
			}
		}),
	)

	runDone := make(chan ir.Outcome, 1)
	go func() {
		out, err := sorting.Run(ctx, s.numbers, s.alg, h, sorting.WithPacer(engine.NewPacer(s.delay)))
		if err != nil {
			slog.Error("stream run failed to start", "run_id", h.ID(), "error", err)
			h.Cancel()
		}
		runDone <- out
	}()
	playDone := make(chan struct{})
	go func() {
		_ = player.Play(ctx, 0)
		close(playDone)
	}()

	var next *sorting.Handle
	for playing := true; playing; {
		select {
		case <-playDone:
			playing = false
		case cmd, ok := <-s.cmds:
			if !ok {
				// Client went away.
				s.cmds = nil
				h.Cancel()
				continue
			}
			switch cmd.Action {
			case ActionCancel:
				if cur := s.slot.Current(); cur != nil && cur.Cancel() {
					slog.Info("stream run cancelled by client", "run_id", cur.ID())
				}
			case ActionRestart:
				if next != nil {
					continue
				}
				next = s.svc.newSortHandle()
				if err := s.slot.Replace(ctx, next); err != nil {
					h.Cancel()
					next = nil
					continue
				}
				slog.Info("stream run restarted by client", "run_id", h.ID(), "next_run_id", next.ID())
			}
		}
	}

	out := <-runDone
	s.svc.finishSort(ctx, h, s.alg, s.numbers, out)
	if s.writeErr == nil {
		s.writeErr = s.ws.WriteJSON(StreamMessage{Type: MessageOutcome, RunID: h.ID(), Index: out.Steps, Outcome: &out})
	}
	if s.writeErr != nil || s.cmds == nil || next == nil || next.Cancelled() {
		return nil
	}
	return next
}

// readCommands forwards client frames to cmds until the client
// disconnects or the handler returns.
func readCommands(ws *websocket.Conn, cmds chan<- StreamCommand, closed <-chan struct{}) {
	defer close(cmds)
	for {
		var cmd StreamCommand
		if err := ws.ReadJSON(&cmd); err != nil {
			return
		}
		select {
		case cmds <- cmd:
		case <-closed:
			return
		}
	}
}
