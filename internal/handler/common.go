package handler // handler defines the HTTP handlers of the lineup API

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/team-lineup/internal/middleware"
	"github.com/iliyamo/team-lineup/internal/queue"
	"github.com/iliyamo/team-lineup/internal/roster"
)

// persistTimeout bounds a write-through to the slot store.
const persistTimeout = 5 * time.Second

// EventPublisher delivers lineup events.  service.AMQPPublisher and
// service.NopPublisher implement it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.LineupChangedEvent) error
}

// LineupHandler serves the roster, staff and lineup endpoints.
type LineupHandler struct {
	Store  *roster.Store
	Events EventPublisher
	Log    *zap.Logger
}

// NewLineupHandler wires a handler and panics if store is nil.  A nil events
// publisher drops events.
func NewLineupHandler(store *roster.Store, events EventPublisher, log *zap.Logger) *LineupHandler {
	if store == nil {
		panic("nil store passed to NewLineupHandler")
	}
	if events == nil {
		events = nopEvents{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LineupHandler{Store: store, Events: events, Log: log}
}

type nopEvents struct{}

func (nopEvents) Publish(context.Context, queue.LineupChangedEvent) error { return nil }

// pathID parses the named path parameter as a member id.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// actor returns the token subject of the caller, or "anon".
func actor(c echo.Context) string {
	if s, ok := c.Get(middleware.CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// emit publishes a lineup.changed event describing the current state.
// Publishing failures are logged and never fail the request.
func (h *LineupHandler) emit(c echo.Context, action, detail string) {
	snap := h.Store.Snapshot()
	ev := queue.NewLineupChangedEvent(action, actor(c))
	ev.Formation = snap.Formation
	ev.OnBench = len(snap.Bench)
	ev.Staff = len(snap.SelectedStaff)
	ev.Available = len(snap.Available)
	ev.Detail = detail
	for _, p := range snap.Field {
		if p != nil {
			ev.OnField++
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		middleware.LoggerFrom(c, h.Log).Warn("publish lineup event failed",
			zap.String("action", action), zap.Error(err))
	}
}

// persistFailed reports a write-through failure.  The in-memory change has
// already been applied and is kept.
func (h *LineupHandler) persistFailed(c echo.Context, err error) error {
	middleware.LoggerFrom(c, h.Log).Error("persist roster failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persist failed"})
}

// requestCtx derives the context used for store writes.
func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), persistTimeout)
}
