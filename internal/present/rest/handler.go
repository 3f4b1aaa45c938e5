package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/yuitake/tana/internal/config"
	"github.com/yuitake/tana/internal/domain"
	"github.com/yuitake/tana/internal/present/rest/middleware"
	"github.com/yuitake/tana/internal/present/rest/presenter"
	"github.com/yuitake/tana/internal/service"
	"github.com/yuitake/tana/internal/usecase"
)

type Handler struct {
	conf      config.Server
	spotlight *usecase.SpotlightUsecase
	archive   *usecase.ArchiveUsecase
	signal    *service.SignalService
}

func NewHandler(
	conf config.Server,
	spotlight *usecase.SpotlightUsecase,
	archive *usecase.ArchiveUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		conf:      conf,
		spotlight: spotlight,
		archive:   archive,
		signal:    signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	admin := middleware.NewTokenAuth(h.conf.AdminToken)

	e.GET("/api/v1/spotlight/:category", h.handleCurrentSpotlight)
	e.GET("/api/v1/spotlight/:category/history", h.handleSpotlightHistory)
	e.POST("/api/v1/spotlight/:category", h.handleManualSpotlight, admin.RequireAdmin)

	e.GET("/api/v1/archive/:category", h.handleArchiveList)
	e.GET("/api/v1/archive/:category/:id", h.handleArchiveGet)
	e.POST("/api/v1/archive/:category", h.handleArchiveCreate, admin.RequireAdmin)
	e.PUT("/api/v1/archive/:category/:id", h.handleArchiveUpdate, admin.RequireAdmin)
	e.DELETE("/api/v1/archive/:category/:id", h.handleArchiveDelete, admin.RequireAdmin)

	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleCurrentSpotlight(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.Param("category")

	sp, err := h.spotlight.GetCurrent(ctx, category)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoContentAvailable):
			return presenter.NotFound(c, fmt.Sprintf("No content available for category: %s", category))
		case errors.Is(err, domain.ErrItemDetailsMissing):
			return presenter.NotFound(c, "featured item no longer exists")
		default:
			return presenter.InternalError(c, err)
		}
	}
	return presenter.OK(c, sp)
}

func (h *Handler) handleSpotlightHistory(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.Param("category")

	entries, err := h.spotlight.History(ctx, category)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, entries)
}

type manualSpotlightRequest struct {
	ItemID  string    `json:"itemId" validate:"required"`
	EndDate time.Time `json:"endDate" validate:"required"`
}

func (h *Handler) handleManualSpotlight(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.Param("category")

	var req manualSpotlightRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.spotlight.SetManual(ctx, category, req.ItemID, req.EndDate)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"id": id})
}

func (h *Handler) handleArchiveList(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := h.archive.Store(c.Param("category"))
	if err != nil {
		return presenter.NotFound(c, err.Error())
	}

	items, err := store.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, items)
}

func (h *Handler) handleArchiveGet(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := h.archive.Store(c.Param("category"))
	if err != nil {
		return presenter.NotFound(c, err.Error())
	}

	item, err := store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, item)
}

func (h *Handler) handleArchiveCreate(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := h.archive.Store(c.Param("category"))
	if err != nil {
		return presenter.NotFound(c, err.Error())
	}

	item := store.NewItem()
	if err := c.Bind(item); err != nil {
		return presenter.BadRequest(c, err)
	}
	if err := c.Validate(item); err != nil {
		return err
	}

	id, err := store.Create(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return presenter.Conflict(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"id": id})
}

func (h *Handler) handleArchiveUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := h.archive.Store(c.Param("category"))
	if err != nil {
		return presenter.NotFound(c, err.Error())
	}

	item := store.NewItem()
	if err := c.Bind(item); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := store.Update(ctx, c.Param("id"), item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleArchiveDelete(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := h.archive.Store(c.Param("category"))
	if err != nil {
		return presenter.NotFound(c, err.Error())
	}

	if err := store.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "realtime events are not configured")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events, stop := h.signal.SubscribeRotations(ctx)
	defer stop()

	quit := make(chan struct{})

	go func() {
		// Drain client frames so closes are noticed; inbound content is
		// ignored, the stream is one-way.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				}
				close(quit)
				return
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
