package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/team-lineup/internal/model"
	"github.com/iliyamo/team-lineup/internal/roster"
)

// ListPlayers returns the roster in order.  ?q= filters by last name,
// case-insensitively.
func (h *LineupHandler) ListPlayers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Players(c.QueryParam("q")))
}

// CreateMember adds a player or staff member from the add-entity form.
// Missing required fields yield 400 with the list of field names.
func (h *LineupHandler) CreateMember(c echo.Context) error {
	var m model.Member
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	created, err := h.Store.AddMember(ctx, m)
	if err != nil {
		if resp, ok := invalidMember(err); ok {
			return c.JSON(http.StatusBadRequest, resp)
		}
		return h.persistFailed(c, err)
	}
	h.emit(c, "member_added", fmt.Sprintf("%s %d", created.Kind, created.Base().ID))
	return c.JSON(http.StatusCreated, created)
}

// invalidMember builds the 400 body for a validation failure.  Missing
// required fields are listed by name.
func invalidMember(err error) (echo.Map, bool) {
	var missing *model.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		return echo.Map{"error": model.ErrMissingFields.Error(), "fields": missing.Fields}, true
	case errors.Is(err, roster.ErrInvalidMember):
		return echo.Map{"error": err.Error()}, true
	}
	return nil, false
}

// ReplacePlayers overwrites the whole roster with the request body.
func (h *LineupHandler) ReplacePlayers(c echo.Context) error {
	var players []model.Player
	if err := c.Bind(&players); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Store.SetRoster(ctx, players); err != nil {
		return h.persistFailed(c, err)
	}
	h.emit(c, "roster_replaced", "")
	return c.JSON(http.StatusOK, h.Store.Players(""))
}

// UpdatePlayer replaces the roster entry named by :id.  The id in the body,
// if any, is ignored.  The body needs the same required fields as a new
// player.
func (h *LineupHandler) UpdatePlayer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var p model.Player
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p.ID = id
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Store.UpdatePlayer(ctx, p); err != nil {
		if errors.Is(err, roster.ErrPlayerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
		}
		if resp, ok := invalidMember(err); ok {
			return c.JSON(http.StatusBadRequest, resp)
		}
		return h.persistFailed(c, err)
	}
	h.emit(c, "player_updated", fmt.Sprintf("player %d", id))
	return c.JSON(http.StatusOK, p)
}

// DeletePlayer removes the roster entry named by :id and takes the player
// off the field and the bench.
func (h *LineupHandler) DeletePlayer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	removed, err := h.Store.DeletePlayer(ctx, id)
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
	}
	if err != nil {
		return h.persistFailed(c, err)
	}
	h.emit(c, "player_deleted", fmt.Sprintf("player %d", id))
	return c.NoContent(http.StatusNoContent)
}

type reorderReq struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ReorderPlayers moves the roster entry at index from to index to.
func (h *LineupHandler) ReorderPlayers(c echo.Context) error {
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	ok, err := h.Store.Reorder(ctx, req.From, req.To)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "index out of range"})
	}
	if err != nil {
		return h.persistFailed(c, err)
	}
	h.emit(c, "roster_reordered", fmt.Sprintf("%d -> %d", req.From, req.To))
	return c.JSON(http.StatusOK, h.Store.Players(""))
}

// ListStaff returns the staff list.
func (h *LineupHandler) ListStaff(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Staff())
}

// ReplaceStaff overwrites the staff list with the request body.
func (h *LineupHandler) ReplaceStaff(c echo.Context) error {
	var staff []model.Staff
	if err := c.Bind(&staff); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Store.SetStaffList(ctx, staff); err != nil {
		return h.persistFailed(c, err)
	}
	h.emit(c, "staff_replaced", "")
	return c.JSON(http.StatusOK, h.Store.Staff())
}
