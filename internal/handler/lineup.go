package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/team-lineup/internal/formation"
	"github.com/iliyamo/team-lineup/internal/model"
	"github.com/iliyamo/team-lineup/internal/roster"
)

type formationReq struct {
	Formation string `json:"formation"`
}

type playerRef struct {
	PlayerID int64 `json:"player_id"`
}

type personRef struct {
	PersonID int64 `json:"person_id"`
}

type dropResp struct {
	Outcome roster.DropOutcome `json:"outcome"`
	Lineup  roster.Lineup      `json:"lineup"`
}

// GetLineup returns the active formation, slot assignments, bench, staff
// selection and available players.
func (h *LineupHandler) GetLineup(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// ListAvailable returns roster players on neither the field nor the bench.
func (h *LineupHandler) ListAvailable(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Available())
}

// SetFormation switches the active formation.
func (h *LineupHandler) SetFormation(c echo.Context) error {
	var req formationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Store.SetFormation(req.Formation); err != nil {
		if errors.Is(err, roster.ErrUnknownFormation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "formations": formation.Names()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set formation failed"})
	}
	h.emit(c, "formation", req.Formation)
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// AssignSlot places a roster player in the :slot position.
func (h *LineupHandler) AssignSlot(c echo.Context) error {
	slot := c.Param("slot")
	if !formation.IsSlot(slot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown slot"})
	}
	var req playerRef
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := h.Store.AssignFieldByID(slot, req.PlayerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
	}
	h.emit(c, "field", fmt.Sprintf("%s <- player %d", slot, p.ID))
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// ClearSlot marks the :slot position unassigned.
func (h *LineupHandler) ClearSlot(c echo.Context) error {
	slot := c.Param("slot")
	if !formation.IsSlot(slot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown slot"})
	}
	h.Store.AssignField(slot, nil)
	h.emit(c, "field_cleared", slot)
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// ClearField unassigns every slot.
func (h *LineupHandler) ClearField(c echo.Context) error {
	h.Store.ClearField()
	h.emit(c, "field_cleared", "all")
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// AddBench puts a roster player on the bench.
func (h *LineupHandler) AddBench(c echo.Context) error {
	var req playerRef
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := h.Store.AddToBenchByID(req.PlayerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "player not found"})
	}
	h.emit(c, "bench", fmt.Sprintf("player %d", p.ID))
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// RemoveBench takes the player named by :id off the bench.
func (h *LineupHandler) RemoveBench(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.Store.RemoveFromBench(id)
	h.emit(c, "bench_removed", fmt.Sprintf("player %d", id))
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// AddStaff selects a staff member, or a player, for the matchday staff.
func (h *LineupHandler) AddStaff(c echo.Context) error {
	var req personRef
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var person model.Person
	if st, ok := h.Store.StaffMember(req.PersonID); ok {
		person = st.Person
	} else if p, ok := h.Store.Player(req.PersonID); ok {
		person = p.Person
	} else {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
	}
	h.Store.AddSelectedStaff(person)
	h.emit(c, "staff", fmt.Sprintf("person %d", person.ID))
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// RemoveStaff drops the person named by :id from the staff selection.
func (h *LineupHandler) RemoveStaff(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.Store.RemoveSelectedStaff(id)
	h.emit(c, "staff_removed", fmt.Sprintf("person %d", id))
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// Drop applies a completed drag gesture.  Gestures that resolve to nothing
// return 200 with outcome "noop" and publish no event.
func (h *LineupHandler) Drop(c echo.Context) error {
	var req roster.DropResult
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	outcome, err := h.Store.Drop(ctx, req)
	if err != nil {
		return h.persistFailed(c, err)
	}
	if outcome != roster.DropNoop {
		h.emit(c, "drop_"+string(outcome), req.DraggableID)
	}
	return c.JSON(http.StatusOK, dropResp{Outcome: outcome, Lineup: h.Store.Snapshot()})
}
