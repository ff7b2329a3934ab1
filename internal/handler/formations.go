package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/team-lineup/internal/formation"
)

// ListFormations returns every formation template with its positions.
func ListFormations(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"default": formation.Default, "formations": formation.All()})
}

// GetFormation returns the positions of one template.
func GetFormation(c echo.Context) error {
	name := c.Param("name")
	positions, ok := formation.Lookup(name)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "formation not found"})
	}
	return c.JSON(http.StatusOK, formation.Formation{Name: name, Positions: positions})
}
