package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/model"
)

// GeographyReader lists the location lookup tables.
type GeographyReader interface {
	Countries(ctx context.Context) ([]model.Country, error)
	States(ctx context.Context, countryID *uint64) ([]model.State, error)
	Cities(ctx context.Context, stateID *uint64) ([]model.City, error)
}

type GeographyHandler struct {
	Geo GeographyReader
}

func NewGeographyHandler(geo GeographyReader) *GeographyHandler {
	if geo == nil {
		panic("nil geography reader passed to NewGeographyHandler")
	}
	return &GeographyHandler{Geo: geo}
}

type countryView struct {
	CountryID uint64 `json:"countryId"`
	Name      string `json:"name"`
}

type stateView struct {
	StateID   uint64 `json:"stateId"`
	CountryID uint64 `json:"countryId"`
	Name      string `json:"name"`
}

type cityView struct {
	CityID  uint64 `json:"cityId"`
	StateID uint64 `json:"stateId"`
	Name    string `json:"name"`
}

// Countries: GET /apis/countries
func (h *GeographyHandler) Countries(c echo.Context) error {
	rows, err := h.Geo.Countries(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("list countries")
		return fail(c, http.StatusInternalServerError, "Database error")
	}
	out := make([]countryView, 0, len(rows))
	for _, r := range rows {
		out = append(out, countryView{CountryID: r.ID, Name: r.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// States: GET /apis/states and /apis/states/:countryId
func (h *GeographyHandler) States(c echo.Context) error {
	countryID, ok := optionalID(c, "countryId")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid countryId")
	}
	rows, err := h.Geo.States(c.Request().Context(), countryID)
	if err != nil {
		log.Error().Err(err).Msg("list states")
		return fail(c, http.StatusInternalServerError, "Database error")
	}
	out := make([]stateView, 0, len(rows))
	for _, r := range rows {
		out = append(out, stateView{StateID: r.ID, CountryID: r.CountryID, Name: r.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// Cities: GET /apis/cities and /apis/cities/:stateId
func (h *GeographyHandler) Cities(c echo.Context) error {
	stateID, ok := optionalID(c, "stateId")
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid stateId")
	}
	rows, err := h.Geo.Cities(c.Request().Context(), stateID)
	if err != nil {
		log.Error().Err(err).Msg("list cities")
		return fail(c, http.StatusInternalServerError, "Database error")
	}
	out := make([]cityView, 0, len(rows))
	for _, r := range rows {
		out = append(out, cityView{CityID: r.ID, StateID: r.StateID, Name: r.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// optionalID parses an optional numeric path parameter.  ok is false only
// when the parameter is present but malformed.
func optionalID(c echo.Context, name string) (*uint64, bool) {
	raw := c.Param(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}
