package http

import (
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// defaultHistoryWindow is the range used when from is omitted.
const defaultHistoryWindow = 24 * time.Hour

// SaveLocation handles POST /api/v1/couriers/:id/location. A missing
// timestamp means now.
func (s *Server) SaveLocation(c echo.Context) error {
	courierID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req SaveLocationRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	location, err := kernel.NewLocation(req.Latitude, req.Longitude, req.Accuracy, ts, req.Speed, req.Heading)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSaveLocationCommand(courierID, location)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.SaveLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, SaveLocationResponse{
		LocationID: result.LocationID.String(),
		UpdatedAt:  result.UpdatedAt,
	})
}

// GetCourierLocation handles GET /api/v1/couriers/:id/location. An unknown
// courier is reported with found=false, not 404.
func (s *Server) GetCourierLocation(c echo.Context) error {
	courierID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetCourierLocationQuery(courierID)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.h.GetCourierLocation.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newCourierLocationResponse(view))
}

// GetCourierLocations handles GET /api/v1/couriers/locations?ids=a,b,c.
func (s *Server) GetCourierLocations(c echo.Context) error {
	var raw []string
	for _, part := range strings.Split(c.QueryParam("ids"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			raw = append(raw, part)
		}
	}
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseUUID("ids", r)
		if err != nil {
			return s.fail(c, err)
		}
		ids = append(ids, id)
	}
	query, err := queries.NewGetCourierLocationsQuery(ids)
	if err != nil {
		return s.fail(c, err)
	}

	views, err := s.h.GetCourierLocations.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	resp := make([]CourierLocationResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newCourierLocationResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetLocationHistory handles
// GET /api/v1/couriers/:id/location/history?from=&to=&limit=&offset=.
// from and to are RFC 3339; they default to the last 24 hours.
func (s *Server) GetLocationHistory(c echo.Context) error {
	courierID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	end := time.Now()
	if raw := c.QueryParam("to"); raw != "" {
		if end, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return badRequest(c, "to must be an RFC 3339 timestamp")
		}
	}
	start := end.Add(-defaultHistoryWindow)
	if raw := c.QueryParam("from"); raw != "" {
		if start, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return badRequest(c, "from must be an RFC 3339 timestamp")
		}
	}
	period, err := kernel.NewTimeRange(start, end)
	if err != nil {
		return s.fail(c, err)
	}

	var limit, offset *int
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return badRequest(c, "limit must be an integer")
	}
	if err = runtime.BindQueryParameter("form", true, false, "offset", c.QueryParams(), &offset); err != nil {
		return badRequest(c, "offset must be an integer")
	}

	query, err := queries.NewGetLocationHistoryQuery(courierID, period, limit, offset)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.GetLocationHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, LocationHistoryResponse{
		CourierID:  courierID.String(),
		Entries:    newHistoryEntryResponses(result.Entries),
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	})
}
