package http

import (
	"errors"
	"net/http"
	"strings"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapitypes "github.com/oapi-codegen/runtime/types"
)

func pathID(c echo.Context) (kernel.UUID, error) {
	var id openapitypes.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return parseUUID("id", id.String())
}

// parseUUID reports malformed input as an invalid value of param.
func parseUUID(param, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil && !errors.Is(err, errs.ErrValueIsRequired) {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, err
}

func parseWorkHours(req WorkHoursRequest) (courier.WorkHours, error) {
	start, err := courier.ParseTimeOfDay(req.Start)
	if err != nil {
		return courier.WorkHours{}, err
	}
	end, err := courier.ParseTimeOfDay(req.End)
	if err != nil {
		return courier.WorkHours{}, err
	}
	return courier.NewWorkHours(start, end, req.Days)
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(c echo.Context) error {
	var req RegisterCourierRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	transport, err := courier.ParseTransportType(req.TransportType)
	if err != nil {
		return s.fail(c, err)
	}
	hours, err := parseWorkHours(req.WorkHours)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRegisterCourierCommand(
		req.Name, req.Phone, req.Email, transport, req.MaxDistanceKm, req.WorkZone, hours, req.PushToken,
	)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.RegisterCourier.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.CourierID().String()})
}

// GetCourier handles GET /api/v1/couriers/:id.
func (s *Server) GetCourier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetCourierQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.h.GetCourier.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newCourierResponse(view))
}

// GetFreeCouriers handles GET /api/v1/couriers/free?zone=. Without a zone
// every free courier is returned.
func (s *Server) GetFreeCouriers(c echo.Context) error {
	views, err := s.h.GetFreeCouriers.Handle(c.Request().Context(), queries.NewGetFreeCouriersQuery(c.QueryParam("zone")))
	if err != nil {
		return s.fail(c, err)
	}

	resp := make([]CourierResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newCourierResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// ActivateCourier handles POST /api/v1/couriers/:id/activate.
func (s *Server) ActivateCourier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewActivateCourierCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.ActivateCourier.Handle(c.Request().Context(), cmd) })
}

// DeactivateCourier handles POST /api/v1/couriers/:id/deactivate.
func (s *Server) DeactivateCourier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewDeactivateCourierCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.DeactivateCourier.Handle(c.Request().Context(), cmd) })
}

// ArchiveCourier handles DELETE /api/v1/couriers/:id.
func (s *Server) ArchiveCourier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewArchiveCourierCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.ArchiveCourier.Handle(c.Request().Context(), cmd) })
}

// UpdateContactInfo handles PATCH /api/v1/couriers/:id/contact.
func (s *Server) UpdateContactInfo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req UpdateContactInfoRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewUpdateCourierContactInfoCommand(id, req.Phone, req.Email, req.PushToken)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.UpdateContactInfo.Handle(c.Request().Context(), cmd) })
}

// UpdateWorkSchedule handles PATCH /api/v1/couriers/:id/schedule.
func (s *Server) UpdateWorkSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req UpdateWorkScheduleRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var hours *courier.WorkHours
	if req.WorkHours != nil {
		parsed, parseErr := parseWorkHours(*req.WorkHours)
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		hours = &parsed
	}
	if req.WorkZone != nil {
		zone := strings.TrimSpace(*req.WorkZone)
		req.WorkZone = &zone
	}

	cmd, err := commands.NewUpdateCourierWorkScheduleCommand(id, hours, req.WorkZone, req.MaxDistanceKm)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.UpdateWorkSchedule.Handle(c.Request().Context(), cmd) })
}

// ChangeTransportType handles PUT /api/v1/couriers/:id/transport.
func (s *Server) ChangeTransportType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ChangeTransportTypeRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	transport, err := courier.ParseTransportType(req.TransportType)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeCourierTransportTypeCommand(id, transport)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.ChangeTransportType.Handle(c.Request().Context(), cmd) })
}

// run executes a command that has no result, retrying version conflicts.
func (s *Server) run(c echo.Context, op func() error) error {
	if err := retryOnConflict(c.Request().Context(), op); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
