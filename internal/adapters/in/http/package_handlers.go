package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

func parseAddress(req AddressRequest) (parcel.Address, error) {
	coords, err := kernel.NewCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		return parcel.Address{}, err
	}
	return parcel.NewAddress(req.Street, req.City, req.PostalCode, coords)
}

// AcceptOrder handles POST /api/v1/packages. The package enters the pool
// of its zone.
func (s *Server) AcceptOrder(c echo.Context) error {
	var req AcceptOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	orderID, err := parseUUID("order_id", req.OrderID)
	if err != nil {
		return s.fail(c, err)
	}
	customerID, err := parseUUID("customer_id", req.CustomerID)
	if err != nil {
		return s.fail(c, err)
	}
	pickup, err := parseAddress(req.Pickup)
	if err != nil {
		return s.fail(c, err)
	}
	delivery, err := parseAddress(req.Delivery)
	if err != nil {
		return s.fail(c, err)
	}
	period, err := parcel.NewDeliveryPeriod(req.DeliveryStart, req.DeliveryEnd)
	if err != nil {
		return s.fail(c, err)
	}
	priority := parcel.Normal
	if req.Priority != "" {
		if priority, err = parcel.ParsePriority(req.Priority); err != nil {
			return s.fail(c, err)
		}
	}

	cmd, err := commands.NewAcceptOrderCommand(commands.AcceptOrderDetails{
		OrderID:    orderID,
		CustomerID: customerID,
		Contact: parcel.Contact{
			CustomerPhone:  req.CustomerPhone,
			RecipientName:  req.RecipientName,
			RecipientPhone: req.RecipientPhone,
			RecipientEmail: req.RecipientEmail,
		},
		Pickup:         pickup,
		Delivery:       delivery,
		DeliveryPeriod: period,
		WeightKg:       req.WeightKg,
		Priority:       priority,
		Zone:           req.Zone,
	})
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.AcceptOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.PackageID().String()})
}

// GetPackage handles GET /api/v1/packages/:id.
func (s *Server) GetPackage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetPackageQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.h.GetPackage.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newPackageResponse(view))
}

// GetPackagePool handles GET /api/v1/packages/pool?zone=&limit=.
func (s *Server) GetPackagePool(c echo.Context) error {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return badRequest(c, "limit must be an integer")
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	query, err := queries.NewGetPackagePoolQuery(c.QueryParam("zone"), n)
	if err != nil {
		return s.fail(c, err)
	}

	views, err := s.h.GetPackagePool.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	resp := make([]PackageResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newPackageResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// AssignOrder handles POST /api/v1/packages/:id/assign. A body with a
// courier_id assigns manually; otherwise the dispatcher picks the courier.
func (s *Server) AssignOrder(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AssignOrderRequest
	if c.Request().ContentLength != 0 {
		if err = c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	var cmd commands.AssignOrderCommand
	if req.CourierID == "" {
		cmd, err = commands.NewAssignOrderCommand(packageID)
	} else {
		courierID, parseErr := parseUUID("courier_id", req.CourierID)
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		cmd, err = commands.NewManualAssignOrderCommand(packageID, courierID)
	}
	if err != nil {
		return s.fail(c, err)
	}

	var result commands.AssignOrderResult
	err = retryOnConflict(c.Request().Context(), func() error {
		var handleErr error
		result, handleErr = s.h.AssignOrder.Handle(c.Request().Context(), cmd)
		return handleErr
	})
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, AssignOrderResponse{
		PackageID:        result.PackageID.String(),
		CourierID:        result.CourierID.String(),
		DistanceKm:       result.DistanceKm,
		EstimatedMinutes: result.EstimatedMinutes,
		AssignedAt:       result.AssignedAt,
	})
}

// PickUpOrder handles POST /api/v1/packages/:id/pickup.
func (s *Server) PickUpOrder(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req PickUpOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	courierID, err := parseUUID("courier_id", req.CourierID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewPickUpOrderCommand(packageID, courierID)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.PickUpOrder.Handle(c.Request().Context(), cmd) })
}

// DeliverOrder handles POST /api/v1/packages/:id/deliver.
func (s *Server) DeliverOrder(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req DeliverOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	courierID, err := parseUUID("courier_id", req.CourierID)
	if err != nil {
		return s.fail(c, err)
	}
	outcome, err := commands.ParseDeliveryOutcome(req.Outcome)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewDeliverOrderCommand(packageID, courierID, outcome, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.DeliverOrder.Handle(c.Request().Context(), cmd) })
}

// ReturnToPool handles POST /api/v1/packages/:id/return.
func (s *Server) ReturnToPool(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewReturnToPoolCommand(packageID)
	if err != nil {
		return s.fail(c, err)
	}
	return s.run(c, func() error { return s.h.ReturnToPool.Handle(c.Request().Context(), cmd) })
}
