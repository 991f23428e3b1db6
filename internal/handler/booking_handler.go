package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edlawit/travel-booking-api/internal/dto"
	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateBooking)
	g.GET("", h.ListBookings)
	g.GET("/:id", h.GetBooking)
	g.PUT("/:id", h.UpdateBooking)
	g.DELETE("/:id", h.DeleteBooking)
	g.POST("/:id/cancel", h.CancelBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ListingID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "listing_id is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date and end_date are required")
	}

	booking := &models.Booking{
		ListingID: req.ListingID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.BookingStatus(req.Status),
	}

	if err := h.svc.CreateBooking(c.Request().Context(), booking); err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidDateRange):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	var listingID *uint
	if s := c.QueryParam("listing_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid listing_id")
		}
		id := uint(v)
		listingID = &id
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), listingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), uint(id), &models.Booking{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.BookingStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidDateRange):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	if err := h.svc.DeleteBooking(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
