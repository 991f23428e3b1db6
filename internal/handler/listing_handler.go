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

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

func (h *ListingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateListing)
	g.GET("", h.ListListings)
	g.GET("/:id", h.GetListing)
	g.PUT("/:id", h.UpdateListing)
	g.DELETE("/:id", h.DeleteListing)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.StartLocation == "" || req.Destination == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start_location and destination are required")
	}

	listing := &models.Listing{
		StartLocation: req.StartLocation,
		Destination:   req.Destination,
		TotalPrice:    req.TotalPrice,
	}

	if err := h.svc.CreateListing(c.Request().Context(), listing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.svc.GetListing(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "listing not found")
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	listings, err := h.svc.ListListings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		resp[i] = dto.ToListingResponse(&l)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	listing, err := h.svc.UpdateListing(c.Request().Context(), uint(id), &models.Listing{
		StartLocation: req.StartLocation,
		Destination:   req.Destination,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	if err := h.svc.DeleteListing(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
