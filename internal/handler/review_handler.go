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

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateReview)
	g.GET("", h.ListReviews)
	g.GET("/:id", h.GetReview)
	g.PUT("/:id", h.UpdateReview)
	g.DELETE("/:id", h.DeleteReview)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req dto.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ListingID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "listing_id is required")
	}

	review := &models.Review{
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := h.svc.CreateReview(c.Request().Context(), review); err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRating):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToReviewResponse(review))
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	review, err := h.svc.GetReview(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "review not found")
	}

	return c.JSON(http.StatusOK, dto.ToReviewResponse(review))
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	var listingID *uint
	if s := c.QueryParam("listing_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid listing_id")
		}
		id := uint(v)
		listingID = &id
	}

	reviews, err := h.svc.ListReviews(c.Request().Context(), listingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = dto.ToReviewResponse(&r)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	var req dto.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	review, err := h.svc.UpdateReview(c.Request().Context(), uint(id), &models.Review{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRating):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToReviewResponse(review))
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	if err := h.svc.DeleteReview(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
