package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/edlawit/travel-booking-api/internal/dto"
	"github.com/edlawit/travel-booking-api/internal/gateway"
	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	svc             service.PaymentService
	defaultCurrency string
}

func NewPaymentHandler(svc service.PaymentService, defaultCurrency string) *PaymentHandler {
	return &PaymentHandler{svc: svc, defaultCurrency: defaultCurrency}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/pay", h.InitializePayment)
	g.GET("/verify_payment", h.VerifyPayment)
	g.GET("/payments", h.ListPayments)
	g.GET("/payments/:id", h.GetPayment)
}

func (h *PaymentHandler) InitializePayment(c echo.Context) error {
	var req dto.InitializePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.BookingID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "booking_id is required")
	}
	if !req.Amount.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	currency := req.Currency
	if currency == "" {
		currency = h.defaultCurrency
	}

	checkoutURL, err := h.svc.InitializePayment(c.Request().Context(), service.InitializePaymentInput{
		BookingID:   req.BookingID,
		Amount:      req.Amount,
		Currency:    currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		var initErr *gateway.InitializationError
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.As(err, &initErr):
			// The central error handler attaches the provider's detail payload.
			return err
		case errors.Is(err, gateway.ErrUnreachable):
			return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unreachable")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "payment initialization failed")
		}
	}

	return c.JSON(http.StatusCreated, dto.CheckoutResponse{CheckoutURL: checkoutURL})
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	txRef := c.QueryParam("trx_ref")
	if txRef == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "trx_ref is required")
	}

	status, err := h.svc.VerifyPayment(c.Request().Context(), txRef)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "transaction not found")
		case errors.Is(err, gateway.ErrUnreachable):
			return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unreachable")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "payment verification failed")
		}
	}

	return c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Message: verifyMessage(status),
		Status:  status,
	})
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}

	payment, err := h.svc.GetPayment(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "payment not found")
	}

	return c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	var bookingID *uint
	if s := c.QueryParam("booking_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid booking_id")
		}
		id := uint(v)
		bookingID = &id
	}

	payments, err := h.svc.ListPayments(c.Request().Context(), bookingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = dto.ToPaymentResponse(&p)
	}

	return c.JSON(http.StatusOK, resp)
}

func verifyMessage(status models.PaymentStatus) string {
	switch status {
	case models.PaymentSuccess:
		return "payment completed successfully"
	case models.PaymentDeclined:
		return "payment was declined"
	default:
		return fmt.Sprintf("payment is still %s", status)
	}
}
