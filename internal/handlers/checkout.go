package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ooad/textile-shop/internal/mykafka"
	"github.com/ooad/textile-shop/internal/service/checkout"
)

type CheckoutHandler struct {
	Service  *checkout.Service
	Producer mykafka.Publisher
}

// Checkout converts the caller's cart into an order. The only input is the
// multipart receipt; the amount is derived from the cart, never supplied.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("receipt")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, checkout.ErrReceiptRequired.Error())
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	res, err := h.Service.PlaceOrder(c.Request().Context(), userID, fh.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrReceiptRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrProductMissing):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": res.Order.ID,
		"total":   res.Order.TotalAmount,
	})
	return c.JSON(http.StatusCreated, res)
}
