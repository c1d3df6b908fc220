package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
}

type orderView struct {
	models.Order
	Details []models.OrderDetail `json:"details"`
	Payment *models.Payment      `json:"payment,omitempty"`
}

func (h *OrderHandler) view(orders []models.Order) ([]orderView, error) {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		var details []models.OrderDetail
		if err := h.DB.Where("order_id = ?", o.ID).Find(&details).Error; err != nil {
			return nil, err
		}
		var payment models.Payment
		v := orderView{Order: o, Details: details}
		if err := h.DB.Where("order_id = ?", o.ID).First(&payment).Error; err == nil {
			v.Payment = &payment
		}
		views = append(views, v)
	}
	return views, nil
}

// GetMyOrders returns the caller's order history with details and payment.
func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Where("user_id = ?", userID).Order("id ASC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.view(orders)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	q := h.DB.Order("id ASC")
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.view(orders)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

// ConfirmOrder moves a pending order to CONFIRMED. There is no transition
// out of CONFIRMED.
func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if order.Status == models.OrderStatusConfirmed {
		return echo.NewHTTPError(http.StatusConflict, "order already confirmed")
	}

	order.Status = models.OrderStatusConfirmed
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_confirmed",
		"userID":  order.UserID,
		"orderID": order.ID,
	})
	return c.JSON(http.StatusOK, order)
}
