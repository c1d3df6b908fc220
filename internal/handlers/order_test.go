package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
)

func TestConfirmOrder(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB, Producer: mykafka.Nop{}}

	order := models.Order{UserID: 1, Status: models.OrderStatusPending, TotalAmount: 35}
	require.NoError(t, env.DB.Create(&order).Error)

	rec, c := env.doJSON(http.MethodPost, "/admin/orders/1/confirm", nil, 2, "admin")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.ConfirmOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var saved models.Order
	require.NoError(t, env.DB.First(&saved, order.ID).Error)
	require.Equal(t, models.OrderStatusConfirmed, saved.Status)
}

func TestConfirmOrderAlreadyConfirmed(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB, Producer: mykafka.Nop{}}

	order := models.Order{UserID: 1, Status: models.OrderStatusConfirmed, TotalAmount: 10}
	require.NoError(t, env.DB.Create(&order).Error)

	_, c := env.doJSON(http.MethodPost, "/admin/orders/1/confirm", nil, 2, "admin")
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.ConfirmOrder(c)
	require.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestConfirmOrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB, Producer: mykafka.Nop{}}

	_, c := env.doJSON(http.MethodPost, "/admin/orders/42/confirm", nil, 2, "admin")
	c.SetParamNames("id")
	c.SetParamValues("42")
	err := h.ConfirmOrder(c)
	require.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestGetMyOrdersScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB, Producer: mykafka.Nop{}}

	mine := models.Order{UserID: 1, Status: models.OrderStatusPending, TotalAmount: 20}
	theirs := models.Order{UserID: 2, Status: models.OrderStatusPending, TotalAmount: 99}
	require.NoError(t, env.DB.Create(&mine).Error)
	require.NoError(t, env.DB.Create(&theirs).Error)
	require.NoError(t, env.DB.Create(&models.OrderDetail{OrderID: mine.ID, ProductID: 1, Quantity: 2, Price: 20}).Error)
	require.NoError(t, env.DB.Create(&models.Payment{OrderID: mine.ID, Amount: 20}).Error)

	rec, c := env.doJSON(http.MethodGet, "/orders/my", nil, 1, "user")
	require.NoError(t, h.GetMyOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []struct {
		ID      uint                 `json:"id"`
		Details []models.OrderDetail `json:"details"`
		Payment *models.Payment      `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, mine.ID, views[0].ID)
	require.Len(t, views[0].Details, 1)
	require.NotNil(t, views[0].Payment)
	require.Equal(t, float64(20), views[0].Payment.Amount)
}

func TestGetOrdersStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB, Producer: mykafka.Nop{}}

	require.NoError(t, env.DB.Create(&models.Order{UserID: 1, Status: models.OrderStatusPending}).Error)
	require.NoError(t, env.DB.Create(&models.Order{UserID: 1, Status: models.OrderStatusConfirmed}).Error)

	rec, c := env.doJSON(http.MethodGet, "/admin/orders?status=PENDING", nil, 2, "admin")
	require.NoError(t, h.GetOrders(c))

	var views []struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, models.OrderStatusPending, views[0].Status)
}
