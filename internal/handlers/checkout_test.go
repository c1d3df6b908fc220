package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
	"github.com/ooad/textile-shop/internal/service/checkout"
	"github.com/ooad/textile-shop/internal/storage"
)

func newCheckoutHandler(t *testing.T, env *testEnv) *CheckoutHandler {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return &CheckoutHandler{
		Service:  &checkout.Service{DB: env.DB, Receipts: files},
		Producer: mykafka.Nop{},
	}
}

func (env *testEnv) doCheckout(userID uint, withReceipt bool) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withReceipt {
		fw, err := w.CreateFormFile("receipt", "receipt.pdf")
		require.NoError(env.T, err)
		_, err = fw.Write([]byte("paid"))
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("userID", userID)
	c.Set("role", "user")
	return rec, c
}

func TestCheckoutHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newCheckoutHandler(t, env)

	require.NoError(t, env.DB.Create(&models.Product{Name: "linen shirt", Price: 25, StockQuantity: 3}).Error)
	require.NoError(t, env.DB.Create(&models.CartItem{UserID: 1, ProductID: 1, Quantity: 2}).Error)

	rec, c := env.doCheckout(1, true)
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res checkout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, models.OrderStatusPending, res.Order.Status)
	require.Equal(t, float64(50), res.Order.TotalAmount)
	require.Equal(t, float64(50), res.Payment.Amount)
	require.NotEmpty(t, res.Payment.ReceiptFile)
}

func TestCheckoutHandlerMissingReceipt(t *testing.T) {
	env := newTestEnv(t)
	h := newCheckoutHandler(t, env)

	require.NoError(t, env.DB.Create(&models.CartItem{UserID: 1, ProductID: 1, Quantity: 1}).Error)

	_, c := env.doCheckout(1, false)
	require.Equal(t, http.StatusBadRequest, httpCode(t, h.Checkout(c)))
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	h := newCheckoutHandler(t, env)

	_, c := env.doCheckout(1, true)
	require.Equal(t, http.StatusBadRequest, httpCode(t, h.Checkout(c)))
}
