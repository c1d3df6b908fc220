package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
)

var (
	ErrInsufficientStock = errors.New("not enough stock")
	ErrProductNotFound   = errors.New("product not found")
)

type CartHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var items []models.CartItem
	if err := h.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// AddToCart reserves stock for the line. The decrement is a conditional
// UPDATE so two concurrent adds against the last unit cannot both pass the
// stock check.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var item models.CartItem
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", req.ProductID, req.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var p models.Product
			if err := tx.First(&p, req.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			return ErrInsufficientStock
		}

		item = models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		return tx.Create(&item).Error
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrProductNotFound):
			return echo.NewHTTPError(http.StatusNotFound, txErr.Error())
		case errors.Is(txErr, ErrInsufficientStock):
			return echo.NewHTTPError(http.StatusConflict, txErr.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
		}
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

// DeleteFromCart restores the reserved stock and removes the line.
func (h *CartHandler) DeleteFromCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
			return err
		}

		return tx.Delete(&item).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
}
