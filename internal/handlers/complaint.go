package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
)

type ComplaintHandler struct {
	DB *gorm.DB
}

func (h *ComplaintHandler) CreateComplaint(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		OrderID uint   `json:"order_id"`
		Text    string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "complaint text is required")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	complaint := models.Complaint{
		UserID:  userID,
		OrderID: req.OrderID,
		Text:    req.Text,
	}
	if err := h.DB.Create(&complaint).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) GetMyComplaints(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var complaints []models.Complaint
	if err := h.DB.Where("user_id = ?", userID).Order("id ASC").Find(&complaints).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, complaints)
}

func (h *ComplaintHandler) GetComplaints(c echo.Context) error {
	var complaints []models.Complaint
	if err := h.DB.Order("id ASC").Find(&complaints).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, complaints)
}

// DeleteComplaint removes a complaint. Admins may delete any, users only
// their own.
func (h *ComplaintHandler) DeleteComplaint(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var complaint models.Complaint
	if err := h.DB.First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "complaint not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !IsAdmin(c) {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		if complaint.UserID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "not your complaint")
		}
	}

	if err := h.DB.Delete(&complaint).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
