package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
)

type SupplierHandler struct {
	DB *gorm.DB
}

func (h *SupplierHandler) GetSuppliers(c echo.Context) error {
	var suppliers []models.Supplier
	if err := h.DB.Order("id DESC").Find(&suppliers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandler) CreateSupplier(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	supplier := models.Supplier{Name: req.Name, Contact: req.Contact, Address: req.Address}
	if err := h.DB.Create(&supplier).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) PatchSupplier(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var supplier models.Supplier
	if err := h.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "supplier not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	supplier.Name = req.Name
	supplier.Contact = req.Contact
	supplier.Address = req.Address
	if err := h.DB.Save(&supplier).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) DeleteSupplier(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var referenced int64
	if err := h.DB.Model(&models.Product{}).Where("supplier_id = ?", id).Count(&referenced).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if referenced > 0 {
		return echo.NewHTTPError(http.StatusConflict, "supplier still has products")
	}

	res := h.DB.Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "supplier not found")
	}
	return c.NoContent(http.StatusNoContent)
}
