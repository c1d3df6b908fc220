package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
	"github.com/ooad/textile-shop/internal/service/search"
	"github.com/ooad/textile-shop/internal/storage"
	"github.com/ooad/textile-shop/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
	ES       *elasticsearch.Client
	Index    string
	Files    *storage.FileStore
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := h.DB.Model(&models.Product{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// bindProductForm reads product fields from a multipart form (image upload
// optional) or a JSON body.
func (h *ProductHandler) bindProductForm(c echo.Context, prod *models.Product) error {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		prod.Name = c.FormValue("name")
		prod.Category = c.FormValue("category")
		prod.Description = c.FormValue("description")
		prod.Price, _ = strconv.ParseFloat(c.FormValue("price"), 64)
		prod.StockQuantity = parseIntDefault(c.FormValue("stock_quantity"), prod.StockQuantity)
		if supplierID := parseIntDefault(c.FormValue("supplier_id"), 0); supplierID > 0 {
			prod.SupplierID = uint(supplierID)
		}

		if fh, err := c.FormFile("image"); err == nil {
			src, err := fh.Open()
			if err != nil {
				return err
			}
			defer src.Close()
			stored, err := h.Files.SaveImage(fh.Filename, src)
			if err != nil {
				return err
			}
			prod.Image = stored
		}
		return nil
	}

	var req struct {
		Name          string  `json:"name"`
		Category      string  `json:"category"`
		Description   string  `json:"description"`
		Price         float64 `json:"price"`
		StockQuantity int     `json:"stock_quantity"`
		SupplierID    uint    `json:"supplier_id"`
	}
	if err := c.Bind(&req); err != nil {
		return err
	}
	prod.Name = req.Name
	prod.Category = req.Category
	prod.Description = req.Description
	prod.Price = req.Price
	prod.StockQuantity = req.StockQuantity
	if req.SupplierID != 0 {
		prod.SupplierID = req.SupplierID
	}
	return nil
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var prod models.Product
	if err := h.bindProductForm(c, &prod); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if prod.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if prod.Price < 0 || prod.StockQuantity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price and stock must be non-negative")
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, prod)
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.bindProductForm(c, &prod); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, prod)
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if h.ES != nil {
		if err := search.DeleteProduct(c.Request().Context(), h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, prod); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}
