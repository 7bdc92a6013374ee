package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
)

// Product images are stored as asset references (a path or URL);
// binary upload and storage live behind a CDN, not here.
type ProductImageHandler struct {
	DB *gorm.DB
}

func (h *ProductImageHandler) productID(c echo.Context) (uint, error) {
	id, err := parseIDParam(c, "product_id")
	if err != nil {
		return 0, err
	}
	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return 0, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return id, nil
}

func (h *ProductImageHandler) GetImages(c echo.Context) error {
	productID, err := h.productID(c)
	if err != nil {
		return err
	}

	var images []models.ProductImage
	if err := h.DB.Where("product_id = ?", productID).Order("id ASC").Find(&images).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, images)
}

func (h *ProductImageHandler) CreateImage(c echo.Context) error {
	productID, err := h.productID(c)
	if err != nil {
		return err
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image required")
	}

	image := models.ProductImage{ProductID: productID, Image: req.Image}
	if err := h.DB.Create(&image).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, image)
}

func (h *ProductImageHandler) DeleteImage(c echo.Context) error {
	productID, err := h.productID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.Where("id = ? AND product_id = ?", id, productID).Delete(&models.ProductImage{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	return c.NoContent(http.StatusNoContent)
}
