package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/catalog"
)

type CollectionHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Service
}

type collectionResponse struct {
	models.Collection
	ProductCount int64 `json:"product_count"`
}

func (h *CollectionHandler) productCounts() (map[uint]int64, error) {
	var rows []struct {
		CollectionID uint
		N            int64
	}
	err := h.DB.Model(&models.Product{}).
		Select("collection_id, count(*) as n").
		Group("collection_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CollectionID] = r.N
	}
	return counts, nil
}

func (h *CollectionHandler) GetCollections(c echo.Context) error {
	var collections []models.Collection
	if err := h.DB.Order("id ASC").Find(&collections).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	counts, err := h.productCounts()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]collectionResponse, 0, len(collections))
	for _, col := range collections {
		resp = append(resp, collectionResponse{Collection: col, ProductCount: counts[col.ID]})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CollectionHandler) GetCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var collection models.Collection
	if err := h.DB.First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "collection not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var count int64
	if err := h.DB.Model(&models.Product{}).Where("collection_id = ?", id).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, collectionResponse{Collection: collection, ProductCount: count})
}

func (h *CollectionHandler) CreateCollection(c echo.Context) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}

	collection := models.Collection{Title: req.Title}
	if err := h.DB.Create(&collection).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, collection)
}

func (h *CollectionHandler) PatchCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var collection models.Collection
	if err := h.DB.First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "collection not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title != "" {
		collection.Title = req.Title
	}

	if err := h.DB.Save(&collection).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, collection)
}

func (h *CollectionHandler) DeleteCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Catalog.DeleteCollection(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrCollectionNotEmpty):
			return conflictResponse(c, err)
		case errors.Is(err, catalog.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "collection not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.NoContent(http.StatusNoContent)
}
