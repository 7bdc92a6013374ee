package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/checkout"
)

type OrderHandler struct {
	DB       *gorm.DB
	Checkout *checkout.Service
}

// CreateOrder converts a cart into an order (checkout).
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		CartID string `json:"cart_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart_id")
	}

	order, err := h.Checkout.PlaceOrder(c.Request().Context(), cartID, userID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrCartNotFound), errors.Is(err, checkout.ErrCartEmpty):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	q := h.DB.Preload("Items.Product").Order("id ASC")
	if !IsAdmin(c) {
		var cust models.Customer
		if err := h.DB.Where("user_id = ?", userID).First(&cust).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusOK, []models.Order{})
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		q = q.Where("customer_id = ?", cust.ID)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var order models.Order
	if err := h.DB.Preload("Items.Product").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !IsAdmin(c) {
		var cust models.Customer
		if err := h.DB.Where("user_id = ?", userID).First(&cust).Error; err != nil || cust.ID != order.CustomerID {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) PatchOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	switch req.PaymentStatus {
	case models.PaymentStatusPending, models.PaymentStatusComplete, models.PaymentStatusFailed:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Only the payment status may change; items are append-only.
	order.PaymentStatus = req.PaymentStatus
	if err := h.DB.Model(&order).Update("payment_status", req.PaymentStatus).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
