package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/customer"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func (h *CustomerHandler) GetCustomers(c echo.Context) error {
	var customers []models.Customer
	if err := h.DB.Order("id ASC").Find(&customers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, customers)
}

// Me resolves (and lazily creates) the caller's customer profile.
func (h *CustomerHandler) Me(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	cust, err := customer.GetOrCreate(h.DB.WithContext(c.Request().Context()), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) UpdateMe(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	cust, err := customer.GetOrCreate(h.DB.WithContext(c.Request().Context()), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		Phone      string     `json:"phone"`
		BirthDate  *time.Time `json:"birth_date"`
		Membership string     `json:"membership"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Phone != "" {
		cust.Phone = req.Phone
	}
	if req.BirthDate != nil {
		cust.BirthDate = req.BirthDate
	}
	switch req.Membership {
	case "":
	case models.MembershipBronze, models.MembershipSilver, models.MembershipGold:
		cust.Membership = req.Membership
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid membership")
	}

	if err := h.DB.Save(cust).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cust)
}
