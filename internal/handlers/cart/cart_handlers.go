package cart

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/events"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	cartsvc "github.com/AbuzarGhazanfarKhan/storefront/internal/service/cart"
)

type CartHandler struct {
	Svc      *cartsvc.Service
	Producer events.Publisher
}

type itemResponse struct {
	models.CartItem
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newItemResponse(item models.CartItem) itemResponse {
	return itemResponse{CartItem: item, TotalPrice: cartsvc.ItemTotal(item)}
}

type cartResponse struct {
	models.Cart
	Items      []itemResponse  `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newCartResponse(cart models.Cart, items []models.CartItem) cartResponse {
	resp := cartResponse{
		Cart:       cart,
		Items:      make([]itemResponse, 0, len(items)),
		TotalPrice: cartsvc.CartTotal(items),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, newItemResponse(it))
	}
	return resp
}

func (h *CartHandler) CreateCart(c echo.Context) error {
	cart, err := h.Svc.CreateCart(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, cart.ID.String(), map[string]any{
		"type":    "cart_created",
		"cart_id": cart.ID,
	})
	return c.JSON(http.StatusCreated, newCartResponse(*cart, nil))
}

func (h *CartHandler) GetCart(c echo.Context) error {
	cartID, err := parseCartID(c, "id")
	if err != nil {
		return err
	}

	cart, items, err := h.Svc.GetCart(c.Request().Context(), cartID)
	if err != nil {
		if errors.Is(err, cartsvc.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, newCartResponse(*cart, items))
}

func (h *CartHandler) DeleteCart(c echo.Context) error {
	cartID, err := parseCartID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCart(c.Request().Context(), cartID); err != nil {
		if errors.Is(err, cartsvc.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, cartID.String(), map[string]any{
		"type":    "cart_deleted",
		"cart_id": cartID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetItems(c echo.Context) error {
	cartID, err := parseCartID(c, "cart_id")
	if err != nil {
		return err
	}

	items, err := h.Svc.ListItems(c.Request().Context(), cartID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]itemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, newItemResponse(it))
	}
	return c.JSON(http.StatusOK, resp)
}

// AddItem creates the (cart, product) row or bumps its quantity.
func (h *CartHandler) AddItem(c echo.Context) error {
	cartID, err := parseCartID(c, "cart_id")
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddItem(c.Request().Context(), cartID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cartsvc.ErrProductNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, cartsvc.ErrCartNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	h.publish(c, cartID.String(), map[string]any{
		"type":       "cart_item_added",
		"cart_id":    cartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
	return c.JSON(http.StatusOK, newItemResponse(*item))
}

func (h *CartHandler) PatchItem(c echo.Context) error {
	cartID, err := parseCartID(c, "cart_id")
	if err != nil {
		return err
	}
	itemID, err := parseItemID(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateItem(c.Request().Context(), cartID, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, cartsvc.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, cartID.String(), map[string]any{
		"type":     "cart_item_updated",
		"cart_id":  cartID,
		"item_id":  item.ID,
		"quantity": item.Quantity,
	})
	return c.JSON(http.StatusOK, newItemResponse(*item))
}

func (h *CartHandler) DeleteItem(c echo.Context) error {
	cartID, err := parseCartID(c, "cart_id")
	if err != nil {
		return err
	}
	itemID, err := parseItemID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveItem(c.Request().Context(), cartID, itemID); err != nil {
		if errors.Is(err, cartsvc.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, cartID.String(), map[string]any{
		"type":    "cart_item_deleted",
		"cart_id": cartID,
		"item_id": itemID,
	})
	return c.NoContent(http.StatusNoContent)
}
