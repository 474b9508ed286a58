package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// AgentHandler implements the back-office order endpoints available to
// AGENT and ADMIN users.  Agents operate on any user's orders, so all
// transitions run with the ownership check disabled.
type AgentHandler struct {
	Orders    *repository.OrderRepo
	Inventory *repository.InventoryRepo
	Products  *repository.ProductRepo
}

// NewAgentHandler constructs an AgentHandler with the provided repositories.
func NewAgentHandler(orders *repository.OrderRepo, inventory *repository.InventoryRepo, products *repository.ProductRepo) *AgentHandler {
	if orders == nil || inventory == nil || products == nil {
		panic("nil repository passed to NewAgentHandler")
	}
	return &AgentHandler{Orders: orders, Inventory: inventory, Products: products}
}

// ListOrders handles GET /api/v1/agents/orders.  Optional query parameters:
// `status` filters by order status, `limit` caps the result (default 100).
func (h *AgentHandler) ListOrders(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" {
		switch status {
		case model.OrderPending, model.OrderConfirmed, model.OrderPaid, model.OrderCompleted, model.OrderCancelled:
		default:
			return jsonError(c, http.StatusBadRequest, CodeValidation, "unknown status")
		}
	}
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid limit")
		}
		limit = n
	}
	list, err := h.Orders.List(c.Request().Context(), status, limit)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load orders")
	}
	out := make([]orderResp, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResp(o, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetOrder handles GET /api/v1/agents/orders/:id including items.
func (h *AgentHandler) GetOrder(c echo.Context) error {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid order id")
	}
	ctx := c.Request().Context()
	o, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "order not found")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load order")
	}
	items, err := h.Orders.Items(ctx, o.ID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load order items")
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toOrderResp(o, items)})
}

func (h *AgentHandler) transition(c echo.Context, to string) error {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid order id")
	}
	ctx := c.Request().Context()
	o, items, err := transitionOrder(ctx, h.Inventory.DB(), h.Orders, h.Inventory, orderID, 0, to)
	if err != nil {
		return transitionError(c, err)
	}
	if to == model.OrderConfirmed || to == model.OrderPaid {
		publishOrderConfirmed(ctx, h.Products, h.Inventory, o, items)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toOrderResp(o, items)})
}

// Confirm handles POST /api/v1/agents/orders/:id/confirm, moving a PENDING
// order's capacity from reserved to booked.
func (h *AgentHandler) Confirm(c echo.Context) error {
	return h.transition(c, model.OrderConfirmed)
}

// MarkPaid handles POST /api/v1/agents/orders/:id/paid for offline payments
// recorded by staff.
func (h *AgentHandler) MarkPaid(c echo.Context) error {
	return h.transition(c, model.OrderPaid)
}

// Complete handles POST /api/v1/agents/orders/:id/complete after the service
// date has passed.
func (h *AgentHandler) Complete(c echo.Context) error {
	return h.transition(c, model.OrderCompleted)
}

// Cancel handles POST /api/v1/agents/orders/:id/cancel on behalf of any user.
func (h *AgentHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.OrderCancelled)
}
