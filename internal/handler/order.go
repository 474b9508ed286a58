package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/queue"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
	queue_publisher "github.com/iliyamo/travel-booking-platform/internal/service"
)

// OrderHandler implements the customer-facing order endpoints.  Status
// transitions go through transitionOrder so the capacity side effects are
// identical whether a customer, an agent or the admin CLI moves the order.
type OrderHandler struct {
	Orders    *repository.OrderRepo
	Inventory *repository.InventoryRepo
	Products  *repository.ProductRepo
}

// NewOrderHandler constructs an OrderHandler with the provided repositories.
func NewOrderHandler(orders *repository.OrderRepo, inventory *repository.InventoryRepo, products *repository.ProductRepo) *OrderHandler {
	if orders == nil || inventory == nil || products == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Inventory: inventory, Products: products}
}

type orderItemResp struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"product_id"`
	UnitID    uint64 `json:"unit_id"`
	Adults    uint32 `json:"adults"`
	Children  uint32 `json:"children"`
	Infants   uint32 `json:"infants"`
	Quantity  uint32 `json:"quantity"`
	Price     string `json:"price"`
}

type orderResp struct {
	ID          uint64          `json:"id"`
	Reference   string          `json:"reference"`
	UserID      uint64          `json:"user_id,omitempty"`
	Status      string          `json:"status"`
	TotalAmount string          `json:"total_amount"`
	CreatedAt   string          `json:"created_at"`
	Items       []orderItemResp `json:"items,omitempty"`
}

func toOrderResp(o model.Order, items []model.OrderItem) orderResp {
	resp := orderResp{
		ID:          o.ID,
		Reference:   o.Reference,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.StringFixed(2),
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, orderItemResp{
			ID:        it.ID,
			ProductID: it.ProductID,
			UnitID:    it.UnitID,
			Adults:    it.Adults,
			Children:  it.Children,
			Infants:   it.Infants,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		})
	}
	return resp
}

// transitionOrder loads the order under a row lock, validates the status
// change and applies the matching capacity side effect through the inventory
// funnel, all in one transaction:
//
//	PENDING   -> CONFIRMED  confirm reserved capacity (reserved -> booked)
//	PENDING   -> PAID       confirm implicitly, then mark paid
//	CONFIRMED -> PAID       no capacity change
//	PAID      -> COMPLETED  no capacity change
//	active    -> CANCELLED  release reserved or booked, depending on status
//
// userID restricts ownership; pass 0 for agent/admin callers.  On success it
// returns the updated order and its items so callers can build responses or
// events without re-querying.
func transitionOrder(ctx context.Context, db *sql.DB, orders *repository.OrderRepo, inventory *repository.InventoryRepo, orderID, userID uint64, to string) (model.Order, []model.OrderItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o, err := orders.GetForUpdateTx(ctx, tx, orderID, userID)
	if err != nil {
		return model.Order{}, nil, err
	}
	if !booking.ValidTransition(o.Status, to) {
		return o, nil, booking.ErrInvalidTransition
	}
	items, err := orders.ItemsTx(ctx, tx, o.ID)
	if err != nil {
		return model.Order{}, nil, err
	}

	switch {
	case to == model.OrderCancelled:
		for _, it := range items {
			if booking.HoldsReserved(o.Status) {
				_, err = inventory.ReleaseReservedTx(ctx, tx, it.UnitID, it.Quantity)
			} else {
				_, err = inventory.ReleaseBookedTx(ctx, tx, it.UnitID, it.Quantity)
			}
			if err != nil {
				return model.Order{}, nil, err
			}
		}
	case o.Status == model.OrderPending && (to == model.OrderConfirmed || to == model.OrderPaid):
		for _, it := range items {
			if err := inventory.ConfirmTx(ctx, tx, it.UnitID, it.Quantity); err != nil {
				return model.Order{}, nil, err
			}
		}
	}

	if err := orders.UpdateStatusTx(ctx, tx, o.ID, to); err != nil {
		return model.Order{}, nil, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, nil, err
	}
	committed = true
	o.Status = to
	return o, items, nil
}

// publishOrderConfirmed builds and publishes the order.confirmed event.
// Publishing is best effort: a broker outage must not fail the request, so
// errors are logged inside the publisher and dropped here.
func publishOrderConfirmed(ctx context.Context, products *repository.ProductRepo, inventory *repository.InventoryRepo, o model.Order, items []model.OrderItem) {
	lines := make([]queue.OrderItemLine, 0, len(items))
	for _, it := range items {
		line := queue.OrderItemLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		}
		if p, err := products.GetByID(ctx, it.ProductID); err == nil {
			line.ProductName = p.Name
			line.ProductType = p.Type
		}
		if u, err := inventory.GetByID(ctx, it.UnitID); err == nil {
			line.UnitDate = u.UnitDate.Format("2006-01-02")
			line.Variant = u.Variant
		}
		lines = append(lines, line)
	}
	event := queue.OrderConfirmedEvent{
		OrderID:     o.ID,
		Reference:   o.Reference,
		UserID:      o.UserID,
		Items:       lines,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishOrderConfirmed(ctx, event); err != nil {
		log.Printf("order %d: publish confirmed event failed: %v", o.ID, err)
	}
}

// transitionError maps transition failures onto the API error envelope.
func transitionError(c echo.Context, err error) error {
	switch err {
	case repository.ErrOrderNotFound:
		return jsonError(c, http.StatusNotFound, CodeNotFound, "order not found")
	case repository.ErrForbidden:
		return jsonError(c, http.StatusForbidden, CodeForbidden, "order belongs to another user")
	case booking.ErrInvalidTransition:
		return jsonError(c, http.StatusConflict, CodeInvalidState, "order status does not allow this transition")
	case booking.ErrConfirmExceedsReserved:
		return jsonError(c, http.StatusConflict, CodeInvalidState, "reserved capacity does not cover this order")
	default:
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "order update failed")
	}
}

// List handles GET /api/v1/orders and returns the caller's orders, newest
// first.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	list, err := h.Orders.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load orders")
	}
	out := make([]orderResp, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResp(o, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /api/v1/orders/:id.  Orders of other users look like
// missing orders.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid order id")
	}
	ctx := c.Request().Context()
	o, err := h.Orders.GetByIDForUser(ctx, orderID, userID)
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

// Pay handles POST /api/v1/orders/:id/pay.  Paying a PENDING order confirms
// its reserved capacity in the same transaction; paying a CONFIRMED order
// only changes the status.  A confirmed-event is published either way.
func (h *OrderHandler) Pay(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid order id")
	}
	ctx := c.Request().Context()
	o, items, err := transitionOrder(ctx, h.Inventory.DB(), h.Orders, h.Inventory, orderID, userID, model.OrderPaid)
	if err != nil {
		return transitionError(c, err)
	}
	publishOrderConfirmed(ctx, h.Products, h.Inventory, o, items)
	return c.JSON(http.StatusOK, echo.Map{"item": toOrderResp(o, items)})
}

// Cancel handles POST /api/v1/orders/:id/cancel.  Cancelling releases the
// order's capacity back to the pool; releases are clamped so repeating the
// call cannot free more than was held.
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid order id")
	}
	o, items, err := transitionOrder(c.Request().Context(), h.Inventory.DB(), h.Orders, h.Inventory, orderID, userID, model.OrderCancelled)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toOrderResp(o, items)})
}
