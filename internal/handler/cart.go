package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// maxParticipants bounds the participant count of one cart item so a single
// request cannot drain a unit.
const maxParticipants = 20

// CartHandler implements the customer cart endpoints.  Adding an item
// reserves capacity on the target inventory unit for the configured hold
// TTL; removing it or letting it expire releases the reservation; checkout
// converts the active items into a PENDING order.  All capacity mutations
// run inside a transaction through the inventory funnel.
type CartHandler struct {
	Products  *repository.ProductRepo
	Inventory *repository.InventoryRepo
	Carts     *repository.CartRepo
	Orders    *repository.OrderRepo
	HoldTTL   time.Duration
}

// NewCartHandler constructs a CartHandler with the provided repositories.
func NewCartHandler(products *repository.ProductRepo, inventory *repository.InventoryRepo, carts *repository.CartRepo, orders *repository.OrderRepo, holdTTL time.Duration) *CartHandler {
	if products == nil || inventory == nil || carts == nil || orders == nil {
		panic("nil repository passed to NewCartHandler")
	}
	if holdTTL <= 0 {
		holdTTL = 15 * time.Minute
	}
	return &CartHandler{Products: products, Inventory: inventory, Carts: carts, Orders: orders, HoldTTL: holdTTL}
}

type addItemReq struct {
	ProductID  uint64   `json:"product_id"`
	Date       string   `json:"date"`    // YYYY-MM-DD
	Variant    string   `json:"variant"` // optional, defaults to STANDARD
	Adults     uint32   `json:"adults"`
	Children   uint32   `json:"children"`
	Infants    uint32   `json:"infants"`
	OptionIDs  []uint64 `json:"option_ids"`
	RoundTrip  bool     `json:"round_trip"`
	PickupTime string   `json:"pickup_time"` // HH:MM, transfers only
}

type cartItemResp struct {
	ID        uint64   `json:"id"`
	ProductID uint64   `json:"product_id"`
	UnitID    uint64   `json:"unit_id"`
	Adults    uint32   `json:"adults"`
	Children  uint32   `json:"children"`
	Infants   uint32   `json:"infants"`
	Quantity  uint32   `json:"quantity"`
	RoundTrip bool     `json:"round_trip"`
	Price     string   `json:"price"`
	HoldToken string   `json:"hold_token"`
	ExpiresAt string   `json:"expires_at"`
	Expired   bool     `json:"expired"`
	OptionIDs []uint64 `json:"option_ids,omitempty"`
}

func toCartItemResp(it model.CartItem) cartItemResp {
	return cartItemResp{
		ID:        it.ID,
		ProductID: it.ProductID,
		UnitID:    it.UnitID,
		Adults:    it.Adults,
		Children:  it.Children,
		Infants:   it.Infants,
		Quantity:  it.Quantity,
		RoundTrip: it.RoundTrip,
		Price:     it.PriceSnapshot.StringFixed(2),
		HoldToken: it.HoldToken,
		ExpiresAt: it.ExpiresAt.UTC().Format(time.RFC3339),
		Expired:   !it.ExpiresAt.After(time.Now().UTC()),
		OptionIDs: it.OptionIDs,
	}
}

// AddItem handles POST /api/v1/cart/items.  It validates the request,
// rejects duplicate bookings, reserves capacity and stores the cart item
// with its hold token, all atomically.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid request body")
	}
	if req.ProductID == 0 {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "product_id is required")
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "date must be YYYY-MM-DD")
	}
	variant := req.Variant
	if variant == "" {
		variant = "STANDARD"
	}

	ctx := c.Request().Context()
	product, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "product not found")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load product")
	}
	if !product.IsActive {
		return jsonError(c, http.StatusNotFound, CodeNotFound, "product not found")
	}

	participants := booking.Participants{Adults: req.Adults, Children: req.Children, Infants: req.Infants}
	if product.Type == model.ProductCarRental {
		// A car rental books one vehicle; participants only ride along.
		if participants.Total() == 0 {
			participants.Adults = 1
		}
	} else {
		if participants.Adults == 0 {
			return jsonError(c, http.StatusBadRequest, CodeValidation, "at least one adult is required")
		}
	}
	if participants.Total() > maxParticipants {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "participant count exceeds limit")
	}
	if (req.RoundTrip || req.PickupTime != "") && product.Type != model.ProductTransfer {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "round_trip/pickup_time only apply to transfers")
	}

	options, err := h.Products.OptionsByIDs(ctx, product.ID, req.OptionIDs)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load options")
	}
	if len(options) != len(req.OptionIDs) {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "unknown or inactive option")
	}

	unit, err := h.Inventory.GetByProductDateVariant(ctx, product.ID, date, variant)
	if err != nil {
		if err == repository.ErrUnitNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "no availability for that date")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load availability")
	}

	quantity := participants.Seats()
	if product.Type == model.ProductCarRental {
		quantity = 1 // one vehicle per item
	}

	// Price quote: base -> surcharges -> options -> discounts.
	surcharge := decimal.Zero
	if product.Type == model.ProductTransfer && req.PickupTime != "" {
		surcharge = booking.TransferSurcharge(req.PickupTime, product.EarlySurcharge, product.NightSurcharge)
	}
	optionPrices := make([]decimal.Decimal, 0, len(options))
	optionIDs := make([]uint64, 0, len(options))
	for _, o := range options {
		optionPrices = append(optionPrices, o.Price)
		optionIDs = append(optionIDs, o.ID)
	}
	priced := participants
	if product.Type == model.ProductCarRental {
		// Car rentals are priced per vehicle, not per passenger.
		priced = booking.Participants{Adults: 1}
	}
	price := booking.Quote(booking.PriceInput{
		Base:            product.BasePrice,
		ChildFactor:     product.ChildFactor,
		InfantFactor:    product.InfantFactor,
		Participants:    priced,
		Surcharge:       surcharge,
		Options:         optionPrices,
		RoundTrip:       req.RoundTrip,
		RoundTripFactor: product.RoundTripFactor,
	})

	tx, err := h.Inventory.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	dup, err := h.Orders.HasActiveBookingTx(ctx, tx, userID, product.ID, date)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to check existing bookings")
	}
	if dup {
		return jsonError(c, http.StatusBadRequest, CodeDuplicateBooking, "an active booking for this product and date already exists")
	}

	if err := h.Inventory.ReserveTx(ctx, tx, unit.ID, quantity); err != nil {
		if err == booking.ErrInsufficientCapacity {
			return jsonError(c, http.StatusBadRequest, CodeInsufficientCapacity, "insufficient capacity")
		}
		if err == booking.ErrInvalidQuantity {
			return jsonError(c, http.StatusBadRequest, CodeValidation, "quantity must be positive")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to reserve capacity")
	}

	expiresAt := time.Now().UTC().Add(h.HoldTTL)
	item := &model.CartItem{
		UserID:        userID,
		ProductID:     product.ID,
		UnitID:        unit.ID,
		Adults:        participants.Adults,
		Children:      participants.Children,
		Infants:       participants.Infants,
		Quantity:      quantity,
		RoundTrip:     req.RoundTrip,
		PriceSnapshot: price,
		HoldToken:     uuid.NewString(),
		ExpiresAt:     expiresAt,
		OptionIDs:     optionIDs,
	}
	if req.PickupTime != "" {
		p := req.PickupTime
		item.PickupTime = &p
	}
	if err := h.Carts.CreateItemTx(ctx, tx, item); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to create cart item")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to commit transaction")
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"item": toCartItemResp(*item)})
}

// ListItems handles GET /api/v1/cart.  Expired items are reported with an
// expired flag until the sweeper removes them; they can no longer be
// checked out.
func (h *CartHandler) ListItems(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	items, err := h.Carts.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load cart")
	}
	out := make([]cartItemResp, 0, len(items))
	for _, it := range items {
		out = append(out, toCartItemResp(it))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// RemoveItem handles DELETE /api/v1/cart/items/:id.  It releases the
// reserved capacity and deletes the item in one transaction.  Releasing is
// clamped, so removing an item whose hold the sweeper already released is
// safe.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid item id")
	}
	ctx := c.Request().Context()
	tx, err := h.Inventory.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	item, err := h.Carts.GetForUserTx(ctx, tx, itemID, userID)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "cart item not found")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load cart item")
	}
	released, err := h.Inventory.ReleaseReservedTx(ctx, tx, item.UnitID, item.Quantity)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to release capacity")
	}
	if err := h.Carts.DeleteItemTx(ctx, tx, item.ID); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to delete cart item")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to commit transaction")
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// ExtendHold handles POST /api/v1/cart/items/:id/extend.  It restarts the
// hold TTL of a still-active item.  Expired items cannot be revived; their
// capacity may already be gone.
func (h *CartHandler) ExtendHold(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid item id")
	}
	ctx := c.Request().Context()
	tx, err := h.Inventory.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	item, err := h.Carts.GetForUserTx(ctx, tx, itemID, userID)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "cart item not found")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load cart item")
	}
	if !item.ExpiresAt.After(time.Now().UTC()) {
		return jsonError(c, http.StatusBadRequest, CodeHoldExpired, "hold has already expired")
	}
	item.ExpiresAt = time.Now().UTC().Add(h.HoldTTL)
	if err := h.Carts.ExtendHoldTx(ctx, tx, item.ID, item.ExpiresAt); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to extend hold")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to commit transaction")
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"item": toCartItemResp(item)})
}

// Checkout handles POST /api/v1/cart/checkout.  It converts all active cart
// items into a PENDING order.  The capacity stays reserved; it is the
// order's from this point on, so the sweeper no longer touches it.
func (h *CartHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
	}
	ctx := c.Request().Context()
	tx, err := h.Inventory.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	items, err := h.Carts.ActiveItemsByUserTx(ctx, tx, userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load cart")
	}
	if len(items) == 0 {
		return jsonError(c, http.StatusBadRequest, CodeHoldExpired, "no active cart items to check out")
	}

	// Re-run the duplicate guard per item: an order for the same product
	// and date may have been created since the item was added.
	for _, it := range items {
		dup, err := h.Orders.HasActiveBookingForUnitTx(ctx, tx, userID, it.ProductID, it.UnitID)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to check existing bookings")
		}
		if dup {
			return jsonError(c, http.StatusBadRequest, CodeDuplicateBooking, "an active booking for this product and date already exists")
		}
	}

	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		total = total.Add(it.PriceSnapshot)
		orderItems = append(orderItems, model.OrderItem{
			ProductID: it.ProductID,
			UnitID:    it.UnitID,
			Adults:    it.Adults,
			Children:  it.Children,
			Infants:   it.Infants,
			Quantity:  it.Quantity,
			Price:     it.PriceSnapshot,
		})
	}
	order := &model.Order{
		Reference:   uuid.NewString(),
		UserID:      userID,
		Status:      model.OrderPending,
		TotalAmount: total,
	}
	if err := h.Orders.CreateTx(ctx, tx, order, orderItems); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to create order")
	}
	// Only the checked-out items are removed.  Expired leftovers keep their
	// rows until the sweeper releases their reserved capacity.
	for _, it := range items {
		if err := h.Carts.DeleteItemTx(ctx, tx, it.ID); err != nil {
			return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to clear cart")
		}
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to commit transaction")
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"order_id":     order.ID,
		"reference":    order.Reference,
		"status":       order.Status,
		"total_amount": order.TotalAmount.StringFixed(2),
	})
}
