package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// CatalogHandler serves the public, unauthenticated browse endpoints for all
// four product verticals plus per-product availability.  Responses are
// sanitized: capacity counters are never exposed directly, only the derived
// available quantity.
type CatalogHandler struct {
	Products  *repository.ProductRepo
	Inventory *repository.InventoryRepo
}

// NewCatalogHandler constructs a CatalogHandler with the provided repositories.
func NewCatalogHandler(products *repository.ProductRepo, inventory *repository.InventoryRepo) *CatalogHandler {
	if products == nil || inventory == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Products: products, Inventory: inventory}
}

type productResp struct {
	ID              uint64  `json:"id"`
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	BasePrice       string  `json:"base_price"`
	ChildFactor     string  `json:"child_factor"`
	InfantFactor    string  `json:"infant_factor"`
	EarlySurcharge  string  `json:"early_surcharge,omitempty"`
	NightSurcharge  string  `json:"night_surcharge,omitempty"`
	RoundTripFactor string  `json:"round_trip_factor,omitempty"`
}

type optionResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type availabilityResp struct {
	UnitID    uint64 `json:"unit_id"`
	Date      string `json:"date"`
	Variant   string `json:"variant"`
	Available uint32 `json:"available"`
}

func toProductResp(p model.Product) productResp {
	resp := productResp{
		ID:           p.ID,
		Type:         p.Type,
		Name:         p.Name,
		Description:  p.Description,
		BasePrice:    p.BasePrice.StringFixed(2),
		ChildFactor:  p.ChildFactor.String(),
		InfantFactor: p.InfantFactor.String(),
	}
	// Surcharge and round-trip fields only make sense for transfers.
	if p.Type == model.ProductTransfer {
		resp.EarlySurcharge = p.EarlySurcharge.StringFixed(2)
		resp.NightSurcharge = p.NightSurcharge.StringFixed(2)
		resp.RoundTripFactor = p.RoundTripFactor.String()
	}
	return resp
}

func (h *CatalogHandler) listByType(c echo.Context, productType string) error {
	products, err := h.Products.ListByType(c.Request().Context(), productType)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load products")
	}
	items := make([]productResp, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListTours handles GET /api/v1/tours.
func (h *CatalogHandler) ListTours(c echo.Context) error {
	return h.listByType(c, model.ProductTour)
}

// ListEvents handles GET /api/v1/events.
func (h *CatalogHandler) ListEvents(c echo.Context) error {
	return h.listByType(c, model.ProductEvent)
}

// ListTransfers handles GET /api/v1/transfers.
func (h *CatalogHandler) ListTransfers(c echo.Context) error {
	return h.listByType(c, model.ProductTransfer)
}

// ListCarRentals handles GET /api/v1/car-rentals.
func (h *CatalogHandler) ListCarRentals(c echo.Context) error {
	return h.listByType(c, model.ProductCarRental)
}

// GetProduct handles GET /api/v1/products/:id.  It returns the product with
// its active options.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid product id")
	}
	ctx := c.Request().Context()
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "product not found")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load product")
	}
	if !p.IsActive {
		return jsonError(c, http.StatusNotFound, CodeNotFound, "product not found")
	}
	options, err := h.Products.Options(ctx, id)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load options")
	}
	opts := make([]optionResp, 0, len(options))
	for _, o := range options {
		opts = append(opts, optionResp{ID: o.ID, Name: o.Name, Price: o.Price.StringFixed(2)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":    toProductResp(p),
		"options": opts,
	})
}

// GetAvailability handles GET /api/v1/products/:id/availability.  Query
// parameters `from` and `to` (YYYY-MM-DD) bound the window; `from` defaults
// to today and `to` to from+30d.
func (h *CatalogHandler) GetAvailability(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid product id")
	}
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if s := c.QueryParam("from"); s != "" {
		var ok bool
		if from, ok = parseDate(s); !ok {
			return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid from date")
		}
	}
	to := from.Add(30 * 24 * time.Hour)
	if s := c.QueryParam("to"); s != "" {
		var ok bool
		if to, ok = parseDate(s); !ok {
			return jsonError(c, http.StatusBadRequest, CodeValidation, "invalid to date")
		}
	}
	if to.Before(from) {
		return jsonError(c, http.StatusBadRequest, CodeValidation, "to must not be before from")
	}
	ctx := c.Request().Context()
	if _, err := h.Products.GetByID(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return jsonError(c, http.StatusNotFound, CodeNotFound, "product not found")
		}
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load product")
	}
	units, err := h.Inventory.ListByProduct(ctx, id, from, to)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, CodeInternal, "failed to load availability")
	}
	items := make([]availabilityResp, 0, len(units))
	for _, u := range units {
		items = append(items, availabilityResp{
			UnitID:    u.ID,
			Date:      u.UnitDate.Format("2006-01-02"),
			Variant:   u.Variant,
			Available: u.Available(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
