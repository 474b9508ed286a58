// Command admin is the back-office CLI: it seeds demo data, creates ADMIN
// accounts (which the public API never does) and applies bulk order
// transitions.  It talks to the same repositories as the server, so every
// capacity change goes through the inventory funnel.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
	"github.com/iliyamo/travel-booking-platform/internal/config"
	"github.com/iliyamo/travel-booking-platform/internal/database"
	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  admin seed
  admin create-admin <email> <password>
  admin orders list [-status STATUS] [-limit N]
  admin orders confirm|paid|complete|cancel <order-id> [order-id...]`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
	}
	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	switch os.Args[1] {
	case "seed":
		if err := seed(ctx, db, cfg); err != nil {
			log.Fatalf("seed: %v", err)
		}
	case "create-admin":
		if len(os.Args) != 4 {
			usage()
		}
		users := repository.NewUserRepo(db)
		id, err := users.Create(ctx, os.Args[2], os.Args[3], "ADMIN", cfg.BcryptCost)
		if err != nil {
			log.Fatalf("create-admin: %v", err)
		}
		fmt.Printf("admin user %d created\n", id)
	case "orders":
		if len(os.Args) < 3 {
			usage()
		}
		ordersCmd(ctx, db, os.Args[2], os.Args[3:])
	default:
		usage()
	}
}

func ordersCmd(ctx context.Context, db *sql.DB, sub string, args []string) {
	orders := repository.NewOrderRepo(db)
	inventory := repository.NewInventoryRepo(db)

	switch sub {
	case "list":
		fs := flag.NewFlagSet("orders list", flag.ExitOnError)
		status := fs.String("status", "", "filter by order status")
		limit := fs.Int("limit", 100, "maximum rows")
		_ = fs.Parse(args)
		list, err := orders.List(ctx, *status, *limit)
		if err != nil {
			log.Fatalf("orders list: %v", err)
		}
		for _, o := range list {
			fmt.Printf("%d\t%s\t%s\tuser=%d\ttotal=%s\t%s\n",
				o.ID, o.Reference, o.Status, o.UserID,
				o.TotalAmount.StringFixed(2), o.CreatedAt.UTC().Format(time.RFC3339))
		}
	case "confirm", "paid", "complete", "cancel":
		target := map[string]string{
			"confirm":  model.OrderConfirmed,
			"paid":     model.OrderPaid,
			"complete": model.OrderCompleted,
			"cancel":   model.OrderCancelled,
		}[sub]
		if len(args) == 0 {
			usage()
		}
		for _, arg := range args {
			id, err := strconv.ParseUint(arg, 10, 64)
			if err != nil || id == 0 {
				log.Fatalf("invalid order id %q", arg)
			}
			if err := transition(ctx, db, orders, inventory, id, target); err != nil {
				log.Fatalf("order %d -> %s: %v", id, target, err)
			}
			fmt.Printf("order %d -> %s\n", id, target)
		}
	default:
		usage()
	}
}

// transition applies one order status change with its capacity side effect,
// mirroring the server: confirming moves reserved to booked, cancelling
// releases whichever counter the status holds.
func transition(ctx context.Context, db *sql.DB, orders *repository.OrderRepo, inventory *repository.InventoryRepo, orderID uint64, to string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o, err := orders.GetForUpdateTx(ctx, tx, orderID, 0)
	if err != nil {
		return err
	}
	if !booking.ValidTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", booking.ErrInvalidTransition, o.Status, to)
	}
	items, err := orders.ItemsTx(ctx, tx, o.ID)
	if err != nil {
		return err
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
				return err
			}
		}
	case o.Status == model.OrderPending && (to == model.OrderConfirmed || to == model.OrderPaid):
		for _, it := range items {
			if err := inventory.ConfirmTx(ctx, tx, it.UnitID, it.Quantity); err != nil {
				return err
			}
		}
	}
	if err := orders.UpdateStatusTx(ctx, tx, o.ID, to); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// seed creates demo users, one product per vertical with options and two
// weeks of inventory.  It is idempotent only at the database level: running
// it twice creates duplicate products, so use it on empty databases.
func seed(ctx context.Context, db *sql.DB, cfg config.Config) error {
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	inventory := repository.NewInventoryRepo(db)

	seedUsers := []struct{ email, password, role string }{
		{"admin@example.com", "admin123", "ADMIN"},
		{"agent@example.com", "agent123", "AGENT"},
		{"customer@example.com", "customer123", "CUSTOMER"},
	}
	for _, u := range seedUsers {
		id, err := users.Create(ctx, u.email, u.password, u.role, cfg.BcryptCost)
		if err == repository.ErrEmailExists {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("user %d %s (%s)\n", id, u.email, u.role)
	}

	type seedProduct struct {
		product  model.Product
		options  []model.ProductOption
		capacity uint32
	}
	catalog := []seedProduct{
		{
			product: model.Product{
				Type: model.ProductTour, Name: "Old Town Walking Tour",
				Description: strPtr("Three-hour guided walk through the historic center."),
				BasePrice:   dec("45.00"), ChildFactor: dec("0.5"), InfantFactor: dec("0"),
				EarlySurcharge: dec("0"), NightSurcharge: dec("0"), RoundTripFactor: dec("1"),
				IsActive: true,
			},
			options: []model.ProductOption{
				{Name: "Lunch", Price: dec("12.00"), IsActive: true},
				{Name: "Audio Guide", Price: dec("5.00"), IsActive: true},
			},
			capacity: 20,
		},
		{
			product: model.Product{
				Type: model.ProductEvent, Name: "Flamenco Night",
				Description: strPtr("Evening flamenco show with one drink included."),
				BasePrice:   dec("60.00"), ChildFactor: dec("0.7"), InfantFactor: dec("0"),
				EarlySurcharge: dec("0"), NightSurcharge: dec("0"), RoundTripFactor: dec("1"),
				IsActive: true,
			},
			capacity: 120,
		},
		{
			product: model.Product{
				Type: model.ProductTransfer, Name: "Airport Transfer",
				Description: strPtr("Private door-to-door airport transfer."),
				BasePrice:   dec("25.00"), ChildFactor: dec("1"), InfantFactor: dec("0"),
				EarlySurcharge: dec("5.00"), NightSurcharge: dec("8.00"), RoundTripFactor: dec("0.9"),
				IsActive: true,
			},
			options: []model.ProductOption{
				{Name: "Child Seat", Price: dec("7.00"), IsActive: true},
			},
			capacity: 8,
		},
		{
			product: model.Product{
				Type: model.ProductCarRental, Name: "Compact Car",
				Description: strPtr("Compact car rental, unlimited mileage."),
				BasePrice:   dec("55.00"), ChildFactor: dec("1"), InfantFactor: dec("1"),
				EarlySurcharge: dec("0"), NightSurcharge: dec("0"), RoundTripFactor: dec("1"),
				IsActive: true,
			},
			capacity: 3,
		},
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := range catalog {
		sp := &catalog[i]
		if err := products.Create(ctx, &sp.product); err != nil {
			return err
		}
		for j := range sp.options {
			sp.options[j].ProductID = sp.product.ID
			if err := products.CreateOption(ctx, &sp.options[j]); err != nil {
				return err
			}
		}
		for d := 0; d < 14; d++ {
			u := model.InventoryUnit{
				ProductID:     sp.product.ID,
				UnitDate:      today.AddDate(0, 0, d),
				Variant:       "STANDARD",
				TotalCapacity: sp.capacity,
			}
			if err := inventory.Create(ctx, &u); err != nil {
				return err
			}
		}
		fmt.Printf("product %d %s (%s), 14 units\n", sp.product.ID, sp.product.Name, sp.product.Type)
	}
	return nil
}
