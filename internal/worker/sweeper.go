// Package worker hosts background jobs that run alongside the HTTP server.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// sweepBatchSize bounds how many expired holds one sweep transaction touches
// so the row locks are held briefly.
const sweepBatchSize = 200

// HoldSweeper periodically releases the capacity of expired cart holds.
// Each sweep deletes the lapsed cart items and returns their reserved
// quantity to the available pool through the inventory funnel, all inside a
// single transaction, so a crash between the two steps cannot strand
// capacity.
type HoldSweeper struct {
	Carts     *repository.CartRepo
	Inventory *repository.InventoryRepo
	Interval  time.Duration
}

// Run blocks, sweeping once per interval until the context is cancelled.
// It is intended to be started in its own goroutine from main.
func (s *HoldSweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.sweepOnce(ctx); err != nil {
				log.Printf("hold-sweeper: sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("hold-sweeper: released %d expired holds", n)
			}
		}
	}
}

// sweepOnce releases one batch of expired holds and reports how many cart
// items it removed.
func (s *HoldSweeper) sweepOnce(ctx context.Context) (int, error) {
	tx, err := s.Carts.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	expired, err := s.Carts.ExpiredItemsTx(ctx, tx, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	// Group quantities per unit so each inventory row is locked once.
	perUnit := make(map[uint64]uint32, len(expired))
	for _, it := range expired {
		perUnit[it.UnitID] += it.Quantity
	}
	for unitID, qty := range perUnit {
		if _, err := s.Inventory.ReleaseReservedTx(ctx, tx, unitID, qty); err != nil {
			return 0, err
		}
	}
	for _, it := range expired {
		if err := s.Carts.DeleteItemTx(ctx, tx, it.ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return len(expired), nil
}
