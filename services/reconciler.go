// services/reconciler.go
package services

import (
	"context"
	"log"
	"time"

	"rental-backend/models"

	"gorm.io/gorm"
)

// Reconciler periodically matches completed payments to bookings whose
// paid flag never got written — the reachable gap when the process dies
// between gateway confirmation and the booking update.
type Reconciler struct {
	DB       *gorm.DB
	Bookings *BookingService
	Interval time.Duration
}

func NewReconciler(db *gorm.DB, bookings *BookingService, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reconciler{DB: db, Bookings: bookings, Interval: interval}
}

// Run blocks until ctx is cancelled. Started as a goroutine from main.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := r.Sweep(); err != nil {
				log.Printf("payment reconciliation sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("payment reconciliation: repaired %d booking(s)", n)
			}
		}
	}
}

// Sweep walks completed payments and flags the matching active unpaid
// bookings. Returns the number of bookings repaired.
func (r *Reconciler) Sweep() (int, error) {
	var payments []models.Payment
	if err := r.DB.
		Where("status = ?", models.PaymentCompleted).
		Find(&payments).Error; err != nil {
		return 0, err
	}

	repaired := 0
	for _, p := range payments {
		payment := p
		err := r.DB.Transaction(func(tx *gorm.DB) error {
			marked, err := r.Bookings.MarkPaid(tx, payment.UserID, payment.ListingID, payment.TransactionID)
			if err != nil {
				return err
			}
			if marked {
				repaired++
			}
			return nil
		})
		if err != nil {
			return repaired, err
		}
	}
	return repaired, nil
}
