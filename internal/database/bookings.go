package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const bookingViewQuery = `SELECT b.id, b.start_date, b.end_date, b.status, i.id, i.name, u.id, u.name, i.owner_id
          FROM bookings b
          JOIN items i ON i.id = b.item_id
          JOIN users u ON u.id = b.booker_id`

func scanBookingView(row scanner) (*models.BookingView, error) {
	var v models.BookingView
	err := row.Scan(&v.ID, &v.Start, &v.End, &v.Status, &v.Item.ID, &v.Item.Name, &v.Booker.ID, &v.Booker.Name, &v.OwnerID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateBookingChecked stores a new booking after re-checking, inside the
// same transaction, that the item exists and is available.
func (db *DB) CreateBookingChecked(ctx context.Context, booking *models.Booking) error {
	return db.RunInTx(ctx, func(ctx context.Context, tx DBTX) error {
		var available bool
		err := tx.QueryRowContext(ctx, `SELECT available FROM items WHERE id = ?`, booking.ItemID).Scan(&available)
		if err != nil {
			return fmt.Errorf("failed to check item %d: %w", booking.ItemID, classify(err))
		}
		if !available {
			return ErrNotAvailable
		}

		if booking.Status == "" {
			booking.Status = models.StatusWaiting
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (start_date, end_date, item_id, booker_id, status) VALUES (?, ?, ?, ?, ?)`,
			utc(booking.Start), utc(booking.End), booking.ItemID, booking.BookerID, booking.Status)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", classify(err))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		booking.ID = id
		return nil
	})
}

func (db *DB) GetBookingView(ctx context.Context, id int64) (*models.BookingView, error) {
	v, err := scanBookingView(db.QueryRowContext(ctx, bookingViewQuery+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking %d: %w", id, classify(err))
	}
	return v, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	result, err := db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return expectOneRow(result, "booking", id)
}

// ListBookings returns the bookings of a booker or of an owner's items that
// match the filter state, newest start first. CURRENT is ordered oldest first.
func (db *DB) ListBookings(ctx context.Context, f models.BookingFilter) ([]*models.BookingView, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.BookerID != 0 {
		conds = append(conds, "b.booker_id = ?")
		args = append(args, f.BookerID)
	} else {
		conds = append(conds, "i.owner_id = ?")
		args = append(args, f.OwnerID)
	}

	now := utc(f.Now)
	order := "b.start_date DESC, b.id DESC"
	switch f.State {
	case models.StatePast:
		conds = append(conds, "b.end_date < ?")
		args = append(args, now)
	case models.StateCurrent:
		conds = append(conds, "b.start_date <= ?", "b.end_date >= ?")
		args = append(args, now, now)
		order = "b.start_date ASC, b.id ASC"
	case models.StateFuture:
		conds = append(conds, "b.start_date > ?")
		args = append(args, now)
	case models.StateWaiting:
		conds = append(conds, "b.status = ?")
		args = append(args, models.StatusWaiting)
	case models.StateRejected:
		conds = append(conds, "b.status = ?")
		args = append(args, models.StatusRejected)
	case models.StateAll, "":
	default:
		return nil, fmt.Errorf("unsupported booking state %q", f.State)
	}

	query := bookingViewQuery + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	args = append(args, f.Page.Limit(), f.Page.Offset())
	return db.queryBookingViews(ctx, query, args...)
}

// GetBookingsForExport returns every booking overlapping [from, to), ordered by start.
func (db *DB) GetBookingsForExport(ctx context.Context, from, to time.Time) ([]*models.BookingView, error) {
	query := bookingViewQuery + ` WHERE b.start_date < ? AND b.end_date > ? ORDER BY b.start_date, b.id`
	return db.queryBookingViews(ctx, query, utc(to), utc(from))
}

func (db *DB) queryBookingViews(ctx context.Context, query string, args ...interface{}) ([]*models.BookingView, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var views []*models.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (db *DB) GetBookingsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id, start_date, end_date, item_id, booker_id, status FROM bookings
              WHERE item_id IN (` + placeholders(len(itemIDs)) + `) ORDER BY start_date`
	rows, err := db.QueryContext(ctx, query, int64Args(itemIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// HasFinishedBooking reports whether userID has a booking of itemID that
// ended before now.
func (db *DB) HasFinishedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE item_id = ? AND booker_id = ? AND end_date < ?)`,
		itemID, userID, utc(now)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check finished booking: %w", err)
	}
	return exists, nil
}
