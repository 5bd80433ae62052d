package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

// ReservationRepo manages persistence for reservations.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo given a DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
    return &ReservationRepo{db: db}
}

// DB exposes the underlying sql.DB for multi-repository transactions.
func (r *ReservationRepo) DB() *sql.DB {
    return r.db
}

// ReservationDetail is a reservation row joined with its stall, shaped
// for listing screens.
type ReservationDetail struct {
    ID            uint64    `json:"id"`
    StallID       uint64    `json:"stall_id"`
    StallLabel    string    `json:"stall_label"`
    StallSize     string    `json:"stall_size"`
    Area          string    `json:"area"`
    BusinessName  string    `json:"business_name"`
    Email         string    `json:"email"`
    PhoneNumber   string    `json:"phone_number"`
    Status        string    `json:"status"`
    Price         uint32    `json:"price"`
    ReferenceCode string    `json:"reference_code"`
    CreatedAt     time.Time `json:"created_at"`
}

const detailSelect = `SELECT r.id, r.stall_id, s.label, s.size, s.area,
       r.business_name, r.email, r.phone_number, r.status, r.price, r.reference_code, r.created_at
FROM reservations r JOIN stalls s ON s.id = r.stall_id`

func scanDetail(row interface{ Scan(...any) error }) (ReservationDetail, error) {
    var d ReservationDetail
    err := row.Scan(&d.ID, &d.StallID, &d.StallLabel, &d.StallSize, &d.Area,
        &d.BusinessName, &d.Email, &d.PhoneNumber, &d.Status, &d.Price, &d.ReferenceCode, &d.CreatedAt)
    return d, err
}

func collectDetails(rows *sql.Rows) ([]ReservationDetail, error) {
    defer rows.Close()
    out := make([]ReservationDetail, 0, 8)
    for rows.Next() {
        d, err := scanDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// ListByUser returns the vendor's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, detailSelect+" WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC", userID)
    if err != nil {
        return nil, err
    }
    return collectDetails(rows)
}

// ListAll returns every reservation for the organizer view, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, detailSelect+" ORDER BY r.created_at DESC, r.id DESC")
    if err != nil {
        return nil, err
    }
    return collectDetails(rows)
}

// GetByIDForUser returns a single reservation owned by the given user.
// Ownership is enforced in the query, so a foreign reservation surfaces
// as sql.ErrNoRows just like a missing one.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (ReservationDetail, error) {
    return scanDetail(r.db.QueryRowContext(ctx, detailSelect+" WHERE r.id = ? AND r.user_id = ? LIMIT 1", id, userID))
}

// ListByIdempotencyKeyTx returns the rows a previous submission attempt
// created under the given key, inside the caller's transaction.  A
// non-empty result means the retried submission already succeeded and
// must be replayed, not re-executed.
func (r *ReservationRepo) ListByIdempotencyKeyTx(ctx context.Context, tx *sql.Tx, key string) ([]model.Reservation, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT id, user_id, stall_id, business_name, email, phone_number, status, price, reference_code, idempotency_key, created_at, updated_at
         FROM reservations WHERE idempotency_key = ? ORDER BY id`, key)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0, 3)
    for rows.Next() {
        var m model.Reservation
        if err := rows.Scan(&m.ID, &m.UserID, &m.StallID, &m.BusinessName, &m.Email, &m.PhoneNumber,
            &m.Status, &m.Price, &m.ReferenceCode, &m.IdempotencyKey, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// CreateBulkTx inserts one reservation row per stall in a single
// statement inside the caller's transaction.  IDs are not populated.
func (r *ReservationRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, recs []model.Reservation) error {
    if len(recs) == 0 {
        return nil
    }
    query := `INSERT INTO reservations (user_id, stall_id, business_name, email, phone_number, status, price, reference_code, idempotency_key) VALUES ` +
        "(?,?,?,?,?,?,?,?,?)" + strings.Repeat(",(?,?,?,?,?,?,?,?,?)", len(recs)-1)
    args := make([]any, 0, len(recs)*9)
    for _, m := range recs {
        args = append(args, m.UserID, m.StallID, m.BusinessName, m.Email, m.PhoneNumber,
            m.Status, m.Price, m.ReferenceCode, m.IdempotencyKey)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// GetForCancelTx loads the fields cancellation needs, locking the row
// inside the caller's transaction.  It returns ErrForbidden when the
// reservation belongs to another user.
func (r *ReservationRepo) GetForCancelTx(ctx context.Context, tx *sql.Tx, id, userID uint64) (stallID uint64, status string, err error) {
    var owner uint64
    err = tx.QueryRowContext(ctx,
        "SELECT user_id, stall_id, status FROM reservations WHERE id = ? LIMIT 1 FOR UPDATE", id).
        Scan(&owner, &stallID, &status)
    if err != nil {
        return 0, "", err
    }
    if owner != userID {
        return 0, "", ErrForbidden
    }
    return stallID, status, nil
}

// MarkCancelledTx transitions a reservation to CANCELLED inside the
// caller's transaction.
func (r *ReservationRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    _, err := tx.ExecContext(ctx,
        "UPDATE reservations SET status = ? WHERE id = ?", model.StatusCancelled, id)
    return err
}
