package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

// StallRepo manages persistence for the stall catalog.
type StallRepo struct {
    db *sql.DB
}

// NewStallRepo constructs a StallRepo given a DB handle.
func NewStallRepo(db *sql.DB) *StallRepo {
    return &StallRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *StallRepo) DB() *sql.DB {
    return r.db
}

const stallColumns = "id, label, size, price, available, area, created_at, updated_at"

func scanStall(row interface{ Scan(...any) error }) (model.Stall, error) {
    var s model.Stall
    err := row.Scan(&s.ID, &s.Label, &s.Size, &s.Price, &s.Available, &s.Area, &s.CreatedAt, &s.UpdatedAt)
    return s, err
}

// ListAll returns the full catalog in insertion order.  Filtering is the
// catalog package's job; the repository hands back everything so filtered
// views stay pure and cacheable.
func (r *StallRepo) ListAll(ctx context.Context) ([]model.Stall, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT "+stallColumns+" FROM stalls ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Stall, 0, 64)
    for rows.Next() {
        s, err := scanStall(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// GetByID fetches a single stall.  Returns ErrStallNotFound when absent.
func (r *StallRepo) GetByID(ctx context.Context, id uint64) (model.Stall, error) {
    s, err := scanStall(r.db.QueryRowContext(ctx,
        "SELECT "+stallColumns+" FROM stalls WHERE id = ? LIMIT 1", id))
    if err == sql.ErrNoRows {
        return model.Stall{}, ErrStallNotFound
    }
    return s, err
}

// Create inserts a stall and populates its ID.  Duplicate labels map to
// ErrLabelExists.
func (r *StallRepo) Create(ctx context.Context, s *model.Stall) error {
    s.Label = strings.TrimSpace(s.Label)
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO stalls (label, size, price, available, area) VALUES (?,?,?,?,?)",
        s.Label, s.Size, s.Price, s.Available, s.Area)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrLabelExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// SetAvailability writes the stall's availability flag and returns the
// updated row.  The caller only learns the new value after the store
// committed it, so views never flip ahead of the database.
func (r *StallRepo) SetAvailability(ctx context.Context, id uint64, available bool) (model.Stall, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE stalls SET available = ? WHERE id = ?", available, id)
    if err != nil {
        return model.Stall{}, err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // either the stall does not exist or the flag already had this
        // value; distinguish by reloading
        if _, getErr := r.GetByID(ctx, id); getErr != nil {
            return model.Stall{}, getErr
        }
    }
    return r.GetByID(ctx, id)
}

// LockByIDsTx loads the given stalls inside the caller's transaction
// with FOR UPDATE row locks, so availability checks and the subsequent
// flip happen atomically against racing checkouts.  Missing ids simply
// produce fewer rows; callers compare counts.
func (r *StallRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Stall, error) {
    if len(ids) == 0 {
        return nil, nil
    }
    query := "SELECT " + stallColumns + " FROM stalls WHERE id IN (?" +
        strings.Repeat(",?", len(ids)-1) + ") ORDER BY id FOR UPDATE"
    args := make([]any, 0, len(ids))
    for _, id := range ids {
        args = append(args, id)
    }
    rows, err := tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Stall, 0, len(ids))
    for rows.Next() {
        s, err := scanStall(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// SetAvailabilityBulkTx flips availability for several stalls inside the
// caller's transaction.
func (r *StallRepo) SetAvailabilityBulkTx(ctx context.Context, tx *sql.Tx, ids []uint64, available bool) error {
    if len(ids) == 0 {
        return nil
    }
    query := "UPDATE stalls SET available = ? WHERE id IN (?" +
        strings.Repeat(",?", len(ids)-1) + ")"
    args := make([]any, 0, len(ids)+1)
    args = append(args, available)
    for _, id := range ids {
        args = append(args, id)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}
