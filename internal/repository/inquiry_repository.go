package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iwacu250/landplots/internal/model"
)

// InquiryRepo persists contact inquiries from the public site.
type InquiryRepo struct{ DB *sql.DB }

func NewInquiryRepo(db *sql.DB) *InquiryRepo { return &InquiryRepo{DB: db} }

const inquiryColumns = `id, name, email, COALESCE(phone,''), plot_id,
	message, status, created_at`

func scanInquiry(scan func(dest ...any) error) (model.Inquiry, error) {
	var q model.Inquiry
	var plotID sql.NullInt64
	err := scan(&q.ID, &q.Name, &q.Email, &q.Phone, &plotID, &q.Message, &q.Status, &q.CreatedAt)
	if plotID.Valid {
		id := uint64(plotID.Int64)
		q.PlotID = &id
	}
	return q, err
}

// Create stores a new inquiry (status NEW) and fills in its id.
func (r *InquiryRepo) Create(ctx context.Context, q *model.Inquiry) error {
	var plotID any
	if q.PlotID != nil {
		plotID = *q.PlotID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO inquiries (name, email, phone, plot_id, message, status) VALUES (?,?,?,?,?,?)",
		q.Name, q.Email, q.Phone, plotID, q.Message, model.InquiryStatusNew)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = uint64(id)
	q.Status = model.InquiryStatusNew
	return nil
}

// List returns a page of inquiries, newest first, optionally filtered by
// status, plus the total match count.
func (r *InquiryRepo) List(ctx context.Context, page, pageSize int, status string) ([]model.Inquiry, int64, error) {
	cond := "1=1"
	args := []any{}
	if s := strings.TrimSpace(status); s != "" {
		cond = "status = ?"
		args = append(args, strings.ToUpper(s))
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inquiries WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+inquiryColumns+" FROM inquiries WHERE "+cond+
			" ORDER BY created_at DESC LIMIT ? OFFSET ?", argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Inquiry, 0, limit)
	for rows.Next() {
		q, err := scanInquiry(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}

// UpdateStatus moves an inquiry along the NEW/READ/ARCHIVED lifecycle.
func (r *InquiryRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE inquiries SET status = ? WHERE id = ?", strings.ToUpper(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of inquiries.
func (r *InquiryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM inquiries").Scan(&n)
	return n, err
}

// CountByStatus returns the number of inquiries in the given status.
func (r *InquiryRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inquiries WHERE status = ?", strings.ToUpper(status)).Scan(&n)
	return n, err
}

// ByID loads one inquiry.
func (r *InquiryRepo) ByID(ctx context.Context, id uint64) (*model.Inquiry, error) {
	q, err := scanInquiry(r.DB.QueryRowContext(ctx,
		"SELECT "+inquiryColumns+" FROM inquiries WHERE id = ? LIMIT 1", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}
