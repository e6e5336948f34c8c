package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iwacu250/landplots/internal/model"
)

// PlotRepo persists land-plot listings.
type PlotRepo struct{ DB *sql.DB }

func NewPlotRepo(db *sql.DB) *PlotRepo { return &PlotRepo{DB: db} }

// PlotQuery defines filters, sorting and pagination for browsing plots.
type PlotQuery struct {
	Status    model.PropertyStatus
	Location  string
	MinPrice  float64
	MaxPrice  float64
	MinSize   float64
	MaxSize   float64
	SortBy    string
	Direction string
	Page      int
	PageSize  int
}

// plotSortColumns whitelists what user input may sort by; anything else
// falls back to created_at.
var plotSortColumns = map[string]string{
	"price":      "price",
	"size":       "size",
	"title":      "title",
	"created_at": "created_at",
}

const plotColumns = `id, title, location, size, size_unit, price, currency,
	COALESCE(description,''), status,
	COALESCE(featured_image_url,''), COALESCE(video_url,''),
	created_at, updated_at`

func scanPlot(scan func(dest ...any) error) (model.Plot, error) {
	var p model.Plot
	var status string
	err := scan(&p.ID, &p.Title, &p.Location, &p.Size, &p.SizeUnit, &p.Price, &p.Currency,
		&p.Description, &status, &p.FeaturedImageURL, &p.VideoURL, &p.CreatedAt, &p.UpdatedAt)
	p.Status = model.PropertyStatus(status)
	return p, err
}

// Search returns a page of plots matching the query plus the total match
// count.
func (r *PlotRepo) Search(ctx context.Context, q PlotQuery) ([]model.Plot, int64, error) {
	where := []string{}
	args := []any{}

	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Location != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.MinPrice > 0 {
		where = append(where, "price >= ?")
		args = append(args, q.MinPrice)
	}
	if q.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, q.MaxPrice)
	}
	if q.MinSize > 0 {
		where = append(where, "size >= ?")
		args = append(args, q.MinSize)
	}
	if q.MaxSize > 0 {
		where = append(where, "size <= ?")
		args = append(args, q.MaxSize)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM plots WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := plotSortColumns[strings.ToLower(q.SortBy)]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.Direction, "asc") {
		dir = "ASC"
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+plotColumns+" FROM plots WHERE "+cond+
			" ORDER BY "+sortCol+" "+dir+" LIMIT ? OFFSET ?", argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Plot, 0, limit)
	for rows.Next() {
		p, err := scanPlot(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Featured returns the newest available plots for the landing page.
func (r *PlotRepo) Featured(ctx context.Context, limit int) ([]model.Plot, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+plotColumns+" FROM plots WHERE status = ? ORDER BY created_at DESC LIMIT ?",
		string(model.StatusAvailable), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Plot
	for rows.Next() {
		p, err := scanPlot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ByID loads a single plot with its images and features.
func (r *PlotRepo) ByID(ctx context.Context, id uint64) (*model.Plot, error) {
	p, err := scanPlot(r.DB.QueryRowContext(ctx,
		"SELECT "+plotColumns+" FROM plots WHERE id = ? LIMIT 1", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	images, err := listImages(ctx, r.DB, "images", "plot_id", id)
	if err != nil {
		return nil, err
	}
	p.Images = images
	features, err := listJoinedFeatures(ctx, r.DB, "plot_features", "plot_id", id)
	if err != nil {
		return nil, err
	}
	p.Features = features
	return &p, nil
}

// Create inserts a plot and fills in its id.
func (r *PlotRepo) Create(ctx context.Context, p *model.Plot) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO plots (title, location, size, size_unit, price, currency, description,
			status, featured_image_url, video_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.Title, p.Location, p.Size, p.SizeUnit, p.Price, p.Currency, p.Description,
		string(p.Status), p.FeaturedImageURL, p.VideoURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update rewrites the mutable columns of an existing plot.
func (r *PlotRepo) Update(ctx context.Context, p *model.Plot) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE plots SET title=?, location=?, size=?, size_unit=?, price=?, currency=?,
			description=?, status=?, featured_image_url=?, video_url=?, updated_at=NOW()
		 WHERE id=?`,
		p.Title, p.Location, p.Size, p.SizeUnit, p.Price, p.Currency,
		p.Description, string(p.Status), p.FeaturedImageURL, p.VideoURL, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus patches only the sales status.
func (r *PlotRepo) UpdateStatus(ctx context.Context, id uint64, status model.PropertyStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE plots SET status=?, updated_at=NOW() WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeaturedImage records the URL shown as the listing thumbnail.
func (r *PlotRepo) SetFeaturedImage(ctx context.Context, id uint64, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE plots SET featured_image_url=?, updated_at=NOW() WHERE id=?", url, id)
	return err
}

// SetVideoURL attaches a walkthrough video to the listing.
func (r *PlotRepo) SetVideoURL(ctx context.Context, id uint64, url string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE plots SET video_url=?, updated_at=NOW() WHERE id=?", url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceFeatures rewrites the plot_features join rows for a plot.
func (r *PlotRepo) ReplaceFeatures(ctx context.Context, plotID uint64, featureIDs []uint64) error {
	return replaceJoinedFeatures(ctx, r.DB, "plot_features", "plot_id", plotID, featureIDs)
}

// Delete removes the plot row; join and image rows cascade via foreign
// keys. Blob-store cleanup happens in the handler before this call.
func (r *PlotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM plots WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of plots.
func (r *PlotRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM plots").Scan(&n)
	return n, err
}

// CountByStatus returns the number of plots in the given sales status.
func (r *PlotRepo) CountByStatus(ctx context.Context, status model.PropertyStatus) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM plots WHERE status = ?", string(status)).Scan(&n)
	return n, err
}
