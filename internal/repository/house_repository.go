package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iwacu250/landplots/internal/model"
)

// HouseRepo persists built-property listings.
type HouseRepo struct{ DB *sql.DB }

func NewHouseRepo(db *sql.DB) *HouseRepo { return &HouseRepo{DB: db} }

// HouseQuery defines filters, sorting and pagination for browsing
// houses. Term matches against title and location.
type HouseQuery struct {
	Status      model.PropertyStatus
	Type        model.PropertyType
	Term        string
	Location    string
	MinPrice    float64
	MaxPrice    float64
	MinBedrooms int
	SortBy      string
	Direction   string
	Page        int
	PageSize    int
}

var houseSortColumns = map[string]string{
	"price":      "price",
	"size":       "size",
	"title":      "title",
	"bedrooms":   "bedrooms",
	"created_at": "created_at",
}

const houseColumns = `id, title, location, size, size_unit, price, currency,
	COALESCE(description,''), type, COALESCE(bedrooms,0), COALESCE(bathrooms,0),
	COALESCE(year_built,0), COALESCE(floors,0), status,
	COALESCE(featured_image_url,''), COALESCE(video_url,''),
	created_at, updated_at`

func scanHouse(scan func(dest ...any) error) (model.House, error) {
	var h model.House
	var status, htype string
	err := scan(&h.ID, &h.Title, &h.Location, &h.Size, &h.SizeUnit, &h.Price, &h.Currency,
		&h.Description, &htype, &h.Bedrooms, &h.Bathrooms, &h.YearBuilt, &h.Floors,
		&status, &h.FeaturedImageURL, &h.VideoURL, &h.CreatedAt, &h.UpdatedAt)
	h.Status = model.PropertyStatus(status)
	h.Type = model.PropertyType(htype)
	return h, err
}

// Search returns a page of houses matching the query plus the total
// match count.
func (r *HouseRepo) Search(ctx context.Context, q HouseQuery) ([]model.House, int64, error) {
	where := []string{}
	args := []any{}

	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Term != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(location) LIKE ?)")
		t := "%" + strings.ToLower(q.Term) + "%"
		args = append(args, t, t)
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
	if q.MinBedrooms > 0 {
		where = append(where, "bedrooms >= ?")
		args = append(args, q.MinBedrooms)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM houses WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := houseSortColumns[strings.ToLower(q.SortBy)]
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
		"SELECT "+houseColumns+" FROM houses WHERE "+cond+
			" ORDER BY "+sortCol+" "+dir+" LIMIT ? OFFSET ?", argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.House, 0, limit)
	for rows.Next() {
		h, err := scanHouse(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}

// Featured returns the newest available houses for the landing page.
func (r *HouseRepo) Featured(ctx context.Context, limit int) ([]model.House, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+houseColumns+" FROM houses WHERE status = ? ORDER BY created_at DESC LIMIT ?",
		string(model.StatusAvailable), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.House
	for rows.Next() {
		h, err := scanHouse(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ByID loads a single house with its images and features.
func (r *HouseRepo) ByID(ctx context.Context, id uint64) (*model.House, error) {
	h, err := scanHouse(r.DB.QueryRowContext(ctx,
		"SELECT "+houseColumns+" FROM houses WHERE id = ? LIMIT 1", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	images, err := listImages(ctx, r.DB, "house_images", "house_id", id)
	if err != nil {
		return nil, err
	}
	h.Images = images
	features, err := listJoinedFeatures(ctx, r.DB, "house_features", "house_id", id)
	if err != nil {
		return nil, err
	}
	h.Features = features
	return &h, nil
}

// Create inserts a house and fills in its id.
func (r *HouseRepo) Create(ctx context.Context, h *model.House) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO houses (title, location, size, size_unit, price, currency, description,
			type, bedrooms, bathrooms, year_built, floors, status, featured_image_url, video_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		h.Title, h.Location, h.Size, h.SizeUnit, h.Price, h.Currency, h.Description,
		string(h.Type), h.Bedrooms, h.Bathrooms, h.YearBuilt, h.Floors,
		string(h.Status), h.FeaturedImageURL, h.VideoURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// Update rewrites the mutable columns of an existing house.
func (r *HouseRepo) Update(ctx context.Context, h *model.House) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE houses SET title=?, location=?, size=?, size_unit=?, price=?, currency=?,
			description=?, type=?, bedrooms=?, bathrooms=?, year_built=?, floors=?,
			status=?, featured_image_url=?, video_url=?, updated_at=NOW()
		 WHERE id=?`,
		h.Title, h.Location, h.Size, h.SizeUnit, h.Price, h.Currency,
		h.Description, string(h.Type), h.Bedrooms, h.Bathrooms, h.YearBuilt, h.Floors,
		string(h.Status), h.FeaturedImageURL, h.VideoURL, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus patches only the sales status.
func (r *HouseRepo) UpdateStatus(ctx context.Context, id uint64, status model.PropertyStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE houses SET status=?, updated_at=NOW() WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeaturedImage records the URL shown as the listing thumbnail.
func (r *HouseRepo) SetFeaturedImage(ctx context.Context, id uint64, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE houses SET featured_image_url=?, updated_at=NOW() WHERE id=?", url, id)
	return err
}

// SetVideoURL attaches a walkthrough video to the listing.
func (r *HouseRepo) SetVideoURL(ctx context.Context, id uint64, url string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE houses SET video_url=?, updated_at=NOW() WHERE id=?", url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceFeatures rewrites the house_features join rows for a house.
func (r *HouseRepo) ReplaceFeatures(ctx context.Context, houseID uint64, featureIDs []uint64) error {
	return replaceJoinedFeatures(ctx, r.DB, "house_features", "house_id", houseID, featureIDs)
}

// Delete removes the house row; join and image rows cascade via foreign
// keys.
func (r *HouseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM houses WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of houses.
func (r *HouseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM houses").Scan(&n)
	return n, err
}

// CountByStatus returns the number of houses in the given sales status.
func (r *HouseRepo) CountByStatus(ctx context.Context, status model.PropertyStatus) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM houses WHERE status = ?", string(status)).Scan(&n)
	return n, err
}
