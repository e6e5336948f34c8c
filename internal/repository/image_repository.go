package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iwacu250/landplots/internal/model"
)

// ImageRepo persists uploaded media rows. The same implementation serves
// the `images` table (plot attachments) and the `house_images` table;
// only table and foreign-key column differ.
type ImageRepo struct {
	DB    *sql.DB
	table string
	fkCol string
}

func NewPlotImageRepo(db *sql.DB) *ImageRepo {
	return &ImageRepo{DB: db, table: "images", fkCol: "plot_id"}
}

func NewHouseImageRepo(db *sql.DB) *ImageRepo {
	return &ImageRepo{DB: db, table: "house_images", fkCol: "house_id"}
}

func (r *ImageRepo) cols() string {
	return "id, " + r.fkCol + `, image_url, COALESCE(storage_key,''),
		COALESCE(content_type,''), COALESCE(file_size,0), display_order,
		is_featured, COALESCE(alt_text,''), created_at`
}

func scanImage(scan func(dest ...any) error) (model.Image, error) {
	var img model.Image
	err := scan(&img.ID, &img.OwnerID, &img.URL, &img.StorageKey,
		&img.ContentType, &img.FileSize, &img.DisplayOrder,
		&img.IsFeatured, &img.AltText, &img.CreatedAt)
	return img, err
}

// Insert stores an uploaded image row and fills in its id.
func (r *ImageRepo) Insert(ctx context.Context, img *model.Image) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO "+r.table+" ("+r.fkCol+`, image_url, storage_key, content_type,
			file_size, display_order, is_featured, alt_text)
		 VALUES (?,?,?,?,?,?,?,?)`,
		img.OwnerID, img.URL, img.StorageKey, img.ContentType,
		img.FileSize, img.DisplayOrder, img.IsFeatured, img.AltText)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

func (r *ImageRepo) ByID(ctx context.Context, id uint64) (*model.Image, error) {
	img, err := scanImage(r.DB.QueryRowContext(ctx,
		"SELECT "+r.cols()+" FROM "+r.table+" WHERE id = ? LIMIT 1", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// ListByOwner returns a listing's images ordered for display.
func (r *ImageRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Image, error) {
	return listImagesFrom(ctx, r.DB, r.table, r.fkCol, r.cols(), ownerID)
}

// Reorder assigns display_order following the given id sequence. Ids not
// belonging to the owner are ignored by the WHERE clause.
func (r *ImageRepo) Reorder(ctx context.Context, ownerID uint64, orderedIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx,
			"UPDATE "+r.table+" SET display_order = ? WHERE id = ? AND "+r.fkCol+" = ?",
			i, id, ownerID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ImageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// listImages is the shared loader used by the plot and house repositories
// when hydrating a full listing.
func listImages(ctx context.Context, db *sql.DB, table, fkCol string, ownerID uint64) ([]model.Image, error) {
	cols := "id, " + fkCol + `, image_url, COALESCE(storage_key,''),
		COALESCE(content_type,''), COALESCE(file_size,0), display_order,
		is_featured, COALESCE(alt_text,''), created_at`
	return listImagesFrom(ctx, db, table, fkCol, cols, ownerID)
}

func listImagesFrom(ctx context.Context, db *sql.DB, table, fkCol, cols string, ownerID uint64) ([]model.Image, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+cols+" FROM "+table+" WHERE "+fkCol+" = ? ORDER BY display_order ASC, id ASC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Image
	for rows.Next() {
		img, err := scanImage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
