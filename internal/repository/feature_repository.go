package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iwacu250/landplots/internal/model"
)

// FeatureRepo persists reusable listing tags and their join rows. The
// helpers at the bottom are shared with the plot and house repositories,
// which differ only in join table and foreign-key column.
type FeatureRepo struct{ DB *sql.DB }

func NewFeatureRepo(db *sql.DB) *FeatureRepo { return &FeatureRepo{DB: db} }

const featureColumns = "id, name, COALESCE(description,''), COALESCE(icon,'')"

func scanFeature(scan func(dest ...any) error) (model.Feature, error) {
	var f model.Feature
	err := scan(&f.ID, &f.Name, &f.Description, &f.Icon)
	return f, err
}

func (r *FeatureRepo) List(ctx context.Context) ([]model.Feature, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+featureColumns+" FROM features ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Feature
	for rows.Next() {
		f, err := scanFeature(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Search matches features whose name contains the term.
func (r *FeatureRepo) Search(ctx context.Context, term string) ([]model.Feature, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+featureColumns+" FROM features WHERE LOWER(name) LIKE ? ORDER BY name ASC",
		"%"+strings.ToLower(term)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Feature
	for rows.Next() {
		f, err := scanFeature(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FeatureRepo) ByID(ctx context.Context, id uint64) (*model.Feature, error) {
	f, err := scanFeature(r.DB.QueryRowContext(ctx,
		"SELECT "+featureColumns+" FROM features WHERE id = ? LIMIT 1", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FeatureRepo) Create(ctx context.Context, f *model.Feature) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO features (name, description, icon) VALUES (?,?,?)",
		f.Name, f.Description, f.Icon)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

func (r *FeatureRepo) Update(ctx context.Context, f *model.Feature) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE features SET name=?, description=?, icon=? WHERE id=?",
		f.Name, f.Description, f.Icon, f.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FeatureRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM features WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// listJoinedFeatures loads the features attached to a listing through the
// given join table ("plot_features" or "house_features").
func listJoinedFeatures(ctx context.Context, db *sql.DB, joinTable, fkCol string, ownerID uint64) ([]model.Feature, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT f.id, f.name, COALESCE(f.description,''), COALESCE(f.icon,'')
		 FROM features f
		 JOIN `+joinTable+` j ON j.feature_id = f.id
		 WHERE j.`+fkCol+` = ?
		 ORDER BY f.name ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Feature
	for rows.Next() {
		f, err := scanFeature(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// replaceJoinedFeatures rewrites a listing's feature set atomically.
// Duplicate ids in the input collapse through INSERT IGNORE.
func replaceJoinedFeatures(ctx context.Context, db *sql.DB, joinTable, fkCol string, ownerID uint64, featureIDs []uint64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+joinTable+" WHERE "+fkCol+" = ?", ownerID); err != nil {
		return err
	}
	for _, fid := range featureIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT IGNORE INTO "+joinTable+" ("+fkCol+", feature_id) VALUES (?,?)",
			ownerID, fid); err != nil {
			return err
		}
	}
	return tx.Commit()
}
