package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iwacu250/landplots/internal/model"
)

// RoleRepo resolves the closed role enumeration to rows, creating each
// row lazily on first use. Implements auth.RoleStore.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

func (r *RoleRepo) FindOrCreate(ctx context.Context, name model.RoleName) (*model.Role, error) {
	role, err := r.byName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := r.DB.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", string(name))
	if err != nil {
		// Lost a create race: another request inserted the row first.
		if isDuplicate(err) {
			return r.byName(ctx, name)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Role{ID: uint64(id), Name: name}, nil
}

func (r *RoleRepo) byName(ctx context.Context, name model.RoleName) (*model.Role, error) {
	var role model.Role
	var n string
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM roles WHERE name = ? LIMIT 1", string(name)).Scan(&role.ID, &n)
	if err != nil {
		return nil, err
	}
	role.Name = model.RoleName(n)
	return &role, nil
}
