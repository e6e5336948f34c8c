package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iwacu250/landplots/internal/auth"
	"github.com/iwacu250/landplots/internal/model"
)

// UserRepo persists users and their role attachments. It implements
// auth.UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, email, password_hash,
	COALESCE(full_name,''), COALESCE(phone,''), COALESCE(address,''),
	is_active, created_at, updated_at`

func (r *UserRepo) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FullName, &u.Phone, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) loadRoles(ctx context.Context, u *model.User) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.name FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = ?`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var role model.Role
		var name string
		if err := rows.Scan(&role.ID, &name); err != nil {
			return err
		}
		role.Name = model.RoleName(name)
		u.Roles = append(u.Roles, role)
	}
	return rows.Err()
}

func (r *UserRepo) byQuery(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.byQuery(ctx, "id = ?", id)
}

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.byQuery(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.byQuery(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", strings.TrimSpace(username)).Scan(&n)
	return n > 0, err
}

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ?", strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	return n > 0, err
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// CreateFirstAdmin inserts the bootstrap admin inside a transaction. The
// locking count read and the insert run on the same connection, so two
// concurrent registrations cannot both observe an empty table.
func (r *UserRepo) CreateFirstAdmin(ctx context.Context, u *model.User, roleID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users FOR UPDATE").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return auth.ErrAdminExists
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, phone, address, is_active)
		 VALUES (?,?,?,?,?,?,1)`,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Address)
	if err != nil {
		if isDuplicate(err) {
			return auth.ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)", u.ID, roleID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = NOW() WHERE id = ?",
		passwordHash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
