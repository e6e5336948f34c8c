package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SettingRepo persists the key-value settings table.
type SettingRepo struct{ DB *sql.DB }

func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{DB: db} }

// defaultSettings seed the table on first boot so the public site always
// has contact details to render.
var defaultSettings = map[string]string{
	"company_name":    "Iwacu 250",
	"company_email":   "info@iwacu250.example",
	"company_phone":   "+250780000000",
	"company_address": "Kigali, Rwanda",
	"whatsapp_number": "+250780000000",
}

// publicSettingKeys whitelists what the unauthenticated settings endpoint
// may expose.
var publicSettingKeys = []string{
	"company_name", "company_email", "company_phone", "company_address", "whatsapp_number",
}

// Get returns the value for a key, or ErrNotFound.
func (r *SettingRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.DB.QueryRowContext(ctx,
		"SELECT setting_value FROM settings WHERE setting_key = ? LIMIT 1", key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

// All returns every setting as a key -> value map.
func (r *SettingRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT setting_key, setting_value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Public returns only the whitelisted settings exposed to guests.
func (r *SettingRepo) Public(ctx context.Context) (map[string]string, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, k := range publicSettingKeys {
		out[k] = all[k]
	}
	return out, nil
}

// Upsert creates or replaces a setting.
func (r *SettingRepo) Upsert(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO settings (setting_key, setting_value) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value), updated_at = NOW()`,
		key, value)
	return err
}

// SeedDefaults inserts the default settings when the table is empty.
func (r *SettingRepo) SeedDefaults(ctx context.Context) error {
	var n int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for k, v := range defaultSettings {
		if err := r.Upsert(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
