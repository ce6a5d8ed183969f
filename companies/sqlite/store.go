// Package sqlite implements the company directory over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jrsteele09/go-company-auth/companies"
	"github.com/jrsteele09/go-company-auth/companies/sqlite/migrations"
	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
	"github.com/jrsteele09/go-company-auth/internal/storage/migrate"
	_ "modernc.org/sqlite"
)

const companyColumns = `id, name, handle, description, logo_url, phone, access_token, refresh_token, token_expires_at, metadata, created_at, updated_at`

var _ companies.Repo = (*Store)(nil)

// Store implements companies.Repo over a single SQLite file.
type Store struct {
	sqlDB   *sql.DB
	nowFunc func() time.Time
}

// Open opens the database at path and applies bundled migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("[sqlite Open] storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("[sqlite Open] open db: %w", err)
	}
	// SQLite allows one writer; a single connection keeps upserts serialised.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("[sqlite Open] ping db: %w", err)
	}

	store := New(sqlDB)
	if err := store.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing database handle. Call Migrate before use.
func New(sqlDB *sql.DB) *Store {
	return &Store{sqlDB: sqlDB, nowFunc: time.Now}
}

// Migrate applies the embedded schema.
func (s *Store) Migrate(ctx context.Context) error {
	if err := migrate.Apply(ctx, s.sqlDB, migrations.FS, migrate.SQLite); err != nil {
		return fmt.Errorf("[sqlite Migrate] %w", err)
	}
	return nil
}

// DB returns the raw database handle.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) FindByID(ctx context.Context, id string) (*companies.Company, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	company, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[sqlite FindByID] %s: %w", id, err)
	}
	return company, nil
}

func (s *Store) Upsert(ctx context.Context, company *companies.Company) (*companies.Company, error) {
	if err := company.Validate(); err != nil {
		return nil, err
	}
	metadata, err := encodeMetadata(company.Metadata)
	if err != nil {
		return nil, fmt.Errorf("[sqlite Upsert] %w", err)
	}
	now := toMillis(s.nowFunc())

	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO companies (`+companyColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	handle = excluded.handle,
	description = excluded.description,
	logo_url = excluded.logo_url,
	phone = excluded.phone,
	access_token = excluded.access_token,
	refresh_token = excluded.refresh_token,
	token_expires_at = excluded.token_expires_at,
	metadata = excluded.metadata,
	updated_at = excluded.updated_at
RETURNING `+companyColumns,
		company.ID,
		company.Name,
		nullableString(company.Handle),
		nullableString(company.Description),
		nullableString(company.LogoURL),
		nullableString(company.Phone),
		nullableString(company.AccessToken),
		nullableString(company.RefreshToken),
		optionalMillis(company.TokenExpiresAt),
		metadata,
		now,
		now,
	)
	stored, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Wrapf(apperrors.ErrHandleTaken, "[sqlite Upsert] %s", company.ID)
		}
		return nil, fmt.Errorf("[sqlite Upsert] %s: %w", company.ID, err)
	}
	return stored, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("[sqlite Delete] %s: %w", id, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, offset, limit int) ([]*companies.Company, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("[sqlite List] %w", err)
	}
	defer rows.Close()

	var list []*companies.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("[sqlite List] scan: %w", err)
		}
		list = append(list, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[sqlite List] %w", err)
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (*companies.Company, error) {
	var (
		c                                companies.Company
		handle, description, logoURL     sql.NullString
		phone, accessToken, refreshToken sql.NullString
		tokenExpiresAt                   sql.NullInt64
		metadata                         string
		createdAt, updatedAt             int64
	)
	if err := row.Scan(&c.ID, &c.Name, &handle, &description, &logoURL, &phone,
		&accessToken, &refreshToken, &tokenExpiresAt, &metadata, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Handle = nullString(handle)
	c.Description = nullString(description)
	c.LogoURL = nullString(logoURL)
	c.Phone = nullString(phone)
	c.AccessToken = nullString(accessToken)
	c.RefreshToken = nullString(refreshToken)
	if tokenExpiresAt.Valid {
		expiry := fromMillis(tokenExpiresAt.Int64)
		c.TokenExpiresAt = &expiry
	}
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func encodeMetadata(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func optionalMillis(value *time.Time) any {
	if value == nil {
		return nil
	}
	return toMillis(*value)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
