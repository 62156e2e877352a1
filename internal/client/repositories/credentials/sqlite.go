package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/dbx"
)

// SQLiteStore keeps the credential in the metadata table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (r *SQLiteStore) Get(ctx context.Context) (string, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, common.CredentialKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", common.CredentialKey, err)
	}
	return visible(string(value)), nil
}

// Set replaces the stored credential. Any other key is removed in the same
// transaction so the store never holds more than one entry.
func (r *SQLiteStore) Set(ctx context.Context, credential string) error {
	if credential == "" {
		return errors.New("empty credential")
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key <> ?`, common.CredentialKey); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, common.CredentialKey, []byte(credential))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", common.CredentialKey, err)
	}
	return nil
}

func (r *SQLiteStore) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, common.CredentialKey)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", common.CredentialKey, err)
	}
	return nil
}
