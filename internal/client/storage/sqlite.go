package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/sesdash/internal/client/storage/migrations"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/dmitrijs2005/sesdash/internal/dbx"
	"github.com/dmitrijs2005/sesdash/internal/filex"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Repository over a single kv table.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Open opens (creating when needed) the store at path and applies the
// embedded migrations. ":memory:" yields a private in-memory store.
func Open(ctx context.Context, path string) (*SQLiteRepository, error) {
	dsn := path
	if path != ":memory:" {
		abs, err := filex.EnsureParentDir(path)
		if err != nil {
			return nil, fmt.Errorf("prepare storage %s: %w", path, err)
		}
		dsn = "file:" + abs + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", path, err)
	}
	if path == ":memory:" {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := dbx.Migrate(ctx, db, migrations.Migrations, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate storage %s: %w", path, err)
	}
	return NewSQLiteRepository(db), nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, r.db, key)
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := put(ctx, tx, key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		return bump(ctx, tx)
	})
}

func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range values {
			if value == nil {
				value = []byte{}
			}
			if err := put(ctx, tx, key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
		return bump(ctx, tx)
	})
}

// Delete removes keys; absent keys are ignored. The revision moves only when
// something was actually removed.
func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var removed int64
		for _, key := range keys {
			res, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
			n, _ := res.RowsAffected()
			removed += n
		}
		if removed == 0 {
			return nil
		}
		return bump(ctx, tx)
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key <> ?`, common.StorageKeyRevision); err != nil {
			return fmt.Errorf("failed to clear storage: %w", err)
		}
		return bump(ctx, tx)
	})
}

// List returns every user key. The revision counter is not included.
func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE key <> ?`, common.StorageKeyRevision)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan storage row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Revision(ctx context.Context) (int64, error) {
	return revision(ctx, r.db)
}

func get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func put(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return err
}

func revision(ctx context.Context, db dbx.DBTX) (int64, error) {
	raw, err := get(ctx, db, common.StorageKeyRevision)
	if err != nil || raw == nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt revision %q: %w", raw, err)
	}
	return n, nil
}

func bump(ctx context.Context, tx dbx.DBTX) error {
	rev, err := revision(ctx, tx)
	if err != nil {
		return err
	}
	if err := put(ctx, tx, common.StorageKeyRevision, []byte(strconv.FormatInt(rev+1, 10))); err != nil {
		return fmt.Errorf("failed to bump revision: %w", err)
	}
	return nil
}
