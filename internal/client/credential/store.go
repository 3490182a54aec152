package credential

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/minuend/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/minuend/internal/common"
	"github.com/dmitrijs2005/minuend/internal/dbx"
)

// Store keeps the raw credential in the metadata table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore returns a Store over the client database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Load returns the saved credential, or "" when none is saved.
func (s *Store) Load(ctx context.Context) (string, error) {
	rec, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.CredentialKey)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(rec.Value), nil
}

// Save replaces the credential and records when it was written.
func (s *Store) Save(ctx context.Context, raw string) error {
	savedAt := s.now().UTC().Format(time.RFC3339)
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.CredentialKey, []byte(raw)); err != nil {
			return err
		}
		return repo.Set(ctx, common.CredentialSavedAtKey, []byte(savedAt))
	})
}

// SavedAt returns when the credential was last saved; the zero time if never.
func (s *Store) SavedAt(ctx context.Context) (time.Time, error) {
	rec, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.CredentialSavedAtKey)
	if errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, string(rec.Value))
}

// Clear removes the credential. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.CredentialKey, common.CredentialSavedAtKey)
}

// Entries lists every locally stored record without its value.
func (s *Store) Entries(ctx context.Context) ([]metadata.Record, error) {
	recs, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].Value = nil
	}
	return recs, nil
}

// Purge removes every local record, the credential included.
func (s *Store) Purge(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Clear(ctx)
}
