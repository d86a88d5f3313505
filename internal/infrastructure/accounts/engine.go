// Package accounts is a local account engine: a directory of accounts,
// each with its own SQLite database and blob directory.
//
//	<root>/accounts.toml
//	<root>/<account dir>/dc.db
//	<root>/<account dir>/dc.db-blobs/
//	<root>/<account dir>/stickers/<pack>/
package accounts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	dbFileName    = "dc.db"
	blobDirSuffix = "-blobs"
	stickersDir   = "stickers"
	eventBuffer   = 64
)

// LocalEngine implements port.AccountEngine over an accounts directory.
type LocalEngine struct {
	root   string
	logger zerolog.Logger
	events chan port.EngineEvent

	mu       sync.RWMutex
	file     *accountsFile
	accounts map[uint32]*Account
}

// Open loads every account below root, creating root if needed.
func Open(ctx context.Context, root string) (*LocalEngine, error) {
	log := logging.FromContext(ctx).With().Str("component", "account-engine").Logger()

	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create accounts directory: %w", err)
	}
	file, err := loadAccountsFile(root)
	if err != nil {
		return nil, err
	}

	e := &LocalEngine{
		root:     root,
		logger:   log,
		events:   make(chan port.EngineEvent, eventBuffer),
		file:     file,
		accounts: make(map[uint32]*Account, len(file.Accounts)),
	}
	for _, entry := range file.Accounts {
		account, err := e.openAccount(ctx, entry)
		if err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("failed to open account %d: %w", entry.ID, err)
		}
		e.accounts[entry.ID] = account
	}

	log.Info().Str("root", root).Int("accounts", len(e.accounts)).Msg("account engine ready")
	return e, nil
}

func (e *LocalEngine) openAccount(ctx context.Context, entry accountEntry) (*Account, error) {
	dir := filepath.Join(e.root, entry.Dir)
	dbPath := filepath.Join(dir, dbFileName)
	blobDir := dbPath + blobDirSuffix
	if err := os.MkdirAll(blobDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return newAccount(entry.ID, dir, blobDir, db, e.emit), nil
}

// AccountIDs lists all account ids in ascending order.
func (e *LocalEngine) AccountIDs(_ context.Context) ([]uint32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]uint32, 0, len(e.accounts))
	for id := range e.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Account returns the account with id.
func (e *LocalEngine) Account(_ context.Context, id uint32) (port.Account, error) {
	account, err := e.LocalAccount(id)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// LocalAccount returns the concrete account, exposing management calls.
func (e *LocalEngine) LocalAccount(id uint32) (*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	account, ok := e.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", entity.ErrAccountNotFound, id)
	}
	return account, nil
}

// CreateAccount adds a new empty account in a fresh directory.
func (e *LocalEngine) CreateAccount(ctx context.Context) (*Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := accountEntry{ID: e.file.NextID, Dir: uuid.NewString()}
	account, err := e.openAccount(ctx, entry)
	if err != nil {
		return nil, err
	}

	e.file.Accounts = append(e.file.Accounts, entry)
	e.file.NextID++
	if e.file.SelectedAccount == 0 {
		e.file.SelectedAccount = entry.ID
	}
	if err := e.file.save(e.root); err != nil {
		_ = account.close()
		return nil, err
	}

	e.accounts[entry.ID] = account
	e.logger.Info().Uint32("account_id", entry.ID).Str("dir", entry.Dir).Msg("account created")
	return account, nil
}

// RemoveAccount closes the account and deletes its directory.
func (e *LocalEngine) RemoveAccount(_ context.Context, id uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	account, ok := e.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %d", entity.ErrAccountNotFound, id)
	}

	entries := e.file.Accounts[:0]
	for _, entry := range e.file.Accounts {
		if entry.ID != id {
			entries = append(entries, entry)
		}
	}
	e.file.Accounts = entries
	if e.file.SelectedAccount == id {
		e.file.SelectedAccount = 0
	}
	if err := e.file.save(e.root); err != nil {
		return err
	}

	delete(e.accounts, id)
	closeErr := account.close()
	if err := os.RemoveAll(account.dir); err != nil {
		return errors.Join(closeErr, fmt.Errorf("failed to remove account directory: %w", err))
	}
	e.logger.Info().Uint32("account_id", id).Msg("account removed")
	return closeErr
}

// Events streams engine events. Events are dropped while nobody reads.
func (e *LocalEngine) Events() <-chan port.EngineEvent {
	return e.events
}

func (e *LocalEngine) emit(ev port.EngineEvent) {
	select {
	case e.events <- ev:
	default:
		e.logger.Debug().Str("event", ev.Kind.String()).Msg("dropped engine event, no reader")
	}
}

// Close closes all account databases.
func (e *LocalEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for id, account := range e.accounts {
		if err := account.close(); err != nil {
			errs = append(errs, fmt.Errorf("account %d: %w", id, err))
		}
	}
	e.accounts = map[uint32]*Account{}
	return errors.Join(errs...)
}

var (
	_ port.AccountEngine = (*LocalEngine)(nil)
	_ port.EventSource   = (*LocalEngine)(nil)
)
