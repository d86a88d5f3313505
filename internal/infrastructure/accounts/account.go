package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/google/uuid"
)

// Config keys of the account config table.
const (
	ConfigAddr         = "configured_addr"
	ConfigDisplayName  = "displayname"
	ConfigProxyEnabled = "proxy_enabled"
)

// Webxdc limits announced to apps.
const (
	SendUpdateInterval = 10000 // milliseconds
	SendUpdateMaxSize  = 24 * 1024 * 1024 / 4 * 3
)

// Account is one local account.
type Account struct {
	id      uint32
	dir     string
	blobDir string
	db      *sql.DB
	emit    func(port.EngineEvent)

	realtimeMu sync.Mutex
	realtime   map[uint32]bool
}

func newAccount(id uint32, dir, blobDir string, db *sql.DB, emit func(port.EngineEvent)) *Account {
	return &Account{
		id:       id,
		dir:      dir,
		blobDir:  blobDir,
		db:       db,
		emit:     emit,
		realtime: make(map[uint32]bool),
	}
}

func (a *Account) ID() uint32 { return a.id }

func (a *Account) BlobDir() string { return a.blobDir }

// StickersDir is the sticker pack directory next to the blob directory.
func (a *Account) StickersDir() string { return filepath.Join(a.dir, stickersDir) }

func (a *Account) close() error { return a.db.Close() }

func (a *Account) Message(ctx context.Context, messageID uint32) (*entity.Message, error) {
	var (
		msg      entity.Message
		viewType string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, chat_id, viewtype, file, txt FROM msgs WHERE id = ?`, int64(messageID),
	).Scan(&msg.ID, &msg.ChatID, &viewType, &msg.File, &msg.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", entity.ErrMessageNotFound, messageID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load message %d: %w", messageID, err)
	}
	msg.ViewType = entity.ViewType(viewType)
	return &msg, nil
}

func (a *Account) ChatName(ctx context.Context, chatID uint32) (string, error) {
	var name string
	err := a.db.QueryRowContext(ctx, `SELECT name FROM chats WHERE id = ?`, int64(chatID)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("chat %d not found", chatID)
	}
	return name, err
}

func (a *Account) ProxyEnabled(ctx context.Context) (bool, error) {
	v, err := a.Config(ctx, ConfigProxyEnabled)
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// Config reads an account config value. Unset keys read as "".
func (a *Account) Config(ctx context.Context, key string) (string, error) {
	var value string
	err := a.db.QueryRowContext(ctx, `SELECT value FROM config WHERE keyname = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetConfig writes an account config value.
func (a *Account) SetConfig(ctx context.Context, key, value string) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO config (keyname, value) VALUES (?, ?)
		 ON CONFLICT(keyname) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (a *Account) WebxdcInfo(ctx context.Context, msg *entity.Message) (*entity.WebxdcInfo, error) {
	if !msg.IsWebxdc() {
		return nil, fmt.Errorf("%w: message %d is not a webxdc", entity.ErrInstanceNotFound, msg.ID)
	}
	m, icon, err := readManifest(a.archivePath(msg))
	if err != nil {
		return nil, err
	}

	var document string
	if err := a.db.QueryRowContext(ctx,
		`SELECT webxdc_document FROM msgs WHERE id = ?`, int64(msg.ID),
	).Scan(&document); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	addr, err := a.Config(ctx, ConfigAddr)
	if err != nil {
		return nil, err
	}
	name, err := a.Config(ctx, ConfigDisplayName)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = addr
	}

	return &entity.WebxdcInfo{
		Name:               m.Name,
		Document:           document,
		Icon:               icon,
		SelfAddr:           addr,
		SelfName:           name,
		SendUpdateInterval: SendUpdateInterval,
		SendUpdateMaxSize:  SendUpdateMaxSize,
		SourceCodeURL:      m.SourceCodeURL,
	}, nil
}

func (a *Account) ReadBlob(_ context.Context, msg *entity.Message, path string) ([]byte, error) {
	if !msg.IsWebxdc() {
		return nil, fmt.Errorf("%w: message %d is not a webxdc", entity.ErrInstanceNotFound, msg.ID)
	}
	return readArchiveFile(a.archivePath(msg), path)
}

func (a *Account) archivePath(msg *entity.Message) string {
	return filepath.Join(a.blobDir, filepath.Base(msg.File))
}

// statusUpdate is the subset of a status update item the engine inspects.
type statusUpdate struct {
	Payload  json.RawMessage `json:"payload"`
	Document *string         `json:"document,omitempty"`
}

func (a *Account) SendStatusUpdate(ctx context.Context, messageID uint32, update json.RawMessage) error {
	var item statusUpdate
	if err := json.Unmarshal(update, &item); err != nil {
		return fmt.Errorf("invalid status update: %w", err)
	}
	if len(item.Payload) == 0 {
		return errors.New("invalid status update: missing payload")
	}

	msg, err := a.Message(ctx, messageID)
	if err != nil {
		return err
	}
	if !msg.IsWebxdc() {
		return fmt.Errorf("%w: message %d is not a webxdc", entity.ErrInstanceNotFound, messageID)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO webxdc_status_updates (msg_id, update_item) VALUES (?, ?)`, int64(messageID), string(update),
	); err != nil {
		return fmt.Errorf("failed to store status update: %w", err)
	}
	if item.Document != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE msgs SET webxdc_document = ? WHERE id = ?`, *item.Document, int64(messageID),
		); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	a.emit(port.EngineEvent{Kind: port.EventWebxdcStatusUpdate, AccountID: a.id, MessageID: messageID})
	if item.Document != nil {
		a.emit(port.EngineEvent{Kind: port.EventMessageChanged, AccountID: a.id, MessageID: messageID})
	}
	return nil
}

func (a *Account) StatusUpdates(ctx context.Context, messageID uint32, lastKnownSerial uint32) (string, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, update_item FROM webxdc_status_updates WHERE msg_id = ? AND id > ? ORDER BY id`,
		int64(messageID), int64(lastKnownSerial))
	if err != nil {
		return "", err
	}
	defer rows.Close()

	type row struct {
		serial uint32
		item   string
	}
	var items []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.serial, &r.item); err != nil {
			return "", err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	out := make([]map[string]json.RawMessage, 0, len(items))
	var maxSerial uint32
	if len(items) > 0 {
		maxSerial = items[len(items)-1].serial
	}
	for _, r := range items {
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal([]byte(r.item), &fields); err != nil {
			return "", fmt.Errorf("corrupt status update %d: %w", r.serial, err)
		}
		fields["serial"] = json.RawMessage(fmt.Sprint(r.serial))
		fields["max_serial"] = json.RawMessage(fmt.Sprint(maxSerial))
		out = append(out, fields)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *Account) JoinRealtime(_ context.Context, messageID uint32) error {
	a.realtimeMu.Lock()
	defer a.realtimeMu.Unlock()
	a.realtime[messageID] = true
	return nil
}

func (a *Account) LeaveRealtime(_ context.Context, messageID uint32) error {
	a.realtimeMu.Lock()
	defer a.realtimeMu.Unlock()
	delete(a.realtime, messageID)
	return nil
}

// InRealtime reports whether the app of messageID joined its realtime channel.
func (a *Account) InRealtime(messageID uint32) bool {
	a.realtimeMu.Lock()
	defer a.realtimeMu.Unlock()
	return a.realtime[messageID]
}

// SendRealtimeData loops the packet back to the local instance. There is no
// peer transport in the local engine.
func (a *Account) SendRealtimeData(_ context.Context, messageID uint32, data []byte) error {
	if !a.InRealtime(messageID) {
		return fmt.Errorf("message %d has not joined its realtime channel", messageID)
	}
	a.emit(port.EngineEvent{
		Kind:      port.EventWebxdcRealtimeData,
		AccountID: a.id,
		MessageID: messageID,
		Data:      append([]byte(nil), data...),
	})
	return nil
}

// CreateChat adds a chat and returns its id.
func (a *Account) CreateChat(ctx context.Context, name string) (uint32, error) {
	res, err := a.db.ExecContext(ctx, `INSERT INTO chats (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create chat: %w", err)
	}
	id, err := res.LastInsertId()
	return uint32(id), err
}

// ImportWebxdc copies a .xdc archive into the blob directory and adds a
// webxdc message for it to chatID.
func (a *Account) ImportWebxdc(ctx context.Context, chatID uint32, archive io.Reader) (uint32, error) {
	file := uuid.NewString() + ".xdc"
	dst := filepath.Join(a.blobDir, file)
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := io.Copy(out, archive); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return 0, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, err
	}

	if _, _, err := readManifest(dst); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("not a webxdc archive: %w", err)
	}
	return a.insertMessage(ctx, chatID, entity.ViewTypeWebxdc, file, "")
}

// AddTextMessage adds a plain text message to chatID.
func (a *Account) AddTextMessage(ctx context.Context, chatID uint32, text string) (uint32, error) {
	return a.insertMessage(ctx, chatID, entity.ViewTypeText, "", text)
}

func (a *Account) insertMessage(ctx context.Context, chatID uint32, viewType entity.ViewType, file, text string) (uint32, error) {
	res, err := a.db.ExecContext(ctx,
		`INSERT INTO msgs (chat_id, viewtype, file, txt) VALUES (?, ?, ?, ?)`,
		int64(chatID), string(viewType), file, text)
	if err != nil {
		return 0, fmt.Errorf("failed to add message: %w", err)
	}
	id, err := res.LastInsertId()
	return uint32(id), err
}

// DeleteMessage removes a message and its blob.
func (a *Account) DeleteMessage(ctx context.Context, messageID uint32) error {
	msg, err := a.Message(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := a.db.ExecContext(ctx, `DELETE FROM msgs WHERE id = ?`, int64(messageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if msg.File != "" && !strings.ContainsAny(msg.File, `/\`) {
		_ = os.Remove(filepath.Join(a.blobDir, msg.File))
	}
	a.emit(port.EngineEvent{Kind: port.EventMessageDeleted, AccountID: a.id, MessageID: messageID})
	return nil
}

// WebxdcMessages lists the ids of all webxdc messages.
func (a *Account) WebxdcMessages(ctx context.Context) ([]uint32, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id FROM msgs WHERE viewtype = ? ORDER BY id`, string(entity.ViewTypeWebxdc))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ port.Account = (*Account)(nil)
