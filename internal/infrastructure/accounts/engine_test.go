package accounts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/infrastructure/accounts"
	"github.com/bnema/dcshell/internal/infrastructure/accounts/accountstest"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestLocalEngine_CreateAndReopen(t *testing.T) {
	ctx := testCtx()
	root := t.TempDir()

	engine, err := accounts.Open(ctx, root)
	require.NoError(t, err)

	first, err := engine.CreateAccount(ctx)
	require.NoError(t, err)
	second, err := engine.CreateAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), first.ID())
	assert.Equal(t, uint32(2), second.ID())
	assert.Equal(t, dbBlobs, filepath.Base(first.BlobDir()))
	assert.DirExists(t, first.BlobDir())
	require.NoError(t, engine.Close())

	reopened, err := accounts.Open(ctx, root)
	require.NoError(t, err)
	defer reopened.Close()

	ids, err := reopened.AccountIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, ids)

	_, err = reopened.Account(ctx, 3)
	require.ErrorIs(t, err, entity.ErrAccountNotFound)

	third, err := reopened.CreateAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), third.ID())
}

const dbBlobs = "dc.db-blobs"

func TestLocalEngine_RemoveAccount(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")
	dir := filepath.Dir(account.BlobDir())

	require.NoError(t, engine.RemoveAccount(ctx, account.ID()))
	assert.NoDirExists(t, dir)
	require.ErrorIs(t, engine.RemoveAccount(ctx, account.ID()), entity.ErrAccountNotFound)
}

func TestAccount_WebxdcInfoAndBlobs(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")
	require.NoError(t, account.SetConfig(ctx, accounts.ConfigDisplayName, "Alice \"A\""))
	app := accountstest.AddApp(t, account, "Team", accountstest.DefaultApp("Poll"))

	msg, err := account.Message(ctx, app.MessageID)
	require.NoError(t, err)
	assert.True(t, msg.IsWebxdc())
	assert.Equal(t, app.ChatID, msg.ChatID)

	chatName, err := account.ChatName(ctx, app.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "Team", chatName)

	info, err := account.WebxdcInfo(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, "Poll", info.Name)
	assert.Equal(t, "icon.png", info.Icon)
	assert.Equal(t, "alice@example.org", info.SelfAddr)
	assert.Equal(t, "Alice \"A\"", info.SelfName)
	assert.Equal(t, "https://example.org/src", info.SourceCodeURL)
	assert.Equal(t, accounts.SendUpdateInterval, info.SendUpdateInterval)
	assert.Equal(t, accounts.SendUpdateMaxSize, info.SendUpdateMaxSize)

	data, err := account.ReadBlob(ctx, msg, "/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Poll")

	data, err = account.ReadBlob(ctx, msg, "sub/../app.js")
	require.NoError(t, err)
	assert.Equal(t, "console.log('hi')", string(data))

	_, err = account.ReadBlob(ctx, msg, "missing.css")
	require.Error(t, err)

	_, err = account.Message(ctx, 999)
	require.ErrorIs(t, err, entity.ErrMessageNotFound)
}

func TestAccount_ManifestMissingFallsBackToFileName(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "bob@example.org")
	app := accountstest.AddApp(t, account, "Chat", map[string]string{"index.html": "<p>hi</p>"})

	msg, err := account.Message(ctx, app.MessageID)
	require.NoError(t, err)
	info, err := account.WebxdcInfo(ctx, msg)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Name)
	assert.Empty(t, info.Icon)
	assert.Equal(t, "bob@example.org", info.SelfName)
}

func TestAccount_ImportRejectsNonArchive(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "bob@example.org")
	chatID, err := account.CreateChat(ctx, "Chat")
	require.NoError(t, err)

	_, err = account.ImportWebxdc(ctx, chatID, bytes.NewReader([]byte("not a zip")))
	require.Error(t, err)
}

func TestAccount_StatusUpdates(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")
	app := accountstest.AddApp(t, account, "Team", accountstest.DefaultApp("Poll"))

	require.NoError(t, account.SendStatusUpdate(ctx, app.MessageID, json.RawMessage(`{"payload":{"vote":1}}`)))
	require.NoError(t, account.SendStatusUpdate(ctx, app.MessageID, json.RawMessage(`{"payload":{"vote":2},"document":"Lunch"}`)))
	require.Error(t, account.SendStatusUpdate(ctx, app.MessageID, json.RawMessage(`{"info":"no payload"}`)))

	raw, err := account.StatusUpdates(ctx, app.MessageID, 0)
	require.NoError(t, err)
	var updates []struct {
		Payload   map[string]int `json:"payload"`
		Serial    uint32         `json:"serial"`
		MaxSerial uint32         `json:"max_serial"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &updates))
	require.Len(t, updates, 2)
	assert.Equal(t, 1, updates[0].Payload["vote"])
	assert.Equal(t, updates[1].Serial, updates[0].MaxSerial)

	raw, err = account.StatusUpdates(ctx, app.MessageID, updates[1].Serial)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	msg, err := account.Message(ctx, app.MessageID)
	require.NoError(t, err)
	info, err := account.WebxdcInfo(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", info.Document)

	kinds := drainKinds(engine.Events())
	assert.Equal(t, []port.EngineEventKind{
		port.EventWebxdcStatusUpdate,
		port.EventWebxdcStatusUpdate,
		port.EventMessageChanged,
	}, kinds)
}

func TestAccount_Realtime(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")

	require.Error(t, account.SendRealtimeData(ctx, 5, []byte{1}))
	require.NoError(t, account.JoinRealtime(ctx, 5))
	assert.True(t, account.InRealtime(5))
	require.NoError(t, account.SendRealtimeData(ctx, 5, []byte{1, 2}))

	select {
	case ev := <-engine.Events():
		assert.Equal(t, port.EventWebxdcRealtimeData, ev.Kind)
		assert.Equal(t, []byte{1, 2}, ev.Data)
	case <-time.After(time.Second):
		t.Fatal("no realtime event")
	}

	require.NoError(t, account.LeaveRealtime(ctx, 5))
	require.NoError(t, account.LeaveRealtime(ctx, 5))
	assert.False(t, account.InRealtime(5))
}

func TestAccount_DeleteMessage(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")
	app := accountstest.AddApp(t, account, "Team", accountstest.DefaultApp("Poll"))

	msg, err := account.Message(ctx, app.MessageID)
	require.NoError(t, err)
	blob := filepath.Join(account.BlobDir(), msg.File)
	require.FileExists(t, blob)

	ids, err := account.WebxdcMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint32{app.MessageID}, ids)

	require.NoError(t, account.DeleteMessage(ctx, app.MessageID))
	assert.NoFileExists(t, blob)
	_, err = account.Message(ctx, app.MessageID)
	require.ErrorIs(t, err, entity.ErrMessageNotFound)

	assert.Equal(t, []port.EngineEventKind{port.EventMessageDeleted}, drainKinds(engine.Events()))
}

func TestAccount_ProxyEnabled(t *testing.T) {
	ctx := testCtx()
	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")

	enabled, err := account.ProxyEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, account.SetConfig(ctx, accounts.ConfigProxyEnabled, "1"))
	enabled, err = account.ProxyEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func drainKinds(events <-chan port.EngineEvent) []port.EngineEventKind {
	var kinds []port.EngineEventKind
	for {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Kind)
		default:
			return kinds
		}
	}
}
