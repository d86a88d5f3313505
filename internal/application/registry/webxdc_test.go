package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/dcshell/internal/application/registry"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	updates []entity.WebxdcUpdate
}

func (s *recordingSink) Send(update entity.WebxdcUpdate) error {
	s.updates = append(s.updates, update)
	return nil
}

func instance(label string, accountID, messageID uint32) entity.Instance {
	return entity.Instance{
		Label:     label,
		AccountID: accountID,
		MessageID: messageID,
		Message:   entity.Message{ID: messageID, ViewType: entity.ViewTypeWebxdc, File: "app.xdc"},
	}
}

func TestWebxdcInstances_AddGetFind(t *testing.T) {
	r := registry.NewWebxdcInstances()

	require.NoError(t, r.Add(instance("embedded:a", 1, 42)))

	got, ok := r.Get("embedded:a")
	require.True(t, ok)
	assert.Equal(t, uint32(42), got.MessageID)

	found, ok := r.Find(1, 42)
	require.True(t, ok)
	assert.Equal(t, "embedded:a", found.Label)

	_, ok = r.Find(1, 43)
	assert.False(t, ok)
	_, ok = r.Get("embedded:missing")
	assert.False(t, ok)
}

func TestWebxdcInstances_AddDuplicate(t *testing.T) {
	r := registry.NewWebxdcInstances()
	require.NoError(t, r.Add(instance("embedded:a", 1, 42)))

	err := r.Add(instance("embedded:b", 1, 42))
	require.ErrorIs(t, err, entity.ErrDuplicateInstance)

	err = r.Add(instance("embedded:a", 2, 1))
	require.ErrorIs(t, err, entity.ErrDuplicateInstance)

	assert.Equal(t, 1, r.Len())
}

func TestWebxdcInstances_RemoveIsIdempotent(t *testing.T) {
	r := registry.NewWebxdcInstances()
	require.NoError(t, r.Add(instance("embedded:a", 1, 42)))

	removed, ok := r.Remove("embedded:a")
	require.True(t, ok)
	assert.Equal(t, uint32(1), removed.AccountID)

	_, ok = r.Remove("embedded:a")
	assert.False(t, ok)

	// the key is free again after removal
	require.NoError(t, r.Add(instance("embedded:b", 1, 42)))
}

func TestWebxdcInstances_LabelsForAccount(t *testing.T) {
	r := registry.NewWebxdcInstances()
	require.NoError(t, r.Add(instance("embedded:c", 7, 2)))
	require.NoError(t, r.Add(instance("embedded:a", 7, 1)))
	require.NoError(t, r.Add(instance("embedded:b", 8, 3)))

	assert.Equal(t, []string{"embedded:a", "embedded:c"}, r.LabelsForAccount(7))
	assert.Equal(t, []string{"embedded:b"}, r.LabelsForAccount(8))
	assert.Empty(t, r.LabelsForAccount(9))
	assert.Equal(t, []string{"embedded:a", "embedded:b", "embedded:c"}, r.Labels())
}

func TestWebxdcInstances_Sink(t *testing.T) {
	r := registry.NewWebxdcInstances()
	require.NoError(t, r.Add(instance("embedded:a", 1, 42)))

	_, err := r.SinkFor(1, 42)
	require.ErrorIs(t, err, entity.ErrChannelNotInitialized)

	_, err = r.SinkFor(1, 99)
	require.ErrorIs(t, err, entity.ErrInstanceNotFound)

	require.ErrorIs(t, r.SetSink("embedded:missing", &recordingSink{}), entity.ErrInstanceNotFound)

	sink := &recordingSink{}
	require.NoError(t, r.SetSink("embedded:a", sink))
	got, err := r.SinkFor(1, 42)
	require.NoError(t, err)
	assert.Same(t, sink, got)
}

func TestWebxdcInstances_ConcurrentAccess(t *testing.T) {
	r := registry.NewWebxdcInstances()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			label := fmt.Sprintf("embedded:%d", i)
			assert.NoError(t, r.Add(instance(label, uint32(i%5), uint32(i))))
		}(i)
		go func(i int) {
			defer wg.Done()
			if inst, ok := r.Find(uint32(i%5), uint32(i)); ok {
				assert.Equal(t, uint32(i), inst.MessageID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, r.Len())
	assert.Len(t, r.LabelsForAccount(0), 10)
}

func TestWebxdcInstances_UpdateMessage(t *testing.T) {
	r := registry.NewWebxdcInstances()
	require.NoError(t, r.Add(instance("embedded:a", 1, 42)))

	fresh := entity.Message{ID: 42, ViewType: entity.ViewTypeWebxdc, File: "app.xdc", Text: "updated"}
	assert.True(t, r.UpdateMessage("embedded:a", fresh))
	assert.False(t, r.UpdateMessage("embedded:missing", fresh))

	got, ok := r.Get("embedded:a")
	require.True(t, ok)
	assert.Equal(t, "updated", got.Message.Text)
}
