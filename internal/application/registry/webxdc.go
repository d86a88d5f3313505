// Package registry tracks live webxdc and HTML email windows.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
)

type webxdcRecord struct {
	instance entity.Instance
	sink     port.UpdateSink
}

// WebxdcInstances maps window labels to live webxdc instances and keeps a
// secondary index by (account, message). Entries are value snapshots and
// never reference the window.
type WebxdcInstances struct {
	mu      sync.RWMutex
	byLabel map[string]*webxdcRecord
	byKey   map[entity.InstanceKey]string
}

// NewWebxdcInstances creates an empty registry.
func NewWebxdcInstances() *WebxdcInstances {
	return &WebxdcInstances{
		byLabel: make(map[string]*webxdcRecord),
		byKey:   make(map[entity.InstanceKey]string),
	}
}

// Add inserts an instance under its label.
func (r *WebxdcInstances) Add(inst entity.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byKey[inst.Key()]; ok {
		return fmt.Errorf("%w: %s is open in %s", entity.ErrDuplicateInstance, inst.Key(), existing)
	}
	if _, ok := r.byLabel[inst.Label]; ok {
		return fmt.Errorf("%w: label %s already registered", entity.ErrDuplicateInstance, inst.Label)
	}
	r.byLabel[inst.Label] = &webxdcRecord{instance: inst}
	r.byKey[inst.Key()] = inst.Label
	return nil
}

// Get returns the instance registered under label.
func (r *WebxdcInstances) Get(label string) (entity.Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byLabel[label]
	if !ok {
		return entity.Instance{}, false
	}
	return rec.instance, true
}

// Find returns the instance open for (accountID, messageID).
func (r *WebxdcInstances) Find(accountID, messageID uint32) (entity.Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	label, ok := r.byKey[entity.InstanceKey{AccountID: accountID, MessageID: messageID}]
	if !ok {
		return entity.Instance{}, false
	}
	return r.byLabel[label].instance, true
}

// Remove deletes the entry of label. Removing an unknown label is a no-op.
func (r *WebxdcInstances) Remove(label string) (entity.Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byLabel[label]
	if !ok {
		return entity.Instance{}, false
	}
	delete(r.byLabel, label)
	delete(r.byKey, rec.instance.Key())
	return rec.instance, true
}

// LabelsForAccount lists the window labels of every instance of accountID, sorted.
func (r *WebxdcInstances) LabelsForAccount(accountID uint32) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var labels []string
	for label, rec := range r.byLabel {
		if rec.instance.AccountID == accountID {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// Labels lists all registered window labels, sorted.
func (r *WebxdcInstances) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.byLabel))
	for label := range r.byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of live instances.
func (r *WebxdcInstances) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byLabel)
}

// SetSink attaches the update channel of a running app.
func (r *WebxdcInstances) SetSink(label string, sink port.UpdateSink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byLabel[label]
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrInstanceNotFound, label)
	}
	rec.sink = sink
	return nil
}

// SinkFor returns the update channel of the instance open for (accountID, messageID).
func (r *WebxdcInstances) SinkFor(accountID, messageID uint32) (port.UpdateSink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	label, ok := r.byKey[entity.InstanceKey{AccountID: accountID, MessageID: messageID}]
	if !ok {
		return nil, fmt.Errorf("%w: %d/%d", entity.ErrInstanceNotFound, accountID, messageID)
	}
	sink := r.byLabel[label].sink
	if sink == nil {
		return nil, entity.ErrChannelNotInitialized
	}
	return sink, nil
}

// UpdateMessage replaces the message snapshot of label. It reports false
// when label is not registered.
func (r *WebxdcInstances) UpdateMessage(label string, msg entity.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byLabel[label]
	if !ok {
		return false
	}
	rec.instance.Message = msg
	return true
}
