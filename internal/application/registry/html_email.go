package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/dcshell/internal/domain/entity"
)

// HTMLEmailInstances maps HTML email window labels to their viewer state.
type HTMLEmailInstances struct {
	mu        sync.RWMutex
	instances map[string]*entity.HTMLEmailInstance
}

// NewHTMLEmailInstances creates an empty registry.
func NewHTMLEmailInstances() *HTMLEmailInstances {
	return &HTMLEmailInstances{instances: make(map[string]*entity.HTMLEmailInstance)}
}

// Add registers inst under its label, replacing nothing.
func (r *HTMLEmailInstances) Add(inst *entity.HTMLEmailInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[inst.Label]; ok {
		return fmt.Errorf("html email window %s already registered", inst.Label)
	}
	stored := *inst
	r.instances[inst.Label] = &stored
	return nil
}

// Get returns a copy of the state of label.
func (r *HTMLEmailInstances) Get(label string) (entity.HTMLEmailInstance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instances[label]
	if !ok {
		return entity.HTMLEmailInstance{}, false
	}
	return *inst, true
}

// Find returns the label of the viewer open for (accountID, messageID).
func (r *HTMLEmailInstances) Find(accountID, messageID uint32) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for label, inst := range r.instances {
		if inst.AccountID == accountID && inst.MessageID == messageID {
			return label, true
		}
	}
	return "", false
}

// SetNetworkAllowState applies a remote content toggle atomically.
func (r *HTMLEmailInstances) SetNetworkAllowState(label string, allow bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[label]
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrHTMLInstanceNotFound, label)
	}
	return inst.SetNetworkAllowState(allow)
}

// Remove deletes the state of label. Removing an unknown label is a no-op.
func (r *HTMLEmailInstances) Remove(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, label)
}

// Labels lists all open viewer labels, sorted.
func (r *HTMLEmailInstances) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.instances))
	for label := range r.instances {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
