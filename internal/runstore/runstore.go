// Package runstore records conversion runs in a SQL database so they can be
// reviewed, exported and migrated later.
package runstore

import (
	"sync"

	"github.com/huangsam/seisread/internal/contract"
)

// StoreManager owns the process-wide run store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRunStore returns the run store, or nil before InitStores.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
