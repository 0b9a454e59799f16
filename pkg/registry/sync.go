package registry

import (
	"sync"

	"storemy/pkg/database"
	dberror "storemy/pkg/error"
	"storemy/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// syncConcurrency bounds how many databases SyncAll syncs at once.
const syncConcurrency = 4

// Sync syncs every open database in name order and stops at the first
// failure, returning its code. Databases after the failing one are not
// synced by this call.
func (r *Registry) Sync() dberror.RC {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.namesLocked() {
		if rc := r.opened[name].Sync(); rc != dberror.Success {
			logging.WithDatabase(name).Error("failed to sync db", "rc", rc)
			return rc
		}
	}
	return dberror.Success
}

// SyncAll syncs every open database, continuing past failures, and returns
// the result for each one keyed by name.
func (r *Registry) SyncAll() map[string]dberror.RC {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]dberror.RC, len(r.opened))
		g       errgroup.Group
	)
	g.SetLimit(syncConcurrency)

	for name, db := range r.opened {
		g.Go(func() error {
			rc := syncOne(name, db)
			mu.Lock()
			results[name] = rc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func syncOne(name string, db database.Database) dberror.RC {
	rc := db.Sync()
	if rc != dberror.Success {
		logging.WithDatabase(name).Error("failed to sync db", "rc", rc)
	}
	return rc
}
