package records

import (
	"context"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
)

// Effective modes reported back for audit and the rendered documents.
const (
	ModeLocal          = "LOCAL"
	ModeRemote         = "REMOTE"
	ModeRemoteFallback = "REMOTE (fallback)"
)

// remoteBackend lets tests substitute a failing remote.
type remoteBackend interface {
	Find(ctx context.Context, identifier string) ([]ProjectRecord, error)
}

// Resolver picks the backend for a lookup from the caller's configured mode.
// A remote error (connectivity, timeout, missing table) falls back to the
// snapshot; an empty remote result is terminal and does not.
type Resolver struct {
	local  *Local
	remote remoteBackend
	log    *logging.Logger
}

func NewResolver(local *Local, remote remoteBackend, log *logging.Logger) *Resolver {
	return &Resolver{local: local, remote: remote, log: log}
}

// Resolve returns the matching rows and the effective mode used.
func (r *Resolver) Resolve(ctx context.Context, identifier string, pref prefs.CallerPreference) ([]ProjectRecord, string) {
	id := Normalize(identifier)

	if pref.ModeOrDefault() == prefs.ModeRemote {
		if r.remote == nil {
			r.log.Warn("remote mode configured but no backend available, using snapshot",
				"identifier", id)
			return r.local.Find(id), ModeRemoteFallback
		}
		rows, err := r.remote.Find(ctx, id)
		if err != nil {
			r.log.Warn("remote lookup failed, falling back to snapshot",
				"identifier", id, "error", err)
			return r.local.Find(id), ModeRemoteFallback
		}
		return rows, ModeRemote
	}

	return r.local.Find(id), ModeLocal
}
