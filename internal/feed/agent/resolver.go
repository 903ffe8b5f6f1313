// Package agent batch-resolves owner display metadata for feed rows.
package agent

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

type Resolver struct {
	directory domain.AgentDirectory
	logger    logger.Logger

	mu    sync.Mutex
	cache map[string]domain.AgentInfo
}

func NewResolver(directory domain.AgentDirectory, log logger.Logger) *Resolver {
	return &Resolver{
		directory: directory,
		logger:    log,
		cache:     make(map[string]domain.AgentInfo),
	}
}

// ResolveBatch returns an entry for every input id. Duplicates are
// collapsed before any lookup, so an identifier is resolved at most once
// per batch. A failed lookup maps the id to the fixed default instead of
// failing the batch; only successful resolutions are cached, and cached
// entries live until Invalidate. Identity metadata changes rarely, so
// there is no TTL.
func (r *Resolver) ResolveBatch(ctx context.Context, ownerIDs []string) map[string]domain.AgentInfo {
	resolved := make(map[string]domain.AgentInfo, len(ownerIDs))

	for _, id := range ownerIDs {
		if id == "" {
			continue
		}
		if _, done := resolved[id]; done {
			continue
		}

		if info, ok := r.cached(id); ok {
			resolved[id] = info
			continue
		}

		info, err := r.directory.Resolve(ctx, id)
		if err != nil {
			r.logger.Warnf("Resolver.ResolveBatch: falling back to default agent info for owner %s: %v", id, err)
			resolved[id] = domain.DefaultAgentInfo()
			continue
		}

		r.mu.Lock()
		r.cache[id] = *info
		r.mu.Unlock()
		resolved[id] = *info
	}
	return resolved
}

// Invalidate drops one cached identity so the next batch re-resolves it.
func (r *Resolver) Invalidate(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, ownerID)
}

func (r *Resolver) cached(id string) (domain.AgentInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.cache[id]
	return info, ok
}
