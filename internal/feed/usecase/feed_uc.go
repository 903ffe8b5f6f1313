package usecase

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/agent"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/ranking"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/sponsorship"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

const (
	DefaultPageSize      = 20
	DefaultMaxCandidates = 200
)

type FeedConfig struct {
	PageSize int
	// MaxCandidates caps how many raw listings one ranking pass may pull
	// from the store. Sponsorships reorder items across the whole result
	// set, so windows are always sliced from a full ranked candidate
	// order rather than re-queried page by page; the cap keeps that scan
	// bounded. A window past the cap reports hasMore=false.
	MaxCandidates int
}

// FeedService assembles ranked, metadata-resolved feed pages and owns the
// snapshot cache orchestration. Sessions created from it hold the
// per-caller cursor state.
type FeedService struct {
	store  domain.ListingStore
	ledger *sponsorship.Ledger
	agents *agent.Resolver
	cache  domain.SnapshotCache
	images domain.ImageResolver // optional
	logger logger.Logger
	cfg    FeedConfig
	now    func() time.Time
	tracer trace.Tracer
}

func NewFeedService(
	store domain.ListingStore,
	ledger *sponsorship.Ledger,
	agents *agent.Resolver,
	cache domain.SnapshotCache,
	images domain.ImageResolver,
	cfg FeedConfig,
	log logger.Logger,
) *FeedService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	return &FeedService{
		store:  store,
		ledger: ledger,
		agents: agents,
		cache:  cache,
		images: images,
		logger: log,
		cfg:    cfg,
		now:    time.Now,
		tracer: otel.Tracer("feed-service"),
	}
}

// WithClock overrides the sampled instant; tests drive sponsorship
// windows deterministically.
func (s *FeedService) WithClock(now func() time.Time) *FeedService {
	s.now = now
	return s
}

// SessionState is the session's load lifecycle: Idle -> Loading ->
// {Loaded, Errored}, and Loaded/Errored -> Loading on the next load.
type SessionState int

const (
	StateIdle SessionState = iota
	StateLoading
	StateLoaded
	StateErrored
)

// FeedSession is one caller's cursor over a feed variant. It is owned by
// that caller; concurrent loads on the same session are rejected, and
// every in-flight request carries the generation it was issued for so
// results of abandoned requests are discarded instead of corrupting
// state.
type FeedSession struct {
	svc   *FeedService
	query domain.FeedQuery

	mu         sync.Mutex
	state      SessionState
	loading    bool
	generation uint64
	offset     int
	total      int64
	hasMore    bool
	lastErr    error
}

func (s *FeedService) NewSession(query domain.FeedQuery) *FeedSession {
	if query.PageSize <= 0 {
		query.PageSize = s.cfg.PageSize
	}
	return &FeedSession{svc: s, query: query, hasMore: true}
}

func (fs *FeedSession) Query() domain.FeedQuery { return fs.query }

// State reports where the session is in its load lifecycle.
func (fs *FeedSession) State() SessionState {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.state
}

// LastError returns the error retained from the most recent failed load.
func (fs *FeedSession) LastError() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastErr
}

// InitialPage serves the first page, from the snapshot cache when a
// fresh entry exists (no upstream call at all), otherwise from a full
// fetch whose result is written back to the cache.
func (fs *FeedSession) InitialPage(ctx context.Context) (*domain.FeedPage, error) {
	ctx, span := fs.svc.tracer.Start(ctx, "FeedSession.InitialPage",
		trace.WithAttributes(attribute.String("feed.key", fs.query.CacheKey())))
	defer span.End()

	gen, err := fs.begin()
	if err != nil {
		return nil, err
	}

	key := fs.query.CacheKey()
	if snap, ok := fs.svc.cache.Get(ctx, key); ok {
		fs.svc.logger.Debugf("FeedSession.InitialPage: cache hit for %s", key)
		hasMore := len(snap.Rows) >= fs.query.PageSize
		return fs.commit(gen, nil, snap.Rows, len(snap.Rows), snap.Total, hasMore)
	}

	rows, total, hasMore, err := fs.svc.loadWindow(ctx, fs.query, 0, fs.query.PageSize)
	if err != nil {
		return nil, fs.fail(gen, err)
	}
	return fs.commit(gen, func(ctx context.Context) {
		fs.svc.cache.Put(ctx, key, domain.FeedSnapshot{Rows: rows, Total: total})
	}, rows, len(rows), total, hasMore)
}

// NextPage always bypasses the cache and slices the next window from the
// current full ranked order.
func (fs *FeedSession) NextPage(ctx context.Context) (*domain.FeedPage, error) {
	ctx, span := fs.svc.tracer.Start(ctx, "FeedSession.NextPage",
		trace.WithAttributes(attribute.String("feed.key", fs.query.CacheKey())))
	defer span.End()

	gen, err := fs.begin()
	if err != nil {
		return nil, err
	}

	fs.mu.Lock()
	offset := fs.offset
	fs.mu.Unlock()

	rows, total, hasMore, err := fs.svc.loadWindow(ctx, fs.query, offset, fs.query.PageSize)
	if err != nil {
		return nil, fs.fail(gen, err)
	}
	return fs.commit(gen, nil, rows, offset+len(rows), total, hasMore)
}

// Reset abandons any in-flight load, drops the cache entry for the key
// and behaves like a forced initial page.
func (fs *FeedSession) Reset(ctx context.Context) (*domain.FeedPage, error) {
	ctx, span := fs.svc.tracer.Start(ctx, "FeedSession.Reset",
		trace.WithAttributes(attribute.String("feed.key", fs.query.CacheKey())))
	defer span.End()

	fs.mu.Lock()
	fs.generation++
	gen := fs.generation
	fs.loading = true
	fs.state = StateLoading
	fs.offset = 0
	fs.hasMore = true
	fs.mu.Unlock()

	key := fs.query.CacheKey()
	fs.svc.cache.Invalidate(ctx, key)

	rows, total, hasMore, err := fs.svc.loadWindow(ctx, fs.query, 0, fs.query.PageSize)
	if err != nil {
		return nil, fs.fail(gen, err)
	}
	return fs.commit(gen, func(ctx context.Context) {
		fs.svc.cache.Put(ctx, key, domain.FeedSnapshot{Rows: rows, Total: total})
	}, rows, len(rows), total, hasMore)
}

// begin serializes loads on this session and captures the generation the
// request runs under.
func (fs *FeedSession) begin() (uint64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.loading {
		return 0, domain.ErrLoadInProgress
	}
	fs.loading = true
	fs.state = StateLoading
	return fs.generation, nil
}

// commit applies a finished load, but only if the session generation
// still matches; otherwise the result belongs to an abandoned request
// and is dropped without touching state or cache. cachePut runs under
// the session lock so a concurrent Reset cannot interleave between the
// generation check and the cache write.
func (fs *FeedSession) commit(gen uint64, cachePut func(context.Context), rows []domain.FeedRow, newOffset int, total int64, hasMore bool) (*domain.FeedPage, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.generation != gen {
		return nil, domain.ErrStaleRequest
	}
	if cachePut != nil {
		cachePut(context.Background())
	}
	fs.loading = false
	fs.state = StateLoaded
	fs.offset = newOffset
	fs.total = total
	fs.hasMore = hasMore
	fs.lastErr = nil
	return &domain.FeedPage{Items: rows, HasMore: hasMore, TotalEstimate: total}, nil
}

// fail records the error without clearing already-loaded cursor state,
// so a failed "load more" leaves previously shown items intact.
func (fs *FeedSession) fail(gen uint64, err error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.generation != gen {
		return domain.ErrStaleRequest
	}
	fs.loading = false
	fs.state = StateErrored
	fs.lastErr = err
	return err
}

// loadWindow computes the full ranked candidate order (bounded by
// MaxCandidates) and slices [offset, offset+limit) from it, resolving
// owner metadata for the window only.
func (s *FeedService) loadWindow(ctx context.Context, query domain.FeedQuery, offset, limit int) ([]domain.FeedRow, int64, bool, error) {
	filter := domain.ListingFilter{Mode: query.Mode, Country: query.Country}

	listings, total, err := s.store.Query(ctx, filter, 0, s.cfg.MaxCandidates)
	if err != nil {
		s.logger.Errorf("FeedService.loadWindow: listing query failed: %v", err)
		return nil, 0, false, domain.Unavailable(err)
	}

	at := s.now()
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	active, err := s.ledger.ActiveFor(ctx, ids, at)
	if err != nil {
		return nil, 0, false, err
	}

	ranked := ranking.Rank(listings, active)

	if offset > len(ranked) {
		offset = len(ranked)
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	window := ranked[offset:end]

	owners := make([]string, 0, len(window))
	for _, l := range window {
		owners = append(owners, l.OwnerID)
	}
	agents := s.agents.ResolveBatch(ctx, owners)

	rows := make([]domain.FeedRow, 0, len(window))
	for _, l := range window {
		row := domain.FeedRow{Listing: l, Agent: agents[l.OwnerID]}
		if sp, ok := active[l.ID]; ok {
			row.Sponsored = true
			row.BoostLevel = sp.BoostLevel
		}
		s.resolveCoverImage(ctx, &row)
		rows = append(rows, row)
	}

	hasMore := end < len(ranked)
	return rows, total, hasMore, nil
}

// resolveCoverImage swaps the first image reference for a servable URL.
// Best effort: a failed presign leaves the raw reference in place.
func (s *FeedService) resolveCoverImage(ctx context.Context, row *domain.FeedRow) {
	if s.images == nil || len(row.Listing.Images) == 0 {
		return
	}
	url, err := s.images.URL(ctx, row.Listing.Images[0])
	if err != nil {
		s.logger.Warnf("FeedService.resolveCoverImage: presign failed for %s: %v", row.Listing.Images[0], err)
		return
	}
	images := make([]string, len(row.Listing.Images))
	copy(images, row.Listing.Images)
	images[0] = url
	row.Listing.Images = images
}
