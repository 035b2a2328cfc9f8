package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/domain/store"
	"github.com/storepos/backend/internal/infrastructure/config"
	"github.com/storepos/backend/internal/infrastructure/logger"
)

// pgDuplicateDatabase is the SQLSTATE Postgres reports when the target
// database already exists. Provisioning treats it as success so the
// create step stays idempotent.
const pgDuplicateDatabase = "42P04"

// Opener opens a gorm handle for a DSN. Injectable so tests can stand
// in fake engines without a running Postgres.
type Opener func(dsn string) (*gorm.DB, error)

// Registry resolves store IDs to live handles on per-store databases.
//
// It is the one shared mutable structure touched by every tenant. The
// cache is guarded by a mutex; each key moves through
// Unknown -> Creating -> Ready, and concurrent callers for the same
// unseen store block on the creating entry until it is Ready or the
// provisioning attempt fails. A failed attempt removes the entry, so
// the next caller retries creation from scratch. Entries are never
// evicted; a cached handle lives for the rest of the process.
type Registry struct {
	cfg    *config.DatabaseConfig
	admin  *gorm.DB
	opener Opener
	logger *zap.Logger

	mu      sync.Mutex
	entries map[uint64]*registryEntry
}

// registryEntry is one cache slot. done is closed when the slot leaves
// the Creating state; handle or err is set before that happens.
type registryEntry struct {
	done   chan struct{}
	handle *gorm.DB
	err    error
}

// NewRegistry creates a registry over an administrative connection to
// the shared engine instance. The default opener dials the engine with
// the configured pool settings and attaches the otelgorm plugin when
// tracing is enabled.
func NewRegistry(cfg *config.DatabaseConfig, admin *gorm.DB, log *zap.Logger, traced bool) *Registry {
	return &Registry{
		cfg:     cfg,
		admin:   admin,
		opener:  defaultOpener(cfg, traced),
		logger:  log,
		entries: make(map[uint64]*registryEntry),
	}
}

// NewRegistryWithOpener creates a registry with a custom connection
// opener. Used by tests and by callers embedding a non-default driver.
func NewRegistryWithOpener(cfg *config.DatabaseConfig, admin *gorm.DB, log *zap.Logger, opener Opener) *Registry {
	return &Registry{
		cfg:     cfg,
		admin:   admin,
		opener:  opener,
		logger:  log,
		entries: make(map[uint64]*registryEntry),
	}
}

func defaultOpener(cfg *config.DatabaseConfig, traced bool) Opener {
	return func(dsn string) (*gorm.DB, error) {
		db, err := openGorm(dsn, cfg, gormlogger.Silent)
		if err != nil {
			return nil, err
		}
		if traced {
			if err := db.Use(otelgorm.NewPlugin()); err != nil {
				return nil, fmt.Errorf("failed to attach otelgorm plugin: %w", err)
			}
		}
		return db, nil
	}
}

// Resolve returns the cached handle for the store, provisioning the
// store's database first when it has never been seen.
func (r *Registry) Resolve(ctx context.Context, storeID uint64) (*gorm.DB, error) {
	return r.getOrCreate(ctx, storeID)
}

// Provision ensures the store's database exists and returns a handle
// to it. Calling it for an already-provisioned store is a no-op that
// returns the cached handle.
func (r *Registry) Provision(ctx context.Context, storeID uint64) (*gorm.DB, error) {
	return r.getOrCreate(ctx, storeID)
}

// getOrCreate is the race-safe get-or-atomically-create primitive.
// Exactly one caller wins the Creating slot and performs the physical
// creation; everyone else waits on the slot's done channel.
func (r *Registry) getOrCreate(ctx context.Context, storeID uint64) (*gorm.DB, error) {
	if storeID == 0 {
		return nil, shared.ErrScopeViolation
	}

	r.mu.Lock()
	if e, ok := r.entries[storeID]; ok {
		r.mu.Unlock()
		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return e.handle, e.err
	}

	e := &registryEntry{done: make(chan struct{})}
	r.entries[storeID] = e
	r.mu.Unlock()

	handle, err := r.provision(ctx, storeID)
	if err != nil {
		// Leave no cache entry behind: a later call must be able to
		// attempt creation again.
		r.mu.Lock()
		delete(r.entries, storeID)
		r.mu.Unlock()
		e.err = err
		close(e.done)
		return nil, err
	}

	e.handle = handle
	close(e.done)
	return handle, nil
}

// provision performs the physical creation protocol: issue the
// create-database command over the administrative connection, then
// open a dedicated handle to the new database.
func (r *Registry) provision(ctx context.Context, storeID uint64) (*gorm.DB, error) {
	name := store.DatabaseName(storeID)

	// Database identifiers cannot be bound parameters; name is built
	// from the numeric store ID only.
	if err := r.admin.WithContext(ctx).Exec("CREATE DATABASE " + name).Error; err != nil {
		if !isDuplicateDatabase(err) {
			r.logger.Error("Store database creation failed",
				logger.StoreField(storeID), zap.Error(err))
			return nil, fmt.Errorf("%w: create database %s: %v", shared.ErrProvisioningFailed, name, err)
		}
		r.logger.Debug("Store database already exists", logger.StoreField(storeID))
	}

	handle, err := r.opener(r.cfg.DSN(name))
	if err != nil {
		r.logger.Error("Store database connection failed",
			logger.StoreField(storeID), zap.Error(err))
		return nil, fmt.Errorf("%w: connect to %s: %v", shared.ErrProvisioningFailed, name, err)
	}

	r.logger.Info("Store database ready", logger.StoreField(storeID))
	return handle, nil
}

// isDuplicateDatabase reports whether the error is Postgres telling us
// the database already exists.
func isDuplicateDatabase(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgDuplicateDatabase
}

// Size returns the number of cached store handles
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close closes every cached store handle. The registry must not be
// used afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, e := range r.entries {
		select {
		case <-e.done:
		default:
			continue // still provisioning, nothing to close yet
		}
		if e.handle == nil {
			continue
		}
		sqlDB, err := e.handle.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("store_%d: %w", id, err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store_%d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Ensure Registry implements the domain contract
var _ store.Registry = (*Registry)(nil)
