// AngelaMos | 2026
// handler.go

// Package admin exposes operational stats and mounts the moderation
// endpoints contributed by other feature packages.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

type Handler struct {
	db         core.DBTX
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
}

type HandlerConfig struct {
	DB         core.DBTX
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		db:         cfg.DB,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetStats)
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	app, err := h.appStats(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	dbHealthy := true
	if h.dbPing != nil && h.dbPing(ctx) != nil {
		dbHealthy = false
	}

	redisHealthy := true
	if h.redisPing != nil && h.redisPing(ctx) != nil {
		redisHealthy = false
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	core.OK(w, StatsResponse{
		App: app,
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	})
}

// appStats runs the domain counts in one round trip.
func (h *Handler) appStats(ctx context.Context) (AppStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM users
				WHERE subscription_tier <> 'free') AS paid_users,
			(SELECT COUNT(*) FROM classes) AS classes,
			(SELECT COUNT(*) FROM notes) AS notes,
			(SELECT COUNT(*) FROM notes WHERE is_shared = TRUE) AS shared_notes,
			(SELECT COUNT(*) FROM gyms) AS gyms,
			(SELECT COUNT(*) FROM note_reports
				WHERE status = 'open') AS open_reports,
			(SELECT COALESCE(SUM(storage_used_bytes), 0)
				FROM users) AS storage_bytes`

	var stats AppStats
	if err := h.db.GetContext(ctx, &stats, query); err != nil {
		return AppStats{}, fmt.Errorf("admin stats: %w", err)
	}

	return stats, nil
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type StatsResponse struct {
	App      AppStats       `json:"app"`
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type AppStats struct {
	Users        int64 `db:"users" json:"users"`
	PaidUsers    int64 `db:"paid_users" json:"paid_users"`
	Classes      int64 `db:"classes" json:"classes"`
	Notes        int64 `db:"notes" json:"notes"`
	SharedNotes  int64 `db:"shared_notes" json:"shared_notes"`
	Gyms         int64 `db:"gyms" json:"gyms"`
	OpenReports  int64 `db:"open_reports" json:"open_reports"`
	StorageBytes int64 `db:"storage_bytes" json:"storage_bytes"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
