package service

import (
	"context"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/config"
)

const probeTimeout = 3 * time.Second

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ProbeStatus is the outcome of a single dependency health check.
type ProbeStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SystemStatus aggregates the health probes for the platform status page.
type SystemStatus struct {
	Database ProbeStatus `json:"database"`
	Redis    ProbeStatus `json:"redis"`
	Storage  ProbeStatus `json:"storage"`

	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	HeapAlloc     uint64  `json:"heap_alloc"`
	GoVersion     string  `json:"go_version"`
	Version       string  `json:"version"`
	Timestamp     int64   `json:"timestamp"`
}

// SystemService runs health probes against the external collaborators
// (PostgreSQL, Redis, object storage). Each probe fails soft: a broken
// dependency degrades its own status, never the status call itself.
type SystemService struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client // may be nil
	storage   *s3.Client    // may be nil
	cfg       *config.Config
	log       zerolog.Logger
	startTime time.Time
}

// NewSystemService creates a new SystemService.
func NewSystemService(pool *pgxpool.Pool, rdb *redis.Client, storage *s3.Client, cfg *config.Config, log zerolog.Logger) *SystemService {
	return &SystemService{
		pool:      pool,
		rdb:       rdb,
		storage:   storage,
		cfg:       cfg,
		log:       log.With().Str("component", "system_service").Logger(),
		startTime: time.Now(),
	}
}

// Status runs all probes and returns the aggregated snapshot.
func (s *SystemService) Status(ctx context.Context) *SystemStatus {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return &SystemStatus{
		Database:      s.probeDatabase(ctx),
		Redis:         s.probeRedis(ctx),
		Storage:       s.probeStorage(ctx),
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAlloc:     ms.HeapAlloc,
		GoVersion:     runtime.Version(),
		Version:       Version,
		Timestamp:     time.Now().Unix(),
	}
}

func (s *SystemService) probeDatabase(ctx context.Context) ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Database probe failed")
		return ProbeStatus{OK: false, Error: err.Error()}
	}
	return ProbeStatus{OK: true, Message: "Connected"}
}

func (s *SystemService) probeRedis(ctx context.Context) ProbeStatus {
	if s.rdb == nil {
		return ProbeStatus{OK: false, Message: "Not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Redis probe failed")
		return ProbeStatus{OK: false, Error: err.Error()}
	}
	return ProbeStatus{OK: true, Message: "Connected"}
}

func (s *SystemService) probeStorage(ctx context.Context) ProbeStatus {
	if s.storage == nil {
		return ProbeStatus{OK: false, Message: "Not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := s.storage.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.cfg.StorageBucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Storage probe failed")
		return ProbeStatus{OK: false, Error: err.Error()}
	}
	return ProbeStatus{OK: true, Message: "Reachable"}
}
