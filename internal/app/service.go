// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rosdash/internal/domain/dataset"
	"github.com/okian/rosdash/pkg/logger"
	"github.com/okian/rosdash/pkg/metrics"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	reader *dataset.Reader

	// Configuration
	dataPath string

	// State
	started      bool
	reads        atomic.Int64
	readErrors   atomic.Int64
	lastReadUnix atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPath sets the dataset file path served by the data endpoint.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath: "data/ros_dashboard_data.json",
		logger:   nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.reader = dataset.New(dataset.WithPath(s.dataPath))

	// The dataset file may legitimately not exist yet; log its state rather
	// than failing startup, since it is written out-of-band.
	if info, err := s.reader.Stat(ctx); err != nil {
		s.logger.Warn(ctx, "dataset file not readable at startup",
			logger.String("path", s.dataPath), logger.Error(err))
	} else {
		metrics.UpdateDatasetSizeBytes(info.SizeBytes)
		s.logger.Info(ctx, "dataset file found",
			logger.String("path", s.dataPath),
			logger.Int64("sizeBytes", info.SizeBytes),
		)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started", logger.String("dataPath", s.dataPath))

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped",
		logger.Int64("reads", s.reads.Load()),
		logger.Int64("readErrors", s.readErrors.Load()),
	)
}

// Data reads the dataset file and returns the decoded document.
// Every call re-reads from disk; there is no cache, so callers always see
// the current file contents.
func (s *Service) Data(ctx context.Context) (dataset.Document, error) {
	start := time.Now()
	doc, err := s.reader.Read(ctx)
	latencyMs := float64(time.Since(start).Milliseconds())
	metrics.RecordDatasetReadLatency(latencyMs)

	if err != nil {
		s.readErrors.Add(1)
		metrics.RecordDatasetReadError(readErrorReason(err))
		s.logger.Error(ctx, "dataset read failed",
			logger.String("path", s.reader.Path()), logger.Error(err))
		return nil, err
	}

	s.reads.Add(1)
	s.lastReadUnix.Store(time.Now().Unix())
	metrics.RecordDatasetRead()
	if info, statErr := s.reader.Stat(ctx); statErr == nil {
		metrics.UpdateDatasetSizeBytes(info.SizeBytes)
	}

	return doc, nil
}

// readErrorReason maps dataset errors to a metrics label.
func readErrorReason(err error) string {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return "not_found"
	case errors.Is(err, dataset.ErrMalformed):
		return "malformed"
	default:
		return "io"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"dataPath":   s.dataPath,
		"reads":      int(s.reads.Load()),
		"readErrors": int(s.readErrors.Load()),
	}

	if last := s.lastReadUnix.Load(); last > 0 {
		stats["lastReadUnix"] = last
	}

	if s.started {
		if info, err := s.reader.Stat(context.Background()); err == nil {
			stats["datasetSizeBytes"] = info.SizeBytes
			stats["datasetModUnix"] = info.ModTime.Unix()
		}
	}

	return stats
}
