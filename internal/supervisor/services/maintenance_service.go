// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package services

import (
	"context"
	"time"

	"github.com/tomtom215/newsdesk/internal/logging"
)

// MaintenanceService calls task every interval until canceled. Task
// errors are logged; they do not restart the service.
type MaintenanceService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewMaintenanceService builds a periodic task. A non-positive interval
// becomes 5 minutes.
func NewMaintenanceService(name string, interval time.Duration, task func(ctx context.Context) error) *MaintenanceService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MaintenanceService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.task(ctx); err != nil {
				logging.Warn().Err(err).Str("task", s.name).Msg("Store maintenance failed")
				continue
			}
			logging.Debug().Str("task", s.name).Dur("duration", time.Since(start)).Msg("Store maintenance done")
		}
	}
}

func (s *MaintenanceService) String() string {
	return s.name
}
