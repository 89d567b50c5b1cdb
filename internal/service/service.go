// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

// Package service orchestrates the attendance pipeline: it fetches meeting
// reports, runs the detection engine, manages review state, and persists
// attendance records.
package service

import "github.com/campushq/attendance-service/internal/engine"

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// Detection holds the pipeline thresholds, populated from environment
	// configuration in cmd.
	Detection engine.Config
	// BulkConcurrency bounds the worker pool used by bulk detection.
	BulkConcurrency int
}
