// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

// Package engine implements the attendance computation pipeline: segment
// normalization, identity matching, departure histograms, cliff detection,
// and attendance calculation. Everything in this package is a pure function
// of its inputs; all I/O lives in the service and infrastructure layers.
package engine

import "github.com/campushq/attendance-service/pkg/constants"

// Config holds the tunable parameters of the attendance pipeline. Thresholds
// are policy, not code: they are populated from configuration in cmd and
// passed down, never read from globals.
type Config struct {
	// MergeGapMinutes is the gap under which adjacent segments of one
	// participant are merged.
	MergeGapMinutes float64

	// BucketWidthMinutes is the departure histogram bucket width.
	BucketWidthMinutes int

	// CliffWindowMinutes is the width of the scanning window.
	CliffWindowMinutes int

	// MinAbsoluteDepartures, MinDepartureFraction and MinSpikeRatio are the
	// thresholds a window must clear to count as a detected cliff.
	MinAbsoluteDepartures int
	MinDepartureFraction  float64
	MinSpikeRatio         float64

	// HighSpikeRatio and HighDepartureFraction gate high confidence.
	HighSpikeRatio        float64
	HighDepartureFraction float64

	// MinParticipants is the minimum participant count for detection to be
	// attempted; below it the session is skipped.
	MinParticipants int
}

// DefaultConfig returns the default pipeline parameters.
func DefaultConfig() Config {
	return Config{
		MergeGapMinutes:       constants.DefaultMergeGapMinutes,
		BucketWidthMinutes:    constants.DefaultBucketWidthMinutes,
		CliffWindowMinutes:    constants.DefaultCliffWindowMinutes,
		MinAbsoluteDepartures: constants.DefaultMinAbsoluteDepartures,
		MinDepartureFraction:  constants.DefaultMinDepartureFraction,
		MinSpikeRatio:         constants.DefaultMinSpikeRatio,
		HighSpikeRatio:        constants.DefaultHighSpikeRatio,
		HighDepartureFraction: constants.DefaultHighDepartureFraction,
		MinParticipants:       constants.DefaultMinParticipants,
	}
}
