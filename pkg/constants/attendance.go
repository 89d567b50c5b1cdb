// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package constants

// Session time constraints
const (
	// MaxSessionDurationMinutes is the maximum duration of a session in minutes
	MaxSessionDurationMinutes = 600
)

// Default detection parameters. These are fallbacks only; deployments tune
// them through the DETECTION_* environment variables parsed in cmd.
const (
	// DefaultMergeGapMinutes is the gap under which adjacent attendance
	// segments of one participant are merged into a single segment.
	DefaultMergeGapMinutes = 1.0

	// DefaultBucketWidthMinutes is the width of each departure histogram bucket.
	DefaultBucketWidthMinutes = 5

	// DefaultCliffWindowMinutes is the width of the scanning window used to
	// find a mass-departure cliff.
	DefaultCliffWindowMinutes = 10

	// DefaultMinAbsoluteDepartures is the minimum number of departures inside
	// a window for it to qualify as a cliff.
	DefaultMinAbsoluteDepartures = 3

	// DefaultMinDepartureFraction is the minimum share of all participants
	// that must depart inside a window for it to qualify as a cliff.
	DefaultMinDepartureFraction = 0.25

	// DefaultMinSpikeRatio is the minimum ratio of window departures to the
	// baseline departure rate for a window to qualify as a cliff.
	DefaultMinSpikeRatio = 2.0

	// DefaultHighSpikeRatio and DefaultHighDepartureFraction are the
	// thresholds for a high-confidence detection.
	DefaultHighSpikeRatio        = 3.0
	DefaultHighDepartureFraction = 0.4

	// DefaultMinParticipants is the minimum number of participants a session
	// needs before detection is attempted at all.
	DefaultMinParticipants = 5

	// DefaultBulkConcurrency bounds the worker pool used by bulk detection.
	DefaultBulkConcurrency = 10
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"
