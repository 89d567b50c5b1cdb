// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

// Confidence rates how strongly a detected cliff stands out from the
// session's baseline departure rate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DetectionStatus classifies the outcome of a detection run.
type DetectionStatus string

const (
	// DetectionStatusDetected means a statistically significant cliff was found.
	DetectionStatusDetected DetectionStatus = "detected"
	// DetectionStatusNoCliff means the session was analyzed and no window
	// passed the thresholds.
	DetectionStatusNoCliff DetectionStatus = "no_cliff"
	// DetectionStatusSkipped means the session had too little data to analyze.
	DetectionStatusSkipped DetectionStatus = "skipped"
	// DetectionStatusError is used in bulk reports when a session's run failed.
	DetectionStatusError DetectionStatus = "error"
)

// HistogramBucket is one fixed-width bucket of final departures. Buckets are
// contiguous and cover [0, meeting_duration_minutes).
type HistogramBucket struct {
	Minute     int  `json:"minute"`
	Departures int  `json:"departures"`
	IsCliff    bool `json:"is_cliff"`
}

// CliffDetectionResult is the immutable output of one detection run. It
// carries no review state; the admin decision lives in ReviewState.
// Identical inputs always produce an identical result.
type CliffDetectionResult struct {
	Status              DetectionStatus   `json:"status"`
	Detected            bool              `json:"detected"`
	Confidence          Confidence        `json:"confidence,omitempty"`
	TotalParticipants   int               `json:"total_participants"`
	CliffWindowStartMin int               `json:"cliff_window_start_min,omitempty"`
	CliffWindowEndMin   int               `json:"cliff_window_end_min,omitempty"`
	DeparturesInCliff   int               `json:"departures_in_cliff,omitempty"`
	SpikeRatio          float64           `json:"spike_ratio,omitempty"`
	MeetingEndStayers   int               `json:"meeting_end_stayers,omitempty"`
	EffectiveEndMinutes int               `json:"effective_end_minutes,omitempty"`
	StudentsImpacted    int               `json:"students_impacted,omitempty"`
	Histogram           []HistogramBucket `json:"histogram,omitempty"`
}
