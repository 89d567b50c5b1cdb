// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/campushq/attendance-service/internal/domain/models"
)

// epsilon guards the spike-ratio division when the baseline rate is zero.
const epsilon = 1e-9

// DetectCliff scans the departure histogram for a short window in which a
// disproportionate share of participants permanently departed. It is a pure
// function of the histogram and thresholds: identical inputs always yield an
// identical result.
func DetectCliff(histogram []models.HistogramBucket, totalParticipants, meetingDurationMinutes int, cfg Config) models.CliffDetectionResult {
	result := models.CliffDetectionResult{
		TotalParticipants: totalParticipants,
		Histogram:         copyHistogram(histogram),
	}

	// Too little data to say anything: skipped, not a failure and not no_cliff.
	if totalParticipants < cfg.MinParticipants ||
		meetingDurationMinutes < cfg.BucketWidthMinutes ||
		len(histogram) < 2 {
		result.Status = models.DetectionStatusSkipped
		return result
	}

	// The final bucket holds natural-end stayers; it contributes neither to
	// the baseline nor to candidate windows.
	interior := histogram[:len(histogram)-1]

	baseline := baselineRate(interior)

	windowBuckets := cfg.CliffWindowMinutes / cfg.BucketWidthMinutes
	if windowBuckets < 1 {
		windowBuckets = 1
	}
	if windowBuckets > len(interior) {
		windowBuckets = len(interior)
	}

	bestStart, bestSum := bestWindow(interior, windowBuckets)

	spikeRatio := float64(bestSum) / max(baseline, epsilon)
	fraction := float64(bestSum) / float64(totalParticipants)

	if bestSum < cfg.MinAbsoluteDepartures ||
		fraction < cfg.MinDepartureFraction ||
		spikeRatio < cfg.MinSpikeRatio {
		result.Status = models.DetectionStatusNoCliff
		return result
	}

	// Trim the winning window to its non-empty span so the reported cliff
	// bounds are tight around the actual departures.
	trimStart, trimEnd := trimWindow(interior, bestStart, bestStart+windowBuckets-1)

	windowStartMin := histogram[trimStart].Minute
	windowEndMin := meetingDurationMinutes
	if trimEnd+1 < len(histogram) {
		windowEndMin = histogram[trimEnd+1].Minute
	}

	// Stayers are the departures after the cliff window. Bucket granularity
	// rounds the boundary up: a departure at exactly windowEndMin falls into
	// bucket trimEnd+1 and counts as a stayer, the raw minute is gone by now.
	stayers := 0
	for i := trimEnd + 1; i < len(histogram); i++ {
		stayers += histogram[i].Departures
	}

	for i := trimStart; i <= trimEnd; i++ {
		result.Histogram[i].IsCliff = true
	}

	result.Status = models.DetectionStatusDetected
	result.Detected = true
	result.Confidence = confidenceTier(spikeRatio, fraction, cfg)
	result.CliffWindowStartMin = windowStartMin
	result.CliffWindowEndMin = windowEndMin
	result.DeparturesInCliff = bestSum
	result.SpikeRatio = spikeRatio
	result.MeetingEndStayers = stayers
	result.EffectiveEndMinutes = windowStartMin
	result.StudentsImpacted = bestSum

	return result
}

// baselineRate is the mean departures per non-empty bucket. The caller has
// already excluded the final bucket.
func baselineRate(buckets []models.HistogramBucket) float64 {
	sum, nonEmpty := 0, 0
	for _, b := range buckets {
		if b.Departures > 0 {
			sum += b.Departures
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(sum) / float64(nonEmpty)
}

// bestWindow returns the start index and departure sum of the maximum-sum
// window of windowBuckets contiguous buckets. Ties break to the earliest
// window start.
func bestWindow(buckets []models.HistogramBucket, windowBuckets int) (int, int) {
	sum := 0
	for i := 0; i < windowBuckets; i++ {
		sum += buckets[i].Departures
	}

	bestStart, bestSum := 0, sum
	for i := windowBuckets; i < len(buckets); i++ {
		sum += buckets[i].Departures - buckets[i-windowBuckets].Departures
		if sum > bestSum {
			bestStart, bestSum = i-windowBuckets+1, sum
		}
	}

	return bestStart, bestSum
}

// trimWindow shrinks [start, end] to the span of non-empty buckets inside it.
func trimWindow(buckets []models.HistogramBucket, start, end int) (int, int) {
	for start < end && buckets[start].Departures == 0 {
		start++
	}
	for end > start && buckets[end].Departures == 0 {
		end--
	}
	return start, end
}

func confidenceTier(spikeRatio, fraction float64, cfg Config) models.Confidence {
	switch {
	case spikeRatio >= cfg.HighSpikeRatio && fraction >= cfg.HighDepartureFraction:
		return models.ConfidenceHigh
	case spikeRatio >= cfg.MinSpikeRatio && fraction >= cfg.MinDepartureFraction:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func copyHistogram(histogram []models.HistogramBucket) []models.HistogramBucket {
	if histogram == nil {
		return nil
	}
	out := make([]models.HistogramBucket, len(histogram))
	copy(out, histogram)
	return out
}
