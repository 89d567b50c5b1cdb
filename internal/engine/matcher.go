// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"sort"
	"strings"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// MatchResult is the total, disjoint partition of normalized participants
// into matched and unmatched attendees.
type MatchResult struct {
	Matched   []models.MatchedAttendee
	Unmatched []models.UnmatchedAttendee
}

// NormalizeEmail trims whitespace and lowercases an email for matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BuildDirectory converts a list of known users into a normalized
// email -> user UID lookup.
func BuildDirectory(users []*models.User) map[string]string {
	directory := make(map[string]string, len(users))
	for _, user := range users {
		email := NormalizeEmail(user.Email)
		if email == "" {
			continue
		}
		directory[email] = user.UID
	}
	return directory
}

// MatchIdentities resolves normalized participants against the user
// directory. Matching is exact on the normalized email; there is no fuzzy
// matching, so ambiguous or partial matches stay unmatched. Participants
// sharing the same email under different raw identity keys (multiple
// devices) have their segments merged before matching.
func MatchIdentities(participants []models.NormalizedParticipant, directory map[string]string, mergeGapMinutes float64) MatchResult {
	coalesced := coalesceByEmail(participants, mergeGapMinutes)

	var result MatchResult
	for _, p := range coalesced {
		email := NormalizeEmail(p.Email)
		if userUID, ok := directory[email]; ok && email != "" {
			result.Matched = append(result.Matched, models.MatchedAttendee{
				Participant: p,
				UserUID:     userUID,
			})
			continue
		}
		result.Unmatched = append(result.Unmatched, models.UnmatchedAttendee{
			Participant: p,
		})
	}

	return result
}

// coalesceByEmail merges participants that share a non-empty normalized
// email. The merged participant keeps the lexicographically smallest identity
// key so repeated runs produce identical output.
func coalesceByEmail(participants []models.NormalizedParticipant, mergeGapMinutes float64) []models.NormalizedParticipant {
	byEmail := make(map[string][]models.NormalizedParticipant)
	var order []string

	for _, p := range participants {
		email := NormalizeEmail(p.Email)
		key := email
		if key == "" {
			// No email to coalesce on; keep the participant distinct.
			key = "\x00" + p.IdentityKey
		}
		if _, seen := byEmail[key]; !seen {
			order = append(order, key)
		}
		byEmail[key] = append(byEmail[key], p)
	}

	sort.Strings(order)

	coalesced := make([]models.NormalizedParticipant, 0, len(order))
	for _, key := range order {
		group := byEmail[key]
		if len(group) == 1 {
			coalesced = append(coalesced, group[0])
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].IdentityKey < group[j].IdentityKey
		})

		var segments []models.AttendanceSegment
		name := ""
		for _, p := range group {
			segments = append(segments, p.Segments...)
			if name == "" {
				name = p.Name
			}
		}
		merged := MergeSegments(segments, mergeGapMinutes)

		coalesced = append(coalesced, models.NormalizedParticipant{
			IdentityKey:          group[0].IdentityKey,
			Email:                group[0].Email,
			Name:                 name,
			Segments:             merged,
			FinalDepartureMinute: merged[len(merged)-1].EndMinute,
		})
	}

	return coalesced
}
