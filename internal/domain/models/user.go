// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// User is a known platform account that attendees are matched against.
type User struct {
	UID       string     `json:"uid"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
