package model

import "time"

// AccessGrant authorizes a lawyer to read and act on a case. Grants are
// idempotent: at most one row exists per (case, lawyer) pair. Revocation
// deletes the row outright.
type AccessGrant struct {
	ID        int64     `json:"id"`
	CaseID    int64     `json:"case_id"`
	LawyerID  int64     `json:"lawyer_id"`
	GrantedAt time.Time `json:"granted_at"`
}
