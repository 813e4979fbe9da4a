package model

import "time"

// AccessRequest captures a lawyer's ask for access to a case and its review.
type AccessRequest struct {
	ID          int64         `json:"id"`
	CaseID      int64         `json:"case_id"`
	LawyerID    int64         `json:"lawyer_id"`
	Status      RequestStatus `json:"status"`
	Message     string        `json:"message"`
	RequestedAt time.Time     `json:"requested_at"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	ReviewedBy  *int64        `json:"reviewed_by,omitempty"`
}

// RequestStatus is the workflow state of an access request. PENDING is the
// only non-terminal state; a terminal request is never mutated again.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// IsPending reports whether the request is still awaiting review.
func (r *AccessRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsTerminal reports whether the request has already been reviewed.
func (r *AccessRequest) IsTerminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}
