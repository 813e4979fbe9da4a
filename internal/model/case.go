package model

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the lifecycle state of a legal case.
type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "OPEN"
	CaseStatusOnHold   CaseStatus = "ON_HOLD"
	CaseStatusClosed   CaseStatus = "CLOSED"
	CaseStatusArchived CaseStatus = "ARCHIVED"
)

// Case is a protected case record. OwnerID always references the CLIENT
// who opened the case and never changes after creation.
type Case struct {
	ID        int64      `json:"id"`
	Number    uuid.UUID  `json:"number"`
	OwnerID   int64      `json:"owner_id"`
	Title     string     `json:"title"`
	Status    CaseStatus `json:"status"`
	Category  string     `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
}
