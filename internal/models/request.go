package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department groups request types for routing (Housekeeping, Maintenance...)
type Department struct {
	gorm.Model

	Name   string `json:"name" gorm:"uniqueIndex"`
	Active bool   `json:"active" gorm:"default:true"`
}

// RequestType is a category of guest service request
type RequestType struct {
	gorm.Model

	Name         string `json:"name" gorm:"uniqueIndex"`
	Description  string `json:"description"`
	DepartmentID *uint  `json:"department_id" gorm:"index"`
	Active       bool   `json:"active" gorm:"default:true"`
}

// RequestKeyword maps a keyword to a request type with a score weight.
// Static reference data consulted read-only by the intent classifier.
type RequestKeyword struct {
	gorm.Model

	Keyword       string `json:"keyword" gorm:"index"`
	Weight        int    `json:"weight" gorm:"default:1"`
	RequestTypeID uint   `json:"request_type_id" gorm:"index"`
	Active        bool   `json:"active" gorm:"default:true"`
}

// BeforeCreate normalizes keywords to lowercase for matching
func (k *RequestKeyword) BeforeCreate(tx *gorm.DB) error {
	k.Keyword = strings.ToLower(strings.TrimSpace(k.Keyword))
	if k.Weight == 0 {
		k.Weight = 1
	}
	return nil
}

// GuestRequest status values
const (
	RequestStatusOpen       = "open"
	RequestStatusInProgress = "in_progress"
	RequestStatusResolved   = "resolved"
	RequestStatusClosed     = "closed"
)

// GuestRequest is a formal service ticket raised for a guest. Created by
// staff approving a review entry, surfaced to the guest via "check status".
type GuestRequest struct {
	gorm.Model

	RequestID     string     `json:"request_id" gorm:"uniqueIndex"`
	GuestID       uint       `json:"guest_id" gorm:"index"`
	RequestTypeID uint       `json:"request_type_id" gorm:"index"`
	Description   string     `json:"description"`
	Status        string     `json:"status" gorm:"default:'open'"`
	ResolvedAt    *time.Time `json:"resolved_at"`
}

// BeforeCreate generates the external request id and default status
func (r *GuestRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == "" {
		r.RequestID = fmt.Sprintf("REQ-%s", uuid.NewString()[:8])
	}
	if r.Status == "" {
		r.Status = RequestStatusOpen
	}
	return nil
}

// Review status values for UnmatchedRequest
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// UnmatchedRequest is a staff-reviewable record created for every
// guest-described issue, whether or not the classifier matched a request
// type. Staff approve it into a GuestRequest or reject it.
type UnmatchedRequest struct {
	gorm.Model

	ReferenceID     string `json:"reference_id" gorm:"uniqueIndex"`
	ConversationID  uint   `json:"conversation_id" gorm:"index"`
	GuestID         *uint  `json:"guest_id" gorm:"index"`
	MessageText     string `json:"message_text"`
	MatchedKeywords string `json:"matched_keywords"` // comma-joined
	RequestTypeID   *uint  `json:"request_type_id"`
	DepartmentID    *uint  `json:"department_id"`
	ReviewStatus    string `json:"review_status" gorm:"default:'pending'"`
	ReviewNotes     string `json:"review_notes"`
}

// BeforeCreate generates the external reference id and default review status
func (u *UnmatchedRequest) BeforeCreate(tx *gorm.DB) error {
	if u.ReferenceID == "" {
		u.ReferenceID = fmt.Sprintf("RV-%s", uuid.NewString()[:8])
	}
	if u.ReviewStatus == "" {
		u.ReviewStatus = ReviewStatusPending
	}
	return nil
}
