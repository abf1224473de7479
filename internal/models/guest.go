package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// GuestStatus is the coarse stay-lifecycle classification used by the
// messaging workflow to pick greetings and menu options.
type GuestStatus string

const (
	GuestStatusPreCheckin GuestStatus = "pre_checkin"
	GuestStatusCheckedIn  GuestStatus = "checked_in"
	GuestStatusCheckedOut GuestStatus = "checked_out"
	GuestStatusUnknown    GuestStatus = "unknown"
)

// Guest represents a hotel guest record
type Guest struct {
	gorm.Model

	Name         string     `json:"name"`
	Phone        string     `json:"phone" gorm:"index"` // WhatsApp number
	Email        string     `json:"email"`
	RoomNumber   string     `json:"room_number"`
	CheckInDate  *time.Time `json:"check_in_date"`
	CheckOutDate *time.Time `json:"check_out_date"`
	// Actual lifecycle events, stamped by the check-in/check-out endpoints
	CheckedInAt  *time.Time `json:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at"`
}

// BeforeCreate normalizes the stored phone so trailing-digit matching works
func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	g.Phone = strings.TrimSpace(g.Phone)
	return nil
}

// GetCurrentStatus derives the guest's stay status from recorded lifecycle
// events first, falling back to the planned stay dates.
func (g *Guest) GetCurrentStatus() GuestStatus {
	return g.StatusAt(time.Now())
}

// StatusAt is GetCurrentStatus evaluated at an arbitrary instant
func (g *Guest) StatusAt(now time.Time) GuestStatus {
	if g.CheckedOutAt != nil && !now.Before(*g.CheckedOutAt) {
		return GuestStatusCheckedOut
	}
	if g.CheckedInAt != nil && !now.Before(*g.CheckedInAt) {
		return GuestStatusCheckedIn
	}
	if g.CheckInDate == nil {
		return GuestStatusUnknown
	}
	if now.Before(*g.CheckInDate) {
		return GuestStatusPreCheckin
	}
	if g.CheckOutDate != nil && now.After(*g.CheckOutDate) {
		return GuestStatusCheckedOut
	}
	return GuestStatusCheckedIn
}

// DisplayName returns the name used in outbound messages
func (g *Guest) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return "Guest"
}
