package models

import (
	"time"

	"gorm.io/gorm"
)

// Hotel-wide check-in/check-out times applied to voucher stay dates
const (
	VoucherCheckInHour  = 15 // 3:00 PM
	VoucherCheckOutHour = 11 // 11:00 AM
)

// Voucher represents a breakfast-voucher / stay record. Guests who arrive
// through the voucher system may have no Guest row at all, so the workflow
// can resolve a conversation against a voucher alone.
type Voucher struct {
	gorm.Model

	VoucherCode  string     `json:"voucher_code" gorm:"uniqueIndex"`
	GuestName    string     `json:"guest_name"`
	Phone        string     `json:"phone" gorm:"index"`
	RoomNumber   string     `json:"room_number"`
	CheckInDate  *time.Time `json:"check_in_date"`
	CheckOutDate *time.Time `json:"check_out_date"`
	Redeemed     bool       `json:"redeemed" gorm:"default:false"`
	RedeemedAt   *time.Time `json:"redeemed_at"`
}

// CheckInInstant returns the moment the stay begins: the check-in date at
// 15:00 in the given location. Returns zero time if no date is set.
func (v *Voucher) CheckInInstant(loc *time.Location) time.Time {
	if v.CheckInDate == nil {
		return time.Time{}
	}
	d := v.CheckInDate.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), VoucherCheckInHour, 0, 0, 0, loc)
}

// CheckOutInstant returns the moment the stay ends: the check-out date at
// 11:00 in the given location. Returns zero time if no date is set.
func (v *Voucher) CheckOutInstant(loc *time.Location) time.Time {
	if v.CheckOutDate == nil {
		return time.Time{}
	}
	d := v.CheckOutDate.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), VoucherCheckOutHour, 0, 0, 0, loc)
}

// StatusAt computes the stay status from the voucher dates alone
func (v *Voucher) StatusAt(now time.Time, loc *time.Location) GuestStatus {
	in := v.CheckInInstant(loc)
	out := v.CheckOutInstant(loc)
	if in.IsZero() || out.IsZero() {
		return GuestStatusUnknown
	}
	switch {
	case now.Before(in):
		return GuestStatusPreCheckin
	case now.After(out):
		return GuestStatusCheckedOut
	default:
		return GuestStatusCheckedIn
	}
}

// DisplayName returns the name used in outbound messages
func (v *Voucher) DisplayName() string {
	if v.GuestName != "" {
		return v.GuestName
	}
	return "Guest"
}
