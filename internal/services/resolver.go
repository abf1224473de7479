package services

import (
	"log"
	"time"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
	"github.com/Rainita-06/hotel-sub001/internal/utils"
)

// phoneSuffixLength is how many trailing digits are used when matching a
// sender against stored guest/voucher phone fields
const phoneSuffixLength = 10

// GuestResolver looks up the guest and/or voucher behind a phone number and
// derives the coarse stay status for the conversation.
type GuestResolver struct {
	store storage.Store
	loc   *time.Location
	now   func() time.Time
}

// NewGuestResolver creates a resolver using the given hotel-local timezone
func NewGuestResolver(store storage.Store, loc *time.Location) *GuestResolver {
	if loc == nil {
		loc = time.Local
	}
	return &GuestResolver{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// Resolve finds the best-matching guest and voucher for the conversation's
// phone number, derives the stay status, and persists the references onto
// the conversation when they changed. Lookup misses are not errors.
func (r *GuestResolver) Resolve(conv *models.Conversation) (*models.Guest, *models.Voucher, models.GuestStatus) {
	suffix := utils.LastDigits(conv.PhoneNumber, phoneSuffixLength)

	guest, err := r.store.FindGuestByPhoneSuffix(suffix)
	if err != nil {
		guest = nil
	}
	voucher, err := r.store.FindVoucherByPhoneSuffix(suffix)
	if err != nil {
		voucher = nil
	}

	status := r.deriveStatus(guest, voucher)

	changed := false
	if guest != nil && (conv.GuestID == nil || *conv.GuestID != guest.ID) {
		id := guest.ID
		conv.GuestID = &id
		changed = true
	}
	if voucher != nil && (conv.VoucherID == nil || *conv.VoucherID != voucher.ID) {
		id := voucher.ID
		conv.VoucherID = &id
		changed = true
	}
	if conv.GuestStatus != status {
		conv.GuestStatus = status
		changed = true
	}
	if changed && conv.ID != 0 {
		if err := r.store.UpdateConversation(conv); err != nil {
			log.Printf("Failed to persist resolved guest refs for %s: %v", conv.PhoneNumber, err)
		}
	}

	return guest, voucher, status
}

// deriveStatus prefers the guest record's own status derivation; falls back
// to voucher stay dates with the fixed 15:00 / 11:00 hotel cutoffs.
func (r *GuestResolver) deriveStatus(guest *models.Guest, voucher *models.Voucher) models.GuestStatus {
	if guest != nil {
		return guest.StatusAt(r.now())
	}
	if voucher != nil {
		return voucher.StatusAt(r.now(), r.loc)
	}
	return models.GuestStatusUnknown
}

// HasFutureBooking reports whether the resolved context represents a stay
// that has not started yet
func (r *GuestResolver) HasFutureBooking(guest *models.Guest, voucher *models.Voucher) bool {
	if guest != nil {
		s := guest.StatusAt(r.now())
		return s == models.GuestStatusPreCheckin || s == models.GuestStatusUnknown
	}
	if voucher != nil {
		in := voucher.CheckInInstant(r.loc)
		return !in.IsZero() && r.now().Before(in)
	}
	return false
}
