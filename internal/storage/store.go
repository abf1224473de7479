package storage

import (
	"errors"

	"github.com/Rainita-06/hotel-sub001/internal/models"
)

// ErrNotFound is returned by lookups that match nothing
var ErrNotFound = errors.New("record not found")

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Conversation operations
	GetConversationByPhone(phone string) (*models.Conversation, error)
	CreateConversation(conv *models.Conversation) (*models.Conversation, error)
	UpdateConversation(conv *models.Conversation) error

	// Message operations (append-only)
	CreateMessage(msg *models.Message) (*models.Message, error)
	GetMessagesByConversation(conversationID uint, limit int) ([]*models.Message, error)

	// Guest operations
	CreateGuest(guest *models.Guest) (*models.Guest, error)
	GetGuest(id uint) (*models.Guest, error)
	GetAllGuests() ([]*models.Guest, error)
	UpdateGuest(guest *models.Guest) error
	FindGuestByPhoneSuffix(suffix string) (*models.Guest, error)

	// Voucher operations
	CreateVoucher(voucher *models.Voucher) (*models.Voucher, error)
	GetVoucher(id uint) (*models.Voucher, error)
	FindVoucherByPhoneSuffix(suffix string) (*models.Voucher, error)

	// Department / request type / keyword reference data
	CreateDepartment(dept *models.Department) (*models.Department, error)
	CreateRequestType(rt *models.RequestType) (*models.RequestType, error)
	GetRequestType(id uint) (*models.RequestType, error)
	GetActiveRequestTypes() ([]*models.RequestType, error)
	CreateRequestKeyword(kw *models.RequestKeyword) (*models.RequestKeyword, error)
	GetActiveRequestKeywords() ([]*models.RequestKeyword, error)

	// Guest request (ticket) operations
	CreateGuestRequest(req *models.GuestRequest) (*models.GuestRequest, error)
	GetRecentRequestsByGuest(guestID uint, limit int) ([]*models.GuestRequest, error)

	// Review queue operations
	CreateUnmatchedRequest(ur *models.UnmatchedRequest) (*models.UnmatchedRequest, error)
	GetUnmatchedRequest(id uint) (*models.UnmatchedRequest, error)
	GetPendingUnmatchedRequests() ([]*models.UnmatchedRequest, error)
	UpdateUnmatchedRequest(ur *models.UnmatchedRequest) error

	// Feedback operations
	CreateFeedbackQuestion(q *models.FeedbackQuestion) (*models.FeedbackQuestion, error)
	GetActiveFeedbackQuestions() ([]*models.FeedbackQuestion, error)
	CreateFeedbackSession(s *models.FeedbackSession) (*models.FeedbackSession, error)
	GetFeedbackSession(id uint) (*models.FeedbackSession, error)
	GetActiveFeedbackSessionByConversation(conversationID uint) (*models.FeedbackSession, error)
	UpdateFeedbackSession(s *models.FeedbackSession) error
	UpsertFeedbackResponse(r *models.FeedbackResponse) error
	GetResponsesBySession(sessionID uint) ([]*models.FeedbackResponse, error)

	// Stale conversation cleanup (scheduled job)
	GetStaleConversations(states []models.ConversationState, olderThanMinutes int) ([]*models.Conversation, error)

	// Transaction runs fn atomically where the backend supports it
	Transaction(fn func(Store) error) error
}
