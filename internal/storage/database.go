package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rainita-06/hotel-sub001/internal/models"
)

// DatabaseStore implements Store on top of GORM/PostgreSQL
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM handle
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Conversation operations

func (d *DatabaseStore) GetConversationByPhone(phone string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := d.db.Where("phone_number = ?", phone).First(&conv).Error; err != nil {
		return nil, translateErr(err)
	}
	return &conv, nil
}

func (d *DatabaseStore) CreateConversation(conv *models.Conversation) (*models.Conversation, error) {
	if err := d.db.Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

func (d *DatabaseStore) UpdateConversation(conv *models.Conversation) error {
	return d.db.Save(conv).Error
}

// Message operations

func (d *DatabaseStore) CreateMessage(msg *models.Message) (*models.Message, error) {
	if err := d.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *DatabaseStore) GetMessagesByConversation(conversationID uint, limit int) ([]*models.Message, error) {
	var msgs []*models.Message
	q := d.db.Where("conversation_id = ?", conversationID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// Guest operations

func (d *DatabaseStore) CreateGuest(guest *models.Guest) (*models.Guest, error) {
	if err := d.db.Create(guest).Error; err != nil {
		return nil, err
	}
	return guest, nil
}

func (d *DatabaseStore) GetGuest(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := d.db.First(&guest, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &guest, nil
}

func (d *DatabaseStore) GetAllGuests() ([]*models.Guest, error) {
	var guests []*models.Guest
	if err := d.db.Order("id").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (d *DatabaseStore) UpdateGuest(guest *models.Guest) error {
	return d.db.Save(guest).Error
}

func (d *DatabaseStore) FindGuestByPhoneSuffix(suffix string) (*models.Guest, error) {
	if suffix == "" {
		return nil, ErrNotFound
	}
	var guest models.Guest
	err := d.db.
		Where("regexp_replace(phone, '[^0-9]', '', 'g') LIKE ?", "%"+suffix+"%").
		Order("updated_at DESC").
		First(&guest).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &guest, nil
}

// Voucher operations

func (d *DatabaseStore) CreateVoucher(voucher *models.Voucher) (*models.Voucher, error) {
	if err := d.db.Create(voucher).Error; err != nil {
		return nil, err
	}
	return voucher, nil
}

func (d *DatabaseStore) GetVoucher(id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := d.db.First(&voucher, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &voucher, nil
}

func (d *DatabaseStore) FindVoucherByPhoneSuffix(suffix string) (*models.Voucher, error) {
	if suffix == "" {
		return nil, ErrNotFound
	}
	var voucher models.Voucher
	err := d.db.
		Where("regexp_replace(phone, '[^0-9]', '', 'g') LIKE ?", "%"+suffix+"%").
		Order("updated_at DESC").
		First(&voucher).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &voucher, nil
}

// Reference data

func (d *DatabaseStore) CreateDepartment(dept *models.Department) (*models.Department, error) {
	if err := d.db.Create(dept).Error; err != nil {
		return nil, err
	}
	return dept, nil
}

func (d *DatabaseStore) CreateRequestType(rt *models.RequestType) (*models.RequestType, error) {
	if err := d.db.Create(rt).Error; err != nil {
		return nil, err
	}
	return rt, nil
}

func (d *DatabaseStore) GetRequestType(id uint) (*models.RequestType, error) {
	var rt models.RequestType
	if err := d.db.First(&rt, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &rt, nil
}

func (d *DatabaseStore) GetActiveRequestTypes() ([]*models.RequestType, error) {
	var types []*models.RequestType
	if err := d.db.Where("active = ?", true).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (d *DatabaseStore) CreateRequestKeyword(kw *models.RequestKeyword) (*models.RequestKeyword, error) {
	if err := d.db.Create(kw).Error; err != nil {
		return nil, err
	}
	return kw, nil
}

func (d *DatabaseStore) GetActiveRequestKeywords() ([]*models.RequestKeyword, error) {
	var keywords []*models.RequestKeyword
	if err := d.db.Where("active = ?", true).Order("id").Find(&keywords).Error; err != nil {
		return nil, err
	}
	return keywords, nil
}

// Guest request operations

func (d *DatabaseStore) CreateGuestRequest(req *models.GuestRequest) (*models.GuestRequest, error) {
	if err := d.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (d *DatabaseStore) GetRecentRequestsByGuest(guestID uint, limit int) ([]*models.GuestRequest, error) {
	var reqs []*models.GuestRequest
	q := d.db.Where("guest_id = ?", guestID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Review queue operations

func (d *DatabaseStore) CreateUnmatchedRequest(ur *models.UnmatchedRequest) (*models.UnmatchedRequest, error) {
	if err := d.db.Create(ur).Error; err != nil {
		return nil, err
	}
	return ur, nil
}

func (d *DatabaseStore) GetUnmatchedRequest(id uint) (*models.UnmatchedRequest, error) {
	var ur models.UnmatchedRequest
	if err := d.db.First(&ur, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &ur, nil
}

func (d *DatabaseStore) GetPendingUnmatchedRequests() ([]*models.UnmatchedRequest, error) {
	var pending []*models.UnmatchedRequest
	err := d.db.Where("review_status = ?", models.ReviewStatusPending).Order("id").Find(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (d *DatabaseStore) UpdateUnmatchedRequest(ur *models.UnmatchedRequest) error {
	return d.db.Save(ur).Error
}

// Feedback operations

func (d *DatabaseStore) CreateFeedbackQuestion(q *models.FeedbackQuestion) (*models.FeedbackQuestion, error) {
	if err := d.db.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (d *DatabaseStore) GetActiveFeedbackQuestions() ([]*models.FeedbackQuestion, error) {
	var questions []*models.FeedbackQuestion
	err := d.db.Where("active = ?", true).Order("sort_order, id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (d *DatabaseStore) CreateFeedbackSession(s *models.FeedbackSession) (*models.FeedbackSession, error) {
	if err := d.db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (d *DatabaseStore) GetFeedbackSession(id uint) (*models.FeedbackSession, error) {
	var s models.FeedbackSession
	if err := d.db.First(&s, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (d *DatabaseStore) GetActiveFeedbackSessionByConversation(conversationID uint) (*models.FeedbackSession, error) {
	var s models.FeedbackSession
	err := d.db.
		Where("conversation_id = ? AND status = ?", conversationID, models.FeedbackStatusActive).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (d *DatabaseStore) UpdateFeedbackSession(s *models.FeedbackSession) error {
	return d.db.Save(s).Error
}

func (d *DatabaseStore) UpsertFeedbackResponse(r *models.FeedbackResponse) error {
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "received_at", "updated_at"}),
	}).Create(r).Error
}

func (d *DatabaseStore) GetResponsesBySession(sessionID uint) ([]*models.FeedbackResponse, error) {
	var responses []*models.FeedbackResponse
	if err := d.db.Where("session_id = ?", sessionID).Order("id").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

// Stale conversation cleanup

func (d *DatabaseStore) GetStaleConversations(states []models.ConversationState, olderThanMinutes int) ([]*models.Conversation, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	var stale []*models.Conversation
	err := d.db.
		Where("state IN ? AND last_inbound_at < ?", states, cutoff).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	return stale, nil
}

// Transaction runs fn inside a database transaction
func (d *DatabaseStore) Transaction(fn func(Store) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewDatabaseStore(tx))
	})
}

// ensure interface compliance at compile time
var _ Store = (*DatabaseStore)(nil)
var _ Store = (*MemoryStore)(nil)

// sanity helper used by health reporting
func (d *DatabaseStore) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Ping()
}
