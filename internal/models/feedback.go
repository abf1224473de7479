package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackQuestion is one question in the post-checkout feedback flow.
// Questions are asked in Order, then ID, one per guest reply.
type FeedbackQuestion struct {
	gorm.Model

	Prompt string `json:"prompt"`
	Order  int    `json:"order" gorm:"column:sort_order;default:0"`
	Active bool   `json:"active" gorm:"default:true"`
}

// FeedbackSession status values
const (
	FeedbackStatusActive    = "active"
	FeedbackStatusCompleted = "completed"
)

// FeedbackSession tracks one run of the feedback Q&A flow for a conversation
type FeedbackSession struct {
	gorm.Model

	SessionID      string     `json:"session_id" gorm:"uniqueIndex"`
	ConversationID uint       `json:"conversation_id" gorm:"index"`
	GuestID        *uint      `json:"guest_id"`
	VoucherID      *uint      `json:"voucher_id"`
	Status         string     `json:"status" gorm:"default:'active'"`
	QuestionIndex  int        `json:"question_index" gorm:"default:0"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// BeforeCreate generates the external session id and stamps the start time
func (s *FeedbackSession) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = fmt.Sprintf("FS-%s", uuid.NewString()[:8])
	}
	if s.Status == "" {
		s.Status = FeedbackStatusActive
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	return nil
}

// FeedbackResponse is one answer to one question within a session.
// Unique per (session, question); upserted if a question is revisited.
type FeedbackResponse struct {
	gorm.Model

	SessionID  uint      `json:"session_id" gorm:"index;uniqueIndex:idx_session_question"`
	QuestionID uint      `json:"question_id" gorm:"uniqueIndex:idx_session_question"`
	Answer     string    `json:"answer"`
	ReceivedAt time.Time `json:"received_at"`
}
