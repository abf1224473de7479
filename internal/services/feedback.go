package services

import (
	"log"
	"strings"
	"time"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// FeedbackDriver sequences the fixed ordered question list for the
// post-checkout feedback flow, persisting one answer per question.
type FeedbackDriver struct {
	store storage.Store
}

// NewFeedbackDriver creates a feedback driver over the given store
func NewFeedbackDriver(store storage.Store) *FeedbackDriver {
	return &FeedbackDriver{store: store}
}

// Start creates a new feedback session for the conversation and returns the
// first question prompt. With no active questions the conversation resets to
// idle with an apology instead.
func (f *FeedbackDriver) Start(conv *models.Conversation, guest *models.Guest, voucher *models.Voucher) []OutboundMessage {
	questions, err := f.store.GetActiveFeedbackQuestions()
	if err != nil {
		log.Printf("Failed to load feedback questions: %v", err)
		questions = nil
	}
	if len(questions) == 0 {
		conv.State = models.StateIdle
		f.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgNoFeedbackAvail)}
	}

	session := &models.FeedbackSession{
		ConversationID: conv.ID,
		Status:         models.FeedbackStatusActive,
	}
	if guest != nil {
		id := guest.ID
		session.GuestID = &id
	}
	if voucher != nil {
		id := voucher.ID
		session.VoucherID = &id
	}
	session, err = f.store.CreateFeedbackSession(session)
	if err != nil {
		log.Printf("Failed to create feedback session for %s: %v", conv.PhoneNumber, err)
		conv.State = models.StateIdle
		f.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgFeedbackRestart)}
	}

	ctx := conv.GetContext()
	sessionID := session.ID
	ctx.FeedbackSessionID = &sessionID
	ctx.FeedbackQuestionCount = len(questions)
	conv.SetContext(ctx)
	conv.State = models.StateCollectingFeedback
	f.saveConversation(conv)

	return []OutboundMessage{TextMessage(questions[0].Prompt)}
}

// Progress records the guest's answer to the current question and either
// asks the next one or completes the session.
func (f *FeedbackDriver) Progress(conv *models.Conversation, guest *models.Guest, voucher *models.Voucher, body string) []OutboundMessage {
	session := f.locateActiveSession(conv)
	if session == nil {
		ctx := conv.GetContext()
		ctx.FeedbackSessionID = nil
		ctx.FeedbackQuestionCount = 0
		conv.SetContext(ctx)
		conv.State = models.StateIdle
		f.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgFeedbackRestart)}
	}

	questions, err := f.store.GetActiveFeedbackQuestions()
	if err != nil {
		log.Printf("Failed to load feedback questions: %v", err)
		questions = nil
	}
	if len(questions) == 0 || session.QuestionIndex >= len(questions) {
		return f.complete(session, conv, guest, voucher)
	}

	current := questions[session.QuestionIndex]
	resp := &models.FeedbackResponse{
		SessionID:  session.ID,
		QuestionID: current.ID,
		Answer:     strings.TrimSpace(body),
		ReceivedAt: time.Now(),
	}
	if err := f.store.UpsertFeedbackResponse(resp); err != nil {
		log.Printf("Failed to save feedback response for session %s: %v", session.SessionID, err)
	}

	session.QuestionIndex++
	if err := f.store.UpdateFeedbackSession(session); err != nil {
		log.Printf("Failed to advance feedback session %s: %v", session.SessionID, err)
	}

	if session.QuestionIndex >= len(questions) {
		return f.complete(session, conv, guest, voucher)
	}
	return []OutboundMessage{TextMessage(questions[session.QuestionIndex].Prompt)}
}

// locateActiveSession finds the session via the conversation context id,
// falling back to the most recent active session for this conversation
func (f *FeedbackDriver) locateActiveSession(conv *models.Conversation) *models.FeedbackSession {
	ctx := conv.GetContext()
	if ctx.FeedbackSessionID != nil {
		if s, err := f.store.GetFeedbackSession(*ctx.FeedbackSessionID); err == nil && s.Status == models.FeedbackStatusActive {
			return s
		}
	}
	if s, err := f.store.GetActiveFeedbackSessionByConversation(conv.ID); err == nil {
		return s
	}
	return nil
}

func (f *FeedbackDriver) complete(session *models.FeedbackSession, conv *models.Conversation, guest *models.Guest, voucher *models.Voucher) []OutboundMessage {
	now := time.Now()
	session.Status = models.FeedbackStatusCompleted
	session.CompletedAt = &now
	if err := f.store.UpdateFeedbackSession(session); err != nil {
		log.Printf("Failed to complete feedback session %s: %v", session.SessionID, err)
	}

	ctx := conv.GetContext()
	ctx.FeedbackSessionID = nil
	ctx.FeedbackQuestionCount = 0
	conv.SetContext(ctx)
	conv.State = models.StateIdle
	f.saveConversation(conv)

	return []OutboundMessage{TextMessage(BuildFeedbackThankYou(guest, voucher))}
}

func (f *FeedbackDriver) saveConversation(conv *models.Conversation) {
	if err := f.store.UpdateConversation(conv); err != nil {
		log.Printf("Failed to update conversation %s: %v", conv.PhoneNumber, err)
	}
}
