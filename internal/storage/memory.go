package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/utils"
)

// MemoryStore holds all data in memory. Used for tests and local development
// without a database.
type MemoryStore struct {
	mu sync.RWMutex

	conversations     map[uint]*models.Conversation
	messages          map[uint]*models.Message
	guests            map[uint]*models.Guest
	vouchers          map[uint]*models.Voucher
	departments       map[uint]*models.Department
	requestTypes      map[uint]*models.RequestType
	requestKeywords   map[uint]*models.RequestKeyword
	guestRequests     map[uint]*models.GuestRequest
	unmatchedRequests map[uint]*models.UnmatchedRequest
	feedbackQuestions map[uint]*models.FeedbackQuestion
	feedbackSessions  map[uint]*models.FeedbackSession
	feedbackResponses map[uint]*models.FeedbackResponse

	nextID uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations:     make(map[uint]*models.Conversation),
		messages:          make(map[uint]*models.Message),
		guests:            make(map[uint]*models.Guest),
		vouchers:          make(map[uint]*models.Voucher),
		departments:       make(map[uint]*models.Department),
		requestTypes:      make(map[uint]*models.RequestType),
		requestKeywords:   make(map[uint]*models.RequestKeyword),
		guestRequests:     make(map[uint]*models.GuestRequest),
		unmatchedRequests: make(map[uint]*models.UnmatchedRequest),
		feedbackQuestions: make(map[uint]*models.FeedbackQuestion),
		feedbackSessions:  make(map[uint]*models.FeedbackSession),
		feedbackResponses: make(map[uint]*models.FeedbackResponse),
	}
}

// allocID hands out ids; caller must hold the write lock
func (m *MemoryStore) allocID() uint {
	m.nextID++
	return m.nextID
}

func stamp(id uint, createdAt *time.Time, updatedAt *time.Time, idField *uint) {
	now := time.Now()
	*idField = id
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// Conversation operations

func (m *MemoryStore) GetConversationByPhone(phone string) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.conversations {
		if c.PhoneNumber == phone {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateConversation(conv *models.Conversation) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// gorm hooks do not run here, apply the defaults by hand
	if conv.State == "" {
		conv.State = models.StateIdle
	}
	if conv.GuestStatus == "" {
		conv.GuestStatus = models.GuestStatusUnknown
	}
	stamp(m.allocID(), &conv.CreatedAt, &conv.UpdatedAt, &conv.ID)
	m.conversations[conv.ID] = conv
	return conv, nil
}

func (m *MemoryStore) UpdateConversation(conv *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conversations[conv.ID]; !exists {
		return ErrNotFound
	}
	conv.UpdatedAt = time.Now()
	m.conversations[conv.ID] = conv
	return nil
}

// Message operations

func (m *MemoryStore) CreateMessage(msg *models.Message) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(m.allocID(), &msg.CreatedAt, &msg.UpdatedAt, &msg.ID)
	m.messages[msg.ID] = msg
	return msg, nil
}

func (m *MemoryStore) GetMessagesByConversation(conversationID uint, limit int) ([]*models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := []*models.Message{}
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

// Guest operations

func (m *MemoryStore) CreateGuest(guest *models.Guest) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	guest.Phone = strings.TrimSpace(guest.Phone)
	stamp(m.allocID(), &guest.CreatedAt, &guest.UpdatedAt, &guest.ID)
	m.guests[guest.ID] = guest
	return guest, nil
}

func (m *MemoryStore) GetGuest(id uint) (*models.Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	guest, exists := m.guests[id]
	if !exists {
		return nil, ErrNotFound
	}
	return guest, nil
}

func (m *MemoryStore) GetAllGuests() ([]*models.Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	guests := make([]*models.Guest, 0, len(m.guests))
	for _, g := range m.guests {
		guests = append(guests, g)
	}
	sort.Slice(guests, func(i, j int) bool { return guests[i].ID < guests[j].ID })
	return guests, nil
}

func (m *MemoryStore) UpdateGuest(guest *models.Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.guests[guest.ID]; !exists {
		return ErrNotFound
	}
	guest.UpdatedAt = time.Now()
	m.guests[guest.ID] = guest
	return nil
}

func (m *MemoryStore) FindGuestByPhoneSuffix(suffix string) (*models.Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *models.Guest
	for _, g := range m.guests {
		if suffix == "" || !strings.Contains(digitsOnly(g.Phone), suffix) {
			continue
		}
		if best == nil || g.UpdatedAt.After(best.UpdatedAt) {
			best = g
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

// Voucher operations

func (m *MemoryStore) CreateVoucher(voucher *models.Voucher) (*models.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(m.allocID(), &voucher.CreatedAt, &voucher.UpdatedAt, &voucher.ID)
	m.vouchers[voucher.ID] = voucher
	return voucher, nil
}

func (m *MemoryStore) GetVoucher(id uint) (*models.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	voucher, exists := m.vouchers[id]
	if !exists {
		return nil, ErrNotFound
	}
	return voucher, nil
}

func (m *MemoryStore) FindVoucherByPhoneSuffix(suffix string) (*models.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *models.Voucher
	for _, v := range m.vouchers {
		if suffix == "" || !strings.Contains(digitsOnly(v.Phone), suffix) {
			continue
		}
		if best == nil || v.UpdatedAt.After(best.UpdatedAt) {
			best = v
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

// Reference data

func (m *MemoryStore) CreateDepartment(dept *models.Department) (*models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(m.allocID(), &dept.CreatedAt, &dept.UpdatedAt, &dept.ID)
	m.departments[dept.ID] = dept
	return dept, nil
}

func (m *MemoryStore) CreateRequestType(rt *models.RequestType) (*models.RequestType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(m.allocID(), &rt.CreatedAt, &rt.UpdatedAt, &rt.ID)
	m.requestTypes[rt.ID] = rt
	return rt, nil
}

func (m *MemoryStore) GetRequestType(id uint) (*models.RequestType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rt, exists := m.requestTypes[id]
	if !exists {
		return nil, ErrNotFound
	}
	return rt, nil
}

func (m *MemoryStore) GetActiveRequestTypes() ([]*models.RequestType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := []*models.RequestType{}
	for _, rt := range m.requestTypes {
		if rt.Active {
			types = append(types, rt)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types, nil
}

func (m *MemoryStore) CreateRequestKeyword(kw *models.RequestKeyword) (*models.RequestKeyword, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kw.Keyword = strings.ToLower(strings.TrimSpace(kw.Keyword))
	if kw.Weight == 0 {
		kw.Weight = 1
	}
	stamp(m.allocID(), &kw.CreatedAt, &kw.UpdatedAt, &kw.ID)
	m.requestKeywords[kw.ID] = kw
	return kw, nil
}

func (m *MemoryStore) GetActiveRequestKeywords() ([]*models.RequestKeyword, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keywords := []*models.RequestKeyword{}
	for _, kw := range m.requestKeywords {
		if kw.Active {
			keywords = append(keywords, kw)
		}
	}
	sort.Slice(keywords, func(i, j int) bool { return keywords[i].ID < keywords[j].ID })
	return keywords, nil
}

// Guest request operations

func (m *MemoryStore) CreateGuestRequest(req *models.GuestRequest) (*models.GuestRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.RequestID == "" {
		_ = req.BeforeCreate(nil)
	}
	stamp(m.allocID(), &req.CreatedAt, &req.UpdatedAt, &req.ID)
	m.guestRequests[req.ID] = req
	return req, nil
}

func (m *MemoryStore) GetRecentRequestsByGuest(guestID uint, limit int) ([]*models.GuestRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reqs := []*models.GuestRequest{}
	for _, r := range m.guestRequests {
		if r.GuestID == guestID {
			reqs = append(reqs, r)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	if limit > 0 && len(reqs) > limit {
		reqs = reqs[:limit]
	}
	return reqs, nil
}

// Review queue operations

func (m *MemoryStore) CreateUnmatchedRequest(ur *models.UnmatchedRequest) (*models.UnmatchedRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ur.ReferenceID == "" {
		_ = ur.BeforeCreate(nil)
	}
	stamp(m.allocID(), &ur.CreatedAt, &ur.UpdatedAt, &ur.ID)
	m.unmatchedRequests[ur.ID] = ur
	return ur, nil
}

func (m *MemoryStore) GetUnmatchedRequest(id uint) (*models.UnmatchedRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ur, exists := m.unmatchedRequests[id]
	if !exists {
		return nil, ErrNotFound
	}
	return ur, nil
}

func (m *MemoryStore) GetPendingUnmatchedRequests() ([]*models.UnmatchedRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pending := []*models.UnmatchedRequest{}
	for _, ur := range m.unmatchedRequests {
		if ur.ReviewStatus == models.ReviewStatusPending {
			pending = append(pending, ur)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (m *MemoryStore) UpdateUnmatchedRequest(ur *models.UnmatchedRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.unmatchedRequests[ur.ID]; !exists {
		return ErrNotFound
	}
	ur.UpdatedAt = time.Now()
	m.unmatchedRequests[ur.ID] = ur
	return nil
}

// Feedback operations

func (m *MemoryStore) CreateFeedbackQuestion(q *models.FeedbackQuestion) (*models.FeedbackQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(m.allocID(), &q.CreatedAt, &q.UpdatedAt, &q.ID)
	m.feedbackQuestions[q.ID] = q
	return q, nil
}

func (m *MemoryStore) GetActiveFeedbackQuestions() ([]*models.FeedbackQuestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	questions := []*models.FeedbackQuestion{}
	for _, q := range m.feedbackQuestions {
		if q.Active {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].ID < questions[j].ID
	})
	return questions, nil
}

func (m *MemoryStore) CreateFeedbackSession(s *models.FeedbackSession) (*models.FeedbackSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.SessionID == "" {
		_ = s.BeforeCreate(nil)
	}
	stamp(m.allocID(), &s.CreatedAt, &s.UpdatedAt, &s.ID)
	m.feedbackSessions[s.ID] = s
	return s, nil
}

func (m *MemoryStore) GetFeedbackSession(id uint) (*models.FeedbackSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.feedbackSessions[id]
	if !exists {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) GetActiveFeedbackSessionByConversation(conversationID uint) (*models.FeedbackSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *models.FeedbackSession
	for _, s := range m.feedbackSessions {
		if s.ConversationID != conversationID || s.Status != models.FeedbackStatusActive {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) UpdateFeedbackSession(s *models.FeedbackSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.feedbackSessions[s.ID]; !exists {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now()
	m.feedbackSessions[s.ID] = s
	return nil
}

func (m *MemoryStore) UpsertFeedbackResponse(r *models.FeedbackResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.feedbackResponses {
		if existing.SessionID == r.SessionID && existing.QuestionID == r.QuestionID {
			existing.Answer = r.Answer
			existing.ReceivedAt = r.ReceivedAt
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	stamp(m.allocID(), &r.CreatedAt, &r.UpdatedAt, &r.ID)
	m.feedbackResponses[r.ID] = r
	return nil
}

func (m *MemoryStore) GetResponsesBySession(sessionID uint) ([]*models.FeedbackResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	responses := []*models.FeedbackResponse{}
	for _, r := range m.feedbackResponses {
		if r.SessionID == sessionID {
			responses = append(responses, r)
		}
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].ID < responses[j].ID })
	return responses, nil
}

// Stale conversation cleanup

func (m *MemoryStore) GetStaleConversations(states []models.ConversationState, olderThanMinutes int) ([]*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	stale := []*models.Conversation{}
	for _, c := range m.conversations {
		if c.LastInboundAt == nil || !c.LastInboundAt.Before(cutoff) {
			continue
		}
		for _, s := range states {
			if c.State == s {
				stale = append(stale, c)
				break
			}
		}
	}
	return stale, nil
}

// Transaction runs fn directly; the memory store has no isolation
func (m *MemoryStore) Transaction(fn func(Store) error) error {
	return fn(m)
}

func digitsOnly(phone string) string {
	return strings.TrimPrefix(utils.NormalizePhone(phone), "+")
}
