package jobs

import (
	"log"
	"time"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// How long a conversation may sit mid-menu before it is reset
const staleAfterMinutes = 12 * 60

// CleanupJob resets conversations that were left hanging in a menu state so
// the next inbound message starts with a fresh greeting
type CleanupJob struct {
	store     storage.Store
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewCleanupJob creates a new cleanup job scheduler
func NewCleanupJob(store storage.Store) *CleanupJob {
	return &CleanupJob{
		store:    store,
		interval: 30 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start begins the scheduled cleanup loop
func (j *CleanupJob) Start() {
	if j.isRunning {
		log.Println("Cleanup job already running")
		return
	}
	j.isRunning = true
	log.Println("Starting stale conversation cleanup job...")
	go j.run()
}

// Stop halts the scheduled loop
func (j *CleanupJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping stale conversation cleanup job...")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.resetStaleConversations()
		case <-j.stop:
			return
		}
	}
}

// resetStaleConversations moves abandoned menu conversations back to idle
func (j *CleanupJob) resetStaleConversations() {
	states := []models.ConversationState{
		models.StateAwaitingMenu,
		models.StateAwaitingDescription,
		models.StateFeedbackInvited,
	}
	stale, err := j.store.GetStaleConversations(states, staleAfterMinutes)
	if err != nil {
		log.Printf("Error loading stale conversations: %v", err)
		return
	}

	for _, conv := range stale {
		conv.State = models.StateIdle
		conv.MenuPresentedAt = nil
		ctx := conv.GetContext()
		ctx.PendingRequestStartedAt = nil
		conv.SetContext(ctx)
		if err := j.store.UpdateConversation(conv); err != nil {
			log.Printf("Error resetting stale conversation %s: %v", conv.PhoneNumber, err)
			continue
		}
		log.Printf("Reset stale conversation for %s", conv.PhoneNumber)
	}
	if len(stale) > 0 {
		log.Printf("Cleanup pass reset %d conversation(s)", len(stale))
	}
}
