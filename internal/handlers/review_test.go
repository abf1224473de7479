package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

func newReviewApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	handler := NewReviewHandler(store)

	app := fiber.New()
	app.Get("/api/reviews", handler.ListPending)
	app.Post("/api/reviews/:id/approve", handler.Approve)
	app.Post("/api/reviews/:id/reject", handler.Reject)
	return app, store
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) int {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestApproveCreatesGuestRequest(t *testing.T) {
	app, store := newReviewApp(t)

	guest, err := store.CreateGuest(&models.Guest{Name: "Ravi", Phone: "+15550400001"})
	require.NoError(t, err)
	rt, err := store.CreateRequestType(&models.RequestType{Name: "Maintenance", Active: true})
	require.NoError(t, err)

	guestID := guest.ID
	rtID := rt.ID
	entry, err := store.CreateUnmatchedRequest(&models.UnmatchedRequest{
		ConversationID: 1,
		GuestID:        &guestID,
		RequestTypeID:  &rtID,
		MessageText:    "AC not cooling",
	})
	require.NoError(t, err)

	status := postJSON(t, app, fmt.Sprintf("/api/reviews/%d/approve", entry.ID), nil)
	assert.Equal(t, fiber.StatusOK, status)

	requests, err := store.GetRecentRequestsByGuest(guest.ID, 10)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "AC not cooling", requests[0].Description)
	assert.Equal(t, models.RequestStatusOpen, requests[0].Status)

	updated, err := store.GetUnmatchedRequest(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, updated.ReviewStatus)
}

func TestApproveRejectsDecidedEntry(t *testing.T) {
	app, store := newReviewApp(t)

	entry, err := store.CreateUnmatchedRequest(&models.UnmatchedRequest{ConversationID: 1, MessageText: "help", ReviewStatus: models.ReviewStatusRejected})
	require.NoError(t, err)

	status := postJSON(t, app, fmt.Sprintf("/api/reviews/%d/approve", entry.ID), nil)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestApproveRequiresGuestAndType(t *testing.T) {
	app, store := newReviewApp(t)

	entry, err := store.CreateUnmatchedRequest(&models.UnmatchedRequest{ConversationID: 1, MessageText: "no guest attached"})
	require.NoError(t, err)

	status := postJSON(t, app, fmt.Sprintf("/api/reviews/%d/approve", entry.ID), nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestRejectRecordsNotes(t *testing.T) {
	app, store := newReviewApp(t)

	entry, err := store.CreateUnmatchedRequest(&models.UnmatchedRequest{ConversationID: 1, MessageText: "spam"})
	require.NoError(t, err)

	status := postJSON(t, app, fmt.Sprintf("/api/reviews/%d/reject", entry.ID), map[string]string{"notes": "not actionable"})
	assert.Equal(t, fiber.StatusOK, status)

	updated, err := store.GetUnmatchedRequest(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, updated.ReviewStatus)
	assert.Equal(t, "not actionable", updated.ReviewNotes)
}

func TestReviewNotFound(t *testing.T) {
	app, _ := newReviewApp(t)
	assert.Equal(t, fiber.StatusNotFound, postJSON(t, app, "/api/reviews/999/approve", nil))
	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/api/reviews/abc/approve", nil))
}
