package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// seedRequestTypes installs two request types with a small keyword table and
// returns them for assertions
func seedRequestTypes(t *testing.T, store storage.Store) (*models.RequestType, *models.RequestType) {
	t.Helper()

	housekeeping, err := store.CreateRequestType(&models.RequestType{Name: "Housekeeping", Description: "Room cleaning and supplies", Active: true})
	require.NoError(t, err)
	maintenance, err := store.CreateRequestType(&models.RequestType{Name: "Maintenance", Description: "Repairs and technical issues", Active: true})
	require.NoError(t, err)

	keywords := []models.RequestKeyword{
		{Keyword: "towel", Weight: 2, RequestTypeID: housekeeping.ID, Active: true},
		{Keyword: "clean", Weight: 1, RequestTypeID: housekeeping.ID, Active: true},
		{Keyword: "ac", Weight: 3, RequestTypeID: maintenance.ID, Active: true},
		{Keyword: "broken", Weight: 2, RequestTypeID: maintenance.ID, Active: true},
		{Keyword: "leak", Weight: 2, RequestTypeID: maintenance.ID, Active: true},
	}
	for i := range keywords {
		_, err := store.CreateRequestKeyword(&keywords[i])
		require.NoError(t, err)
	}
	return housekeeping, maintenance
}

func TestClassifyMatchesKeywords(t *testing.T) {
	store := storage.NewMemoryStore()
	housekeeping, maintenance := seedRequestTypes(t, store)
	c := NewIntentClassifier(store)

	det := c.Classify("I need a towel please")
	require.NotNil(t, det)
	assert.Equal(t, housekeeping.ID, det.RequestType.ID)
	assert.Contains(t, det.MatchedKeywords, "towel")

	det = c.Classify("The AC is broken")
	require.NotNil(t, det)
	assert.Equal(t, maintenance.ID, det.RequestType.ID)
	assert.Equal(t, 5, det.Score)
}

func TestClassifyScoreGrowsWithMoreMatches(t *testing.T) {
	store := storage.NewMemoryStore()
	seedRequestTypes(t, store)
	c := NewIntentClassifier(store)

	one := c.Classify("the ac")
	require.NotNil(t, one)
	two := c.Classify("the ac is broken")
	require.NotNil(t, two)

	assert.Greater(t, two.Score, one.Score)
}

func TestClassifyHigherWeightWins(t *testing.T) {
	store := storage.NewMemoryStore()
	_, maintenance := seedRequestTypes(t, store)
	c := NewIntentClassifier(store)

	// "clean" scores 1 for housekeeping, "ac" scores 3 for maintenance
	det := c.Classify("please clean the ac")
	require.NotNil(t, det)
	assert.Equal(t, maintenance.ID, det.RequestType.ID)
}

func TestClassifyTieBreaksOnLowestID(t *testing.T) {
	store := storage.NewMemoryStore()
	first, err := store.CreateRequestType(&models.RequestType{Name: "First", Active: true})
	require.NoError(t, err)
	second, err := store.CreateRequestType(&models.RequestType{Name: "Second", Active: true})
	require.NoError(t, err)

	_, err = store.CreateRequestKeyword(&models.RequestKeyword{Keyword: "pillow", Weight: 2, RequestTypeID: first.ID, Active: true})
	require.NoError(t, err)
	_, err = store.CreateRequestKeyword(&models.RequestKeyword{Keyword: "pillow", Weight: 2, RequestTypeID: second.ID, Active: true})
	require.NoError(t, err)

	c := NewIntentClassifier(store)
	det := c.Classify("extra pillow")
	require.NotNil(t, det)
	assert.Equal(t, first.ID, det.RequestType.ID)
}

func TestClassifyFallbackOnTypeName(t *testing.T) {
	store := storage.NewMemoryStore()
	rt, err := store.CreateRequestType(&models.RequestType{Name: "Concierge", Description: "Taxi and local recommendations", Active: true})
	require.NoError(t, err)

	c := NewIntentClassifier(store)
	det := c.Classify("can the concierge help me")
	require.NotNil(t, det)
	assert.Equal(t, rt.ID, det.RequestType.ID)
}

func TestClassifyNoMatchReturnsNil(t *testing.T) {
	store := storage.NewMemoryStore()
	seedRequestTypes(t, store)
	c := NewIntentClassifier(store)

	assert.Nil(t, c.Classify("xyzzy quux"))
	assert.Nil(t, c.Classify(""))
	assert.Nil(t, c.Classify("   "))
	assert.Nil(t, c.Classify("!!! ???"))
}

func TestClassifyIgnoresInactiveKeywords(t *testing.T) {
	store := storage.NewMemoryStore()
	rt, err := store.CreateRequestType(&models.RequestType{Name: "Spa", Active: true})
	require.NoError(t, err)
	_, err = store.CreateRequestKeyword(&models.RequestKeyword{Keyword: "massage", Weight: 3, RequestTypeID: rt.ID, Active: false})
	require.NoError(t, err)

	c := NewIntentClassifier(store)
	assert.Nil(t, c.Classify("book a massage"))
}
