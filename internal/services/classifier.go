package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// tokenPattern matches lowercase alphanumeric token runs, apostrophes included
var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// DetectedRequest is the classifier's answer: the most likely request type
// for a piece of free text, with the evidence that produced it.
type DetectedRequest struct {
	RequestType     *models.RequestType
	MatchedKeywords []string
	Score           int
}

// IntentClassifier scores free text against the keyword-to-request-type
// table to detect the most likely request category.
type IntentClassifier struct {
	store storage.Store
}

// NewIntentClassifier creates a classifier over the given store
func NewIntentClassifier(store storage.Store) *IntentClassifier {
	return &IntentClassifier{store: store}
}

// Classify returns the winning request type for the text, or nil when the
// text is empty, nothing scores above zero, or the winner cannot be loaded.
// Ties are broken deterministically by lowest request-type id.
func (c *IntentClassifier) Classify(text string) *DetectedRequest {
	normalized := strings.ToLower(strings.TrimSpace(text))
	tokens := tokenize(normalized)
	if len(tokens) == 0 {
		return nil
	}
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	scores := make(map[uint]int)
	matched := make(map[uint][]string)

	// Primary pass: configured keyword mappings
	keywords, err := c.store.GetActiveRequestKeywords()
	if err == nil {
		for _, kw := range keywords {
			word := strings.ToLower(kw.Keyword)
			if word == "" {
				continue
			}
			_, exactToken := tokenSet[word]
			if strings.Contains(normalized, word) || exactToken {
				scores[kw.RequestTypeID] += kw.Weight
				matched[kw.RequestTypeID] = append(matched[kw.RequestTypeID], kw.Keyword)
			}
		}
	}

	// Fallback pass: match against request type names and descriptions,
	// only when no keyword matched at all
	if len(scores) == 0 {
		types, err := c.store.GetActiveRequestTypes()
		if err != nil {
			return nil
		}
		for _, rt := range types {
			score := 0
			name := strings.ToLower(rt.Name)
			if name != "" && strings.Contains(normalized, name) {
				score += 5
			}
			for _, t := range tokenize(strings.ToLower(rt.Name + " " + rt.Description)) {
				if _, ok := tokenSet[t]; ok {
					score++
				}
			}
			if score > 0 {
				scores[rt.ID] = score
			}
		}
	}

	if len(scores) == 0 {
		return nil
	}

	// Strictly highest score wins; lowest id on ties
	ids := make([]uint, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	winner := ids[0]
	if scores[winner] <= 0 {
		return nil
	}

	rt, err := c.store.GetRequestType(winner)
	if err != nil {
		return nil
	}
	return &DetectedRequest{
		RequestType:     rt,
		MatchedKeywords: dedupe(matched[winner]),
		Score:           scores[winner],
	}
}

func tokenize(lowered string) []string {
	return tokenPattern.FindAllString(lowered, -1)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
