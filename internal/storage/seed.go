package storage

import (
	"log"

	"github.com/Rainita-06/hotel-sub001/internal/models"
)

// SeedReferenceData loads a starter set of departments, request types,
// keyword mappings, and feedback questions when the store is empty. The
// classifier and feedback driver are inert without this reference data.
func SeedReferenceData(store Store) error {
	types, err := store.GetActiveRequestTypes()
	if err != nil {
		return err
	}
	if len(types) == 0 {
		if err := seedRequestTypes(store); err != nil {
			return err
		}
	}

	questions, err := store.GetActiveFeedbackQuestions()
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		if err := seedFeedbackQuestions(store); err != nil {
			return err
		}
	}

	return nil
}

func seedRequestTypes(store Store) error {
	log.Println("Seeding departments, request types and keywords...")

	seeds := []struct {
		department string
		name       string
		desc       string
		keywords   map[string]int
	}{
		{
			department: "Housekeeping",
			name:       "Housekeeping",
			desc:       "Room cleaning, towels, linen and amenities",
			keywords:   map[string]int{"clean": 10, "cleaning": 10, "towel": 10, "towels": 10, "linen": 8, "soap": 6, "amenities": 6, "housekeeping": 12},
		},
		{
			department: "Maintenance",
			name:       "Maintenance",
			desc:       "Repairs for AC, plumbing, electrical and fittings",
			keywords:   map[string]int{"ac": 10, "air conditioning": 10, "leak": 10, "broken": 8, "repair": 10, "light": 6, "tv": 6, "wifi": 6, "hot water": 10},
		},
		{
			department: "Food & Beverage",
			name:       "Room Service",
			desc:       "In-room dining, breakfast and beverages",
			keywords:   map[string]int{"food": 10, "breakfast": 10, "dinner": 8, "menu": 8, "water bottle": 6, "coffee": 6, "tea": 6, "hungry": 6},
		},
		{
			department: "Front Desk",
			name:       "Concierge",
			desc:       "Taxi, directions, luggage and general assistance",
			keywords:   map[string]int{"taxi": 10, "cab": 10, "luggage": 8, "directions": 6, "late checkout": 10, "wake up call": 8},
		},
	}

	for _, s := range seeds {
		dept, err := store.CreateDepartment(&models.Department{Name: s.department, Active: true})
		if err != nil {
			return err
		}
		deptID := dept.ID
		rt, err := store.CreateRequestType(&models.RequestType{
			Name:         s.name,
			Description:  s.desc,
			DepartmentID: &deptID,
			Active:       true,
		})
		if err != nil {
			return err
		}
		for keyword, weight := range s.keywords {
			_, err := store.CreateRequestKeyword(&models.RequestKeyword{
				Keyword:       keyword,
				Weight:        weight,
				RequestTypeID: rt.ID,
				Active:        true,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func seedFeedbackQuestions(store Store) error {
	log.Println("Seeding feedback questions...")

	prompts := []string{
		"How would you rate your overall stay with us, from 1 to 5?",
		"What did you enjoy most about your stay?",
		"Is there anything we could have done better?",
	}
	for i, prompt := range prompts {
		_, err := store.CreateFeedbackQuestion(&models.FeedbackQuestion{
			Prompt: prompt,
			Order:  i + 1,
			Active: true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
