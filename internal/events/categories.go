package events

// BaseCategories is the canonical category set events must use.
var BaseCategories = []string{
	"Music",
	"Nightlife",
	"Arts & Theatre",
	"Food & Drink",
	"Business",
	"Sports & Fitness",
	"Community",
	"Other",
}

// CategoryMapping remaps legacy category names onto the base set.
// Anything unmapped falls back to "Other".
var CategoryMapping = map[string]string{
	"Concerts":      "Music",
	"Live Music":    "Music",
	"Festivals":     "Music",
	"Party":         "Nightlife",
	"Clubbing":      "Nightlife",
	"Theatre":       "Arts & Theatre",
	"Comedy":        "Arts & Theatre",
	"Exhibitions":   "Arts & Theatre",
	"Dining":        "Food & Drink",
	"Tastings":      "Food & Drink",
	"Networking":    "Business",
	"Conferences":   "Business",
	"Workshops":     "Business",
	"Wellness":      "Sports & Fitness",
	"Running":       "Sports & Fitness",
	"Charity":       "Community",
	"Volunteering":  "Community",
	"Neighborhood":  "Community",
}

// IsBaseCategory reports whether c is already canonical.
func IsBaseCategory(c string) bool {
	for _, base := range BaseCategories {
		if c == base {
			return true
		}
	}
	return false
}

// MapCategory resolves a legacy category to its base category,
// leaving canonical names untouched.
func MapCategory(c string) string {
	if IsBaseCategory(c) {
		return c
	}
	if mapped, ok := CategoryMapping[c]; ok {
		return mapped
	}
	return "Other"
}
