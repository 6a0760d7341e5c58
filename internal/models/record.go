package models

import "strings"

// Category identifies one of the four metric groups fetched per date.
type Category string

const (
	CategoryActivity  Category = "activity"
	CategorySleep     Category = "sleep"
	CategoryWeight    Category = "weight"
	CategoryHeartRate Category = "heart_rate"
)

// Categories lists all metric categories in fetch order.
var Categories = []Category{CategoryActivity, CategorySleep, CategoryWeight, CategoryHeartRate}

// Metrics is a flat mapping of metric identifier to numeric value,
// e.g. "very_active_minutes" -> 42.
type Metrics map[string]float64

// DailyRecord aggregates all metrics collected for one calendar date.
// A nil category map means the provider had no data for that category on
// that date. That absence is meaningful and must survive to the destination:
// a day without a weigh-in produces no weight properties, not zeros.
type DailyRecord struct {
	Date       string
	Categories map[Category]Metrics
}

// NewDailyRecord creates an empty record for an ISO date string.
func NewDailyRecord(date string) *DailyRecord {
	return &DailyRecord{
		Date:       date,
		Categories: make(map[Category]Metrics),
	}
}

// Set stores a category's metrics. Nil or empty metrics are dropped so the
// record keeps "no data" distinct from "all zeros".
func (r *DailyRecord) Set(cat Category, m Metrics) {
	if len(m) == 0 {
		return
	}
	r.Categories[cat] = m
}

// Has reports whether the record holds data for a category.
func (r *DailyRecord) Has(cat Category) bool {
	_, ok := r.Categories[cat]
	return ok
}

// Empty reports whether no category produced any data.
func (r *DailyRecord) Empty() bool {
	return len(r.Categories) == 0
}

// Flatten merges every present category into a single property set keyed by
// human-readable labels. Later categories never collide with earlier ones in
// practice since each provider shape uses distinct metric identifiers.
func (r *DailyRecord) Flatten() map[string]float64 {
	props := make(map[string]float64)
	for _, cat := range Categories {
		for name, value := range r.Categories[cat] {
			props[TitleLabel(name)] = value
		}
	}
	return props
}

// TitleLabel converts a metric identifier to its destination label:
// underscores become spaces and each word is title-cased,
// "very_active_minutes" -> "Very Active Minutes".
func TitleLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
