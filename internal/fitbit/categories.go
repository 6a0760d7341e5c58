package fitbit

import (
	"context"
	"fmt"

	"github.com/fitsync/fitsync/internal/models"
)

// Result is the tagged outcome of one category fetch. Empty means the
// provider answered but has nothing for that date; it is distinct from an
// error, which means the fetch itself broke.
type Result struct {
	Metrics models.Metrics
	Empty   bool
}

func emptyResult() Result {
	return Result{Empty: true}
}

// Activity fetches the daily activity summary. Optional sub-fields the
// provider omitted decode to zero, which is the correct reading for
// counters like steps and active minutes.
func (c *Client) Activity(ctx context.Context, date string) (Result, error) {
	var parsed struct {
		Summary struct {
			Steps                int     `json:"steps"`
			CaloriesOut          float64 `json:"caloriesOut"`
			SedentaryMinutes     float64 `json:"sedentaryMinutes"`
			LightlyActiveMinutes float64 `json:"lightlyActiveMinutes"`
			FairlyActiveMinutes  float64 `json:"fairlyActiveMinutes"`
			VeryActiveMinutes    float64 `json:"veryActiveMinutes"`
		} `json:"summary"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/activities/date/%s.json", date), &parsed); err != nil {
		return Result{}, err
	}

	s := parsed.Summary
	return Result{Metrics: models.Metrics{
		"steps":                  float64(s.Steps),
		"calories_burned":        s.CaloriesOut,
		"sedentary_minutes":      s.SedentaryMinutes,
		"lightly_active_minutes": s.LightlyActiveMinutes,
		"fairly_active_minutes":  s.FairlyActiveMinutes,
		"very_active_minutes":    s.VeryActiveMinutes,
	}}, nil
}

// Sleep fetches the daily sleep summary with zero defaults for missing
// sub-fields.
func (c *Client) Sleep(ctx context.Context, date string) (Result, error) {
	var parsed struct {
		Summary struct {
			TotalMinutesAsleep float64 `json:"totalMinutesAsleep"`
			TotalTimeInBed     float64 `json:"totalTimeInBed"`
			Efficiency         float64 `json:"efficiency"`
		} `json:"summary"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/sleep/date/%s.json", date), &parsed); err != nil {
		return Result{}, err
	}

	s := parsed.Summary
	return Result{Metrics: models.Metrics{
		"minutes_asleep":   s.TotalMinutesAsleep,
		"minutes_in_bed":   s.TotalTimeInBed,
		"sleep_efficiency": s.Efficiency,
	}}, nil
}

// Weight fetches the weight log for the date. A day with no weigh-in returns
// an empty result, never a zero-filled one: "did not weigh in" and
// "weighed 0" are different facts.
func (c *Client) Weight(ctx context.Context, date string) (Result, error) {
	var parsed struct {
		Weight []struct {
			Weight float64 `json:"weight"`
			BMI    float64 `json:"bmi"`
			Fat    float64 `json:"fat"`
		} `json:"weight"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/body/log/weight/date/%s.json", date), &parsed); err != nil {
		return Result{}, err
	}

	if len(parsed.Weight) == 0 {
		return emptyResult(), nil
	}

	entry := parsed.Weight[0]
	m := models.Metrics{
		"weight": entry.Weight,
		"bmi":    entry.BMI,
	}
	if entry.Fat > 0 {
		m["body_fat"] = entry.Fat
	}
	return Result{Metrics: m}, nil
}

// HeartRate fetches the daily heart rate summary: resting heart rate plus
// minutes spent in each zone, zero defaults throughout.
func (c *Client) HeartRate(ctx context.Context, date string) (Result, error) {
	var parsed struct {
		ActivitiesHeart []struct {
			Value struct {
				RestingHeartRate float64 `json:"restingHeartRate"`
				HeartRateZones   []struct {
					Name    string  `json:"name"`
					Minutes float64 `json:"minutes"`
				} `json:"heartRateZones"`
			} `json:"value"`
		} `json:"activities-heart"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/activities/heart/date/%s/1d.json", date), &parsed); err != nil {
		return Result{}, err
	}

	if len(parsed.ActivitiesHeart) == 0 {
		return emptyResult(), nil
	}

	value := parsed.ActivitiesHeart[0].Value
	m := models.Metrics{
		"resting_heart_rate": value.RestingHeartRate,
	}
	for _, zone := range value.HeartRateZones {
		switch zone.Name {
		case "Out of Range":
			m["out_of_range_minutes"] = zone.Minutes
		case "Fat Burn":
			m["fat_burn_minutes"] = zone.Minutes
		case "Cardio":
			m["cardio_minutes"] = zone.Minutes
		case "Peak":
			m["peak_minutes"] = zone.Minutes
		}
	}
	return Result{Metrics: m}, nil
}

// CategoryFetch pairs a category with its fetcher.
type CategoryFetch struct {
	Category models.Category
	Fetch    func(context.Context, string) (Result, error)
}

// CategoryFetchers returns all four fetchers in canonical order.
func (c *Client) CategoryFetchers() []CategoryFetch {
	return []CategoryFetch{
		{models.CategoryActivity, c.Activity},
		{models.CategorySleep, c.Sleep},
		{models.CategoryWeight, c.Weight},
		{models.CategoryHeartRate, c.HeartRate},
	}
}
