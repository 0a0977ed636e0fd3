package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
)

// DetectionIDPrefix prefixes every detection id, e.g. "FGD07".
const DetectionIDPrefix = "FGD"

// Detection is the stored result of a fake-news analysis. The per-model
// slices are parallel: index i of each refers to Models[i].
type Detection struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Models          []string  `json:"models"`
	Confidence      float64   `json:"confidence"`
	TruePredictions []float64 `json:"truePredictions"`
	FakePredictions []float64 `json:"fakePredictions"`
	Predictions     []string  `json:"predictions"`
	FinalPrediction string    `json:"finalPrediction"`
	Date            time.Time `json:"date"`
}

func (d *Detection) RecordID() string         { return d.ID }
func (d *Detection) SetRecordID(id string)    { d.ID = id }
func (d *Detection) OwnerID() string          { return d.UserID }
func (d *Detection) SetOwnerID(userID string) { d.UserID = userID }

// Validate requires every field except Confidence, for which zero is a
// legitimate threshold. Models must name at least one model and every
// per-model list must have one entry per model.
func (d *Detection) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Content) == "" {
		missing = append(missing, "content")
	}
	if len(d.Models) == 0 {
		missing = append(missing, "models")
	}
	if d.TruePredictions == nil {
		missing = append(missing, "truePredictions")
	}
	if d.FakePredictions == nil {
		missing = append(missing, "fakePredictions")
	}
	if d.Predictions == nil {
		missing = append(missing, "predictions")
	}
	if strings.TrimSpace(d.FinalPrediction) == "" {
		missing = append(missing, "finalPrediction")
	}
	if d.Date.IsZero() {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s: %w", strings.Join(missing, ", "), common.ErrValidation)
	}

	n := len(d.Models)
	var mismatched []string
	if len(d.TruePredictions) != n {
		mismatched = append(mismatched, "truePredictions")
	}
	if len(d.FakePredictions) != n {
		mismatched = append(mismatched, "fakePredictions")
	}
	if len(d.Predictions) != n {
		mismatched = append(mismatched, "predictions")
	}
	if len(mismatched) > 0 {
		return fmt.Errorf("%s must have %d entries, one per model: %w", strings.Join(mismatched, ", "), n, common.ErrValidation)
	}
	return nil
}
