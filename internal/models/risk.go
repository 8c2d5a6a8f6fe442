package models

import (
	"time"

	"github.com/google/uuid"
)

// Level is the qualitative band derived from a risk score.
type Level string

const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// Classify maps a score to its band. Total over all integers: anything
// below the Medium threshold is Low, including out-of-range input.
func Classify(score int) Level {
	switch {
	case score >= 20:
		return LevelCritical
	case score >= 12:
		return LevelHigh
	case score >= 5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ClampScale forces a likelihood or impact value into the 1..5 scale.
// A missing (zero) value becomes 1.
func ClampScale(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// RiskInput is the user-controlled portion of a risk. Score, level and
// timestamps are always derived server-side.
type RiskInput struct {
	ID            string
	Title         string
	Asset         string
	Threat        string
	Vulnerability string
	Likelihood    int
	Impact        int
	Owner         string
	Status        Status
	TreatmentPlan string
}

// BuildRisk turns input into a consistent Risk. A fresh identifier is
// assigned when the input carries none, status defaults to Open, and
// score/level are recomputed from likelihood×impact. For updates the
// caller passes the original creation time; zero means a new record.
func BuildRisk(in RiskInput, createdAt time.Time) Risk {
	now := time.Now().UTC()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if createdAt.IsZero() {
		createdAt = now
	}
	if !in.Status.Valid() {
		in.Status = StatusOpen
	}
	r := Risk{
		ID:            in.ID,
		Title:         in.Title,
		Asset:         in.Asset,
		Threat:        in.Threat,
		Vulnerability: in.Vulnerability,
		Likelihood:    in.Likelihood,
		Impact:        in.Impact,
		Owner:         in.Owner,
		Status:        in.Status,
		TreatmentPlan: in.TreatmentPlan,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	}
	r.Recompute()
	return r
}

// Recompute restores the score/level invariant after likelihood or
// impact changed. Inputs are clamped to the 1..5 scale first.
func (r *Risk) Recompute() {
	r.Likelihood = ClampScale(r.Likelihood)
	r.Impact = ClampScale(r.Impact)
	r.Score = r.Likelihood * r.Impact
	r.Level = Classify(r.Score)
}
