// Package domain contains the core entities shared by the questionnaire scoring engine,
// the life-chart timeline builder and the storage collaborators around them.
//
// Everything in this package is plain data: no I/O, no package-level mutable state.
package domain

import (
	"errors"
	"strings"
)

// InstrumentID identifies one questionnaire type with a fixed set of scored slots.
type InstrumentID string

const (
	MoodAssessment      InstrumentID = "mood-assessment"
	MedicationAdherence InstrumentID = "medication-adherence"
	SleepQuality        InstrumentID = "sleep-quality"
	GeneralWellbeing    InstrumentID = "general-wellbeing"
	PhysicalActivity    InstrumentID = "physical-activity"
	Nutrition           InstrumentID = "nutrition"
	SocialRelationships InstrumentID = "social-relationships"
)

// String returns the string representation of the instrument id.
func (id InstrumentID) String() string {
	return string(id)
}

// TransformKind is the per-question normalization rule applied to a raw answer.
type TransformKind string

const (
	TransformIdentity           TransformKind = "identity"
	TransformReverse            TransformKind = "reverse"
	TransformOptimalMidpoint    TransformKind = "optimal-midpoint"
	TransformThresholdNormalize TransformKind = "threshold-normalize"
)

// IsValid reports whether the transform kind is one the scoring engine knows how to apply.
func (k TransformKind) IsValid() bool {
	switch k {
	case TransformIdentity, TransformReverse, TransformOptimalMidpoint, TransformThresholdNormalize:
		return true
	default:
		return false
	}
}

// EpisodeKind is the qualitative state of one point on a life chart.
type EpisodeKind string

const (
	Euthymic           EpisodeKind = "euthymic"
	Manic              EpisodeKind = "manic"
	Hypomanic          EpisodeKind = "hypomanic"
	Depressive         EpisodeKind = "depressive"
	Mixed              EpisodeKind = "mixed"
	MildDepression     EpisodeKind = "mild-depression"
	ModerateDepression EpisodeKind = "moderate-depression"
	SevereDepression   EpisodeKind = "severe-depression"
	MildHypomania      EpisodeKind = "mild-hypomania"
)

// IsValid reports whether the kind belongs to the closed episode vocabulary.
func (k EpisodeKind) IsValid() bool {
	switch k {
	case Euthymic, Manic, Hypomanic, Depressive, Mixed,
		MildDepression, ModerateDepression, SevereDepression, MildHypomania:
		return true
	default:
		return false
	}
}

// String returns the string representation of the episode kind.
func (k EpisodeKind) String() string {
	return string(k)
}

// Mood valence bounds: -3 is a severe low, +3 a severe high.
const (
	MinMoodValence = -3
	MaxMoodValence = 3
)

// NormalizeLabel folds a free-form state label into the hyphenated lower-case form used
// by the episode classification table ("Severe Depression" -> "severe-depression").
func NormalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.NewReplacer("_", "-", " ", "-").Replace(label)
	for strings.Contains(label, "--") {
		label = strings.ReplaceAll(label, "--", "-")
	}
	return label
}

// Sentinel errors used across packages.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrMalformedAnswer   = errors.New("malformed answer")
	ErrMissingUser       = errors.New("user id is required")
)
