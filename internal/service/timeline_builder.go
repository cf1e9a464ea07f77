package service

import (
	"sort"
	"strings"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// Point labels attached by the timeline builder. The age-0 baseline is unlabeled.
const (
	LabelFirstEpisode    = "first episode"
	LabelWorstDepression = "worst depression"
	LabelWorstMania      = "worst mania"
	LabelTreatmentStart  = "treatment start"
	LabelToday           = "today"
)

// DefaultCurrentAge is used when the form's current age is absent or unparseable.
const DefaultCurrentAge = 30

// Life chart form field names.
const (
	FieldFirstEpisodeAge    = "first_episode_age"
	FieldFirstEpisodeType   = "first_episode_type"
	FieldDepressiveEpisodes = "depressive_episodes"
	FieldManicEpisodes      = "manic_episodes"
	FieldWorstDepressionAge = "worst_depression_age"
	FieldWorstManiaAge      = "worst_mania_age"
	FieldTreatmentStartAge  = "treatment_start_age"
	FieldCurrentAge         = "current_age"
	FieldCurrentState       = "current_state"
)

// PointPreference decides which of two points sharing an age survives deduplication.
// It returns true when candidate should replace incumbent. Candidate is always the
// later of the two in insertion order.
type PointPreference func(incumbent, candidate domain.EpisodePoint) bool

// PreferLabeledStronger keeps a labeled point over an unlabeled one, then the point with
// the larger absolute mood, and otherwise lets the later point win.
func PreferLabeledStronger(incumbent, candidate domain.EpisodePoint) bool {
	incumbentLabeled, candidateLabeled := incumbent.Label != "", candidate.Label != ""
	if incumbentLabeled != candidateLabeled {
		return candidateLabeled
	}
	if ia, ca := abs(incumbent.Mood), abs(candidate.Mood); ia != ca {
		return ca > ia
	}
	return true
}

// TimelineBuilder turns a sparse life chart form into an ordered episode timeline
// with at most one point per age. It holds no mutable state.
type TimelineBuilder struct {
	prefer PointPreference
}

// NewTimelineBuilder creates a builder using PreferLabeledStronger for collisions.
func NewTimelineBuilder() *TimelineBuilder {
	return NewTimelineBuilderWith(PreferLabeledStronger)
}

// NewTimelineBuilderWith creates a builder with a custom collision preference.
func NewTimelineBuilderWith(prefer PointPreference) *TimelineBuilder {
	if prefer == nil {
		prefer = PreferLabeledStronger
	}
	return &TimelineBuilder{prefer: prefer}
}

// Build never fails: absent optional points are omitted and the current-state point
// falls back to DefaultCurrentAge and euthymic.
func (b *TimelineBuilder) Build(form domain.LifeChartForm) []domain.EpisodePoint {
	points := make([]domain.EpisodePoint, 0, 6)
	points = append(points, domain.EpisodePoint{Age: 0, Mood: 0, Kind: domain.Euthymic})

	if form.FirstEpisodeAge != nil {
		kind, mood := ClassifyEpisode(form.FirstEpisodeType)
		points = append(points, domain.EpisodePoint{
			Age: *form.FirstEpisodeAge, Mood: mood, Kind: kind, Label: LabelFirstEpisode,
		})
	}
	if form.WorstDepressionAge != nil && form.DepressiveEpisodes > 0 {
		points = append(points, domain.EpisodePoint{
			Age: *form.WorstDepressionAge, Mood: domain.MinMoodValence, Kind: domain.Depressive, Label: LabelWorstDepression,
		})
	}
	if form.WorstManiaAge != nil && form.ManicEpisodes > 0 {
		points = append(points, domain.EpisodePoint{
			Age: *form.WorstManiaAge, Mood: domain.MaxMoodValence, Kind: domain.Manic, Label: LabelWorstMania,
		})
	}
	if form.TreatmentStartAge != nil {
		points = append(points, domain.EpisodePoint{
			Age: *form.TreatmentStartAge, Mood: 0, Kind: domain.Euthymic, Label: LabelTreatmentStart,
		})
	}

	currentAge := form.CurrentAge
	if currentAge < 0 {
		currentAge = DefaultCurrentAge
	}
	kind, mood := ClassifyEpisode(form.CurrentState)
	points = append(points, domain.EpisodePoint{Age: currentAge, Mood: mood, Kind: kind, Label: LabelToday})

	return b.merge(points)
}

// BuildFromValues parses raw form values and builds the timeline.
func (b *TimelineBuilder) BuildFromValues(values domain.FormValues) []domain.EpisodePoint {
	return b.Build(ParseLifeChartForm(values))
}

// merge sorts by age, keeping insertion order for equal ages, then folds each run of
// equal ages down to one point using the builder's preference.
func (b *TimelineBuilder) merge(points []domain.EpisodePoint) []domain.EpisodePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Age < points[j].Age })

	timeline := make([]domain.EpisodePoint, 0, len(points))
	for _, p := range points {
		last := len(timeline) - 1
		if last >= 0 && timeline[last].Age == p.Age {
			if b.prefer(timeline[last], p) {
				timeline[last] = p
			}
			continue
		}
		timeline = append(timeline, p)
	}
	return timeline
}

// ParseLifeChartForm reads a life chart form leniently. Unparseable or negative ages are
// treated as absent, episode counts accept any non-empty non-numeric value as "yes",
// and the current age defaults to DefaultCurrentAge.
func ParseLifeChartForm(values domain.FormValues) domain.LifeChartForm {
	form := domain.LifeChartForm{
		FirstEpisodeAge:    optionalAge(values, FieldFirstEpisodeAge),
		FirstEpisodeType:   stringValue(values, FieldFirstEpisodeType),
		DepressiveEpisodes: episodeCount(values[FieldDepressiveEpisodes]),
		ManicEpisodes:      episodeCount(values[FieldManicEpisodes]),
		WorstDepressionAge: optionalAge(values, FieldWorstDepressionAge),
		WorstManiaAge:      optionalAge(values, FieldWorstManiaAge),
		TreatmentStartAge:  optionalAge(values, FieldTreatmentStartAge),
		CurrentAge:         DefaultCurrentAge,
		CurrentState:       stringValue(values, FieldCurrentState),
	}

	if age := optionalAge(values, FieldCurrentAge); age != nil {
		form.CurrentAge = *age
	}
	if form.CurrentState == "" {
		form.CurrentState = string(domain.Euthymic)
	}

	return form
}

func optionalAge(values domain.FormValues, field string) *int {
	raw, ok := values[field]
	if !ok {
		return nil
	}
	age, ok := toAge(raw)
	if !ok {
		return nil
	}
	return &age
}

// episodeCount returns a positive count for values that mean "had episodes" and 0 otherwise.
func episodeCount(raw interface{}) int {
	if isBlank(raw) {
		return 0
	}
	if v, reason := toNumber(raw); reason == "" {
		if v > 0 {
			return int(v)
		}
		return 0
	}
	if b, ok := raw.(bool); ok && !b {
		return 0
	}
	return 1
}

func stringValue(values domain.FormValues, field string) string {
	switch v := values[field].(type) {
	case string:
		return strings.TrimSpace(v)
	case []string:
		if len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	}
	return ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
