package domain

import (
	"time"
)

// FormValues is a mapping of form-field names to string or number values, as already
// parsed from a request body by the web layer.
type FormValues map[string]interface{}

// Slot is one scored question of an instrument.
type Slot struct {
	ID        string        `json:"id"`
	Prompt    string        `json:"prompt"`
	Min       float64       `json:"min"`
	Max       float64       `json:"max"`
	Transform TransformKind `json:"transform"`
	// Center and Scale parameterize optimal-midpoint: max(0, span - Scale*|v-Center|).
	Center float64 `json:"center,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	// Divisor and Cap parameterize threshold-normalize: min(v/Divisor, 1) * Cap.
	Divisor float64 `json:"divisor,omitempty"`
	Cap     float64 `json:"cap,omitempty"`
	Weight  float64 `json:"weight"`
}

// Instrument is the static definition of one questionnaire type.
type Instrument struct {
	ID       InstrumentID `json:"id"`
	Title    string       `json:"title"`
	Slots    []Slot       `json:"slots"`
	MaxTotal float64      `json:"max_total"`
}

// QuestionnaireResponse is one scored submission. It is created once and never updated.
type QuestionnaireResponse struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	InstrumentType InstrumentID `json:"questionnaire_type"`
	RawAnswers     FormValues   `json:"raw_answers,omitempty"`
	// Responses is the original raw mapping serialized verbatim for audit.
	Responses   string    `json:"responses"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// LifeChartForm is the sparse retrospective form a life chart is built from.
// Nil pointers mean the field was absent or could not be parsed.
type LifeChartForm struct {
	FirstEpisodeAge    *int   `json:"first_episode_age,omitempty"`
	FirstEpisodeType   string `json:"first_episode_type,omitempty"`
	DepressiveEpisodes int    `json:"depressive_episodes,omitempty"`
	ManicEpisodes      int    `json:"manic_episodes,omitempty"`
	WorstDepressionAge *int   `json:"worst_depression_age,omitempty"`
	WorstManiaAge      *int   `json:"worst_mania_age,omitempty"`
	TreatmentStartAge  *int   `json:"treatment_start_age,omitempty"`
	CurrentAge         int    `json:"current_age"`
	CurrentState       string `json:"current_state"`
}

// EpisodePoint is one dated mood-state marker in a life chart timeline.
type EpisodePoint struct {
	Age   int         `json:"age"`
	Mood  int         `json:"mood"`
	Kind  EpisodeKind `json:"kind"`
	Label string      `json:"label,omitempty"`
}

// LifeChartData is what gets persisted for a user's chart: the raw form (for future
// editing), the computed timeline and the generation timestamp.
type LifeChartData struct {
	Form        FormValues     `json:"form"`
	Timeline    []EpisodePoint `json:"timeline"`
	GeneratedAt string         `json:"generated_at"`
}

// LifeChart is the single chart a user owns. Each submission fully replaces the previous one.
type LifeChart struct {
	UserID    string        `json:"user_id"`
	Data      LifeChartData `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// MoodEntry is one daily log line (mood level, sleep and medications).
type MoodEntry struct {
	ID          int64     `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Date        string    `json:"date"`
	MoodLevel   int       `json:"mood_level"`
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	Medications string    `json:"medications,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DiaryEntry is one mood diary page with mood at three times of day and symptom levels.
type DiaryEntry struct {
	ID                int64     `json:"id,omitempty"`
	UserID            string    `json:"user_id"`
	Date              string    `json:"date"`
	MoodMorning       *int      `json:"mood_morning,omitempty"`
	MoodAfternoon     *int      `json:"mood_afternoon,omitempty"`
	MoodEvening       *int      `json:"mood_evening,omitempty"`
	EnergyLevel       *int      `json:"energy_level,omitempty"`
	AnxietyLevel      *int      `json:"anxiety_level,omitempty"`
	IrritabilityLevel *int      `json:"irritability_level,omitempty"`
	Activities        string    `json:"activities,omitempty"`
	Thoughts          string    `json:"thoughts,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
