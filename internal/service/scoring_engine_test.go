package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eupolar/eupolar-server/internal/domain"
)

func answers(q1, q2, q3, q4, q5 interface{}) domain.FormValues {
	return domain.FormValues{"q1": q1, "q2": q2, "q3": q3, "q4": q4, "q5": q5}
}

func TestScoringEngine_Score(t *testing.T) {
	engine := NewScoringEngine()

	tests := []struct {
		name       string
		instrument domain.InstrumentID
		answers    domain.FormValues
		expected   int
	}{
		{"Mood worked example", domain.MoodAssessment, answers(5, 10, 6, 1, 10), 98},
		{"Mood all low", domain.MoodAssessment, answers(1, 1, 1, 10, 1), 28},
		{"Medication perfect", domain.MedicationAdherence, answers(10, 10, 10, 1, 10), 100},
		{"Medication worst", domain.MedicationAdherence, answers(1, 1, 1, 10, 1), 10},
		{"Sleep worked example", domain.SleepQuality, answers(8, 10, 1, 1, 10), 99},
		{"Sleep no hours", domain.SleepQuality, answers(0, 1, 10, 10, 1), 9},
		{"Wellbeing mixed", domain.GeneralWellbeing, answers(6, 7, 5, 4, 8), 66},
		{"Physical full", domain.PhysicalActivity, answers(7, 60, 10, 10, 10), 100},
		{"Physical partial", domain.PhysicalActivity, answers(3, 15, 5, 5, 5), 49},
		{"Physical zero activity", domain.PhysicalActivity, answers(0, 0, 1, 1, 1), 6},
		{"Nutrition near optimum", domain.Nutrition, answers(3, 10, 1, 8, 10), 98},
		{"Nutrition no meals", domain.Nutrition, answers(0, 1, 10, 0, 1), 12},
		{"Nutrition half rounds away from zero", domain.Nutrition, answers(3, 1, 10, 1, 1), 27},
		{"Social", domain.SocialRelationships, answers(8, 8, 3, 8, 8), 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := engine.Score(tt.instrument, tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestScoringEngine_Coercion(t *testing.T) {
	engine := NewScoringEngine()

	t.Run("Numeric strings", func(t *testing.T) {
		score, err := engine.Score(domain.MoodAssessment, answers("5", "10", " 6 ", "1", "10"))
		require.NoError(t, err)
		assert.Equal(t, 98, score)
	})

	t.Run("Fractions truncate toward zero", func(t *testing.T) {
		truncated, err := engine.Score(domain.SleepQuality, answers("8.9", 10, 1, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, 99, truncated)
	})

	t.Run("JSON numbers and form slices", func(t *testing.T) {
		values := domain.FormValues{
			"q1": json.Number("5"),
			"q2": []string{"10"},
			"q3": float64(6),
			"q4": int64(1),
			"q5": uint8(10),
		}
		score, err := engine.Score(domain.MoodAssessment, values)
		require.NoError(t, err)
		assert.Equal(t, 98, score)
	})
}

func TestScoringEngine_MalformedAnswer(t *testing.T) {
	engine := NewScoringEngine()

	tests := []struct {
		name   string
		values domain.FormValues
		slot   string
		reason string
	}{
		{"Non-numeric", answers("abc", 1, 1, 1, 1), "q1", "not a number"},
		{"Missing slot", domain.FormValues{"q1": 5, "q2": 5, "q4": 5, "q5": 5}, "q3", "missing answer"},
		{"Empty string", answers(1, 1, 1, "  ", 1), "q4", "empty answer"},
		{"Nil", answers(1, 1, 1, 1, nil), "q5", "missing answer"},
		{"Boolean", answers(1, true, 1, 1, 1), "q2", "boolean is not a number"},
		{"Not finite", answers(1, 1, math.Inf(1), 1, 1), "q3", "not a finite number"},
		{"Multiple form values", answers(1, []string{"1", "2"}, 1, 1, 1), "q2", "expected a single value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Score(domain.GeneralWellbeing, tt.values)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedAnswer))

			var malformed *domain.MalformedAnswerError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.slot, malformed.Slot)
			assert.Equal(t, tt.reason, malformed.Reason)
			assert.Equal(t, domain.GeneralWellbeing, malformed.Instrument)
		})
	}
}

func TestScoringEngine_UnknownInstrument(t *testing.T) {
	engine := NewScoringEngine()

	_, err := engine.Score("anxiety-screen", answers(1, 1, 1, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownInstrument))
	assert.Contains(t, err.Error(), "anxiety-screen")
}

func TestScoringEngine_ReferenceTable(t *testing.T) {
	engine := NewScoringEngine()
	instruments := engine.Instruments()

	ids := make([]domain.InstrumentID, 0, len(instruments))
	for _, inst := range instruments {
		ids = append(ids, inst.ID)
		assert.Len(t, inst.Slots, 5, inst.ID)
		assert.Equal(t, float64(50), inst.MaxTotal, inst.ID)
	}
	assert.Equal(t, []domain.InstrumentID{
		domain.MoodAssessment, domain.MedicationAdherence, domain.SleepQuality, domain.GeneralWellbeing,
		domain.PhysicalActivity, domain.Nutrition, domain.SocialRelationships,
	}, ids)

	// Returned definitions are copies.
	instruments[0].Slots[0].Center = 99
	inst, err := engine.Instrument(domain.MoodAssessment)
	require.NoError(t, err)
	assert.Equal(t, 5.5, inst.Slots[0].Center)
}

// Every in-domain integer answer keeps each slot within [0,10], so no answer set can
// push a score outside [0,100].
func TestScoringEngine_RangeInvariant(t *testing.T) {
	engine := NewScoringEngine()

	for _, inst := range engine.Instruments() {
		t.Run(string(inst.ID), func(t *testing.T) {
			minAnswers := domain.FormValues{}
			maxAnswers := domain.FormValues{}
			var best float64

			for _, slot := range inst.Slots {
				lowest, highest := math.Inf(1), math.Inf(-1)
				var lowV, highV float64
				for v := slot.Min; v <= slot.Max; v++ {
					got := applyTransform(slot, v)
					require.GreaterOrEqual(t, got, 0.0, "slot %s v=%v", slot.ID, v)
					require.LessOrEqual(t, got, float64(slotSpan), "slot %s v=%v", slot.ID, v)
					if got < lowest {
						lowest, lowV = got, v
					}
					if got > highest {
						highest, highV = got, v
					}
				}
				best += highest
				minAnswers[slot.ID] = lowV
				maxAnswers[slot.ID] = highV
			}
			assert.LessOrEqual(t, best, inst.MaxTotal)

			low, err := engine.Score(inst.ID, minAnswers)
			require.NoError(t, err)
			high, err := engine.Score(inst.ID, maxAnswers)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, low, 0)
			assert.LessOrEqual(t, high, 100)
			assert.LessOrEqual(t, low, high)
		})
	}
}

func TestScoringEngine_Deterministic(t *testing.T) {
	engine := NewScoringEngine()
	values := answers(7, 6, 5, 4, 3)

	first, err := engine.Score(domain.SleepQuality, values)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = engine.Score(domain.SleepQuality, values)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, first, got, "run %d", i)
	}
}

func TestScoringEngine_Breakdown(t *testing.T) {
	engine := NewScoringEngine()

	breakdown, err := engine.Breakdown(domain.SleepQuality, answers(8, 10, 1, 1, 10))
	require.NoError(t, err)

	require.Len(t, breakdown.Slots, 5)
	assert.Equal(t, "q1", breakdown.Slots[0].Slot)
	assert.Equal(t, 9.375, breakdown.Slots[0].Transformed)
	assert.Equal(t, 10.0, breakdown.Slots[2].Transformed)
	assert.Equal(t, 49.375, breakdown.Total)
	assert.Equal(t, 99, breakdown.Score)
}

func TestScoringEngine_ValidateAnswers(t *testing.T) {
	engine := NewScoringEngine()

	tests := []struct {
		name       string
		instrument domain.InstrumentID
		values     domain.FormValues
		field      string
	}{
		{"In domain", domain.PhysicalActivity, answers(7, 120, 1, 10, 5), ""},
		{"Days over a week", domain.PhysicalActivity, answers(8, 30, 1, 1, 1), "q1"},
		{"Likert zero", domain.MoodAssessment, answers(5, 0, 5, 5, 5), "q2"},
		{"Sleep hours upper bound", domain.SleepQuality, answers(12, 5, 5, 5, 5), ""},
		{"Negative water", domain.Nutrition, answers(3, 5, 5, -1, 5), "q4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.ValidateAnswers(tt.instrument, tt.values)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, validation.Field)
		})
	}

	t.Run("Malformed answers surface as malformed", func(t *testing.T) {
		err := engine.ValidateAnswers(domain.MoodAssessment, answers("x", 1, 1, 1, 1))
		assert.True(t, errors.Is(err, domain.ErrMalformedAnswer))
	})
}

func TestNewScoringEngineWith(t *testing.T) {
	t.Run("Custom instrument with weights", func(t *testing.T) {
		engine, err := NewScoringEngineWith([]domain.Instrument{{
			ID:       "energy-check",
			MaxTotal: 20,
			Slots: []domain.Slot{
				{ID: "a", Min: 1, Max: 10, Transform: domain.TransformIdentity, Weight: 1},
				{ID: "b", Min: 1, Max: 5, Transform: domain.TransformIdentity},
			},
		}})
		require.NoError(t, err)

		inst, err := engine.Instrument("energy-check")
		require.NoError(t, err)
		assert.Equal(t, 1.0, inst.Slots[1].Weight, "weight defaults to 1")

		score, err := engine.Score("energy-check", domain.FormValues{"a": 10, "b": 5})
		require.NoError(t, err)
		assert.Equal(t, 75, score)
	})

	invalid := []struct {
		name string
		def  domain.Instrument
	}{
		{"Missing id", domain.Instrument{MaxTotal: 10, Slots: []domain.Slot{likert("q1", "")}}},
		{"Zero max total", domain.Instrument{ID: "x", Slots: []domain.Slot{likert("q1", "")}}},
		{"No slots", domain.Instrument{ID: "x", MaxTotal: 10}},
		{"Duplicate slot", domain.Instrument{ID: "x", MaxTotal: 10, Slots: []domain.Slot{likert("q1", ""), likert("q1", "")}}},
		{"Unknown transform", domain.Instrument{ID: "x", MaxTotal: 10, Slots: []domain.Slot{{ID: "q1", Transform: "log"}}}},
		{"Zero divisor", domain.Instrument{ID: "x", MaxTotal: 10, Slots: []domain.Slot{{ID: "q1", Transform: domain.TransformThresholdNormalize}}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScoringEngineWith([]domain.Instrument{tt.def})
			assert.Error(t, err)
		})
	}

	t.Run("Duplicate instrument", func(t *testing.T) {
		defs := DefaultInstruments()
		_, err := NewScoringEngineWith(append(defs, defs[0]))
		assert.EqualError(t, err, fmt.Sprintf("duplicate instrument %s", domain.MoodAssessment))
	})
}
