package service

import (
	"github.com/eupolar/eupolar-server/internal/domain"
)

// slotSpan is the contribution of a fully-favourable answer on every reference slot.
const slotSpan = 10

// referenceMaxTotal is the divisor shared by all reference instruments (5 slots x 10).
const referenceMaxTotal = 5 * slotSpan

// DefaultInstruments returns the reference instrument table in presentation order.
// A fresh copy is returned on each call so callers cannot mutate the engine's table.
func DefaultInstruments() []domain.Instrument {
	return []domain.Instrument{
		{
			ID:    domain.MoodAssessment,
			Title: "Mood assessment",
			Slots: []domain.Slot{
				midpoint("q1", "Overall mood today", 1, 10, 5.5, 1),
				likert("q2", "Sleep quality"),
				midpoint("q3", "Energy level", 1, 10, 5.5, 1),
				reversed("q4", "Negative thoughts"),
				likert("q5", "Concentration"),
			},
			MaxTotal: referenceMaxTotal,
		},
		{
			ID:    domain.MedicationAdherence,
			Title: "Medication adherence",
			Slots: []domain.Slot{
				likert("q1", "Taking medication as prescribed"),
				likert("q2", "Never forgetting a dose"),
				likert("q3", "Satisfaction with treatment"),
				reversed("q4", "Side effects"),
				likert("q5", "Ease of following the regimen"),
			},
			MaxTotal: referenceMaxTotal,
		},
		{
			ID:    domain.SleepQuality,
			Title: "Sleep quality",
			Slots: []domain.Slot{
				midpoint("q1", "Hours slept", 0, 12, 7.5, 1.25),
				likert("q2", "Feeling rested"),
				reversed("q3", "Time to fall asleep"),
				reversed("q4", "Night-time awakenings"),
				likert("q5", "Overall sleep quality"),
			},
			MaxTotal: referenceMaxTotal,
		},
		{
			ID:    domain.GeneralWellbeing,
			Title: "General wellbeing",
			Slots: []domain.Slot{
				likert("q1", "Quality of life"),
				likert("q2", "Satisfaction with relationships"),
				likert("q3", "Coping with daily activities"),
				reversed("q4", "Stress"),
				likert("q5", "Optimism"),
			},
			MaxTotal: referenceMaxTotal,
		},
		{
			ID:    domain.PhysicalActivity,
			Title: "Physical activity",
			Slots: []domain.Slot{
				threshold("q1", "Active days per week", 0, 7, 7),
				threshold("q2", "Minutes of activity per day", 0, 120, 30),
				likert("q3", "Intensity"),
				likert("q4", "Motivation"),
				likert("q5", "Feeling after exercise"),
			},
			MaxTotal: referenceMaxTotal,
		},
		{
			ID:    domain.Nutrition,
			Title: "Nutrition",
			Slots: []domain.Slot{
				midpoint("q1", "Regular meals per day", 0, 5, 3.5, 2),
				likert("q2", "Fruit and vegetables"),
				reversed("q3", "Processed food"),
				threshold("q4", "Glasses of water per day", 0, 10, 8),
				likert("q5", "Overall diet quality"),
			},
			MaxTotal: referenceMaxTotal,
		},
		{
			ID:    domain.SocialRelationships,
			Title: "Social relationships",
			Slots: []domain.Slot{
				likert("q1", "Frequency of social contact"),
				likert("q2", "Feeling supported"),
				reversed("q3", "Loneliness"),
				likert("q4", "Quality of relationships"),
				likert("q5", "Satisfaction with social life"),
			},
			MaxTotal: referenceMaxTotal,
		},
	}
}

// likert is a 1-10 answer where higher is better.
func likert(id, prompt string) domain.Slot {
	return domain.Slot{ID: id, Prompt: prompt, Min: 1, Max: 10, Transform: domain.TransformIdentity, Weight: 1}
}

// reversed is a 1-10 answer where lower is better.
func reversed(id, prompt string) domain.Slot {
	return domain.Slot{ID: id, Prompt: prompt, Min: 1, Max: 10, Transform: domain.TransformReverse, Weight: 1}
}

func midpoint(id, prompt string, min, max, center, scale float64) domain.Slot {
	return domain.Slot{
		ID: id, Prompt: prompt, Min: min, Max: max,
		Transform: domain.TransformOptimalMidpoint,
		Center:    center,
		Scale:     scale,
		Cap:       slotSpan,
		Weight:    1,
	}
}

func threshold(id, prompt string, min, max, divisor float64) domain.Slot {
	return domain.Slot{
		ID: id, Prompt: prompt, Min: min, Max: max,
		Transform: domain.TransformThresholdNormalize,
		Divisor:   divisor,
		Cap:       slotSpan,
		Weight:    1,
	}
}
