package service

import (
	"fmt"
	"math"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// ScoringEngine normalizes raw questionnaire answers into a 0-100 wellbeing score.
// The instrument table is built once and never written afterwards, so a single
// engine can be shared by any number of goroutines.
type ScoringEngine struct {
	instruments map[domain.InstrumentID]*domain.Instrument
	order       []domain.InstrumentID
}

// SlotScore is the contribution of one slot to a score.
type SlotScore struct {
	Slot        string  `json:"slot"`
	Raw         float64 `json:"raw"`
	Transformed float64 `json:"transformed"`
}

// ScoreBreakdown explains how a score was reached.
type ScoreBreakdown struct {
	Instrument domain.InstrumentID `json:"instrument"`
	Slots      []SlotScore         `json:"slots"`
	Total      float64             `json:"total"`
	MaxTotal   float64             `json:"max_total"`
	Score      int                 `json:"score"`
}

// NewScoringEngine creates an engine over the reference instrument table.
func NewScoringEngine() *ScoringEngine {
	engine, err := NewScoringEngineWith(DefaultInstruments())
	if err != nil {
		// The reference table is static; failing here is a programming error.
		panic(fmt.Sprintf("invalid reference instrument table: %v", err))
	}
	return engine
}

// NewScoringEngineWith creates an engine over a custom instrument table.
func NewScoringEngineWith(definitions []domain.Instrument) (*ScoringEngine, error) {
	engine := &ScoringEngine{
		instruments: make(map[domain.InstrumentID]*domain.Instrument, len(definitions)),
		order:       make([]domain.InstrumentID, 0, len(definitions)),
	}

	for i := range definitions {
		if err := engine.addInstrument(definitions[i]); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// addInstrument validates and registers a single instrument definition
func (e *ScoringEngine) addInstrument(def domain.Instrument) error {
	if def.ID == "" {
		return fmt.Errorf("instrument id is required")
	}
	if _, exists := e.instruments[def.ID]; exists {
		return fmt.Errorf("duplicate instrument %s", def.ID)
	}
	if def.MaxTotal <= 0 {
		return fmt.Errorf("instrument %s: max total must be positive", def.ID)
	}
	if len(def.Slots) == 0 {
		return fmt.Errorf("instrument %s: at least one slot is required", def.ID)
	}

	slots := make([]domain.Slot, len(def.Slots))
	seen := make(map[string]bool, len(def.Slots))
	for i, slot := range def.Slots {
		if slot.ID == "" || seen[slot.ID] {
			return fmt.Errorf("instrument %s: slot %d has an empty or duplicate id", def.ID, i)
		}
		seen[slot.ID] = true

		if !slot.Transform.IsValid() {
			return fmt.Errorf("instrument %s slot %s: unknown transform %q", def.ID, slot.ID, slot.Transform)
		}
		if slot.Transform == domain.TransformThresholdNormalize && slot.Divisor == 0 {
			return fmt.Errorf("instrument %s slot %s: threshold divisor must be non-zero", def.ID, slot.ID)
		}
		if slot.Weight == 0 {
			slot.Weight = 1
		}
		if slot.Transform == domain.TransformOptimalMidpoint && slot.Scale == 0 {
			slot.Scale = 1
		}
		slots[i] = slot
	}

	def.Slots = slots
	e.instruments[def.ID] = &def
	e.order = append(e.order, def.ID)
	return nil
}

// Instrument returns the definition for an instrument id.
func (e *ScoringEngine) Instrument(id domain.InstrumentID) (*domain.Instrument, error) {
	inst, ok := e.instruments[id]
	if !ok {
		return nil, &domain.UnknownInstrumentError{Instrument: id}
	}
	return inst, nil
}

// Instruments returns all definitions in registration order.
func (e *ScoringEngine) Instruments() []domain.Instrument {
	out := make([]domain.Instrument, 0, len(e.order))
	for _, id := range e.order {
		inst := *e.instruments[id]
		inst.Slots = append([]domain.Slot(nil), inst.Slots...)
		out = append(out, inst)
	}
	return out
}

// Score maps a raw answer set to an integer score in [0,100] for in-domain answers.
func (e *ScoringEngine) Score(id domain.InstrumentID, answers domain.FormValues) (int, error) {
	breakdown, err := e.Breakdown(id, answers)
	if err != nil {
		return 0, err
	}
	return breakdown.Score, nil
}

// Breakdown scores an answer set and reports every slot's contribution.
func (e *ScoringEngine) Breakdown(id domain.InstrumentID, answers domain.FormValues) (*ScoreBreakdown, error) {
	inst, err := e.Instrument(id)
	if err != nil {
		return nil, err
	}

	breakdown := &ScoreBreakdown{
		Instrument: inst.ID,
		Slots:      make([]SlotScore, 0, len(inst.Slots)),
		MaxTotal:   inst.MaxTotal,
	}

	for _, slot := range inst.Slots {
		raw, err := answerValue(inst.ID, slot.ID, answers)
		if err != nil {
			return nil, err
		}
		transformed := applyTransform(slot, raw)
		breakdown.Slots = append(breakdown.Slots, SlotScore{Slot: slot.ID, Raw: raw, Transformed: transformed})
		breakdown.Total += slot.Weight * transformed
	}

	breakdown.Score = int(math.Round(breakdown.Total / inst.MaxTotal * 100))
	return breakdown, nil
}

// ValidateAnswers checks an answer set against each slot's raw domain. The engine itself
// does not call this; request handlers use it to pre-validate before scoring.
func (e *ScoringEngine) ValidateAnswers(id domain.InstrumentID, answers domain.FormValues) error {
	inst, err := e.Instrument(id)
	if err != nil {
		return err
	}

	for _, slot := range inst.Slots {
		raw, err := answerValue(inst.ID, slot.ID, answers)
		if err != nil {
			return err
		}
		if raw < slot.Min || raw > slot.Max {
			return domain.NewValidationError(slot.ID,
				fmt.Sprintf("must be between %g and %g", slot.Min, slot.Max), answers[slot.ID])
		}
	}
	return nil
}

// applyTransform applies a slot's normalization rule to a coerced raw value.
func applyTransform(slot domain.Slot, v float64) float64 {
	switch slot.Transform {
	case domain.TransformReverse:
		return (slot.Max + 1) - v
	case domain.TransformOptimalMidpoint:
		return math.Max(0, slot.Cap-slot.Scale*math.Abs(v-slot.Center))
	case domain.TransformThresholdNormalize:
		return math.Min(v/slot.Divisor, 1) * slot.Cap
	default:
		return v
	}
}

// answerValue reads and coerces one raw answer.
func answerValue(instrument domain.InstrumentID, slotID string, answers domain.FormValues) (float64, error) {
	raw, ok := answers[slotID]
	if !ok {
		return 0, &domain.MalformedAnswerError{Instrument: instrument, Slot: slotID, Reason: "missing answer"}
	}

	v, reason := toNumber(raw)
	if reason != "" {
		return 0, &domain.MalformedAnswerError{Instrument: instrument, Slot: slotID, Value: raw, Reason: reason}
	}
	return v, nil
}
