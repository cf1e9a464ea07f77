package domain

import (
	"testing"
)

func TestEpisodeKindIsValid(t *testing.T) {
	tests := []struct {
		name     string
		value    EpisodeKind
		expected bool
	}{
		{"Euthymic", Euthymic, true},
		{"Manic", Manic, true},
		{"Hypomanic", Hypomanic, true},
		{"Depressive", Depressive, true},
		{"Mixed", Mixed, true},
		{"Mild depression", MildDepression, true},
		{"Moderate depression", ModerateDepression, true},
		{"Severe depression", SevereDepression, true},
		{"Mild hypomania", MildHypomania, true},
		{"Alias is not a kind", EpisodeKind("mania"), false},
		{"Empty", EpisodeKind(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsValid(); got != tt.expected {
				t.Errorf("Expected IsValid(%q) = %v, got %v", tt.value, tt.expected, got)
			}
		})
	}
}

func TestTransformKindIsValid(t *testing.T) {
	valid := []TransformKind{TransformIdentity, TransformReverse, TransformOptimalMidpoint, TransformThresholdNormalize}
	for _, k := range valid {
		if !k.IsValid() {
			t.Errorf("Expected %s to be valid", k)
		}
	}
	if TransformKind("log").IsValid() {
		t.Errorf("Expected unknown transform to be invalid")
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"euthymic", "euthymic"},
		{"  Severe Depression ", "severe-depression"},
		{"mild_hypomania", "mild-hypomania"},
		{"Moderate - Depression", "moderate-depression"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeLabel(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
