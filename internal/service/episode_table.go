package service

import (
	"github.com/eupolar/eupolar-server/internal/domain"
)

// episodeClass is one row of the episode classification table.
type episodeClass struct {
	kind domain.EpisodeKind
	mood int
}

// episodeTable maps normalized state labels, including the noun forms the forms use
// ("mania", "depression"), onto the closed EpisodeKind vocabulary and its mood valence.
var episodeTable = map[string]episodeClass{
	"euthymic":            {domain.Euthymic, 0},
	"mild-euthymic":       {domain.Euthymic, 0},
	"manic":               {domain.Manic, 3},
	"mania":               {domain.Manic, 3},
	"hypomanic":           {domain.Hypomanic, 2},
	"hypomania":           {domain.Hypomanic, 2},
	"mixed":               {domain.Mixed, 1},
	"depressive":          {domain.Depressive, -2},
	"depression":          {domain.Depressive, -2},
	"mild-depression":     {domain.MildDepression, -1},
	"moderate-depression": {domain.ModerateDepression, -2},
	"severe-depression":   {domain.SevereDepression, -3},
	"mild-hypomania":      {domain.MildHypomania, 1},
}

// ClassifyEpisode maps a free-form state label to its kind and mood valence.
// Unknown or empty labels classify as euthymic with mood 0.
func ClassifyEpisode(label string) (domain.EpisodeKind, int) {
	if class, ok := episodeTable[domain.NormalizeLabel(label)]; ok {
		return class.kind, class.mood
	}
	return domain.Euthymic, 0
}
