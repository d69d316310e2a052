package models

import (
	"encoding/json"
	"fmt"
)

// Visibility is the publication state of a chart.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityScheduled Visibility = "scheduled"
	VisibilityPrivate   Visibility = "private"
)

var Visibilities = []Visibility{VisibilityPublic, VisibilityScheduled, VisibilityPrivate}

// WarningLevel is the severity attached to a moderation warning.
type WarningLevel string

const (
	WarningLevelLow    WarningLevel = "low"
	WarningLevelMedium WarningLevel = "medium"
	WarningLevelHigh   WarningLevel = "high"
	WarningLevelBan    WarningLevel = "ban"
)

var WarningLevels = []WarningLevel{WarningLevelLow, WarningLevelMedium, WarningLevelHigh, WarningLevelBan}

func (l WarningLevel) Valid() bool {
	for _, level := range WarningLevels {
		if l == level {
			return true
		}
	}
	return false
}

// FileKind classifies a stored file resource.
type FileKind string

const (
	FileKindChart              FileKind = "chart"
	FileKindCover              FileKind = "cover"
	FileKindBgm                FileKind = "bgm"
	FileKindPreview            FileKind = "preview"
	FileKindBackgroundV1       FileKind = "background_v1"
	FileKindBackgroundV3       FileKind = "background_v3"
	FileKindBackgroundTabletV1 FileKind = "background_tablet_v1"
	FileKindBackgroundTabletV3 FileKind = "background_tablet_v3"
	// FileKindData is the converted level data, regenerated on demand.
	FileKindData FileKind = "data"
)

var FileKinds = []FileKind{
	FileKindChart,
	FileKindCover,
	FileKindBgm,
	FileKindPreview,
	FileKindBackgroundV1,
	FileKindBackgroundV3,
	FileKindBackgroundTabletV1,
	FileKindBackgroundTabletV3,
	FileKindData,
}

// Genre is stored as an integer column; 0 is the column default.
type Genre int

const (
	GenreOthers Genre = iota
	GenreVocaloid
	GenrePops
	GenreRock
	GenreElectronic
	GenreGame
	GenreAnime
	GenreClassical
	GenreJazz
)

var genreNames = [...]string{
	GenreOthers:     "others",
	GenreVocaloid:   "vocaloid",
	GenrePops:       "pops",
	GenreRock:       "rock",
	GenreElectronic: "electronic",
	GenreGame:       "game",
	GenreAnime:      "anime",
	GenreClassical:  "classical",
	GenreJazz:       "jazz",
}

func (g Genre) String() string {
	if g < 0 || int(g) >= len(genreNames) {
		return genreNames[GenreOthers]
	}
	return genreNames[g]
}

func (g Genre) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

func (g *Genre) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseGenre(name)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func ParseGenre(name string) (Genre, error) {
	for i, n := range genreNames {
		if n == name {
			return Genre(i), nil
		}
	}
	return GenreOthers, fmt.Errorf("unknown genre %q", name)
}
