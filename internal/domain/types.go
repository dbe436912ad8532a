package domain

import (
	"strings"
	"time"
)

type SessionID string
type TraceID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time

// Mood is one of the six vibes a user can pick.
type Mood string

const (
	MoodChill      Mood = "chill"
	MoodAnxious    Mood = "anxious"
	MoodCreative   Mood = "creative"
	MoodReflective Mood = "reflective"
	MoodEnergized  Mood = "energized"
	MoodCozy       Mood = "cozy"
)

// Moods lists the moods in display order. The first entry is the default
// used when a recommendation is requested without a mood.
var Moods = []Mood{
	MoodChill,
	MoodAnxious,
	MoodCreative,
	MoodReflective,
	MoodEnergized,
	MoodCozy,
}

// ParseMood normalizes s and reports whether it names a known mood.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Moods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Scene is a named screen in the navigation flow.
type Scene string

const (
	SceneWelcome        Scene = "welcome"
	SceneMoodSelection  Scene = "mood_selection"
	SceneLocationInput  Scene = "location_input"
	SceneCustomLocation Scene = "custom_location"
	SceneLoading        Scene = "loading"
	SceneResults        Scene = "results"
	SceneCafeDetails    Scene = "cafe_details"
	SceneChat           Scene = "chat"
)

var Scenes = []Scene{
	SceneWelcome,
	SceneMoodSelection,
	SceneLocationInput,
	SceneCustomLocation,
	SceneLoading,
	SceneResults,
	SceneCafeDetails,
	SceneChat,
}

// Valid reports whether s is one of the declared scenes.
func (s Scene) Valid() bool {
	for _, known := range Scenes {
		if s == known {
			return true
		}
	}
	return false
}

// RecommendationSource tells which strategy produced a recommendation.
type RecommendationSource string

const (
	SourceStatic RecommendationSource = "static"
	SourceAgent  RecommendationSource = "agent"
)

// Recommendation is the resolver output. Drink and Vibe are never empty.
type Recommendation struct {
	Drink  string
	Vibe   string
	Source RecommendationSource
}
