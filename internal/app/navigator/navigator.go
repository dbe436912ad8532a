// Package navigator implements the scene state machine of a session.
//
// Navigate only checks that the target is a declared scene; it does not
// check preconditions such as "a mood must be picked". Those are the
// caller's job at the point of transition. Fire goes through the
// transition table and is what the application service uses. Reset is not
// in the table: it returns to welcome from any scene.
package navigator

import (
	"fmt"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

// Event is a user or system action that moves the flow forward or back.
type Event string

const (
	EventStart        Event = "start"
	EventPickMood     Event = "pick_mood"
	EventPickBorough  Event = "pick_borough"
	EventChooseOther  Event = "choose_other"
	EventSubmitCustom Event = "submit_custom"
	EventResolved     Event = "resolved"
	EventViewCafes    Event = "view_cafes"
	EventOpenChat     Event = "open_chat"
	EventBack         Event = "back"
)

// Events lists every event, for exhaustive table tests.
var Events = []Event{
	EventStart,
	EventPickMood,
	EventPickBorough,
	EventChooseOther,
	EventSubmitCustom,
	EventResolved,
	EventViewCafes,
	EventOpenChat,
	EventBack,
}

type key struct {
	from  domain.Scene
	event Event
}

var transitions = map[key]domain.Scene{
	{domain.SceneWelcome, EventStart}: domain.SceneMoodSelection,

	{domain.SceneMoodSelection, EventPickMood}: domain.SceneLocationInput,

	{domain.SceneLocationInput, EventPickBorough}: domain.SceneLoading,
	{domain.SceneLocationInput, EventChooseOther}: domain.SceneCustomLocation,
	{domain.SceneLocationInput, EventBack}:        domain.SceneMoodSelection,

	{domain.SceneCustomLocation, EventSubmitCustom}: domain.SceneLoading,
	{domain.SceneCustomLocation, EventBack}:         domain.SceneLocationInput,

	{domain.SceneLoading, EventResolved}: domain.SceneResults,

	{domain.SceneResults, EventViewCafes}: domain.SceneCafeDetails,
	{domain.SceneResults, EventOpenChat}:  domain.SceneChat,

	{domain.SceneCafeDetails, EventBack}:     domain.SceneResults,
	{domain.SceneCafeDetails, EventOpenChat}: domain.SceneChat,

	{domain.SceneChat, EventBack}:      domain.SceneResults,
	{domain.SceneChat, EventViewCafes}: domain.SceneCafeDetails,
}

// Next returns the scene reached from `from` on `ev`.
func Next(from domain.Scene, ev Event) (domain.Scene, bool) {
	to, ok := transitions[key{from, ev}]
	return to, ok
}

// Navigator drives scene changes on a session.
type Navigator struct{}

func New() *Navigator {
	return &Navigator{}
}

// Current returns the active scene. Unknown values are repaired to welcome.
func (n *Navigator) Current(s *domain.Session) domain.Scene {
	if !s.CurrentScene.Valid() {
		s.CurrentScene = domain.SceneWelcome
	}
	return s.CurrentScene
}

// Navigate moves the session to target. It fails with *InvalidSceneError
// and leaves the session untouched when target is not a declared scene.
func (n *Navigator) Navigate(s *domain.Session, target domain.Scene) error {
	if !target.Valid() {
		return &domain.InvalidSceneError{Scene: target}
	}
	s.Transitioning = true
	s.CurrentScene = target
	return nil
}

// Fire applies ev through the transition table.
func (n *Navigator) Fire(s *domain.Session, ev Event) error {
	from := n.Current(s)
	to, ok := Next(from, ev)
	if !ok {
		return fmt.Errorf("%w: %s on %s", domain.ErrIllegalTransition, ev, from)
	}
	return n.Navigate(s, to)
}

// Reset clears the session and returns it to welcome.
func (n *Navigator) Reset(s *domain.Session) {
	s.Clear()
	s.Transitioning = true
}

// Render marks the start of a render pass and returns the scene to draw.
func (n *Navigator) Render(s *domain.Session) domain.Scene {
	s.Transitioning = false
	return n.Current(s)
}

// Suppressed reports whether scene is being departed mid-navigation and
// must not be drawn.
func (n *Navigator) Suppressed(s *domain.Session, scene domain.Scene) bool {
	return s.Transitioning && scene != s.CurrentScene
}
