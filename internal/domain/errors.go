package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrIllegalTransition = errors.New("illegal scene transition")
)

// InvalidSceneError is returned when a navigation target is not a declared scene.
type InvalidSceneError struct {
	Scene Scene
}

func (e *InvalidSceneError) Error() string {
	return fmt.Sprintf("invalid scene %q", string(e.Scene))
}

// TemplateError is returned when a prompt template lacks a required placeholder.
type TemplateError struct {
	Template string
	Missing  []string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q missing placeholders: %s", e.Template, strings.Join(e.Missing, ", "))
}

// Collaborator names an external dependency.
type Collaborator string

const (
	CollaboratorPlaceSearch Collaborator = "place_search"
	CollaboratorWeather     Collaborator = "weather"
	CollaboratorAgent       Collaborator = "agent"
)

// CollaboratorUnavailableError wraps a failure of an external collaborator.
type CollaboratorUnavailableError struct {
	Collaborator Collaborator
	Err          error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as a CollaboratorUnavailableError. A nil err stays nil.
func Unavailable(c Collaborator, err error) error {
	if err == nil {
		return nil
	}
	var cue *CollaboratorUnavailableError
	if errors.As(err, &cue) && cue.Collaborator == c {
		return err
	}
	return &CollaboratorUnavailableError{Collaborator: c, Err: err}
}

// RecommendationParseError explains why an agent reply could not be used.
// It never reaches the user.
type RecommendationParseError struct {
	Reason string
}

func (e *RecommendationParseError) Error() string {
	return "recommendation parse: " + e.Reason
}

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
