package domain

// ChatMessage is one entry of the chat timeline.
type ChatMessage struct {
	Role      Role
	Content   string
	CreatedAt Timestamp
}

// Cafe is a café returned by the place search. Speciality, Atmosphere and
// PriceRange are filled by the formatter, not by the search provider.
type Cafe struct {
	PlaceID string
	Name    string
	Address string
	Rating  *float64
	Phone   *string
	MapLink string

	// PriceLevel is the raw provider price level, if any.
	PriceLevel string

	Speciality string
	Atmosphere string
	PriceRange string
}

// Session holds everything one user has picked and been shown.
type Session struct {
	ID        SessionID
	CreatedAt Timestamp
	UpdatedAt Timestamp

	CurrentScene Scene
	// Transitioning is set right before a navigation and cleared when the
	// next render starts, so the scene being left is not drawn again.
	Transitioning bool

	SelectedMood Mood
	UserLocation string
	Weather      string

	DrinkRecommendation  string
	VibeDescription      string
	RecommendationSource RecommendationSource

	CafeResults []Cafe
	ChatHistory []ChatMessage

	// Notice is the user-visible message produced by the last action.
	Notice string
}

// NewSession returns a session with every field defaulted and the
// welcome scene active.
func NewSession(id SessionID, now Timestamp) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		UpdatedAt:    now,
		CurrentScene: SceneWelcome,
		CafeResults:  []Cafe{},
		ChatHistory:  []ChatMessage{},
	}
}

// Clear drops all user state and re-seeds the welcome scene.
// Identity fields (ID, CreatedAt) are kept.
func (s *Session) Clear() {
	*s = Session{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		CurrentScene: SceneWelcome,
		CafeResults:  []Cafe{},
		ChatHistory:  []ChatMessage{},
	}
}

// HasRecommendation reports whether the results scene has content to show.
func (s *Session) HasRecommendation() bool {
	return s.DrinkRecommendation != "" && s.VibeDescription != ""
}

// MoodOrDefault returns the selected mood, or the first declared mood when
// none was picked.
func (s *Session) MoodOrDefault() Mood {
	if s.SelectedMood == "" {
		return Moods[0]
	}
	return s.SelectedMood
}

// AppendChat adds a message to the end of the chat history.
func (s *Session) AppendChat(role Role, content string, at Timestamp) ChatMessage {
	msg := ChatMessage{Role: role, Content: content, CreatedAt: at}
	s.ChatHistory = append(s.ChatHistory, msg)
	return msg
}

// Clone returns a deep copy so stores never share slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.CafeResults = make([]Cafe, len(s.CafeResults))
	for i, c := range s.CafeResults {
		out.CafeResults[i] = c.clone()
	}
	out.ChatHistory = append([]ChatMessage{}, s.ChatHistory...)
	return &out
}

func (c Cafe) clone() Cafe {
	if c.Rating != nil {
		r := *c.Rating
		c.Rating = &r
	}
	if c.Phone != nil {
		p := *c.Phone
		c.Phone = &p
	}
	return c
}
