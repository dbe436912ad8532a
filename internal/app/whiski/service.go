// Package whiski maps user actions onto the scene flow, the recommendation
// resolver and the external collaborators, one synchronous call per action.
package whiski

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/whiski-agent/internal/app/cafes"
	"github.com/PabloGalante/whiski-agent/internal/app/chat"
	"github.com/PabloGalante/whiski-agent/internal/app/navigator"
	"github.com/PabloGalante/whiski-agent/internal/app/recommend"
	"github.com/PabloGalante/whiski-agent/internal/app/telemetry"
	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

// OtherLocation is the location choice that asks for free-form input.
const OtherLocation = "Other Location"

// Boroughs are the preset location choices.
var Boroughs = []string{
	"Brooklyn, NY",
	"Manhattan, NY",
	"Queens, NY",
}

// User-visible messages.
const (
	MsgEnterLocation = "Please enter a location"
	MsgEnterMessage  = "Please enter a message"
	MsgPickMood      = "Please pick a mood: chill, anxious, creative, reflective, energized or cozy"
)

type Service struct {
	sessions domain.SessionStore
	nav      *navigator.Navigator
	resolver *recommend.Resolver
	finder   *cafes.Finder
	weather  domain.WeatherProvider
	chat     *chat.Chain

	loadingDelay time.Duration
	now          func() time.Time
	newID        func() string
}

type Option func(*Service)

func WithResolver(r *recommend.Resolver) Option {
	return func(s *Service) { s.resolver = r }
}

func WithFinder(f *cafes.Finder) Option {
	return func(s *Service) { s.finder = f }
}

// WithWeather sets the weather provider. Without one, recommendations are
// made without weather context.
func WithWeather(w domain.WeatherProvider) Option {
	return func(s *Service) { s.weather = w }
}

func WithChat(c *chat.Chain) Option {
	return func(s *Service) { s.chat = c }
}

// WithLoadingDelay keeps the loading scene up for at least d.
func WithLoadingDelay(d time.Duration) Option {
	return func(s *Service) { s.loadingDelay = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(sessions domain.SessionStore, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		nav:      navigator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = recommend.NewResolver(nil)
	}
	if s.finder == nil {
		s.finder = cafes.NewFinder(nil)
	}
	if s.chat == nil {
		s.chat = chat.NewDefaultChain(nil, nil)
	}
	return s
}

// StartSession creates a session on the welcome scene.
func (s *Service) StartSession(ctx context.Context) (*domain.Session, error) {
	sess := domain.NewSession(domain.SessionID(s.newID()), s.now())

	log := observability.LoggerFromContext(ctx).With("session_id", sess.ID)
	if err := s.sessions.CreateSession(sess); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}
	log.Info("session started")
	return sess, nil
}

// GetSession starts a render pass: it clears the transition guard and
// returns the session with the scene to draw.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, func(_ context.Context, sess *domain.Session) error {
		s.nav.Render(sess)
		return nil
	})
}

// Start leaves the welcome scene.
func (s *Service) Start(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.fire(ctx, id, navigator.EventStart)
}

// SelectMood stores mood and moves on to location input. An unknown mood
// is rejected with a *domain.ValidationError and the scene is unchanged.
func (s *Service) SelectMood(ctx context.Context, id domain.SessionID, mood string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(_ context.Context, sess *domain.Session) error {
		m, ok := domain.ParseMood(mood)
		if !ok {
			return reject(sess, MsgPickMood)
		}
		if err := s.nav.Fire(sess, navigator.EventPickMood); err != nil {
			return err
		}
		sess.SelectedMood = m
		sess.Notice = ""
		return nil
	})
}

// SelectLocation handles the location input scene. OtherLocation opens the
// custom location scene; anything else non-blank starts the search.
func (s *Service) SelectLocation(ctx context.Context, id domain.SessionID, location string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(ctx context.Context, sess *domain.Session) error {
		if strings.TrimSpace(location) == OtherLocation {
			if err := s.nav.Fire(sess, navigator.EventChooseOther); err != nil {
				return err
			}
			sess.Notice = ""
			return nil
		}
		return s.search(ctx, sess, location, navigator.EventPickBorough)
	})
}

// SubmitCustomLocation handles the custom location scene.
func (s *Service) SubmitCustomLocation(ctx context.Context, id domain.SessionID, location string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(ctx context.Context, sess *domain.Session) error {
		return s.search(ctx, sess, location, navigator.EventSubmitCustom)
	})
}

// search goes through loading to results. A blank location is rejected
// before any transition.
func (s *Service) search(ctx context.Context, sess *domain.Session, location string, ev navigator.Event) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return reject(sess, MsgEnterLocation)
	}
	if _, ok := navigator.Next(s.nav.Current(sess), ev); !ok {
		return fmt.Errorf("%w: %s on %s", domain.ErrIllegalTransition, ev, sess.CurrentScene)
	}

	sess.UserLocation = location
	sess.Notice = ""
	if err := s.nav.Fire(sess, ev); err != nil {
		return err
	}
	s.save(ctx, sess)

	log := observability.LoggerFromContext(ctx)
	start := s.now()

	sess.Weather = s.currentWeather(ctx, location)

	mood := sess.MoodOrDefault()
	out := s.resolver.Resolve(telemetry.WithOperation(ctx, domain.OperationRecommendation), recommend.Request{
		Mood:     string(mood),
		Location: location,
		Weather:  sess.Weather,
	})

	if rest := s.loadingDelay - s.now().Sub(start); rest > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(rest):
		}
	}

	sess.SelectedMood = mood
	sess.DrinkRecommendation = out.Drink
	sess.VibeDescription = out.Vibe
	sess.RecommendationSource = out.Source
	sess.Notice = out.Notice

	log.Info("recommendation ready",
		"mood", mood,
		"location", location,
		"source", out.Source,
		"attempts", out.Attempts,
	)
	return s.nav.Fire(sess, navigator.EventResolved)
}

func (s *Service) currentWeather(ctx context.Context, location string) string {
	if s.weather == nil {
		return ""
	}
	w, err := s.weather.Current(ctx, location)
	if err != nil {
		err = domain.Unavailable(domain.CollaboratorWeather, err)
		observability.LoggerFromContext(ctx).Warn("weather lookup failed", "location", location, "error", err)
		return ""
	}
	return w
}

// ViewCafes searches cafés around the session location and shows them.
func (s *Service) ViewCafes(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, func(ctx context.Context, sess *domain.Session) error {
		if err := s.nav.Fire(sess, navigator.EventViewCafes); err != nil {
			return err
		}
		if sess.UserLocation == "" {
			sess.CafeResults = []domain.Cafe{}
			sess.Notice = cafes.NoticeNoCafes
			return nil
		}
		sess.CafeResults, sess.Notice = s.finder.Find(ctx, sess.UserLocation)
		return nil
	})
}

// OpenChat shows the chat, greeting the user on the first visit.
func (s *Service) OpenChat(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, func(_ context.Context, sess *domain.Session) error {
		if err := s.nav.Fire(sess, navigator.EventOpenChat); err != nil {
			return err
		}
		s.greet(sess)
		sess.Notice = ""
		return nil
	})
}

func (s *Service) greet(sess *domain.Session) {
	if len(sess.ChatHistory) > 0 {
		return
	}
	sess.AppendChat(domain.RoleAssistant, chat.WelcomeMessage(string(sess.SelectedMood), sess.UserLocation), s.now())
}

type SendChatMessageOutput struct {
	Session     *domain.Session
	UserMessage domain.ChatMessage
	Reply       domain.ChatMessage
}

// SendChatMessage appends text and the assistant reply to the chat history.
// The reply comes from the agent when it answers, and from canned replies
// otherwise. Messages are only accepted on the chat scene.
func (s *Service) SendChatMessage(ctx context.Context, id domain.SessionID, text string) (*SendChatMessageOutput, error) {
	out := &SendChatMessageOutput{}
	sess, err := s.mutate(ctx, id, func(ctx context.Context, sess *domain.Session) error {
		if scene := s.nav.Current(sess); scene != domain.SceneChat {
			return fmt.Errorf("%w: chat message on %s", domain.ErrIllegalTransition, scene)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return reject(sess, MsgEnterMessage)
		}
		s.greet(sess)

		cc := chat.Context{
			Mood:     string(sess.SelectedMood),
			Location: sess.UserLocation,
			Drink:    sess.DrinkRecommendation,
			Weather:  sess.Weather,
			Turn:     len(sess.ChatHistory),
		}
		out.UserMessage = sess.AppendChat(domain.RoleUser, text, s.now())
		reply := s.chat.Reply(telemetry.WithOperation(ctx, domain.OperationChat), text, cc)
		out.Reply = sess.AppendChat(domain.RoleAssistant, reply, s.now())
		sess.Notice = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Session = sess
	return out, nil
}

// Back follows the back edge of the current scene.
func (s *Service) Back(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.fire(ctx, id, navigator.EventBack)
}

// Navigate jumps straight to scene. It fails with *domain.InvalidSceneError
// when scene is unknown, leaving the session as it was.
func (s *Service) Navigate(ctx context.Context, id domain.SessionID, scene domain.Scene) (*domain.Session, error) {
	return s.mutate(ctx, id, func(_ context.Context, sess *domain.Session) error {
		return s.nav.Navigate(sess, scene)
	})
}

// Reset clears everything the user picked and goes back to welcome.
func (s *Service) Reset(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, func(_ context.Context, sess *domain.Session) error {
		s.nav.Reset(sess)
		return nil
	})
}

func (s *Service) fire(ctx context.Context, id domain.SessionID, ev navigator.Event) (*domain.Session, error) {
	return s.mutate(ctx, id, func(_ context.Context, sess *domain.Session) error {
		if err := s.nav.Fire(sess, ev); err != nil {
			return err
		}
		sess.Notice = ""
		return nil
	})
}

// mutate loads the session, applies fn and stores the result. A
// *domain.ValidationError from fn is stored too, since its message is shown
// to the user; any other error discards the changes.
func (s *Service) mutate(
	ctx context.Context,
	id domain.SessionID,
	fn func(ctx context.Context, sess *domain.Session) error,
) (*domain.Session, error) {
	ctx = observability.WithSessionID(ctx, string(id))
	log := observability.LoggerFromContext(ctx)

	sess, err := s.sessions.GetSession(id)
	if err != nil {
		log.Warn("failed to get session", "error", err)
		return nil, err
	}

	fnErr := fn(ctx, sess)
	var verr *domain.ValidationError
	if fnErr != nil && !errors.As(fnErr, &verr) {
		log.Warn("action rejected", "scene", sess.CurrentScene, "error", fnErr)
		return nil, fnErr
	}

	sess.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(sess); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}
	if fnErr != nil {
		return sess, fnErr
	}
	return sess, nil
}

// save stores an intermediate state, such as the loading scene.
func (s *Service) save(ctx context.Context, sess *domain.Session) {
	sess.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(sess); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to store intermediate session state", "error", err)
	}
}

func reject(sess *domain.Session, msg string) error {
	sess.Notice = msg
	return &domain.ValidationError{Message: msg}
}
