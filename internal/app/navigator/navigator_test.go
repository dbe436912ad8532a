package navigator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/app/navigator"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

func newSession() *domain.Session {
	return domain.NewSession("s-1", time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))
}

func TestNavigateToEveryValidSceneFromEveryScene(t *testing.T) {
	nav := navigator.New()

	for _, from := range domain.Scenes {
		for _, to := range domain.Scenes {
			s := newSession()
			s.CurrentScene = from

			require.NoError(t, nav.Navigate(s, to))
			assert.Equal(t, to, s.CurrentScene, "%s -> %s", from, to)
		}
	}
}

func TestNavigateInvalidSceneKeepsCurrent(t *testing.T) {
	nav := navigator.New()

	for _, from := range domain.Scenes {
		s := newSession()
		s.CurrentScene = from

		err := nav.Navigate(s, "backstage")

		var ise *domain.InvalidSceneError
		require.True(t, errors.As(err, &ise))
		assert.Equal(t, domain.Scene("backstage"), ise.Scene)
		assert.Equal(t, from, s.CurrentScene)
		assert.False(t, s.Transitioning)
	}
}

func TestTransitionTable(t *testing.T) {
	want := map[domain.Scene]map[navigator.Event]domain.Scene{
		domain.SceneWelcome: {
			navigator.EventStart: domain.SceneMoodSelection,
		},
		domain.SceneMoodSelection: {
			navigator.EventPickMood: domain.SceneLocationInput,
		},
		domain.SceneLocationInput: {
			navigator.EventPickBorough: domain.SceneLoading,
			navigator.EventChooseOther: domain.SceneCustomLocation,
			navigator.EventBack:        domain.SceneMoodSelection,
		},
		domain.SceneCustomLocation: {
			navigator.EventSubmitCustom: domain.SceneLoading,
			navigator.EventBack:         domain.SceneLocationInput,
		},
		domain.SceneLoading: {
			navigator.EventResolved: domain.SceneResults,
		},
		domain.SceneResults: {
			navigator.EventViewCafes: domain.SceneCafeDetails,
			navigator.EventOpenChat:  domain.SceneChat,
		},
		domain.SceneCafeDetails: {
			navigator.EventBack:     domain.SceneResults,
			navigator.EventOpenChat: domain.SceneChat,
		},
		domain.SceneChat: {
			navigator.EventBack:      domain.SceneResults,
			navigator.EventViewCafes: domain.SceneCafeDetails,
		},
	}

	nav := navigator.New()
	for _, from := range domain.Scenes {
		for _, ev := range navigator.Events {
			s := newSession()
			s.CurrentScene = from

			err := nav.Fire(s, ev)

			if to, ok := want[from][ev]; ok {
				require.NoError(t, err, "%s on %s", ev, from)
				assert.Equal(t, to, s.CurrentScene, "%s on %s", ev, from)
				continue
			}
			assert.ErrorIs(t, err, domain.ErrIllegalTransition, "%s on %s", ev, from)
			assert.Equal(t, from, s.CurrentScene)
		}
	}
}

func TestCurrentRepairsUnknownScene(t *testing.T) {
	nav := navigator.New()
	s := newSession()
	s.CurrentScene = "garbage"

	assert.Equal(t, domain.SceneWelcome, nav.Current(s))
	assert.Equal(t, domain.SceneWelcome, s.CurrentScene)
}

func TestResetFromAnyScene(t *testing.T) {
	nav := navigator.New()
	rating := 4.5

	for _, from := range domain.Scenes {
		s := newSession()
		s.CurrentScene = from
		s.SelectedMood = domain.MoodCozy
		s.UserLocation = "Queens, NY"
		s.Weather = "18°C"
		s.DrinkRecommendation = "Warm ceremonial matcha with oat milk"
		s.VibeDescription = "Plush armchairs and rain outside."
		s.CafeResults = []domain.Cafe{{Name: "Cha Cha Matcha", Rating: &rating}}
		s.AppendChat(domain.RoleUser, "hi", s.CreatedAt)
		s.Notice = "something"

		nav.Reset(s)

		assert.Equal(t, domain.SceneWelcome, s.CurrentScene)
		assert.Equal(t, domain.SessionID("s-1"), s.ID)
		assert.Empty(t, s.SelectedMood)
		assert.Empty(t, s.UserLocation)
		assert.Empty(t, s.Weather)
		assert.Empty(t, s.DrinkRecommendation)
		assert.Empty(t, s.VibeDescription)
		assert.Empty(t, s.CafeResults)
		assert.Empty(t, s.ChatHistory)
		assert.Empty(t, s.Notice)
	}
}

func TestRenderGuard(t *testing.T) {
	nav := navigator.New()
	s := newSession()

	require.NoError(t, nav.Fire(s, navigator.EventStart))
	assert.True(t, s.Transitioning)
	assert.True(t, nav.Suppressed(s, domain.SceneWelcome), "departing scene is not drawn")
	assert.False(t, nav.Suppressed(s, domain.SceneMoodSelection))

	assert.Equal(t, domain.SceneMoodSelection, nav.Render(s))
	assert.False(t, s.Transitioning)
	assert.False(t, nav.Suppressed(s, domain.SceneWelcome))
}
