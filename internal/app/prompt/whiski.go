package prompt

// DefaultTask asks for a drink and a vibe in a parseable shape.
const DefaultTask = `The user is feeling {mood} and is located in {location}.
Current weather: {weather}.

Recommend one specific matcha drink and describe the perfect café vibe for this mood and place.

Format your response exactly as:
Drink: <specific matcha drink>
Vibe: <two or three sentences describing the atmosphere>`

// DirectiveTask is sent once when the first reply could not be parsed.
const DirectiveTask = `Answer with exactly two lines and nothing else.
Do not ask questions, do not greet, do not offer other moods.

Drink: <one specific matcha drink for someone feeling {mood} in {location}, weather {weather}>
Vibe: <two or three sentences describing the ideal café atmosphere>`

// ChatTask wraps a chat message with the session context.
const ChatTask = `Context: the user is feeling {mood} and is in {location}.
Recommended drink: {drink}
Weather: {weather}

User message: {message}

Respond as Whiski, the friendly matcha expert.`

// RecommendationVars lists the placeholders every recommendation template needs.
var RecommendationVars = []string{VarMood, VarLocation, VarWeather}

// NewTaskTemplate returns the built-in recommendation template.
func NewTaskTemplate() *Template {
	return New("task", DefaultTask, RecommendationVars...)
}

// NewDirectiveTemplate returns the built-in retry template.
func NewDirectiveTemplate() *Template {
	return New("directive", DirectiveTask, RecommendationVars...)
}

// NewChatTemplate returns the built-in chat template.
func NewChatTemplate() *Template {
	return New("chat", ChatTask, VarMessage)
}
