package chat

import "fmt"

// WelcomeMessage is the first assistant message of a chat.
func WelcomeMessage(mood, location string) string {
	msg := "Hi! I'm Whiski 🍵 I'm here to help you with all things matcha!"
	if mood != "" && location != "" {
		return msg + fmt.Sprintf(" Since you selected %s mood in %s, feel free to ask me about your recommendation or anything else!", mood, location)
	}
	return msg + " What would you like to know about matcha?"
}
