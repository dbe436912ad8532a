package chat

import (
	"context"
	"strings"
	"unicode"
)

type keywordRule struct {
	words []string
	reply string
}

var keywordRules = []keywordRule{
	{
		words: []string{"hello", "hi", "hey"},
		reply: "Hi there! I'm Whiski 🍵 I'm here to help you with all things matcha! What would you like to know?",
	},
	{
		words: []string{"recommend", "recommendation", "suggestion", "advice"},
		reply: "Based on your preferences, I'd suggest trying different matcha preparations to find what suits your mood best! Would you like specific recommendations?",
	},
	{
		words: []string{"café", "cafe", "cafés", "cafes", "location", "where"},
		reply: "I can help you find great matcha cafés! The ones I found for you should have the perfect atmosphere for your current vibe. Have you checked them out?",
	},
	{
		words: []string{"weather", "temperature", "hot", "cold"},
		reply: "Weather definitely affects the perfect matcha choice! Hot drinks for cozy weather, iced options for warm days. What's the weather like where you are?",
	},
	{
		words: []string{"matcha", "tea", "green"},
		reply: "Matcha is amazing! It's rich in antioxidants, provides sustained energy and has a wonderful earthy flavor. Each preparation brings out different aspects of the tea. What interests you most?",
	},
}

var genericReplies = []string{
	"That's a great question about matcha! Let me share some insights...",
	"Interesting! Matcha culture has so many fascinating aspects to explore.",
	"I love talking about this! Based on your current preferences...",
	"Great point! Here's what I think about that...",
	"That's something many matcha enthusiasts wonder about!",
}

// KeywordResponder answers from a fixed set of replies. It never fails.
type KeywordResponder struct{}

func (KeywordResponder) Name() string {
	return "keywords"
}

func (KeywordResponder) Reply(_ context.Context, message string, cc Context) (string, error) {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		words[w] = true
	}

	for _, rule := range keywordRules {
		for _, w := range rule.words {
			if words[w] {
				return rule.reply, nil
			}
		}
	}
	return genericReplies[cc.Turn%len(genericReplies)], nil
}
