package answer

import (
	"fmt"
	"strings"

	"github.com/arogyalabs/arogyabot/internal/model"
)

// SystemMessage frames every generation request.
const SystemMessage = "You are a helpful medical information assistant. Always remind users that your information is for " +
	"educational purposes and they should consult healthcare professionals for medical advice."

var languageNames = map[string]string{
	"en": "English",
	"bn": "Bengali",
	"hi": "Hindi",
}

// LanguageName returns the display name the prompt uses for a language
// code, defaulting to English.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames["en"]
}

// BuildPrompt assembles the generation prompt. Recent conversation
// turns, when present, are prepended as context. With sources it cites
// numbered excerpts; without, it falls back to cautious general guidance.
func BuildPrompt(question string, sources []model.Source, lang string, history []model.Message) string {
	base := buildBasePrompt(question, sources, lang)
	if block := historyBlock(history); block != "" {
		return block + "\n\n" + base
	}
	return base
}

func buildBasePrompt(question string, sources []model.Source, lang string) string {
	langName := LanguageName(lang)

	if len(sources) == 0 {
		return fmt.Sprintf(
			"You are a helpful, cautious medical information assistant. Please provide your answer in %s. "+
				"The user is asking: %s\n\n"+
				"I don't have access to specific medical sources right now, but I can provide general health information. "+
				"Please provide helpful general guidance about this health topic, but emphasize that this is general information only "+
				"and the user should consult with healthcare professionals (doctors, WHO, CDC) for personalized medical advice. "+
				"Keep the response informative but cautious, and always recommend professional medical consultation.",
			langName, question,
		)
	}

	var ctx strings.Builder
	for i, s := range sources {
		if i > 0 {
			ctx.WriteString("\n\n")
		}
		fmt.Fprintf(&ctx, "[SOURCE %d] %s\nURL: %s\nEXCERPT:\n%s\n", i+1, s.Title, s.URL, s.Snippet)
	}

	return fmt.Sprintf(
		"You are a helpful, cautious medical information assistant. Please provide your answer in %s. "+
			"Use the provided source excerpts to answer the user's question. "+
			"Be informative but always remind users to consult healthcare professionals for personalized advice.\n\n"+
			"SOURCES:\n%s\n\n"+
			"USER QUESTION: %s\n\n"+
			"Please provide a helpful answer based on the sources (3-6 short paragraphs) and include a note about consulting healthcare professionals.",
		langName, ctx.String(), question,
	)
}

// historyBlock renders recent turns oldest first. Empty turns are
// skipped; an all-empty history yields no block at all.
func historyBlock(history []model.Message) string {
	var b strings.Builder
	turns := 0
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		if turns == 0 {
			b.WriteString("CONVERSATION CONTEXT (recent turns, oldest first):")
		}
		fmt.Fprintf(&b, "\n%s: %s", m.Role, content)
		turns++
	}
	return b.String()
}
