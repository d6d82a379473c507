package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arogyalabs/arogyabot/internal/model"
)

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "Bengali", LanguageName("bn"))
	assert.Equal(t, "Hindi", LanguageName("hi"))
	assert.Equal(t, "English", LanguageName("fr"))
	assert.Equal(t, "English", LanguageName(""))
}

func TestBuildPromptWithSources(t *testing.T) {
	sources := []model.Source{
		{URL: "https://who.int/flu", Title: "WHO flu", Snippet: "Influenza is a viral infection."},
		{URL: "https://cdc.gov/flu", Title: "CDC flu", Snippet: "Symptoms include fever."},
	}

	prompt := BuildPrompt("What are flu symptoms?", sources, "bn", nil)

	assert.Contains(t, prompt, "Please provide your answer in Bengali.")
	assert.Contains(t, prompt, "[SOURCE 1] WHO flu")
	assert.Contains(t, prompt, "URL: https://who.int/flu")
	assert.Contains(t, prompt, "Influenza is a viral infection.")
	assert.Contains(t, prompt, "[SOURCE 2] CDC flu")
	assert.Contains(t, prompt, "USER QUESTION: What are flu symptoms?")
	assert.Contains(t, prompt, "3-6 short paragraphs")
}

func TestBuildPromptWithoutSources(t *testing.T) {
	prompt := BuildPrompt("What are flu symptoms?", nil, "hi", nil)

	assert.Contains(t, prompt, "Please provide your answer in Hindi.")
	assert.Contains(t, prompt, "The user is asking: What are flu symptoms?")
	assert.Contains(t, prompt, "I don't have access to specific medical sources right now")
	assert.NotContains(t, prompt, "[SOURCE")
}

func TestBuildPromptWithHistory(t *testing.T) {
	history := []model.Message{
		{Role: "user", Content: "What is influenza?"},
		{Role: "assistant", Content: "A seasonal viral infection."},
		{Role: "user", Content: "   "},
	}

	prompt := BuildPrompt("How is it treated?", nil, "en", history)

	assert.Contains(t, prompt, "CONVERSATION CONTEXT (recent turns, oldest first):")
	assert.Contains(t, prompt, "user: What is influenza?")
	assert.Contains(t, prompt, "assistant: A seasonal viral infection.")
	// The context block precedes the instruction.
	assert.Less(t,
		strings.Index(prompt, "CONVERSATION CONTEXT"),
		strings.Index(prompt, "The user is asking:"))
}

func TestBuildPromptEmptyHistorySameAsNil(t *testing.T) {
	withNil := BuildPrompt("flu?", nil, "en", nil)
	withBlank := BuildPrompt("flu?", nil, "en", []model.Message{{Role: "user", Content: "  "}})
	assert.Equal(t, withNil, withBlank)
	assert.NotContains(t, withNil, "CONVERSATION CONTEXT")
}
