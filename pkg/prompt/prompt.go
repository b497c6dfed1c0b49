// Package prompt holds the system prompt for lesson material generation
// and builds the per-request user prompt from the material parameters.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/clil-material-prompt.txt
var systemPrompt string

// SystemPrompt returns the pedagogy system prompt sent with every
// generation request.
func SystemPrompt() string {
	return systemPrompt
}

// htmlFormattingHint is appended to every user prompt so models return
// renderable markup instead of plain text.
const htmlFormattingHint = "\n\nIMPORTANT: Please format your response using proper HTML tags for better presentation. " +
	"Use headings (<h1>, <h2>, <h3>), paragraphs (<p>), lists (<ul>, <ol>, <li>), " +
	"emphasis (<strong>, <em>), and other appropriate HTML elements. " +
	"Please provide a well-structured HTML response that can be directly rendered in a web application."

// Params are the material parameters a user prompt is built from.
// Zero values fall back to defaults in BuildUserPrompt.
type Params struct {
	MaterialType     string
	Topic            string
	Prompt           string
	Subject          string
	LanguageLevel    string
	VocabPercentage  *int
	ContentFocus     string
	IncludeVocabList *bool
	Description      string
}

// Validate checks the required generation parameters.
func (p *Params) Validate() error {
	if strings.TrimSpace(p.MaterialType) == "" {
		return fmt.Errorf("material type cannot be empty")
	}
	if strings.TrimSpace(p.Topic) == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if strings.TrimSpace(p.Prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("subject cannot be empty")
	}
	return nil
}

// BuildUserPrompt assembles the user prompt for a generation request.
// Optional parameters default to a B1 language level, 30% subject
// vocabulary, balanced content focus and an included vocabulary list.
func BuildUserPrompt(p Params) string {
	languageLevel := p.LanguageLevel
	if strings.TrimSpace(languageLevel) == "" {
		languageLevel = "B1"
	}

	vocabPercentage := 30
	if p.VocabPercentage != nil {
		vocabPercentage = *p.VocabPercentage
	}

	contentFocus := p.ContentFocus
	if strings.TrimSpace(contentFocus) == "" {
		contentFocus = "balanced"
	}

	includeVocabList := true
	if p.IncludeVocabList != nil {
		includeVocabList = *p.IncludeVocabList
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s about %q for the subject %s.\n", p.MaterialType, p.Topic, p.Subject)
	fmt.Fprintf(&b, "Target language level: %s (CEFR).\n", languageLevel)
	fmt.Fprintf(&b, "Subject-specific vocabulary share: about %d%%.\n", vocabPercentage)
	fmt.Fprintf(&b, "Content focus: %s.\n", contentFocus)
	if includeVocabList {
		b.WriteString("Include a vocabulary list with definitions at the end.\n")
	}
	if strings.TrimSpace(p.Description) != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", p.Description)
	}
	b.WriteString("\n")
	b.WriteString(p.Prompt)
	b.WriteString(htmlFormattingHint)

	return b.String()
}
