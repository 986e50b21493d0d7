package tui

import (
	"fmt"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// Disclaimer is printed before every interactive session.
const Disclaimer = "**This tool does not replace professional care.** " +
	"If someone is in danger, call your local emergency number first."

// NewRenderer returns a function that renders markdown using glamour.
// When plain is true, or the renderer cannot be built, markdown is
// returned unchanged.
func NewRenderer(plain bool) func(string) (string, error) {
	identity := func(markdown string) (string, error) { return markdown, nil }
	if plain {
		return identity
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return identity
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StepMarkdown formats a traversal step for display.
func StepMarkdown(step domain.Step) string {
	if step.Terminal() {
		return fmt.Sprintf("## Recommendation\n\n%s\n", step.Text)
	}
	return fmt.Sprintf("### %s\n\n_Answer yes or no. Type initial to start over._\n", step.Text)
}
