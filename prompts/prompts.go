package prompts

import (
	"bytes"
	"embed"
	"text/template"
	"time"
)

//go:embed templates/*
var templatesFS embed.FS

// RenderTravelSystemPrompt renders the planner instructions for the first model call.
func RenderTravelSystemPrompt(now time.Time, agents []string) (string, error) {
	return render("templates/travel_system.md", struct {
		CurrentDate string
		Agents      []string
	}{
		CurrentDate: now.Format("Monday, 2 January 2006"),
		Agents:      agents,
	})
}

// RenderFinalReplyPrompt renders the instructions for composing the reply from tool results.
func RenderFinalReplyPrompt(toolResults string) (string, error) {
	return render("templates/final_reply_system.md", struct {
		ToolResults string
	}{
		ToolResults: toolResults,
	})
}

func render(name string, data any) (string, error) {
	content, err := templatesFS.ReadFile(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
