package orchestrator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/SaiNageswarS/travel-boot/normalize"
	"github.com/SaiNageswarS/travel-boot/tools"
)

// ToolResultRenderer turns tool results into the plain text the reply prompt embeds.
type ToolResultRenderer struct {
	airlines *normalize.AirlineDirectory
}

func NewToolResultRenderer(airlines *normalize.AirlineDirectory) *ToolResultRenderer {
	return &ToolResultRenderer{airlines: airlines}
}

func (r *ToolResultRenderer) Render(results []ToolResult) string {
	sections := make([]string, 0, len(results))
	for _, result := range results {
		sections = append(sections, r.renderOne(result))
	}
	return strings.Join(sections, "\n\n")
}

func (r *ToolResultRenderer) renderOne(tr ToolResult) string {
	if errMsg, failed := tr.Result["error"]; failed {
		details := firstPresent(tr.Result, "message", "details")
		if details == nil {
			details = "No details available"
		}
		return fmt.Sprintf("%s: Error - %v. Details: %s", tr.Agent, errMsg, display(details))
	}

	if tr.Result["status"] == "pending" {
		return fmt.Sprintf("%s: Pending - %v", tr.Agent, tr.Result["message"])
	}

	if tr.ToolCall.Name == tools.FlightInformation {
		if flights, ok := tr.Result["top_flights"].([]any); ok {
			return r.renderFlights(tr.Agent, flights, tr.Result["extractedInfo"])
		}
	}

	return fmt.Sprintf("%s: %s", tr.Agent, display(withoutAgent(tr.Result)))
}

func (r *ToolResultRenderer) renderFlights(agent string, flights []any, extracted any) string {
	if len(flights) == 0 {
		info, _ := extracted.(map[string]any)
		return fmt.Sprintf("%s: No flights found for %v to %v on %v in %v.", agent,
			info["originLocationCode"], info["destinationLocationCode"], info["departureDate"], info["travelClass"])
	}

	details := make([]string, 0, len(flights))
	for _, item := range flights {
		f, ok := item.(map[string]any)
		if !ok {
			continue
		}
		airline := fmt.Sprint(f["airline"])
		if r.airlines != nil {
			airline = r.airlines.FullName(airline)
		}
		details = append(details, fmt.Sprintf("Flight by %s, Price: %v %v, Departure: %v %v, Duration: %v, Stops: %v",
			airline, f["currency"], f["price"], f["departureDate"], f["departureTime"], f["duration"], f["stops"]))
	}
	return fmt.Sprintf("%s: Found %d flights: %s", agent, len(flights), strings.Join(details, "; "))
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

func withoutAgent(result map[string]any) map[string]any {
	out := make(map[string]any, len(result))
	for k, v := range result {
		if k != "agent" {
			out[k] = v
		}
	}
	return out
}

func display(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// formatToolInputsToMarkdown formats tool arguments for progress messages.
func formatToolInputsToMarkdown(toolName string, params tools.Arguments) string {
	if len(params) == 0 {
		return fmt.Sprintf("Tool: `%s` (no parameters)", mdEscape(toolName))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Tool: `%s`\n\n", mdEscape(toolName)))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("Parameters:\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", mdEscape(k), mdEscape(fmt.Sprintf("%v", params[k]))))
	}

	return b.String()
}

// Minimal Markdown escaper for inline text.
func mdEscape(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		"|", `\|`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"<", "&lt;",
		">", "&gt;",
	).Replace(s)
}
