package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"burnout-assess/internal/domain"
)

// FormatRecommendations renderiza cada recomendacion como bloque numerado
// separado por una linea en blanco.
func FormatRecommendations(recs []domain.Recommendation) string {
	if len(recs) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(recs))
	for i, rec := range recs {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			title = fmt.Sprintf("Recommendation %d", i+1)
		}
		lines := []string{
			fmt.Sprintf("**%d. %s**", i+1, title),
			"   " + strings.TrimSpace(rec.Description),
		}
		if why := strings.TrimSpace(rec.Rationale); why != "" {
			lines = append(lines, "   **Why it helps:** "+why)
		}
		if when := strings.TrimSpace(rec.Timeframe); when != "" {
			lines = append(lines, "   **When to start:** "+when)
		}
		if p := priorityLabel(rec.Priority); p != "" {
			lines = append(lines, "   **Priority:** "+p)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// priorityLabel: "short_term" -> "Short Term".
func priorityLabel(p domain.Priority) string {
	s := strings.TrimSpace(strings.ReplaceAll(string(p), "_", " "))
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
