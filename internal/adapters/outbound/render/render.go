// Package render formats results for terminal output.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	keyStyle      = lipgloss.NewStyle().Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderPreprocess formats the outcome of one preprocessing run.
func RenderPreprocess(result *domain.PreprocessResult) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("sonarprep")
	subtitle := dimStyle.Render("analysis setup")
	project := titleStyle.Render(result.ProjectKey)
	if result.Branch != "" {
		project += "  " + dimStyle.Render("@ "+result.Branch)
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + project))
	b.WriteString("\n\n")

	// ── Rulesets ──
	b.WriteString("  " + titleStyle.Render("Rulesets") + "\n")
	if len(result.Rulesets) == 0 {
		b.WriteString("    " + dimStyle.Render("none configured") + "\n")
	}
	for _, outcome := range result.Rulesets {
		if outcome.Written {
			fmt.Fprintf(&b, "    %s %s  %s\n",
				passStyle.Render("●"),
				outcome.Spec.FileName,
				fileStyle.Render(outcome.Path),
			)
		} else {
			fmt.Fprintf(&b, "    %s %s  %s\n",
				skipStyle.Render("○"),
				skipStyle.Render(outcome.Spec.FileName),
				skipStyle.Render("skipped"),
			)
		}
	}

	// ── Fetched files ──
	if len(result.FetchedFiles) > 0 {
		b.WriteString("\n")
		b.WriteString("  " + titleStyle.Render("Fetched Files") + "\n")
		for _, file := range result.FetchedFiles {
			fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), file)
		}
	}

	// ── Configuration ──
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Configuration") + "\n")
	fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), fileStyle.Render(result.ConfigPath))
	fmt.Fprintf(&b, "    %s\n",
		dimStyle.Render(fmt.Sprintf("%d server properties applied", result.ServerProperties)))

	b.WriteString("\n")
	return b.String()
}

// RenderProperties formats analysis properties for terminal output. The
// camelCase tail of each key is expanded into words as a reading aid.
func RenderProperties(props map[string]string) string {
	if len(props) == 0 {
		return "  " + dimStyle.Render("No properties found.") + "\n"
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n",
		titleStyle.Render("Analysis Properties"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(keys))),
	)
	b.WriteString("  " + separatorLine + "\n\n")

	for _, key := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", keyStyle.Render(key), faintStyle.Render(humanizeKeyTail(key)))
		fmt.Fprintf(&b, "        %s\n", dimStyle.Render(props[key]))
	}

	return b.String()
}

// RenderPlugins formats the installed plugin list.
func RenderPlugins(plugins []string) string {
	if len(plugins) == 0 {
		return "  " + dimStyle.Render("No plugins installed.") + "\n"
	}

	sorted := append([]string(nil), plugins...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n\n",
		titleStyle.Render("Installed Plugins"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(sorted))),
	)
	for _, plugin := range sorted {
		fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), plugin)
	}

	return b.String()
}

// RenderHistory formats past preprocess runs for terminal output.
func RenderHistory(records []domain.RunRecord) string {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, rec := range records {
		hash := rec.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		project := rec.ProjectKey
		if rec.Branch != "" {
			project += " @ " + rec.Branch
		}

		written := passStyle.Render(fmt.Sprintf("%d rulesets", len(rec.Rulesets)))
		if len(rec.Rulesets) == 0 {
			written = warnStyle.Render("0 rulesets")
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			dimStyle.Render(rec.Timestamp.Format("2006-01-02")),
			faintStyle.Render(hash),
			titleStyle.Render(project),
			written,
		)
	}

	return b.String()
}

// humanizeKeyTail expands the camelCase tail of a dotted property key,
// e.g. "sonar.cs.msbuild.testProjectPattern" to "Test Project Pattern".
func humanizeKeyTail(key string) string {
	tail := key
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		tail = key[idx+1:]
	}
	if tail == "" {
		return ""
	}

	words := camelcase.Split(tail)
	titled := words[:0]
	for _, w := range words {
		low := strings.ToLower(w)
		if low == "" {
			continue
		}
		titled = append(titled, strings.ToUpper(low[:1])+low[1:])
	}
	return strings.Join(titled, " ")
}
