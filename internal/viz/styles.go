package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TruthStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4488ff"))
	OdometryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	GPSStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	StatusDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4488ff"))

	MetricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(22)
	MetricValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)

	KeyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)

	barFull  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("#333344"))
)

// MetricRows formats metrics as aligned label/value lines, sorted by name.
func MetricRows(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(MetricLabel.Render(name))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%.6f", metrics[name])))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Summary renders a titled panel of key/value facts followed by metrics.
func Summary(title string, facts [][2]string, metrics map[string]float64) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteByte('\n')
	for _, f := range facts {
		b.WriteString(MetricLabel.Render(f[0]))
		b.WriteString(f[1])
		b.WriteByte('\n')
	}
	if len(metrics) > 0 {
		b.WriteByte('\n')
		b.WriteString(MetricRows(metrics))
	}
	return Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

// ProgressBar renders a bar for a fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return barFull.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", width-filled))
}
