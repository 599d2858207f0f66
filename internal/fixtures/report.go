package fixtures

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the report styling definitions
type Styles struct {
	Pass   lipgloss.Style
	Fail   lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Banner lipgloss.Style
}

// DefaultStyles returns coloured report styles.
func DefaultStyles() Styles {
	return Styles{
		Pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Banner: lipgloss.NewStyle().Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Pass: s, Fail: s, Label: s, Muted: s, Banner: s}
}

// Render formats the report: one line per case, diffs for failures,
// and a pass/fail summary.
func (r *Report) Render(st Styles) string {
	var b strings.Builder

	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			fmt.Fprintf(&b, "%s: %s\n", st.Pass.Render(string(res.Status)), res.Case.Name)
		case StatusFail:
			fmt.Fprintf(&b, "%s: %s\n", st.Fail.Render(string(res.Status)), res.Case.Name)
			fmt.Fprintf(&b, "%s\n%s\n", st.Label.Render(" -- Expected: "), res.Expected)
			fmt.Fprintf(&b, "%s\n%s\n", st.Label.Render(" -- Got:"), res.Actual)
		default:
			fmt.Fprintf(&b, "%s: %s %s\n", st.Fail.Render(string(res.Status)), res.Case.Name,
				st.Muted.Render(fmt.Sprintf("(%v)", res.Err)))
		}
	}

	rule := strings.Repeat("=", 33)
	fmt.Fprintln(&b, st.Banner.Render(rule))
	fmt.Fprintf(&b, "Tests passed: %d\n", r.Passed)
	fmt.Fprintf(&b, "Tests failed: %d\n", r.Failed)
	fmt.Fprintln(&b, st.Banner.Render(rule))

	return b.String()
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}
