package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/promcheck/internal/report"
	"github.com/valter-silva-au/promcheck/internal/validate"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

// Browser panel indices.
const (
	panelErrors = iota
	panelWarnings
	panelSummary
	panelCount
)

type browseModel struct {
	activePanel int
	width       int
	height      int
	offset      int

	// Data.
	errors   []models.Issue
	warnings []models.Issue
	files    []fileSummary

	// State.
	loading bool
	err     error
}

type fileSummary struct {
	file     string
	errors   int
	warnings int
}

// findingsLoadedMsg carries the merged validation results back to the model.
type findingsLoadedMsg struct {
	errors   []models.Issue
	warnings []models.Issue
	files    []fileSummary
	err      error
}

// Style definitions.
var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	browsePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 2)

	browseActiveStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	browseHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				MarginBottom(1)

	issueErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	issueWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cleanStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	browseHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBrowseModel() browseModel {
	return browseModel{
		activePanel: panelErrors,
		loading:     true,
	}
}

func (m browseModel) Init() tea.Cmd {
	return loadFindings
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			m.offset = 0
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			m.offset = 0
			return m, nil
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
			return m, nil
		case "down", "j":
			if m.offset < m.panelLength()-1 {
				m.offset++
			}
			return m, nil
		case "r":
			m.loading = true
			m.offset = 0
			return m, loadFindings
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case findingsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.errors = msg.errors
		m.warnings = msg.warnings
		m.files = msg.files
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m browseModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := browseTitleStyle.Render(" promcheck findings ")
	help := browseHelpStyle.Render("tab: switch panel | j/k: scroll | r: re-run | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Running validations...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	var body string
	switch m.activePanel {
	case panelErrors:
		body = m.renderIssuePanel("Errors", m.errors, issueErrorStyle)
	case panelWarnings:
		body = m.renderIssuePanel("Warnings", m.warnings, issueWarnStyle)
	case panelSummary:
		body = m.renderSummaryPanel()
	}

	panelWidth := m.width - 6
	if panelWidth < 20 {
		panelWidth = 20
	}
	body = browseActiveStyle.Width(panelWidth).Render(body)

	tabs := m.renderTabs()

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, tabs, body, help)
}

func (m browseModel) renderTabs() string {
	labels := []string{
		fmt.Sprintf("Errors (%d)", len(m.errors)),
		fmt.Sprintf("Warnings (%d)", len(m.warnings)),
		fmt.Sprintf("Files (%d)", len(m.files)),
	}
	for i, label := range labels {
		if i == m.activePanel {
			labels[i] = browseHeaderStyle.Render("[" + label + "]")
		} else {
			labels[i] = " " + label + " "
		}
	}
	return strings.Join(labels, " ")
}

func (m browseModel) renderIssuePanel(name string, issues []models.Issue, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(browseHeaderStyle.Render(name))
	b.WriteString("\n")

	if len(issues) == 0 {
		b.WriteString(cleanStyle.Render("  Nothing to report."))
		return b.String()
	}

	visible := m.visibleRows()
	for i := m.offset; i < len(issues) && i < m.offset+visible; i++ {
		b.WriteString(style.Render(fmt.Sprintf("  %s", issues[i].String())))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n  %d-%d of %d", m.offset+1, min(m.offset+visible, len(issues)), len(issues))

	return b.String()
}

func (m browseModel) renderSummaryPanel() string {
	var b strings.Builder
	b.WriteString(browseHeaderStyle.Render("Findings by file"))
	b.WriteString("\n")

	if len(m.files) == 0 {
		b.WriteString(cleanStyle.Render("  No files validated."))
		return b.String()
	}

	visible := m.visibleRows()
	for i := m.offset; i < len(m.files) && i < m.offset+visible; i++ {
		f := m.files[i]
		line := fmt.Sprintf("  %-40s %d errors, %d warnings", f.file, f.errors, f.warnings)
		switch {
		case f.errors > 0:
			line = issueErrorStyle.Render(line)
		case f.warnings > 0:
			line = issueWarnStyle.Render(line)
		default:
			line = cleanStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m browseModel) panelLength() int {
	switch m.activePanel {
	case panelErrors:
		return len(m.errors)
	case panelWarnings:
		return len(m.warnings)
	default:
		return len(m.files)
	}
}

func (m browseModel) visibleRows() int {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

// loadFindings runs all three validations and merges their findings.
func loadFindings() tea.Msg {
	var result findingsLoadedMsg

	if Config == nil {
		result.err = fmt.Errorf("configuration not initialized")
		return result
	}

	reg, err := LoadRegistry()
	if err != nil {
		result.err = fmt.Errorf("loading metric registry: %w", err)
		return result
	}
	runner := validate.NewRunner(reg)

	var issues []models.Issue

	rulesDir := resolvePath(Config.RulesDir)
	if _, err := os.Stat(rulesDir); err == nil {
		ruleIssues, err := runner.ValidateRuleFiles(rulesDir)
		if err != nil {
			result.err = fmt.Errorf("validating rule files: %w", err)
			return result
		}
		issues = append(issues, ruleIssues...)
	}

	dashboardsDir := resolvePath(Config.DashboardsDir)
	if _, err := os.Stat(dashboardsDir); err == nil {
		_, metricIssues, err := runner.ValidateDashboardMetrics(dashboardsDir)
		if err != nil {
			result.err = fmt.Errorf("validating dashboards: %w", err)
			return result
		}
		issues = append(issues, metricIssues...)

		queryIssues, err := runner.ValidateDashboardQueries(dashboardsDir)
		if err != nil {
			result.err = fmt.Errorf("validating queries: %w", err)
			return result
		}
		issues = append(issues, queryIssues...)
	}

	rep := report.New(issues)
	result.errors = rep.Errors
	result.warnings = rep.Warnings
	result.files = summarizeByFile(rep)

	return result
}

// summarizeByFile counts findings per file in report order.
func summarizeByFile(rep *report.Report) []fileSummary {
	index := make(map[string]int)
	var files []fileSummary

	add := func(file string, isError bool) {
		i, ok := index[file]
		if !ok {
			i = len(files)
			index[file] = i
			files = append(files, fileSummary{file: file})
		}
		if isError {
			files[i].errors++
		} else {
			files[i].warnings++
		}
	}

	for _, issue := range rep.Errors {
		add(issue.File, true)
	}
	for _, issue := range rep.Warnings {
		add(issue.File, false)
	}
	return files
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive TUI over merged validation findings",
	Long: `Run all validations and browse the merged findings in an interactive
terminal view with separate panels for errors, warnings, and a per-file
summary.

Navigate between panels with Tab, scroll with j/k, re-run with r, quit
with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}
		p := tea.NewProgram(newBrowseModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
