package adapters

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"jfrog-cleaner/internal/ports"
	"jfrog-cleaner/internal/types"
)

var (
	colorCyan    = lipgloss.Color("6")
	colorYellow  = lipgloss.Color("3")
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorMagenta = lipgloss.Color("5")
	colorBlue    = lipgloss.Color("4")
	colorDim     = lipgloss.Color("8")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorMagenta).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	imageStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	settingStyle = lipgloss.NewStyle().Foreground(colorCyan)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	liveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
)

// ConsoleReportAdapter renders run progress and summaries as styled text.
type ConsoleReportAdapter struct {
	Out    io.Writer
	DryRun bool
}

func NewConsoleReportAdapter(out io.Writer) *ConsoleReportAdapter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReportAdapter{Out: out}
}

func (a *ConsoleReportAdapter) ConfigSummary(images []types.ResolvedImage, dryRun bool) {
	a.DryRun = dryRun
	rows := make([][]string, 0, len(images))
	for _, image := range images {
		rows = append(rows, []string{
			image.Spec.String(),
			strconv.Itoa(image.Policy.DaysOld),
			strconv.Itoa(image.Policy.KeepMinimum),
		})
	}
	a.printf("\n%s\n", titleStyle.Render("Cleanup Configuration"))
	a.printf("%s\n\n", renderTable(colorCyan, []string{"Image", "Days Old", "Keep Minimum"}, rows))
	if dryRun {
		a.printf("Mode: %s\n", warnStyle.Render("DRY RUN"))
		return
	}
	a.printf("Mode: %s\n", liveStyle.Render("LIVE DELETION"))
}

func (a *ConsoleReportAdapter) RepositoryStarted(group types.RepositoryGroup) {
	body := fmt.Sprintf("%s\n%s\nImages: %s",
		dimStyle.Render("Repository"),
		titleStyle.Foreground(colorCyan).Render(group.Repository),
		strings.Join(group.Images, ", "))
	a.printf("\n%s\n", panelStyle.Render(body))
}

func (a *ConsoleReportAdapter) ImageFinished(report types.ImageReport) {
	a.printf("\n%s %s\n", imageStyle.Render("Processing image:"), report.Image)
	a.printf("  %s\n", settingStyle.Render(fmt.Sprintf(
		"Settings: %d days old (before %s), keep minimum %d tags",
		report.Policy.DaysOld,
		report.Cutoff.Format("2006-01-02"),
		report.Policy.KeepMinimum,
	)))
	switch {
	case report.FetchError != "":
		a.printf("  %s\n", errorStyle.Render("Error fetching tags: "+report.FetchError))
		return
	case report.Skipped != "":
		a.printf("  %s\n", warnStyle.Render("Skipped: "+report.Skipped))
		return
	case report.TotalTags == 0:
		a.printf("  %s\n", dimStyle.Render("No tags found"))
		return
	}
	a.printf("  %s\n", dimStyle.Render(fmt.Sprintf("Found %d tags, keeping %d most recent", report.TotalTags, report.FloorCount)))
	for _, outcome := range report.Outcomes {
		if line := outcomeLine(outcome); line != "" {
			a.printf("  %s\n", line)
		}
	}
}

func (a *ConsoleReportAdapter) RepositoryFinished(report types.RepositoryReport) {
	if report.FetchError != "" {
		a.printf("%s\n", errorStyle.Render("Error fetching images: "+report.FetchError))
	}
	a.printf("\n%s\n", dimStyle.Render(fmt.Sprintf(
		"%s: checked=%d deleted=%d kept=%d errors=%d",
		report.Repository, report.Stats.Checked, report.Stats.Deleted, report.Stats.Kept, report.Stats.Errors,
	)))
}

func (a *ConsoleReportAdapter) RunFinished(report types.RunReport) {
	deleted := strconv.Itoa(report.Totals.Deleted)
	if report.DryRun {
		deleted = warnStyle.Render(deleted)
	} else {
		deleted = errorStyle.Render(deleted)
	}
	errorsCell := "0"
	if report.Totals.Errors > 0 {
		errorsCell = errorStyle.Render(strconv.Itoa(report.Totals.Errors))
	}
	rows := [][]string{
		{"Repositories processed", strconv.Itoa(len(report.Repositories))},
		{"Images checked", strconv.Itoa(report.Totals.Checked)},
		{"Images deleted", deleted},
		{"Images kept", okStyle.Render(strconv.Itoa(report.Totals.Kept))},
		{"Errors", errorsCell},
	}
	a.printf("\n%s\n", titleStyle.Render("Overall Summary"))
	a.printf("%s\n", renderTable(colorGreen, []string{"Metric", "Count"}, rows))
	if report.DryRun {
		a.printf("\n%s\n", warnStyle.Bold(true).Render(
			"⚠ This was a DRY RUN. Set dry_run = false in the config file to actually delete images."))
	}
}

func (a *ConsoleReportAdapter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func outcomeLine(outcome types.TagOutcome) string {
	switch outcome.Kind {
	case types.OutcomeWouldDelete:
		return warnStyle.Render("Would delete: " + outcome.Tag.Path)
	case types.OutcomeDeleted:
		return okStyle.Render("✓ Deleted: " + outcome.Tag.Path)
	case types.OutcomeFailed:
		if outcome.FailureReason == types.FailureReasonMalformedTimestamp {
			return errorStyle.Render(fmt.Sprintf("✗ Malformed timestamp for %s: %s", outcome.Tag.Path, outcome.Err))
		}
		return errorStyle.Render(fmt.Sprintf("✗ Error deleting %s: %s", outcome.Tag.Path, outcome.Err))
	default:
		return ""
	}
}

func renderTable(border lipgloss.Color, headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

var _ ports.ReportPort = (*ConsoleReportAdapter)(nil)
