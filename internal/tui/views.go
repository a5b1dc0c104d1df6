package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rpggio/byggkoll/internal/domain/report"
	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ByggKoll"))
	if u, ok := a.store.CurrentUser(); ok && a.mode != inputLogin {
		b.WriteString(mutedStyle.Render("  " + u.Name + " <" + u.Email + ">"))
	}
	b.WriteString("\n\n")

	if a.mode == inputLogin {
		b.WriteString(a.renderLogin())
	} else {
		b.WriteString(a.renderTabs())
		b.WriteString("\n\n")
		b.WriteString(a.renderBody())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatus())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(a.helpText()))
	return b.String()
}

func (a *App) renderLogin() string {
	field := func(label, value string, focused bool) string {
		style := boxStyle
		if focused {
			style = focusBoxStyle
			value += "_"
		}
		return label + "\n" + style.Width(40).Render(value)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Logga in"),
		"",
		field("Namn", a.loginName, a.loginField == loginFieldName),
		field("E-post", a.loginEmail, a.loginField == loginFieldEmail),
	)
}

func (a *App) renderTabs() string {
	parts := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		label := strconv.Itoa(i+1) + " " + title
		if tab(i) == a.tab {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderBody() string {
	if a.mode == inputForm {
		return a.renderForm()
	}
	switch a.tab {
	case tabCalendar:
		return a.renderCalendar()
	case tabMaterial:
		return a.renderMaterials()
	case tabProjects:
		if a.project != "" {
			return a.renderProjectLog()
		}
		return a.renderProjectCards()
	case tabStats:
		return a.renderStats()
	case tabAdmin:
		return a.renderAdmin()
	default:
		return a.renderProfile()
	}
}

func (a *App) renderCalendar() string {
	days := report.Calendar(a.store.Entries(), report.CalendarFilter{})
	if len(days) == 0 {
		return mutedStyle.Render("Inga tidposter.")
	}

	var b strings.Builder
	row := 0
	for _, day := range days {
		b.WriteString(headingStyle.Render(day.Date) + mutedStyle.Render("  "+hours(day.TotalHours)) + "\n")
		for _, w := range day.Workers {
			b.WriteString("  " + accentStyle.Render(w.WorkerName) + mutedStyle.Render("  "+hours(w.Hours)) + "\n")
			for _, e := range w.Entries {
				line := fmt.Sprintf("%-8s %-9s %s  %s", hours(e.Hours), e.WorkType, a.projectName(e.ProjectID), e.Description)
				b.WriteString(a.row(row, line) + "\n")
				row++
			}
		}
	}
	return b.String()
}

func (a *App) renderMaterials() string {
	materials := a.store.Materials()
	if len(materials) == 0 {
		return mutedStyle.Render("Inga materialkostnader.")
	}

	var b strings.Builder
	for i, m := range materials {
		line := fmt.Sprintf("%s  %-12s %s  %s  %s", m.Date, amount(m.Amount), a.projectName(m.ProjectID), m.WorkerName, m.Description)
		if m.HasAttachment() {
			line += "  [kvitto: " + m.FileName + "]"
		}
		b.WriteString(a.row(i, line) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("Totalt "+amount(report.SumAmounts(materials))))
	return b.String()
}

func (a *App) renderProjectCards() string {
	cards := report.ProjectCards(a.store.Snapshot())
	if len(cards) == 0 {
		return mutedStyle.Render("Inga projekt.")
	}

	var b strings.Builder
	for i, c := range cards {
		line := fmt.Sprintf("%-10s %-30s %-10s %-12s %d poster, %d material",
			c.Project.Code, c.Project.Name, hours(c.TotalHours), amount(c.TotalCost), c.EntryCount, c.MaterialCount)
		b.WriteString(a.row(i, line) + "\n")
	}
	return b.String()
}

func (a *App) renderProjectLog() string {
	log := report.BuildProjectLog(a.store.Snapshot(), a.project)

	var b strings.Builder
	title := log.Project.Name
	if !log.Known {
		title = "Okänt projekt " + log.Project.ID
	}
	b.WriteString(headingStyle.Render(title) + "\n")
	if log.Known {
		b.WriteString(mutedStyle.Render(strings.Join(nonEmpty(log.Project.Code, log.Project.Client, log.Project.Location), " · ")) + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%s  %s\n", hours(log.TotalHours), amount(log.TotalCost)))
	for _, th := range log.HoursByType {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", th.WorkType, hours(th.Hours)))
	}

	b.WriteString("\n" + headingStyle.Render("Tid") + "\n")
	for _, e := range log.Entries {
		b.WriteString(fmt.Sprintf("  %s  %-10s %-8s %s\n", e.Date, e.WorkerName, hours(e.Hours), e.Description))
	}
	b.WriteString("\n" + headingStyle.Render("Material") + "\n")
	for _, m := range log.Materials {
		b.WriteString(fmt.Sprintf("  %s  %-10s %-12s %s\n", m.Date, m.WorkerName, amount(m.Amount), m.Description))
	}
	return b.String()
}

func (a *App) renderStats() string {
	d := report.BuildDashboard(a.store.Snapshot())

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  (%d tidposter, %d material)\n\n",
		hours(d.TotalHours), amount(d.TotalCost), d.EntryCount, d.MaterialCount))

	b.WriteString(headingStyle.Render("Per arbetstyp") + "\n")
	for _, th := range d.HoursByType {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", th.WorkType, hours(th.Hours)))
	}
	b.WriteString("\n" + headingStyle.Render("Per projekt") + "\n")
	for _, p := range d.Projects {
		name := p.Name
		if !p.Known {
			name = warningStyle.Render("okänt " + p.ProjectID)
		}
		b.WriteString(fmt.Sprintf("  %-30s %-10s %s\n", name, hours(p.Hours), amount(p.Cost)))
	}
	b.WriteString("\n" + headingStyle.Render("Per arbetare") + "\n")
	for _, w := range d.Workers {
		b.WriteString(fmt.Sprintf("  %-20s %s\n", w.WorkerName, hours(w.Hours)))
	}
	return b.String()
}

func (a *App) renderAdmin() string {
	snap := a.store.Snapshot()

	var b strings.Builder
	b.WriteString(headingStyle.Render("Projekt") + "\n")
	for i, p := range snap.Projects {
		b.WriteString(a.row(i, fmt.Sprintf("%-10s %s  %s", p.Code, p.Name, mutedStyle.Render(p.Location))) + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Arbetare") + "\n")
	for i, w := range snap.Workers {
		b.WriteString(a.row(len(snap.Projects)+i, w.Name) + "\n")
	}
	if a.mode == inputNewWorker {
		b.WriteString("\nNy arbetare: " + focusBoxStyle.Width(30).Render(a.input+"_") + "\n")
	}

	if issues := report.Integrity(snap).Issues; len(issues) > 0 {
		b.WriteString("\n" + warningStyle.Render(fmt.Sprintf("%d poster pekar på okända projekt eller arbetare", len(issues))) + "\n")
	}
	return b.String()
}

func (a *App) renderForm() string {
	f := a.form
	lines := []string{headingStyle.Render(f.title), ""}
	for i, field := range f.fields {
		value := field.display()
		style := boxStyle
		if i == f.focus {
			style = focusBoxStyle
			if field.options == nil {
				value += "_"
			} else {
				value = "< " + value + " >"
			}
		}
		lines = append(lines, field.label, style.Width(40).Render(value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderProfile() string {
	u, ok := a.store.CurrentUser()
	if !ok {
		return mutedStyle.Render("Inte inloggad.")
	}
	var mine []tracking.TimeEntry
	for _, e := range a.store.Entries() {
		if e.WorkerName == u.Name {
			mine = append(mine, e)
		}
	}
	return fmt.Sprintf("Namn    %s\nE-post  %s\nId      %s\n\nRapporterat %s i %d poster",
		u.Name, u.Email, mutedStyle.Render(u.ID), hours(report.SumHours(mine)), len(mine))
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	switch a.statusKind {
	case statusWarning:
		return warningStyle.Render(a.status)
	case statusError:
		return errorStyle.Render(a.status)
	default:
		return successStyle.Render(a.status)
	}
}

func (a *App) helpText() string {
	switch a.mode {
	case inputLogin:
		return "tab byt fält • enter logga in • ctrl+c avsluta"
	case inputNewWorker:
		return "enter spara • esc avbryt"
	case inputForm:
		return "tab/↑/↓ fält • ←/→ välj • enter spara • esc avbryt"
	}
	help := "tab/1-6 flik • ↑/↓ välj • r läs om • L logga ut • q avsluta"
	switch a.tab {
	case tabCalendar, tabMaterial:
		help += " • a ny • x ta bort"
	case tabProjects:
		help += " • enter öppna • esc tillbaka"
	case tabAdmin:
		help += " • p nytt projekt • n ny arbetare • x ta bort"
	}
	return help
}

// row renders a selectable line on the current tab.
func (a *App) row(i int, line string) string {
	if i == a.cursors[a.tab] {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

func (a *App) projectName(id string) string {
	for _, p := range a.store.Snapshot().Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return warningStyle.Render("okänt projekt")
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + " h"
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " kr"
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
