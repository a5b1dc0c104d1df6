// Package tui is the terminal front end: a login gate followed by tabs for
// the calendar, materials, project log, statistics, administration and the
// user profile.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/byggkoll/internal/domain/report"
	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// Store is the part of tracking.Store the terminal UI uses.
type Store interface {
	Reload(ctx context.Context)
	Snapshot() tracking.Snapshot
	Projects() []tracking.Project
	Entries() []tracking.TimeEntry
	Materials() []tracking.MaterialCost
	Workers() []tracking.Worker

	AddEntry(ctx context.Context, req tracking.CreateEntryRequest) (tracking.TimeEntry, error)
	DeleteEntry(ctx context.Context, id string) (bool, error)
	AddMaterial(ctx context.Context, req tracking.CreateMaterialRequest) (tracking.MaterialCost, error)
	DeleteMaterial(ctx context.Context, id string) (bool, error)
	AddProject(ctx context.Context, req tracking.CreateProjectRequest) (tracking.Project, error)
	RemoveProject(ctx context.Context, id string) (bool, error)
	AddWorker(ctx context.Context, name string) (tracking.Worker, error)
	RemoveWorker(ctx context.Context, id string) (bool, error)

	SetCurrentUser(ctx context.Context, user *tracking.User) error
	CurrentUser() (tracking.User, bool)
}

type tab int

const (
	tabCalendar tab = iota
	tabMaterial
	tabProjects
	tabStats
	tabAdmin
	tabProfile
)

var tabTitles = [...]string{"Tidkalender", "Material", "Projektlogg", "Statistik", "Administration", "Min profil"}

type inputMode int

const (
	inputNone inputMode = iota
	inputLogin
	inputNewWorker
	inputForm
)

const (
	loginFieldName = iota
	loginFieldEmail
)

// App ties together views.
type App struct {
	ctx   context.Context
	store Store

	tab     tab
	cursors [len(tabTitles)]int
	project string // drill-down in Projektlogg

	mode       inputMode
	loginName  string
	loginEmail string
	loginField int
	input      string
	form       *form

	status     string
	statusKind statusKind
	width      int
	now        func() time.Time
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

// messages
type mutationMsg struct {
	done string
	err  error
}

type loginMsg struct {
	name string
	err  error
}

type logoutMsg struct{ err error }

type reloadedMsg struct{}

// New creates the UI. Without a stored session it opens on the login form.
func New(ctx context.Context, store Store) *App {
	a := &App{ctx: ctx, store: store, now: time.Now}
	if _, ok := store.CurrentUser(); !ok {
		a.mode = inputLogin
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case inputLogin:
			return a.handleLoginKey(m)
		case inputNewWorker:
			return a.handleWorkerInputKey(m)
		case inputForm:
			return a.handleFormKey(m)
		}
		return a.handleKey(m)
	case mutationMsg:
		a.setResult(m.done, m.err)
		a.clampCursor()
	case loginMsg:
		if m.err != nil && !tracking.IsPersistWarning(m.err) {
			a.setResult("", m.err)
			return a, nil
		}
		a.mode = inputNone
		a.tab = tabCalendar
		a.loginName, a.loginEmail, a.loginField = "", "", loginFieldName
		a.setResult("Inloggad som "+m.name, m.err)
	case logoutMsg:
		a.mode = inputLogin
		a.project = ""
		a.setResult("Utloggad", m.err)
	case reloadedMsg:
		if _, ok := a.store.CurrentUser(); !ok {
			a.mode = inputLogin
		}
		a.clampCursor()
		a.setResult("Data inläst på nytt", nil)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := m.String(); key {
	case "q":
		return a, tea.Quit
	case "tab":
		a.switchTab((a.tab + 1) % tab(len(tabTitles)))
	case "shift+tab":
		a.switchTab((a.tab + tab(len(tabTitles)) - 1) % tab(len(tabTitles)))
	case "1", "2", "3", "4", "5", "6":
		a.switchTab(tab(key[0] - '1'))
	case "up", "k":
		if a.cursors[a.tab] > 0 {
			a.cursors[a.tab]--
		}
	case "down", "j":
		if a.cursors[a.tab] < a.listLen()-1 {
			a.cursors[a.tab]++
		}
	case "enter":
		if a.tab == tabProjects && a.project == "" {
			cards := report.ProjectCards(a.store.Snapshot())
			if len(cards) > 0 {
				a.project = cards[a.cursors[tabProjects]].Project.ID
			}
		}
	case "esc":
		a.project = ""
	case "x":
		return a, a.deleteSelected()
	case "a":
		switch a.tab {
		case tabCalendar:
			a.openForm(a.newEntryForm())
		case tabMaterial:
			a.openForm(a.newMaterialForm())
		}
	case "p":
		if a.tab == tabAdmin {
			a.openForm(newProjectForm())
		}
	case "n":
		if a.tab == tabAdmin {
			a.mode = inputNewWorker
			a.input = ""
		}
	case "r":
		return a, a.reloadCmd()
	case "L":
		return a, a.logoutCmd()
	}
	return a, nil
}

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := &a.loginName
	if a.loginField == loginFieldEmail {
		field = &a.loginEmail
	}

	switch m.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		a.loginField = 1 - a.loginField
	case tea.KeyEnter:
		email := strings.TrimSpace(a.loginEmail)
		if email == "" {
			a.setResult("", fmt.Errorf("e-post krävs"))
			return a, nil
		}
		name := strings.TrimSpace(a.loginName)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		return a, a.loginCmd(name, email)
	case tea.KeyBackspace:
		*field = dropLastRune(*field)
	case tea.KeySpace:
		*field += " "
	case tea.KeyRunes:
		*field += string(m.Runes)
	}
	return a, nil
}

func (a *App) handleWorkerInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.mode = inputNone
		a.input = ""
	case tea.KeyEnter:
		name := a.input
		a.mode = inputNone
		a.input = ""
		return a, a.addWorkerCmd(name)
	case tea.KeyBackspace:
		a.input = dropLastRune(a.input)
	case tea.KeySpace:
		a.input += " "
	case tea.KeyRunes:
		a.input += string(m.Runes)
	}
	return a, nil
}

func (a *App) switchTab(t tab) {
	a.tab = t
	a.project = ""
	a.clampCursor()
}

// listLen is the number of selectable rows on the current tab.
func (a *App) listLen() int {
	switch a.tab {
	case tabCalendar:
		return len(a.calendarEntries())
	case tabMaterial:
		return len(a.store.Materials())
	case tabProjects:
		if a.project != "" {
			return 0
		}
		return len(a.store.Snapshot().Projects)
	case tabAdmin:
		return len(a.store.Projects()) + len(a.store.Workers())
	default:
		return 0
	}
}

func (a *App) clampCursor() {
	n := a.listLen()
	if a.cursors[a.tab] >= n {
		a.cursors[a.tab] = max(n-1, 0)
	}
}

// calendarEntries flattens the calendar in display order.
func (a *App) calendarEntries() []tracking.TimeEntry {
	var out []tracking.TimeEntry
	for _, day := range report.Calendar(a.store.Entries(), report.CalendarFilter{}) {
		for _, w := range day.Workers {
			out = append(out, w.Entries...)
		}
	}
	return out
}

func (a *App) setResult(done string, err error) {
	switch {
	case err == nil:
		a.status, a.statusKind = done, statusInfo
	case tracking.IsPersistWarning(err):
		a.status, a.statusKind = done+" (ej sparat: "+err.Error()+")", statusWarning
	default:
		a.status, a.statusKind = "fel: "+err.Error(), statusError
	}
}

// commands
func (a *App) deleteSelected() tea.Cmd {
	idx := a.cursors[a.tab]
	switch a.tab {
	case tabCalendar:
		entries := a.calendarEntries()
		if idx < len(entries) {
			return a.deleteEntryCmd(entries[idx].ID)
		}
	case tabMaterial:
		materials := a.store.Materials()
		if idx < len(materials) {
			return a.deleteMaterialCmd(materials[idx].ID)
		}
	case tabAdmin:
		// projects are listed above workers
		projects, workers := a.store.Projects(), a.store.Workers()
		if idx < len(projects) {
			return a.removeProjectCmd(projects[idx])
		}
		if idx -= len(projects); idx < len(workers) {
			return a.removeWorkerCmd(workers[idx])
		}
	}
	return nil
}

func (a *App) deleteEntryCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.store.DeleteEntry(a.ctx, id)
		return mutationMsg{done: "Tidpost borttagen", err: err}
	}
}

func (a *App) deleteMaterialCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.store.DeleteMaterial(a.ctx, id)
		return mutationMsg{done: "Material borttaget", err: err}
	}
}

func (a *App) removeWorkerCmd(w tracking.Worker) tea.Cmd {
	return func() tea.Msg {
		_, err := a.store.RemoveWorker(a.ctx, w.ID)
		return mutationMsg{done: w.Name + " borttagen", err: err}
	}
}

func (a *App) removeProjectCmd(p tracking.Project) tea.Cmd {
	return func() tea.Msg {
		_, err := a.store.RemoveProject(a.ctx, p.ID)
		return mutationMsg{done: p.Name + " borttaget", err: err}
	}
}

func (a *App) addWorkerCmd(name string) tea.Cmd {
	return func() tea.Msg {
		w, err := a.store.AddWorker(a.ctx, name)
		return mutationMsg{done: w.Name + " tillagd", err: err}
	}
}

func (a *App) loginCmd(name, email string) tea.Cmd {
	return func() tea.Msg {
		err := a.store.SetCurrentUser(a.ctx, &tracking.User{Name: name, Email: email})
		return loginMsg{name: name, err: err}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return logoutMsg{err: a.store.SetCurrentUser(a.ctx, nil)}
	}
}

func (a *App) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		a.store.Reload(a.ctx)
		return reloadedMsg{}
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
