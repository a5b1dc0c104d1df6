package tui

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

type formKind int

const (
	formEntry formKind = iota + 1
	formMaterial
	formProject
)

type option struct {
	value string
	label string
}

// formField is free text, or a fixed choice when options is set.
type formField struct {
	label   string
	value   string
	options []option
}

type form struct {
	kind   formKind
	title  string
	fields []formField
	focus  int
}

const (
	entryDate = iota
	entryProject
	entryHours
	entryType
	entryDescription
	entryWorker
)

const (
	materialDate = iota
	materialProject
	materialAmount
	materialDescription
	materialWorker
	materialReceipt
)

const (
	projectCode = iota
	projectName
	projectClient
	projectLocation
)

func (a *App) projectOptions() []option {
	projects := a.store.Projects()
	opts := make([]option, 0, len(projects))
	for _, p := range projects {
		opts = append(opts, option{value: p.ID, label: p.Name})
	}
	return opts
}

func firstValue(opts []option) string {
	if len(opts) == 0 {
		return ""
	}
	return opts[0].value
}

func (a *App) userName() string {
	u, _ := a.store.CurrentUser()
	return u.Name
}

func (a *App) newEntryForm() *form {
	projects := a.projectOptions()
	types := make([]option, 0, len(tracking.WorkTypes))
	for _, wt := range tracking.WorkTypes {
		types = append(types, option{value: string(wt), label: string(wt)})
	}
	return &form{kind: formEntry, title: "Ny tidpost", fields: []formField{
		entryDate:        {label: "Datum", value: a.today()},
		entryProject:     {label: "Projekt", value: firstValue(projects), options: projects},
		entryHours:       {label: "Timmar"},
		entryType:        {label: "Arbetstyp", value: string(tracking.WorkNormal), options: types},
		entryDescription: {label: "Beskrivning"},
		entryWorker:      {label: "Arbetare", value: a.userName()},
	}}
}

func (a *App) newMaterialForm() *form {
	projects := a.projectOptions()
	return &form{kind: formMaterial, title: "Ny materialkostnad", fields: []formField{
		materialDate:        {label: "Datum", value: a.today()},
		materialProject:     {label: "Projekt", value: firstValue(projects), options: projects},
		materialAmount:      {label: "Belopp (kr)"},
		materialDescription: {label: "Beskrivning"},
		materialWorker:      {label: "Arbetare", value: a.userName()},
		materialReceipt:     {label: "Kvittofil"},
	}}
}

func newProjectForm() *form {
	return &form{kind: formProject, title: "Nytt projekt", fields: []formField{
		projectCode:     {label: "Kod"},
		projectName:     {label: "Namn"},
		projectClient:   {label: "Kund"},
		projectLocation: {label: "Plats"},
	}}
}

func (a *App) today() string {
	return a.now().Format(tracking.DateLayout)
}

func (a *App) openForm(f *form) {
	a.form = f
	a.mode = inputForm
}

func (a *App) closeForm() {
	a.form = nil
	a.mode = inputNone
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	field := &f.fields[f.focus]

	switch m.Type {
	case tea.KeyEsc:
		a.closeForm()
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % len(f.fields)
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
	case tea.KeyLeft:
		field.cycle(-1)
	case tea.KeyRight:
		field.cycle(1)
	case tea.KeyEnter:
		cmd, err := a.submitForm(f)
		if err != nil {
			a.setResult("", err)
			return a, nil
		}
		a.closeForm()
		return a, cmd
	case tea.KeyBackspace:
		if field.options == nil {
			field.value = dropLastRune(field.value)
		}
	case tea.KeySpace:
		if field.options == nil {
			field.value += " "
		}
	case tea.KeyRunes:
		if field.options == nil {
			field.value += string(m.Runes)
		}
	}
	return a, nil
}

func (f *formField) cycle(step int) {
	if len(f.options) == 0 {
		return
	}
	i := 0
	for j, o := range f.options {
		if o.value == f.value {
			i = j
			break
		}
	}
	i = (i + step + len(f.options)) % len(f.options)
	f.value = f.options[i].value
}

func (f *formField) display() string {
	for _, o := range f.options {
		if o.value == f.value && o.label != o.value {
			return o.label
		}
	}
	return f.value
}

// submitForm validates f and returns the command that stores it.
func (a *App) submitForm(f *form) (tea.Cmd, error) {
	value := func(i int) string { return strings.TrimSpace(f.fields[i].value) }

	switch f.kind {
	case formEntry:
		hours, err := parseNumber(value(entryHours))
		if err != nil {
			return nil, fmt.Errorf("timmar: %w", err)
		}
		req := tracking.CreateEntryRequest{
			Date:        value(entryDate),
			ProjectID:   value(entryProject),
			Hours:       hours,
			WorkType:    tracking.WorkType(value(entryType)),
			Description: value(entryDescription),
			WorkerName:  value(entryWorker),
		}
		if err := tracking.ValidateEntryInput(req); err != nil {
			return nil, err
		}
		return func() tea.Msg {
			_, err := a.store.AddEntry(a.ctx, req)
			return mutationMsg{done: "Tidpost sparad", err: err}
		}, nil

	case formMaterial:
		amount, err := parseNumber(value(materialAmount))
		if err != nil {
			return nil, fmt.Errorf("belopp: %w", err)
		}
		req := tracking.CreateMaterialRequest{
			ProjectID:   value(materialProject),
			Date:        value(materialDate),
			Description: value(materialDescription),
			Amount:      amount,
			WorkerName:  value(materialWorker),
		}
		if path := value(materialReceipt); path != "" {
			req.FileName, req.FileData, err = readReceipt(path)
			if err != nil {
				return nil, err
			}
		}
		if err := tracking.ValidateMaterialInput(req); err != nil {
			return nil, err
		}
		return func() tea.Msg {
			_, err := a.store.AddMaterial(a.ctx, req)
			return mutationMsg{done: "Material sparat", err: err}
		}, nil

	case formProject:
		req := tracking.CreateProjectRequest{
			Code:     value(projectCode),
			Name:     value(projectName),
			Client:   value(projectClient),
			Location: value(projectLocation),
		}
		if err := tracking.ValidateProjectInput(req); err != nil {
			return nil, fmt.Errorf("namn krävs: %w", err)
		}
		return func() tea.Msg {
			p, err := a.store.AddProject(a.ctx, req)
			return mutationMsg{done: p.Name + " tillagt", err: err}
		}, nil
	}
	return nil, errors.New("okänt formulär")
}

// parseNumber accepts a decimal comma as well as a point.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("värde krävs")
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// readReceipt loads a receipt file as a data URL.
func readReceipt(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("kvitto: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	return filepath.Base(path), "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
