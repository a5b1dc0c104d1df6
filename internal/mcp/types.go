package mcp

import (
	"github.com/rpggio/byggkoll/internal/domain/report"
	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

type EmptyParams struct{}

type IDParams struct {
	ID string `json:"id" jsonschema:"identifier of the record"`
}

type LoginParams struct {
	Email    string `json:"email" jsonschema:"email address shown on the profile"`
	Name     string `json:"name,omitempty" jsonschema:"display name, defaults to the part of the email before @"`
	Password string `json:"password,omitempty" jsonschema:"accepted for compatibility, never stored"`
}

type UpdateProfileParams struct {
	Name  *string `json:"name,omitempty" jsonschema:"new display name"`
	Email *string `json:"email,omitempty" jsonschema:"new email address"`
}

type AddProjectParams struct {
	Code     string `json:"code,omitempty" jsonschema:"project code such as P2023-01"`
	Name     string `json:"name" jsonschema:"project name"`
	Client   string `json:"client,omitempty" jsonschema:"client name"`
	Location string `json:"location,omitempty" jsonschema:"site location"`
}

type AddWorkerParams struct {
	Name string `json:"name" jsonschema:"worker name"`
}

type ListEntriesParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"only entries for this project"`
	Worker    string `json:"worker,omitempty" jsonschema:"only entries reported by this worker name"`
	From      string `json:"from,omitempty" jsonschema:"first date to include (YYYY-MM-DD)"`
	To        string `json:"to,omitempty" jsonschema:"last date to include (YYYY-MM-DD)"`
}

type AddEntryParams struct {
	Date        string  `json:"date" jsonschema:"work date (YYYY-MM-DD)"`
	ProjectID   string  `json:"project_id" jsonschema:"project the hours belong to"`
	Hours       float64 `json:"hours" jsonschema:"hours worked, fractions allowed"`
	WorkType    string  `json:"work_type" jsonschema:"one of Normaltid, Övertid, Restid, Frånvaro, ÄTA-arbete"`
	Description string  `json:"description,omitempty" jsonschema:"what was done"`
	WorkerName  string  `json:"worker_name,omitempty" jsonschema:"worker name, defaults to the logged-in user"`
}

type UpdateEntryParams struct {
	ID          string   `json:"id" jsonschema:"entry to update"`
	Date        *string  `json:"date,omitempty" jsonschema:"new work date (YYYY-MM-DD)"`
	ProjectID   *string  `json:"project_id,omitempty" jsonschema:"new project"`
	Hours       *float64 `json:"hours,omitempty" jsonschema:"new hours"`
	WorkType    *string  `json:"work_type,omitempty" jsonschema:"new work type"`
	Description *string  `json:"description,omitempty" jsonschema:"new description"`
	WorkerName  *string  `json:"worker_name,omitempty" jsonschema:"new worker name"`
}

type ListMaterialsParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"only materials for this project"`
}

type AddMaterialParams struct {
	ProjectID   string  `json:"project_id" jsonschema:"project the cost belongs to"`
	Date        string  `json:"date" jsonschema:"purchase date (YYYY-MM-DD)"`
	Description string  `json:"description,omitempty" jsonschema:"what was bought"`
	Amount      float64 `json:"amount" jsonschema:"cost, non-negative"`
	WorkerName  string  `json:"worker_name,omitempty" jsonschema:"worker name, defaults to the logged-in user"`
	FileName    string  `json:"file_name,omitempty" jsonschema:"receipt file name"`
	FileData    string  `json:"file_data,omitempty" jsonschema:"receipt as base64 or a data: URL"`
}

type ProjectLogParams struct {
	ProjectID string `json:"project_id" jsonschema:"project to show"`
}

type CalendarParams struct {
	From      string `json:"from,omitempty" jsonschema:"first date to include (YYYY-MM-DD)"`
	To        string `json:"to,omitempty" jsonschema:"last date to include (YYYY-MM-DD)"`
	Worker    string `json:"worker,omitempty" jsonschema:"only this worker name"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"only this project"`
}

// Responses. Warning is set when a change was applied but could not be saved.

type SessionResponse struct {
	LoggedIn bool           `json:"logged_in"`
	User     *tracking.User `json:"user,omitempty"`
	Warning  string         `json:"warning,omitempty"`
}

type ProjectsResponse struct {
	Projects []tracking.Project `json:"projects"`
}

type ProjectResponse struct {
	Project tracking.Project `json:"project"`
	Warning string           `json:"warning,omitempty"`
}

type WorkersResponse struct {
	Workers []tracking.Worker `json:"workers"`
}

type WorkerResponse struct {
	Worker  tracking.Worker `json:"worker"`
	Warning string          `json:"warning,omitempty"`
}

type RemovedResponse struct {
	Removed bool   `json:"removed"`
	Warning string `json:"warning,omitempty"`
}

type EntriesResponse struct {
	Entries    []tracking.TimeEntry `json:"entries"`
	TotalHours float64              `json:"total_hours"`
}

type EntryResponse struct {
	Entry   tracking.TimeEntry `json:"entry"`
	Warning string             `json:"warning,omitempty"`
}

type UpdateEntryResponse struct {
	Updated bool                `json:"updated"`
	Entry   *tracking.TimeEntry `json:"entry,omitempty"`
	Warning string              `json:"warning,omitempty"`
}

// MaterialView is a material cost without the inline receipt payload.
type MaterialView struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"projectId"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	WorkerName    string  `json:"workerName"`
	FileName      string  `json:"fileName,omitempty"`
	HasAttachment bool    `json:"hasAttachment"`
}

type MaterialsResponse struct {
	Materials []MaterialView `json:"materials"`
	TotalCost float64        `json:"total_cost"`
}

type MaterialResponse struct {
	Material MaterialView `json:"material"`
	Warning  string       `json:"warning,omitempty"`
}

type ProjectCardsResponse struct {
	Cards []report.ProjectCard `json:"cards"`
}

type ProjectLogResponse struct {
	Project     tracking.Project     `json:"project"`
	Known       bool                 `json:"known"`
	Entries     []tracking.TimeEntry `json:"entries"`
	Materials   []MaterialView       `json:"materials"`
	HoursByType []report.TypeHours   `json:"hours_by_type"`
	TotalHours  float64              `json:"total_hours"`
	TotalCost   float64              `json:"total_cost"`
}

type CalendarResponse struct {
	Days []report.CalendarDay `json:"days"`
}

type ReloadResponse struct {
	Projects  int  `json:"projects"`
	Workers   int  `json:"workers"`
	Entries   int  `json:"entries"`
	Materials int  `json:"materials"`
	LoggedIn  bool `json:"logged_in"`
}

func toMaterialView(m tracking.MaterialCost) MaterialView {
	return MaterialView{
		ID:            m.ID,
		ProjectID:     m.ProjectID,
		Date:          m.Date,
		Description:   m.Description,
		Amount:        m.Amount,
		WorkerName:    m.WorkerName,
		FileName:      m.FileName,
		HasAttachment: m.HasAttachment(),
	}
}

func toMaterialViews(list []tracking.MaterialCost) []MaterialView {
	out := make([]MaterialView, 0, len(list))
	for _, m := range list {
		out = append(out, toMaterialView(m))
	}
	return out
}
