package tracking

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// WorkType classifies reported hours. Values are the labels stored on disk.
type WorkType string

const (
	WorkNormal   WorkType = "Normaltid"
	WorkOvertime WorkType = "Övertid"
	WorkTravel   WorkType = "Restid"
	WorkAbsence  WorkType = "Frånvaro"
	WorkATA      WorkType = "ÄTA-arbete"
)

// WorkTypes lists every work type in display order.
var WorkTypes = []WorkType{WorkNormal, WorkOvertime, WorkTravel, WorkAbsence, WorkATA}

// Valid reports whether t is one of the known work types.
func (t WorkType) Valid() bool {
	for _, known := range WorkTypes {
		if t == known {
			return true
		}
	}
	return false
}

// User is the logged-in session. Password is only read for compatibility
// with older session slots and is never written back.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// Worker is a person hours and materials are reported for.
type Worker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is a construction site. Code is a display label and is not unique.
type Project struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Client   string `json:"client"`
	Location string `json:"location"`
}

// TimeEntry is a block of hours reported against a project.
// WorkerName is a plain name, not a Worker.ID.
type TimeEntry struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	ProjectID   string   `json:"projectId"`
	Hours       float64  `json:"hours"`
	WorkType    WorkType `json:"workType"`
	Description string   `json:"description"`
	WorkerName  string   `json:"workerName"`
}

// MaterialCost is a purchase booked against a project, optionally with a
// receipt stored inline as base64 (raw or data URL).
type MaterialCost struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	WorkerName  string  `json:"workerName"`
	FileName    string  `json:"fileName,omitempty"`
	FileData    string  `json:"fileData,omitempty"`
}

// HasAttachment reports whether a receipt is stored on the record.
func (m MaterialCost) HasAttachment() bool {
	return m.FileData != ""
}

// Attachment decodes the inline receipt. The content type comes from the data
// URL header when present and defaults to application/octet-stream.
func (m MaterialCost) Attachment() (string, []byte, error) {
	if m.FileData == "" {
		return "", nil, ErrNoAttachment
	}

	contentType := "application/octet-stream"
	payload := m.FileData
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, fmt.Errorf("%w: missing data URL separator", ErrInvalidAttachment)
		}
		if !strings.HasSuffix(header, ";base64") {
			return "", nil, fmt.Errorf("%w: data URL is not base64", ErrInvalidAttachment)
		}
		if mime := strings.TrimSuffix(header, ";base64"); mime != "" {
			contentType = mime
		}
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}
	return contentType, data, nil
}

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Projects  []Project      `json:"projects"`
	Workers   []Worker       `json:"workers"`
	Entries   []TimeEntry    `json:"entries"`
	Materials []MaterialCost `json:"materials"`
}
