package tracking

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by entries and materials.
const DateLayout = "2006-01-02"

// ValidateEntryInput validates fields required to create a time entry.
func ValidateEntryInput(req CreateEntryRequest) error {
	if !validDate(req.Date) {
		return ErrInvalidInput
	}
	if !validQuantity(req.Hours) {
		return ErrInvalidInput
	}
	if !req.WorkType.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateEntryPatch validates the fields present in an update.
func ValidateEntryPatch(patch EntryPatch) error {
	if patch.Date != nil && !validDate(*patch.Date) {
		return ErrInvalidInput
	}
	if patch.Hours != nil && !validQuantity(*patch.Hours) {
		return ErrInvalidInput
	}
	if patch.WorkType != nil && !patch.WorkType.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateMaterialInput validates fields required to book a material cost.
func ValidateMaterialInput(req CreateMaterialRequest) error {
	if !validDate(req.Date) {
		return ErrInvalidInput
	}
	if !validQuantity(req.Amount) {
		return ErrInvalidInput
	}
	if req.FileData == "" && req.FileName != "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidateProjectInput validates fields required to create a project.
func ValidateProjectInput(req CreateProjectRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

func validDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func validQuantity(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
