package tracking

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rpggio/byggkoll/internal/slots"
)

// Defaults are the collections used when a slot is empty or unreadable.
type Defaults struct {
	Projects []Project
	Workers  []Worker
}

// Option customizes a Store.
type Option func(*Store)

// WithIDFunc replaces the identifier generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithDefaults sets the fallback project and worker lists.
func WithDefaults(d Defaults) Option {
	return func(s *Store) { s.defaults = d }
}

// Store is the in-memory source of truth for one storage scope. Every
// mutation swaps in a new slice and writes the whole collection back to its
// slot. A failed write keeps the in-memory change and returns a *PersistError.
type Store struct {
	mu       sync.RWMutex
	slots    SlotStore
	logger   *slog.Logger
	newID    func() string
	defaults Defaults

	user      *User
	projects  []Project
	workers   []Worker
	entries   []TimeEntry
	materials []MaterialCost
}

// NewStore creates a store and loads every slot.
func NewStore(ctx context.Context, store SlotStore, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		slots:  store,
		logger: logger,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload(ctx)
	return s
}

// CreateEntryRequest is a time entry without an id.
type CreateEntryRequest struct {
	Date        string
	ProjectID   string
	Hours       float64
	WorkType    WorkType
	Description string
	WorkerName  string
}

// EntryPatch lists the time entry fields to replace. Nil fields are kept.
type EntryPatch struct {
	Date        *string
	ProjectID   *string
	Hours       *float64
	WorkType    *WorkType
	Description *string
	WorkerName  *string
}

// CreateMaterialRequest is a material cost without an id.
type CreateMaterialRequest struct {
	ProjectID   string
	Date        string
	Description string
	Amount      float64
	WorkerName  string
	FileName    string
	FileData    string
}

// CreateProjectRequest is a project without an id.
type CreateProjectRequest struct {
	Code     string
	Name     string
	Client   string
	Location string
}

// Reload replaces every in-memory collection with what storage holds now.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = slots.Load[*User](ctx, s.slots, slots.Session, nil)
	s.projects = orEmpty(slots.Load(ctx, s.slots, slots.Projects, slices.Clone(s.defaults.Projects)))
	s.workers = orEmpty(slots.Load(ctx, s.slots, slots.Workers, slices.Clone(s.defaults.Workers)))
	s.entries = orEmpty(slots.Load(ctx, s.slots, slots.Entries, []TimeEntry{}))
	s.materials = orEmpty(slots.Load(ctx, s.slots, slots.Materials, []MaterialCost{}))

	s.logger.Debug("collections loaded",
		"projects", len(s.projects),
		"workers", len(s.workers),
		"entries", len(s.entries),
		"materials", len(s.materials),
		"logged_in", s.user != nil,
	)
}

// AddEntry prepends a new time entry.
func (s *Store) AddEntry(ctx context.Context, req CreateEntryRequest) (TimeEntry, error) {
	if err := ValidateEntryInput(req); err != nil {
		return TimeEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := TimeEntry{
		ID:          s.newID(),
		Date:        req.Date,
		ProjectID:   req.ProjectID,
		Hours:       req.Hours,
		WorkType:    req.WorkType,
		Description: req.Description,
		WorkerName:  req.WorkerName,
	}
	s.entries = prepend(s.entries, entry)
	return entry, s.persist(ctx, slots.Entries, s.entries)
}

// UpdateEntry applies patch to the entry with id. It reports false and
// leaves the collection alone when no entry matches.
func (s *Store) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (TimeEntry, bool, error) {
	if err := ValidateEntryPatch(patch); err != nil {
		return TimeEntry{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.entries, func(e TimeEntry) bool { return e.ID == id })
	if idx < 0 {
		return TimeEntry{}, false, nil
	}

	updated := s.entries[idx]
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.ProjectID != nil {
		updated.ProjectID = *patch.ProjectID
	}
	if patch.Hours != nil {
		updated.Hours = *patch.Hours
	}
	if patch.WorkType != nil {
		updated.WorkType = *patch.WorkType
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.WorkerName != nil {
		updated.WorkerName = *patch.WorkerName
	}

	next := slices.Clone(s.entries)
	next[idx] = updated
	s.entries = next
	return updated, true, s.persist(ctx, slots.Entries, s.entries)
}

// DeleteEntry removes the entry with id, reporting whether one matched.
func (s *Store) DeleteEntry(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := without(s.entries, func(e TimeEntry) bool { return e.ID == id })
	if !removed {
		return false, nil
	}
	s.entries = next
	return true, s.persist(ctx, slots.Entries, s.entries)
}

// AddMaterial prepends a new material cost.
func (s *Store) AddMaterial(ctx context.Context, req CreateMaterialRequest) (MaterialCost, error) {
	if err := ValidateMaterialInput(req); err != nil {
		return MaterialCost{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cost := MaterialCost{
		ID:          s.newID(),
		ProjectID:   req.ProjectID,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		WorkerName:  req.WorkerName,
		FileName:    req.FileName,
		FileData:    req.FileData,
	}
	s.materials = prepend(s.materials, cost)
	return cost, s.persist(ctx, slots.Materials, s.materials)
}

// DeleteMaterial removes the material cost with id.
func (s *Store) DeleteMaterial(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := without(s.materials, func(m MaterialCost) bool { return m.ID == id })
	if !removed {
		return false, nil
	}
	s.materials = next
	return true, s.persist(ctx, slots.Materials, s.materials)
}

// AddProject appends a new project.
func (s *Store) AddProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	if err := ValidateProjectInput(req); err != nil {
		return Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proj := Project{
		ID:       s.newID(),
		Code:     req.Code,
		Name:     req.Name,
		Client:   req.Client,
		Location: req.Location,
	}
	s.projects = append(slices.Clip(s.projects), proj)
	return proj, s.persist(ctx, slots.Projects, s.projects)
}

// RemoveProject removes the project with id. Entries and materials that
// reference it are kept as they are.
func (s *Store) RemoveProject(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := without(s.projects, func(p Project) bool { return p.ID == id })
	if !removed {
		return false, nil
	}
	s.projects = next
	return true, s.persist(ctx, slots.Projects, s.projects)
}

// AddWorker appends a worker with the given name.
func (s *Store) AddWorker(ctx context.Context, name string) (Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Worker{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	worker := Worker{ID: s.newID(), Name: name}
	s.workers = append(slices.Clip(s.workers), worker)
	return worker, s.persist(ctx, slots.Workers, s.workers)
}

// RemoveWorker removes the worker with id. Reported names are untouched.
func (s *Store) RemoveWorker(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := without(s.workers, func(w Worker) bool { return w.ID == id })
	if !removed {
		return false, nil
	}
	s.workers = next
	return true, s.persist(ctx, slots.Workers, s.workers)
}

// SetCurrentUser starts a session for user, or ends it when user is nil.
func (s *Store) SetCurrentUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		s.user = nil
		if err := s.slots.Clear(ctx, slots.Session); err != nil {
			s.logger.Warn("session clear failed; logged out in memory only", "error", err)
			return &PersistError{Slot: slots.Session, Err: err}
		}
		return nil
	}
	return s.storeUser(ctx, *user)
}

// UpdateCurrentUser replaces the session user and writes it back.
func (s *Store) UpdateCurrentUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.storeUser(ctx, user)
}

func (s *Store) storeUser(ctx context.Context, user User) error {
	if user.ID == "" {
		user.ID = s.newID()
	}
	user.Password = ""
	s.user = &user
	return s.persist(ctx, slots.Session, s.user)
}

// CurrentUser returns the session user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Projects returns the project list.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// Workers returns the worker list.
func (s *Store) Workers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.workers)
}

// Entries returns the time entries, newest first.
func (s *Store) Entries() []TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Materials returns the material costs, newest first.
func (s *Store) Materials() []MaterialCost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.materials)
}

// Snapshot copies every collection under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Projects:  slices.Clone(s.projects),
		Workers:   slices.Clone(s.workers),
		Entries:   slices.Clone(s.entries),
		Materials: slices.Clone(s.materials),
	}
}

// Project looks up a project by id.
func (s *Store) Project(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.projects, func(p Project) bool { return p.ID == id })
}

// Entry looks up a time entry by id.
func (s *Store) Entry(id string) (TimeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.entries, func(e TimeEntry) bool { return e.ID == id })
}

// Material looks up a material cost by id.
func (s *Store) Material(id string) (MaterialCost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.materials, func(m MaterialCost) bool { return m.ID == id })
}

func (s *Store) persist(ctx context.Context, slot string, v any) error {
	if err := s.slots.Save(ctx, slot, v); err != nil {
		s.logger.Warn("slot write failed; change kept in memory", "slot", slot, "error", err)
		return &PersistError{Slot: slot, Err: err}
	}
	return nil
}

func prepend[T any](list []T, item T) []T {
	next := make([]T, 0, len(list)+1)
	next = append(next, item)
	return append(next, list...)
}

func without[T any](list []T, match func(T) bool) ([]T, bool) {
	if !slices.ContainsFunc(list, match) {
		return list, false
	}
	next := make([]T, 0, len(list)-1)
	for _, item := range list {
		if !match(item) {
			next = append(next, item)
		}
	}
	return next, true
}

func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func find[T any](list []T, match func(T) bool) (T, bool) {
	if idx := slices.IndexFunc(list, match); idx >= 0 {
		return list[idx], true
	}
	var zero T
	return zero, false
}
