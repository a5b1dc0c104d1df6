// Package slots persists whole collections as JSON documents under fixed
// slot names. A slot is read and written in full; there are no partial
// updates and no transactions across slots.
package slots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/rpggio/byggkoll/internal/repository"
)

// Slot names. They are part of the on-disk format and must not change.
const (
	Session   = "bygg_session"
	Projects  = "bygg_projects"
	Workers   = "bygg_workers"
	Entries   = "bygg_entries"
	Materials = "bygg_materials"
)

// All lists every slot, session first.
var All = []string{Session, Projects, Workers, Entries, Materials}

// ErrEmpty indicates the slot holds nothing (absent or JSON null).
var ErrEmpty = errors.New("slot is empty")

// Backend stores raw slot payloads. Get returns repository.ErrNotFound for an
// absent slot.
type Backend interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}

// Adapter encodes collections to JSON on top of a Backend.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// NewAdapter creates an adapter over backend.
func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{backend: backend, logger: logger}
}

// Decode reads slot into dst, which must be a non-nil pointer. Decoding goes
// through a fresh value so a malformed payload never leaves dst half filled.
func (a *Adapter) Decode(ctx context.Context, slot string, dst any) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("decode %s: destination must be a non-nil pointer", slot)
	}

	data, err := a.backend.Get(ctx, slot)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEmpty
	}
	if err != nil {
		a.logger.Warn("slot read failed", "slot", slot, "error", err)
		return fmt.Errorf("read %s: %w", slot, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmpty
	}

	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(trimmed, fresh.Interface()); err != nil {
		a.logger.Warn("malformed slot ignored", "slot", slot, "error", err)
		return fmt.Errorf("decode %s: %w", slot, err)
	}
	target.Elem().Set(fresh.Elem())
	return nil
}

// Save writes v as the full content of slot.
func (a *Adapter) Save(ctx context.Context, slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	if err := a.backend.Put(ctx, slot, data); err != nil {
		return fmt.Errorf("write %s: %w", slot, err)
	}
	return nil
}

// Clear removes slot. Clearing an absent slot is not an error.
func (a *Adapter) Clear(ctx context.Context, slot string) error {
	if err := a.backend.Delete(ctx, slot); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("clear %s: %w", slot, err)
	}
	return nil
}

// Decoder is the read side of Adapter.
type Decoder interface {
	Decode(ctx context.Context, slot string, dst any) error
}

// Load returns the decoded content of slot, or def when the slot is empty or
// cannot be decoded. It never fails.
func Load[T any](ctx context.Context, d Decoder, slot string, def T) T {
	var v T
	if err := d.Decode(ctx, slot, &v); err != nil {
		return def
	}
	return v
}
