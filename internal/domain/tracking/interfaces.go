package tracking

import "context"

// SlotStore persists whole collections under fixed slot names.
type SlotStore interface {
	// Decode reads slot into dst. It fails when the slot is empty or
	// malformed and leaves dst untouched in that case.
	Decode(ctx context.Context, slot string, dst any) error
	Save(ctx context.Context, slot string, v any) error
	Clear(ctx context.Context, slot string) error
}
