package app

import (
	"context"
	"fmt"
	"sort"

	"rateadmin/internal/domain"
)

// Reconciler tracks the selected rate-plan codes for one open hotel panel:
// baseline is the last persisted set, working is the user-editable copy.
// Only Save is allowed to touch baseline, and only after the store accepted
// the write. One Reconciler serves exactly one entity at a time; panels never
// share one.
type Reconciler struct {
	store    domain.PlanCodeStore
	entity   domain.EntityID
	baseline map[string]struct{}
	working  map[string]struct{}
}

func NewReconciler(store domain.PlanCodeStore) *Reconciler {
	return &Reconciler{store: store}
}

// Open reads the persisted codes for id and initializes both sets from them.
func (r *Reconciler) Open(ctx context.Context, id domain.EntityID) error {
	if id.IsZero() {
		return domain.ErrBadEntity
	}
	codes, err := r.store.ReadPlanCodes(ctx, id)
	if err != nil {
		return fmt.Errorf("read plan codes for %s: %w", id, err)
	}
	r.Initialize(id, codes)
	return nil
}

// Initialize resets both sets from persisted. Re-initializing an already open
// panel discards unsaved edits: working is always a fresh copy, never a merge.
func (r *Reconciler) Initialize(id domain.EntityID, persisted []string) {
	r.entity = id
	r.baseline = toSet(persisted)
	r.working = toSet(persisted)
}

// Toggle flips membership of code in the working set. Toggling twice is the
// identity.
func (r *Reconciler) Toggle(code string) {
	if r.working == nil {
		r.working = map[string]struct{}{}
	}
	if _, ok := r.working[code]; ok {
		delete(r.working, code)
	} else {
		r.working[code] = struct{}{}
	}
}

// ReplaceAll overwrites the working set wholesale (select-all and suggestion
// flows).
func (r *Reconciler) ReplaceAll(codes []string) {
	r.working = toSet(codes)
}

// Save persists the working set. On success baseline collapses onto working;
// on failure neither set changes and the error surfaces, so edits are never
// silently lost or half-applied.
func (r *Reconciler) Save(ctx context.Context) error {
	if r.entity.IsZero() {
		return domain.ErrBadEntity
	}
	if err := r.store.WritePlanCodes(ctx, r.entity, r.Working()); err != nil {
		return fmt.Errorf("save plan codes for %s: %w", r.entity, err)
	}
	r.baseline = copySet(r.working)
	return nil
}

// IsPersisted reports membership in baseline only. This is a display
// projection (the "persisted" indicator); it must not feed back into Toggle
// or Save.
func (r *Reconciler) IsPersisted(code string) bool {
	_, ok := r.baseline[code]
	return ok
}

// Working returns the working codes sorted for deterministic output.
func (r *Reconciler) Working() []string { return fromSet(r.working) }

// Baseline returns the persisted codes sorted.
func (r *Reconciler) Baseline() []string { return fromSet(r.baseline) }

// Dirty reports whether working differs from baseline.
func (r *Reconciler) Dirty() bool {
	if len(r.working) != len(r.baseline) {
		return true
	}
	for c := range r.working {
		if _, ok := r.baseline[c]; !ok {
			return true
		}
	}
	return false
}

func toSet(codes []string) map[string]struct{} {
	s := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func fromSet(in map[string]struct{}) []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
