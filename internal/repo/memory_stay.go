package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// MemoryStayRepo is an in-process StayRepo with the same semantics as the
// MongoDB store: ObjectID hex identifiers, top-level $set updates and
// natural (insertion) order. Stays are copied in and out so callers never
// share slices with the store.
type MemoryStayRepo struct {
	mu    sync.RWMutex
	stays map[string]domain.Stay
	order []string
}

// NewMemoryStayRepo returns an empty in-memory store.
func NewMemoryStayRepo() *MemoryStayRepo {
	return &MemoryStayRepo{stays: make(map[string]domain.Stay)}
}

var _ StayRepo = (*MemoryStayRepo)(nil)

func (r *MemoryStayRepo) List(_ context.Context, f domain.StayFilter) ([]domain.Stay, int64, error) {
	f = f.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		total int64
		skip  = f.Offset()
		page  = []domain.Stay{}
	)
	for _, id := range r.order {
		s := r.stays[id]
		if !MatchStay(f, s) {
			continue
		}
		total++
		if skip > 0 {
			skip--
			continue
		}
		if len(page) < domain.StayPageSize {
			page = append(page, cloneStay(s))
		}
	}
	return page, total, nil
}

func (r *MemoryStayRepo) GetByID(_ context.Context, id string) (domain.Stay, error) {
	if _, err := parseObjectID(id); err != nil {
		return domain.Stay{}, fmt.Errorf("repo.MemoryStayRepo.GetByID: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stays[id]
	if !ok {
		return domain.Stay{}, fmt.Errorf("repo.MemoryStayRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneStay(s), nil
}

func (r *MemoryStayRepo) Create(_ context.Context, stay domain.Stay) (domain.Stay, error) {
	stay = cloneStay(stay)
	stay.ID = primitive.NewObjectID().Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stays[stay.ID] = stay
	r.order = append(r.order, stay.ID)
	return cloneStay(stay), nil
}

func (r *MemoryStayRepo) Update(_ context.Context, stay domain.Stay, fields []string) error {
	if _, err := parseObjectID(stay.ID); err != nil {
		return fmt.Errorf("repo.MemoryStayRepo.Update: %w", err)
	}
	patch, err := jsonPatch(stay, fields)
	if err != nil {
		return fmt.Errorf("repo.MemoryStayRepo.Update: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.stays[stay.ID]
	if !ok {
		return nil
	}
	merged, err := mergePatch(current, patch)
	if err != nil {
		return fmt.Errorf("repo.MemoryStayRepo.Update: %w", err)
	}
	r.stays[stay.ID] = merged
	return nil
}

func (r *MemoryStayRepo) Delete(_ context.Context, id string) error {
	if _, err := parseObjectID(id); err != nil {
		return fmt.Errorf("repo.MemoryStayRepo.Delete: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stays[id]; !ok {
		return nil
	}
	delete(r.stays, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *MemoryStayRepo) PushMessage(_ context.Context, stayID string, msg domain.Message) error {
	if _, err := parseObjectID(stayID); err != nil {
		return fmt.Errorf("repo.MemoryStayRepo.PushMessage: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stays[stayID]
	if !ok {
		return nil
	}
	s.Msgs = append(slices.Clone(s.Msgs), cloneMessage(msg))
	r.stays[stayID] = s
	return nil
}

func (r *MemoryStayRepo) PullMessage(_ context.Context, stayID, msgID string) error {
	if _, err := parseObjectID(stayID); err != nil {
		return fmt.Errorf("repo.MemoryStayRepo.PullMessage: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stays[stayID]
	if !ok {
		return nil
	}
	i := slices.IndexFunc(s.Msgs, func(m domain.Message) bool { return m.ID == msgID })
	if i < 0 {
		return nil
	}
	s.Msgs = slices.Delete(slices.Clone(s.Msgs), i, i+1)
	r.stays[stayID] = s
	return nil
}

// MatchStay reports whether s satisfies every clause of f.
func MatchStay(f domain.StayFilter, s domain.Stay) bool {
	f = f.Normalize()

	if f.Name != "" && !containsFold(s.Name, f.Name) {
		return false
	}
	if f.Type != "" && !containsFold(s.Type, f.Type) {
		return false
	}
	if len(f.Amenities) > 0 && !anyContainsFold(s.Amenities, f.Amenities) {
		return false
	}
	if len(f.RoomTypes) > 0 && !slices.ContainsFunc(s.RoomTypes, func(rt domain.RoomType) bool {
		return slices.Contains(f.RoomTypes, rt.Title)
	}) {
		return false
	}
	if lo, hi, ok := f.PriceRange(); ok && (s.Price < lo || s.Price > hi) {
		return false
	}
	if f.Destination != "" && (s.Loc == nil || !containsFold(s.Loc.Country, f.Destination)) {
		return false
	}
	if len(f.PropertyTypes) > 0 && !slices.Contains(f.PropertyTypes, s.PropertyType) {
		return false
	}
	return atLeast(s.Capacity, f.Guests) &&
		atLeast(s.Bathrooms, f.Bathrooms) &&
		atLeast(s.Bedrooms, f.Bedrooms) &&
		atLeast(s.Beds, f.Beds)
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

func anyContainsFold(values, terms []string) bool {
	for _, v := range values {
		for _, t := range terms {
			if containsFold(v, t) {
				return true
			}
		}
	}
	return false
}

func atLeast(v int, lower *int) bool {
	return lower == nil || v >= *lower
}

// mergePatch overlays patch onto the top-level fields of s.
func mergePatch(s domain.Stay, patch map[string]any) (domain.Stay, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return domain.Stay{}, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Stay{}, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	if raw, err = json.Marshal(doc); err != nil {
		return domain.Stay{}, err
	}
	var merged domain.Stay
	if err := json.Unmarshal(raw, &merged); err != nil {
		return domain.Stay{}, err
	}
	merged.ID = s.ID
	return merged, nil
}

func cloneStay(s domain.Stay) domain.Stay {
	s.ImgURLs = slices.Clone(s.ImgURLs)
	s.Amenities = slices.Clone(s.Amenities)
	s.RoomTypes = slices.Clone(s.RoomTypes)
	if s.Loc != nil {
		loc := *s.Loc
		s.Loc = &loc
	}
	if s.Host != nil {
		host := *s.Host
		s.Host = &host
	}
	if s.Msgs != nil {
		msgs := make([]domain.Message, len(s.Msgs))
		for i, m := range s.Msgs {
			msgs[i] = cloneMessage(m)
		}
		s.Msgs = msgs
	}
	return s
}

func cloneMessage(m domain.Message) domain.Message {
	if m.By != nil {
		by := *m.By
		m.By = &by
	}
	return m
}
