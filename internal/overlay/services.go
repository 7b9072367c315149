package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// Services overlays admin edits onto the static services catalog. A service
// with no records projects to its catalog definition: catalog title and
// order, no image, active.
type Services struct {
	log LogStore
}

func NewServices(log LogStore) *Services {
	return &Services{log: log}
}

type servicePatch struct {
	title     *string
	imageURL  *string
	imageSet  bool
	isActive  *bool
	sortOrder *int
}

func decodeServicePatch(payload json.RawMessage) servicePatch {
	fields := payloadFields(payload)
	var p servicePatch
	if title, ok := stringField(fields, "title"); ok {
		p.title = &title
	}
	p.imageURL, p.imageSet = nullableStringField(fields, "imageUrl")
	if active, ok := boolField(fields, "isActive"); ok {
		p.isActive = &active
	}
	if order, ok := intField(fields, "sortOrder"); ok {
		p.sortOrder = &order
	}
	return p
}

func mergeService(def ServiceDefinition, rec *domain.Record) domain.ServiceItem {
	item := domain.ServiceItem{
		ID:        def.ID,
		Title:     def.Title,
		IsActive:  true,
		SortOrder: def.SortOrder,
	}
	if rec == nil {
		return item
	}

	patch := decodeServicePatch(rec.Payload)
	if patch.title != nil {
		item.Title = *patch.title
	}
	if patch.imageSet {
		item.ImageURL = patch.imageURL
	}
	if patch.isActive != nil {
		item.IsActive = *patch.isActive
	}
	if patch.sortOrder != nil {
		item.SortOrder = *patch.sortOrder
	}
	createdAt := rec.CreatedAt
	item.UpdatedAt = &createdAt
	return item
}

// List returns the full catalog with overlay edits applied, sorted by
// (sortOrder, title). Inactive services are filtered out unless requested.
func (s *Services) List(ctx context.Context, includeInactive bool) ([]domain.ServiceItem, error) {
	records, err := s.log.QueryActivities(ctx, domain.RecordServiceUpdated, domain.EntityService, nil)
	if err != nil {
		return nil, fmt.Errorf("loading service updates: %w", err)
	}
	latest := Latest(records)

	items := make([]domain.ServiceItem, 0, len(serviceDefinitions))
	for _, def := range serviceDefinitions {
		var rec *domain.Record
		if r, ok := latest[def.ID]; ok {
			rec = &r
		}
		item := mergeService(def, rec)
		if !includeInactive && !item.IsActive {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].Title < items[j].Title
	})
	return items, nil
}

// Get returns one service with overlay edits applied, regardless of its
// active flag. ok is false for ids not in the catalog.
func (s *Services) Get(ctx context.Context, id string) (domain.ServiceItem, bool, error) {
	def, ok := ServiceDefinitionByID(id)
	if !ok {
		return domain.ServiceItem{}, false, nil
	}

	records, err := s.log.QueryActivities(ctx, domain.RecordServiceUpdated, domain.EntityService, []string{id})
	if err != nil {
		return domain.ServiceItem{}, false, fmt.Errorf("loading service updates: %w", err)
	}

	var rec *domain.Record
	if r, ok := Latest(records)[id]; ok {
		rec = &r
	}
	return mergeService(def, rec), true, nil
}

// Update applies a partial update with PATCH semantics: fields the request
// leaves unset are carried over from the current projected value, not the
// catalog default, and the merged result is appended as a complete payload.
func (s *Services) Update(ctx context.Context, actorID *string, id string, req domain.UpdateServiceRequest) (domain.ServiceItem, bool, error) {
	current, ok, err := s.Get(ctx, id)
	if err != nil || !ok {
		return domain.ServiceItem{}, ok, err
	}

	next := current
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.ClearImage {
		next.ImageURL = nil
	} else if req.ImageURL != nil {
		next.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		next.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		next.SortOrder = *req.SortOrder
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title":     next.Title,
		"imageUrl":  next.ImageURL,
		"isActive":  next.IsActive,
		"sortOrder": next.SortOrder,
	})
	if err != nil {
		return domain.ServiceItem{}, false, fmt.Errorf("encoding service payload: %w", err)
	}

	rec, err := s.log.AppendActivity(ctx, store.ActivityInput{
		ActorID:    actorID,
		RecordType: domain.RecordServiceUpdated,
		EntityType: domain.EntityService,
		EntityID:   id,
		Payload:    payload,
	})
	if err != nil {
		return domain.ServiceItem{}, false, fmt.Errorf("appending service record: %w", err)
	}

	createdAt := rec.CreatedAt
	next.UpdatedAt = &createdAt
	return next, true, nil
}
