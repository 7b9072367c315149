package overlay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// InviteConfigs overlays visibility and invite-code state onto fundraisers.
// A fundraiser with no config record projects to PUBLIC with no code.
type InviteConfigs struct {
	log LogStore
}

func NewInviteConfigs(log LogStore) *InviteConfigs {
	return &InviteConfigs{log: log}
}

func defaultInviteConfig() domain.InviteConfig {
	return domain.InviteConfig{VisibilityType: domain.VisibilityPublic, InviteCode: ""}
}

func decodeInviteConfig(payload json.RawMessage) domain.InviteConfig {
	fields := payloadFields(payload)
	cfg := defaultInviteConfig()
	if visibility, ok := stringField(fields, "visibilityType"); ok && domain.ValidVisibility(visibility) {
		cfg.VisibilityType = visibility
	}
	if code, ok := stringField(fields, "inviteCode"); ok {
		cfg.InviteCode = code
	}
	return cfg
}

// GetOne returns the current invite configuration of a fundraiser.
func (c *InviteConfigs) GetOne(ctx context.Context, fundraiserID string) (domain.InviteConfig, error) {
	records, err := c.log.QueryActivities(ctx, domain.RecordInviteConfigUpdated, domain.EntityFundraiser, []string{fundraiserID})
	if err != nil {
		return domain.InviteConfig{}, fmt.Errorf("loading invite config: %w", err)
	}
	rec, ok := Latest(records)[fundraiserID]
	if !ok {
		return defaultInviteConfig(), nil
	}
	return decodeInviteConfig(rec.Payload), nil
}

// GetMany returns the current invite configuration per fundraiser id in one
// query. Every requested id gets an entry; absent records yield the default.
func (c *InviteConfigs) GetMany(ctx context.Context, fundraiserIDs []string) (map[string]domain.InviteConfig, error) {
	configs := make(map[string]domain.InviteConfig, len(fundraiserIDs))
	for _, id := range fundraiserIDs {
		configs[id] = defaultInviteConfig()
	}
	if len(fundraiserIDs) == 0 {
		return configs, nil
	}

	records, err := c.log.QueryActivities(ctx, domain.RecordInviteConfigUpdated, domain.EntityFundraiser, fundraiserIDs)
	if err != nil {
		return nil, fmt.Errorf("loading invite configs: %w", err)
	}
	for id, rec := range Latest(records) {
		configs[id] = decodeInviteConfig(rec.Payload)
	}
	return configs, nil
}

// Set appends a new invite configuration record for the fundraiser.
func (c *InviteConfigs) Set(ctx context.Context, actorID *string, fundraiserID string, cfg domain.InviteConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding invite config: %w", err)
	}

	_, err = c.log.AppendActivity(ctx, store.ActivityInput{
		ActorID:    actorID,
		RecordType: domain.RecordInviteConfigUpdated,
		EntityType: domain.EntityFundraiser,
		EntityID:   fundraiserID,
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("appending invite config: %w", err)
	}
	return nil
}
