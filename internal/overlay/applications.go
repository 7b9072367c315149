package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// Applications manages vendor applications, which exist only in the log: a
// submission record defines the application, and status records carry the
// review workflow. No relational row backs an application id.
type Applications struct {
	log    LogStore
	logger *slog.Logger
}

func NewApplications(log LogStore, logger *slog.Logger) *Applications {
	return &Applications{log: log, logger: logger}
}

type submittedPayload struct {
	VendorName   string `json:"vendorName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone,omitempty"`
	BusinessType string `json:"businessType"`
	Description  string `json:"description"`
	Status       string `json:"status"`
}

type statusPayload struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// decodeSubmission rejects payloads missing the fields an application cannot
// exist without. Anything else in the payload is ignored.
func decodeSubmission(payload json.RawMessage) (submittedPayload, bool) {
	fields := payloadFields(payload)
	if fields == nil {
		return submittedPayload{}, false
	}
	var p submittedPayload
	var ok bool
	if p.VendorName, ok = stringField(fields, "vendorName"); !ok || p.VendorName == "" {
		return submittedPayload{}, false
	}
	if p.ContactEmail, ok = stringField(fields, "contactEmail"); !ok || p.ContactEmail == "" {
		return submittedPayload{}, false
	}
	p.ContactPhone, _ = stringField(fields, "contactPhone")
	p.BusinessType, _ = stringField(fields, "businessType")
	p.Description, _ = stringField(fields, "description")
	return p, true
}

func decodeStatus(payload json.RawMessage) (statusPayload, bool) {
	fields := payloadFields(payload)
	if fields == nil {
		return statusPayload{}, false
	}
	var p statusPayload
	status, ok := stringField(fields, "status")
	if !ok || !domain.ValidApplicationStatus(status) {
		return statusPayload{}, false
	}
	p.Status = status
	p.Note, _ = stringField(fields, "note")
	return p, true
}

// Submit mints an application id, appends the submission record and returns
// the projected application (status PENDING).
func (a *Applications) Submit(ctx context.Context, req domain.SubmitApplicationRequest) (*domain.VendorApplication, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(submittedPayload{
		VendorName:   strings.TrimSpace(req.VendorName),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		BusinessType: strings.TrimSpace(req.BusinessType),
		Description:  strings.TrimSpace(req.Description),
		Status:       domain.ApplicationPending,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding application payload: %w", err)
	}

	rec, err := a.log.AppendActivity(ctx, store.ActivityInput{
		RecordType: domain.RecordApplicationSubmitted,
		EntityType: domain.EntityApplication,
		EntityID:   id,
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("appending application record: %w", err)
	}

	return &domain.VendorApplication{
		ID:           id,
		VendorName:   strings.TrimSpace(req.VendorName),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		BusinessType: strings.TrimSpace(req.BusinessType),
		Description:  strings.TrimSpace(req.Description),
		Status:       domain.ApplicationPending,
		SubmittedAt:  rec.CreatedAt,
	}, nil
}

// Get returns one application by joining its submission with the newest
// status record. Returns nil for unknown or undecodable ids.
func (a *Applications) Get(ctx context.Context, id string) (*domain.VendorApplication, error) {
	apps, err := a.list(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID == id {
			return &apps[i], nil
		}
	}
	return nil, nil
}

// List returns all applications, newest submission first.
func (a *Applications) List(ctx context.Context) ([]domain.VendorApplication, error) {
	return a.list(ctx, nil)
}

func (a *Applications) list(ctx context.Context, ids []string) ([]domain.VendorApplication, error) {
	submissions, err := a.log.QueryActivities(ctx, domain.RecordApplicationSubmitted, domain.EntityApplication, ids)
	if err != nil {
		return nil, fmt.Errorf("loading applications: %w", err)
	}
	reviews, err := a.log.QueryActivities(ctx, domain.RecordApplicationReviewed, domain.EntityApplication, ids)
	if err != nil {
		return nil, fmt.Errorf("loading application reviews: %w", err)
	}
	latestReview := Latest(reviews)

	apps := []domain.VendorApplication{}
	for id, rec := range Latest(submissions) {
		sub, ok := decodeSubmission(rec.Payload)
		if !ok {
			// Corrupt or foreign submission payloads are dropped from
			// listings; surface them to operators instead of failing reads.
			a.logger.Warn("dropping undecodable vendor application",
				"entity_id", id, "record_id", rec.ID)
			continue
		}

		app := domain.VendorApplication{
			ID:           id,
			VendorName:   sub.VendorName,
			ContactEmail: sub.ContactEmail,
			ContactPhone: sub.ContactPhone,
			BusinessType: sub.BusinessType,
			Description:  sub.Description,
			Status:       domain.ApplicationPending,
			SubmittedAt:  rec.CreatedAt,
		}
		if reviewRec, ok := latestReview[id]; ok {
			if review, ok := decodeStatus(reviewRec.Payload); ok {
				app.Status = review.Status
				app.ReviewNote = review.Note
				reviewedAt := reviewRec.CreatedAt
				app.ReviewedAt = &reviewedAt
			}
		}
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
	return apps, nil
}

// Review appends a status record for an existing application and returns the
// re-projected application. Returns nil when the application does not exist.
func (a *Applications) Review(ctx context.Context, actorID *string, id string, req domain.ReviewApplicationRequest) (*domain.VendorApplication, error) {
	app, err := a.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, nil
	}

	payload, err := json.Marshal(statusPayload{Status: req.Status, Note: strings.TrimSpace(req.Note)})
	if err != nil {
		return nil, fmt.Errorf("encoding review payload: %w", err)
	}

	rec, err := a.log.AppendActivity(ctx, store.ActivityInput{
		ActorID:    actorID,
		RecordType: domain.RecordApplicationReviewed,
		EntityType: domain.EntityApplication,
		EntityID:   id,
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("appending review record: %w", err)
	}

	app.Status = req.Status
	app.ReviewNote = strings.TrimSpace(req.Note)
	reviewedAt := rec.CreatedAt
	app.ReviewedAt = &reviewedAt
	return app, nil
}
