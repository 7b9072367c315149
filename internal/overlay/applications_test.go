package overlay

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func submitTestApplication(t *testing.T, apps *Applications, vendor string) *domain.VendorApplication {
	t.Helper()
	app, err := apps.Submit(context.Background(), domain.SubmitApplicationRequest{
		VendorName:   vendor,
		ContactEmail: "vendor@example.com",
		ContactPhone: "+254700123456",
		BusinessType: "Coffin/Casket Dealers",
		Description:  "Handmade caskets and urns",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return app
}

func TestApplications_SubmitProjectsPending(t *testing.T) {
	log := newMemLog()
	apps := NewApplications(log, testLogger())

	app := submitTestApplication(t, apps, "Mombasa Caskets")

	if app.ID == "" {
		t.Fatal("expected a generated application id")
	}
	if app.Status != domain.ApplicationPending {
		t.Errorf("expected PENDING, got %s", app.Status)
	}

	got, err := apps.Get(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("submitted application not found")
	}
	if got.VendorName != "Mombasa Caskets" || got.Status != domain.ApplicationPending {
		t.Errorf("unexpected projection: %+v", got)
	}
}

func TestApplications_LatestReviewWins(t *testing.T) {
	log := newMemLog()
	apps := NewApplications(log, testLogger())
	ctx := context.Background()

	app := submitTestApplication(t, apps, "Mombasa Caskets")
	log.advance(time.Second)

	if _, err := apps.Review(ctx, nil, app.ID, domain.ReviewApplicationRequest{
		Status: domain.ApplicationApproved,
		Note:   "looks good",
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	log.advance(time.Second)

	if _, err := apps.Review(ctx, nil, app.ID, domain.ReviewApplicationRequest{
		Status: domain.ApplicationRejected,
		Note:   "failed verification call",
	}); err != nil {
		t.Fatalf("second review: %v", err)
	}

	got, err := apps.Get(ctx, app.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != domain.ApplicationRejected {
		t.Errorf("expected REJECTED to win, got %s", got.Status)
	}
	if got.ReviewNote != "failed verification call" {
		t.Errorf("expected the rejecting note, got %q", got.ReviewNote)
	}
}

func TestApplications_ReviewUnknownID(t *testing.T) {
	apps := NewApplications(newMemLog(), testLogger())

	got, err := apps.Review(context.Background(), nil, "missing", domain.ReviewApplicationRequest{
		Status: domain.ApplicationApproved,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("review of unknown application should return nil")
	}
}

func TestApplications_CorruptSubmissionDropped(t *testing.T) {
	log := newMemLog()
	apps := NewApplications(log, testLogger())
	ctx := context.Background()

	submitTestApplication(t, apps, "Mombasa Caskets")
	log.advance(time.Second)
	// Foreign or corrupt payloads: missing required fields, wrong shapes.
	log.appendRaw(domain.RecordApplicationSubmitted, domain.EntityApplication, "app-corrupt-1", `{"vendorName": 42}`)
	log.appendRaw(domain.RecordApplicationSubmitted, domain.EntityApplication, "app-corrupt-2", `{"contactEmail": "x@y.com"}`)
	log.appendRaw(domain.RecordApplicationSubmitted, domain.EntityApplication, "app-corrupt-3", `not json`)

	list, err := apps.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected only the valid application, got %d", len(list))
	}
	if list[0].VendorName != "Mombasa Caskets" {
		t.Errorf("unexpected survivor: %+v", list[0])
	}
}

func TestApplications_ListNewestFirst(t *testing.T) {
	log := newMemLog()
	apps := NewApplications(log, testLogger())

	submitTestApplication(t, apps, "First Vendor")
	log.advance(time.Second)
	submitTestApplication(t, apps, "Second Vendor")

	list, err := apps.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(list))
	}
	if list[0].VendorName != "Second Vendor" {
		t.Errorf("expected newest submission first, got %s", list[0].VendorName)
	}
}
