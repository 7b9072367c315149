package access

import (
	"errors"
	"testing"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

func cfg(visibility, code string) domain.InviteConfig {
	return domain.InviteConfig{VisibilityType: visibility, InviteCode: code}
}

func TestCheck_Precedence(t *testing.T) {
	cases := []struct {
		name     string
		callerID string
		ownerID  string
		cfg      domain.InviteConfig
		code     string
		allow    bool
	}{
		{"owner bypasses private with no code", "u1", "u1", cfg(domain.VisibilityPrivate, "KF-AB23-CD45"), "", true},
		{"owner bypasses link-only with wrong code", "u1", "u1", cfg(domain.VisibilityLinkOnly, "KF-AB23-CD45"), "WRONG", true},
		{"public allows anonymous without code", "", "u1", cfg(domain.VisibilityPublic, ""), "", true},
		{"public allows non-owner", "u2", "u1", cfg(domain.VisibilityPublic, ""), "", true},
		{"private denies anonymous without code", "", "u1", cfg(domain.VisibilityPrivate, "KF-AB23-CD45"), "", false},
		{"private denies wrong code", "u2", "u1", cfg(domain.VisibilityPrivate, "KF-AB23-CD45"), "KF-XXXX-XXXX", false},
		{"private allows correct code", "u2", "u1", cfg(domain.VisibilityPrivate, "KF-AB23-CD45"), "KF-AB23-CD45", true},
		{"link-only allows correct code anonymously", "", "u1", cfg(domain.VisibilityLinkOnly, "KF-AB23-CD45"), "KF-AB23-CD45", true},
		{"link-only denies missing code", "u2", "u1", cfg(domain.VisibilityLinkOnly, "KF-AB23-CD45"), "", false},
		{"empty supplied never matches empty stored", "", "u1", cfg(domain.VisibilityPrivate, ""), "", false},
		{"whitespace-only code is empty", "", "u1", cfg(domain.VisibilityPrivate, ""), "   ", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.callerID, tc.ownerID, tc.cfg, tc.code)
			if tc.allow && err != nil {
				t.Errorf("expected allow, got %v", err)
			}
			if !tc.allow {
				if err == nil {
					t.Fatal("expected deny, got allow")
				}
				if !errors.Is(err, ErrForbidden) {
					t.Errorf("deny must be ErrForbidden, got %v", err)
				}
			}
		})
	}
}

func TestCheck_CodeNormalization(t *testing.T) {
	stored := cfg(domain.VisibilityLinkOnly, "KF-AB12-CD34")

	for _, supplied := range []string{"KF-AB12-CD34", " kf-ab12-cd34 ", "kf-AB12-cd34", "\tKF-AB12-CD34\n"} {
		if err := Check("", "owner", stored, supplied); err != nil {
			t.Errorf("code %q should match after normalization, got %v", supplied, err)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode(" kf-ab12-cd34 "); got != "KF-AB12-CD34" {
		t.Errorf("NormalizeCode = %q", got)
	}
	if got := NormalizeCode("KF-AB12-CD34"); got != "KF-AB12-CD34" {
		t.Errorf("NormalizeCode should be stable, got %q", got)
	}
}

func TestAllowed(t *testing.T) {
	if !Allowed("u1", "u1", cfg(domain.VisibilityPrivate, "KF-AB23-CD45"), "") {
		t.Error("owner should be allowed")
	}
	if Allowed("u2", "u1", cfg(domain.VisibilityPrivate, "KF-AB23-CD45"), "") {
		t.Error("non-owner without code should be denied")
	}
}
