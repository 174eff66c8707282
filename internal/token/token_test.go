package token

import (
	"testing"
	"time"
)

func newTestIssuer(accessTTL time.Duration) *Issuer {
	return NewIssuer("test-secret", accessTTL, time.Hour)
}

func TestSignAndParse(t *testing.T) {
	issuer := newTestIssuer(time.Minute)

	pair, err := issuer.Sign("usr-001", "alice@example.com")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens should differ")
	}

	for _, tok := range []string{pair.AccessToken, pair.RefreshToken} {
		claims, err := issuer.Parse(tok)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if claims.UserID != "usr-001" {
			t.Errorf("UserID = %q, want %q", claims.UserID, "usr-001")
		}
		if claims.Email != "alice@example.com" {
			t.Errorf("Email = %q, want %q", claims.Email, "alice@example.com")
		}
		if claims.ID == "" {
			t.Error("expected a jti claim")
		}
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	pair, err := newTestIssuer(time.Minute).Sign("usr-001", "alice@example.com")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	other := NewIssuer("other-secret", time.Minute, time.Hour)
	if _, err := other.Parse(pair.AccessToken); err == nil {
		t.Error("expected parse to fail with a different secret")
	}
}

func TestDecide(t *testing.T) {
	live := newTestIssuer(time.Minute)
	expired := newTestIssuer(-time.Minute)

	livePair, err := live.Sign("usr-001", "alice@example.com")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	expiredPair, err := expired.Sign("usr-001", "alice@example.com")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tests := []struct {
		name          string
		accessToken   string
		refreshToken  string
		storedRefresh string
		want          Outcome
	}{
		{
			name:        "reissue - expired access with valid stored refresh",
			accessToken: expiredPair.AccessToken, refreshToken: expiredPair.RefreshToken,
			storedRefresh: expiredPair.RefreshToken,
			want:          Reissue,
		},
		{
			name:        "unnecessary - access token still valid",
			accessToken: livePair.AccessToken, refreshToken: livePair.RefreshToken,
			storedRefresh: livePair.RefreshToken,
			want:          Unnecessary,
		},
		{
			name:        "unauthorized - refresh does not match stored session",
			accessToken: expiredPair.AccessToken, refreshToken: expiredPair.RefreshToken,
			storedRefresh: livePair.RefreshToken,
			want:          Unauthorized,
		},
		{
			name:        "unauthorized - no stored session",
			accessToken: expiredPair.AccessToken, refreshToken: expiredPair.RefreshToken,
			storedRefresh: "",
			want:          Unauthorized,
		},
		{
			name:        "unauthorized - malformed refresh token",
			accessToken: expiredPair.AccessToken, refreshToken: "not-a-token",
			storedRefresh: "not-a-token",
			want:          Unauthorized,
		},
		{
			name:        "unauthorized - malformed access token",
			accessToken: "not-a-token", refreshToken: expiredPair.RefreshToken,
			storedRefresh: expiredPair.RefreshToken,
			want:          Unauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := live.Decide(tt.accessToken, tt.refreshToken, tt.storedRefresh)
			if decision.Outcome != tt.want {
				t.Fatalf("Outcome = %v, want %v", decision.Outcome, tt.want)
			}
			if tt.want == Reissue {
				if decision.AccessToken == "" {
					t.Fatal("expected a new access token")
				}
				claims, err := live.Parse(decision.AccessToken)
				if err != nil {
					t.Fatalf("reissued token does not parse: %v", err)
				}
				if claims.UserID != "usr-001" {
					t.Errorf("reissued UserID = %q, want %q", claims.UserID, "usr-001")
				}
			} else if decision.AccessToken != "" {
				t.Errorf("unexpected access token for outcome %v", tt.want)
			}
		})
	}
}
