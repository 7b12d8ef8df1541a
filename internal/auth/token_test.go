package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const testSecret = "test-secret"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueAndVerify(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0).UTC()
	tm := NewTokenManagerWithClock(testSecret, time.Hour, 0, fixedClock(issuedAt))

	token, expiresAt, err := tm.Issue("alice", domain.RoleUser, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got, want := expiresAt, issuedAt.Add(15*time.Minute); !got.Equal(want) {
		t.Fatalf("expiry: got %v, want %v", got, want)
	}

	identity, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.Subject != "alice" || identity.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 0)

	for _, ttl := range []time.Duration{0, -time.Minute} {
		if _, _, err := tm.Issue("alice", domain.RoleUser, ttl); !apperrors.IsCode(err, apperrors.CodeInvalidTTL) {
			t.Fatalf("ttl %v: expected INVALID_TTL, got %v", ttl, err)
		}
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0).UTC()
	issuer := NewTokenManagerWithClock(testSecret, time.Hour, 0, fixedClock(issuedAt))

	token, _, err := issuer.Issue("alice", domain.RoleUser, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// verification is a pure function of (token, time, secret): a second
	// manager with a later clock sees the same token as expired
	verifier := NewTokenManagerWithClock(testSecret, time.Hour, 0, fixedClock(issuedAt.Add(16*time.Minute)))
	if _, err := verifier.Verify(token); !apperrors.IsCode(err, apperrors.CodeTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED, got %v", err)
	}
}

func TestVerifyClockSkewLeeway(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0).UTC()
	issuer := NewTokenManagerWithClock(testSecret, time.Hour, 0, fixedClock(issuedAt))

	token, _, err := issuer.Issue("alice", domain.RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// expired by 30s: a 60s leeway accepts it, a 10s leeway does not
	late := fixedClock(issuedAt.Add(90 * time.Second))

	lenient := NewTokenManagerWithClock(testSecret, time.Hour, 60*time.Second, late)
	if _, err := lenient.Verify(token); err != nil {
		t.Fatalf("expected acceptance within leeway, got %v", err)
	}

	strict := NewTokenManagerWithClock(testSecret, time.Hour, 10*time.Second, late)
	if _, err := strict.Verify(token); !apperrors.IsCode(err, apperrors.CodeTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour, 0)
	token, _, err := issuer.Issue("alice", domain.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := NewTokenManager("other-secret", time.Hour, 0)
	if _, err := verifier.Verify(token); !apperrors.IsCode(err, apperrors.CodeInvalidSignature) {
		t.Fatalf("expected INVALID_SIGNATURE, got %v", err)
	}
}

func TestVerifyMalformedEncoding(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 0)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := tm.Verify(token); !apperrors.IsCode(err, apperrors.CodeMalformedToken) {
			t.Fatalf("token %q: expected MALFORMED_TOKEN, got %v", token, err)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 0)
	token, _, err := tm.Issue("alice", domain.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}

	// flip one character in the claims and in the signature
	for i, part := range parts[1:] {
		mutated := make([]string, 3)
		copy(mutated, parts)
		idx := i + 1
		if part[0] != 'x' {
			mutated[idx] = "x" + part[1:]
		} else {
			mutated[idx] = "y" + part[1:]
		}

		_, err := tm.Verify(strings.Join(mutated, "."))
		if err == nil {
			t.Fatalf("tampered part %d accepted", idx)
		}
		code := apperrors.CodeOf(err)
		if code != apperrors.CodeInvalidSignature && code != apperrors.CodeMalformedToken {
			t.Fatalf("tampered part %d: expected signature or encoding failure, got %v", idx, err)
		}
	}
}
