package token

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testCodec(t *testing.T, cfg CodecConfig) *Codec {
	t.Helper()
	codec, err := NewCodec(cfg, NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes")))
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func TestCodec_RoundTrip(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	codec := testCodec(t, CodecConfig{
		Expiry: ExpiryConfig{Units: UnitHours, Amount: 1},
		Now:    clock.Now,
	})

	issued, claims, err := codec.Issue(context.Background(), "tenant-1", "wallet-1", map[string]any{
		"label": "alice",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	decoded, err := codec.Decode(context.Background(), issued)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if decoded.TenantID != claims.TenantID {
		t.Errorf("TenantID = %v, want %v", decoded.TenantID, claims.TenantID)
	}
	if decoded.WalletID != claims.WalletID {
		t.Errorf("WalletID = %v, want %v", decoded.WalletID, claims.WalletID)
	}
	if !decoded.IssuedAt.Equal(claims.IssuedAt) {
		t.Errorf("IssuedAt = %v, want %v", decoded.IssuedAt, claims.IssuedAt)
	}
	if !decoded.ExpiresAt.Equal(claims.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", decoded.ExpiresAt, claims.ExpiresAt)
	}
	if decoded.Extra["label"] != "alice" {
		t.Errorf("Extra[label] = %v, want alice", decoded.Extra["label"])
	}
}

func TestCodec_Issue_ExpiryFixedAtIssuance(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	codec := testCodec(t, CodecConfig{
		Expiry: ExpiryConfig{Units: UnitMinutes, Amount: 10},
		Now:    clock.Now,
	})

	_, claims, err := codec.Issue(context.Background(), "tenant-1", "wallet-1", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	want := clock.Now().Add(10 * time.Minute)
	if !claims.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, want)
	}
}

func TestCodec_Decode_ExpiryBoundary(t *testing.T) {
	// A token is expired once the clock reaches expires_at exactly.
	start := time.Unix(1700000000, 0)
	clock := newFakeClock(start)
	codec := testCodec(t, CodecConfig{
		Expiry: ExpiryConfig{Units: UnitMinutes, Amount: 1},
		Now:    clock.Now,
	})

	issued, claims, err := codec.Issue(context.Background(), "tenant-1", "wallet-1", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{name: "one second before expiry", now: claims.ExpiresAt.Add(-time.Second), expired: false},
		{name: "exactly at expiry", now: claims.ExpiresAt, expired: true},
		{name: "one second after expiry", now: claims.ExpiresAt.Add(time.Second), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.mu.Lock()
			clock.t = tt.now
			clock.mu.Unlock()

			_, err := codec.Decode(context.Background(), issued)
			if tt.expired {
				if !errors.Is(err, ErrTokenExpired) {
					t.Errorf("Decode() error = %v, want ErrTokenExpired", err)
				}
			} else if err != nil {
				t.Errorf("Decode() error = %v, want nil", err)
			}
		})
	}
}

func TestCodec_Decode_ExpiredAfterSimulatedMinute(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	codec := testCodec(t, CodecConfig{
		Expiry: ExpiryConfig{Units: UnitMinutes, Amount: 1},
		Now:    clock.Now,
	})

	issued, _, err := codec.Issue(context.Background(), "tenant-1", "wallet-1", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	clock.Advance(61 * time.Second)

	if _, err := codec.Decode(context.Background(), issued); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Decode() error = %v, want ErrTokenExpired", err)
	}
}

func TestCodec_Decode_WrongSecret(t *testing.T) {
	codec := testCodec(t, CodecConfig{})

	issued, _, err := codec.Issue(context.Background(), "tenant-1", "wallet-1", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other, err := NewCodec(CodecConfig{}, NewStaticKeyProvider([]byte("a-completely-different-secret-key")))
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	if _, err := other.Decode(context.Background(), issued); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Decode() error = %v, want ErrTokenMalformed", err)
	}
}

func TestCodec_Decode_Garbage(t *testing.T) {
	codec := testCodec(t, CodecConfig{})

	if _, err := codec.Decode(context.Background(), "not.a.token"); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Decode() error = %v, want ErrTokenMalformed", err)
	}
}

func TestCodec_Decode_MissingWalletClaim(t *testing.T) {
	codec := testCodec(t, CodecConfig{})

	// Encode claims without a wallet reference and check the decode path
	// rejects them.
	encoded, err := codec.Encode(context.Background(), Claims{
		TenantID:  "tenant-1",
		IssuedAt:  time.Now().Truncate(time.Second),
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := codec.Decode(context.Background(), encoded); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Decode() error = %v, want ErrTokenMalformed", err)
	}
}

func TestCodec_EmptySecret(t *testing.T) {
	codec, err := NewCodec(CodecConfig{}, NewStaticKeyProvider(nil))
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	_, _, err = codec.Issue(context.Background(), "tenant-1", "wallet-1", nil)
	if !errors.Is(err, ErrSigningKey) {
		t.Errorf("Issue() error = %v, want ErrSigningKey", err)
	}
}

func TestCodec_ExtraClaimsCannotOverrideReserved(t *testing.T) {
	clock := newFakeClock(time.Unix(1700000000, 0))
	codec := testCodec(t, CodecConfig{
		Expiry: ExpiryConfig{Units: UnitHours, Amount: 1},
		Now:    clock.Now,
	})

	issued, _, err := codec.Issue(context.Background(), "tenant-1", "wallet-1", map[string]any{
		ClaimTenantID:  "attacker",
		ClaimWalletID:  "other-wallet",
		ClaimExpiresAt: time.Now().Add(1000 * time.Hour).Unix(),
		"note":         "kept",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	decoded, err := codec.Decode(context.Background(), issued)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if decoded.TenantID != "tenant-1" {
		t.Errorf("TenantID = %v, want tenant-1", decoded.TenantID)
	}
	if decoded.WalletID != "wallet-1" {
		t.Errorf("WalletID = %v, want wallet-1", decoded.WalletID)
	}
	want := clock.Now().Add(time.Hour)
	if !decoded.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", decoded.ExpiresAt, want)
	}
	if decoded.Extra["note"] != "kept" {
		t.Errorf("Extra[note] = %v, want kept", decoded.Extra["note"])
	}
}

func TestCodec_IssuerVerified(t *testing.T) {
	issuerCodec := testCodec(t, CodecConfig{Issuer: "tenantkit"})
	otherIssuer := testCodec(t, CodecConfig{Issuer: "someone-else"})

	issued, _, err := otherIssuer.Issue(context.Background(), "tenant-1", "wallet-1", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuerCodec.Decode(context.Background(), issued); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Decode() error = %v, want ErrTokenInvalid", err)
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	claims := Claims{ExpiresAt: now}

	if !claims.Expired(now) {
		t.Error("Expired(at expiry) = false, want true")
	}
	if claims.Expired(now.Add(-time.Second)) {
		t.Error("Expired(before expiry) = true, want false")
	}
}
