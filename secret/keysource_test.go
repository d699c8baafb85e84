package secret

import (
	"context"
	"testing"
)

func TestKeySource_SigningKey(t *testing.T) {
	r := newTestResolver(map[string]string{
		"signing": "insecure-test-key",
		"empty":   "",
	})
	ctx := context.Background()

	src := NewKeySource(r, "secretref:static:signing")
	key, err := src.SigningKey(ctx)
	if err != nil {
		t.Fatalf("SigningKey() error = %v", err)
	}
	if string(key) != "insecure-test-key" {
		t.Errorf("SigningKey() = %q, want %q", key, "insecure-test-key")
	}
}

func TestKeySource_SigningKey_Errors(t *testing.T) {
	r := newTestResolver(map[string]string{"empty": ""})
	ctx := context.Background()

	if _, err := NewKeySource(r, "secretref:static:empty").SigningKey(ctx); err == nil {
		t.Error("SigningKey() with empty value: want error")
	}
	if _, err := NewKeySource(r, "secretref:static:absent").SigningKey(ctx); err == nil {
		t.Error("SigningKey() with missing ref: want error")
	}
}

func TestKeySource_EnvRef(t *testing.T) {
	t.Setenv("TENANTKIT_KEYSOURCE_TEST", "env-key")

	src := NewKeySource(nil, "${TENANTKIT_KEYSOURCE_TEST}")
	key, err := src.SigningKey(context.Background())
	if err != nil {
		t.Fatalf("SigningKey() error = %v", err)
	}
	if string(key) != "env-key" {
		t.Errorf("SigningKey() = %q, want %q", key, "env-key")
	}
}
