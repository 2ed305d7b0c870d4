package logger

import (
	"strings"
	"testing"
)

func TestScrubRedactsSecretsAndHashesClaimants(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")

	out := scrub([]interface{}{
		"api_key", "sk-live-123",
		"claimant_name", "Jane Roe",
		"case_number", "WC-2024-001",
	})
	if len(out) != 6 {
		t.Fatalf("scrub: expected 6 entries, got %d", len(out))
	}
	if out[1] != redacted {
		t.Errorf("api_key: expected redaction, got %v", out[1])
	}
	hashedName, ok := out[3].(string)
	if !ok || !strings.HasPrefix(hashedName, "hash:") || strings.Contains(hashedName, "Jane") {
		t.Errorf("claimant_name: expected hash, got %v", out[3])
	}
	if out[5] != "WC-2024-001" {
		t.Errorf("case_number: expected passthrough, got %v", out[5])
	}
}

func TestScrubNestedMaps(t *testing.T) {
	out := scrubValue("payload", map[string]interface{}{
		"password": "hunter2",
		"status":   "OPEN",
	}, "")
	m, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", out)
	}
	if m["password"] != redacted {
		t.Errorf("password: expected redaction, got %v", m["password"])
	}
	if m["status"] != "OPEN" {
		t.Errorf("status: expected passthrough, got %v", m["status"])
	}
}

func TestHashedIsStable(t *testing.T) {
	a := hashed("Jane Roe", "salt")
	b := hashed("Jane Roe", "salt")
	if a != b {
		t.Fatalf("expected stable hash, got %q and %q", a, b)
	}
	if a == hashed("Jane Roe", "other") {
		t.Fatalf("expected salt to change hash")
	}
	if hashed("", "salt") != "" {
		t.Fatalf("expected empty input to hash to empty")
	}
}
