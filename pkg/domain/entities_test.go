package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRefHexRoundTrip(t *testing.T) {
	var ref Ref
	for i := range ref {
		ref[i] = byte(i)
	}
	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("marshal ref: %v", err)
	}
	if !strings.HasPrefix(string(data), "\"000102") {
		t.Fatalf("expected hex encoding, got %s", data)
	}
	var decoded Ref
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal ref: %v", err)
	}
	if decoded != ref {
		t.Fatalf("round trip mismatch: %s vs %s", decoded, ref)
	}
}

func TestParseRefRejectsMalformed(t *testing.T) {
	if _, err := ParseRef("zz"); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
	if _, err := ParseRef("abcd"); err == nil {
		t.Fatalf("expected error for short input")
	}
	long := strings.Repeat("ab", 33)
	if _, err := ParseRef(long); err == nil {
		t.Fatalf("expected error for oversized input")
	}
	valid := strings.Repeat("ab", 32)
	ref, err := ParseRef(valid)
	if err != nil {
		t.Fatalf("parse valid ref: %v", err)
	}
	if ref.String() != valid {
		t.Fatalf("expected %s, got %s", valid, ref)
	}
}

func TestRiskFactorsHas(t *testing.T) {
	factors := RiskMultipleComorbidities | RiskRecentReadmission
	if !factors.Has(RiskMultipleComorbidities) {
		t.Fatalf("expected comorbidities bit set")
	}
	if !factors.Has(RiskRecentReadmission) {
		t.Fatalf("expected readmission bit set")
	}
	if factors.Has(RiskPoorSocialSupport) {
		t.Fatalf("unexpected social support bit")
	}
	if factors.Has(RiskMultipleComorbidities | RiskPoorSocialSupport) {
		t.Fatalf("expected partial match to fail")
	}
}
