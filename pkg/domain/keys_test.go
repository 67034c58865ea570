package domain

import "testing"

func TestRecordKeyStringRoundTrip(t *testing.T) {
	keys := []RecordKey{
		PlanCounterKey(),
		AppointmentCounterKey(),
		PlanKey(0),
		ReadinessKey(7),
		OrdersKey(7),
		HomeHealthKey(7),
		DMEKey(7),
		AppointmentsKey(7),
		EducationKey(7),
		SNFCoordKey(7),
		CompletedKey(7),
		RiskKey(12345),
	}
	for _, key := range keys {
		parsed, err := ParseRecordKey(key.String())
		if err != nil {
			t.Fatalf("parse %q: %v", key, err)
		}
		if parsed != key {
			t.Fatalf("round trip mismatch: %v vs %v", parsed, key)
		}
	}
}

func TestParseRecordKeyRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"unknown",
		"unknown/1",
		"plan",
		"plan/",
		"plan/abc",
		"counter/1",
		"appointment_counter/9",
	}
	for _, raw := range cases {
		if _, err := ParseRecordKey(raw); err == nil {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}

func TestRecordKindScoped(t *testing.T) {
	if KindPlanCounter.Scoped() || KindAppointmentCounter.Scoped() {
		t.Fatalf("counter kinds must not be plan scoped")
	}
	if !KindPlan.Scoped() || !KindRisk.Scoped() {
		t.Fatalf("record kinds must be plan scoped")
	}
}
