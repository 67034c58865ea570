package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordKind discriminates the closed set of record key variants. The two
// counter kinds have no plan component; every other kind is scoped to one
// plan.
type RecordKind string

// Supported record kinds. These double as bucket names in snapshot
// persistence, so renaming one is a storage migration.
const (
	KindPlanCounter        RecordKind = "counter"
	KindAppointmentCounter RecordKind = "appointment_counter"
	KindPlan               RecordKind = "plan"
	KindReadiness          RecordKind = "readiness"
	KindOrders             RecordKind = "orders"
	KindHomeHealth         RecordKind = "home_health"
	KindDME                RecordKind = "dme"
	KindAppointments       RecordKind = "appointments"
	KindEducation          RecordKind = "education"
	KindSNFCoord           RecordKind = "snf_coord"
	KindCompleted          RecordKind = "completed"
	KindRisk               RecordKind = "risk"
)

// Scoped reports whether keys of this kind carry a plan discriminator.
func (k RecordKind) Scoped() bool {
	return k != KindPlanCounter && k != KindAppointmentCounter
}

// RecordKey addresses one record in the store: a kind plus, for plan-scoped
// kinds, the owning plan ID.
type RecordKey struct {
	Kind RecordKind
	Plan PlanID
}

// PlanCounterKey addresses the plan ID allocation counter.
func PlanCounterKey() RecordKey { return RecordKey{Kind: KindPlanCounter} }

// AppointmentCounterKey addresses the appointment ID allocation counter.
func AppointmentCounterKey() RecordKey { return RecordKey{Kind: KindAppointmentCounter} }

// PlanKey addresses the root plan record.
func PlanKey(id PlanID) RecordKey { return RecordKey{Kind: KindPlan, Plan: id} }

// ReadinessKey addresses the plan's readiness assessment.
func ReadinessKey(id PlanID) RecordKey { return RecordKey{Kind: KindReadiness, Plan: id} }

// OrdersKey addresses the plan's discharge order list.
func OrdersKey(id PlanID) RecordKey { return RecordKey{Kind: KindOrders, Plan: id} }

// HomeHealthKey addresses the plan's home health arrangement.
func HomeHealthKey(id PlanID) RecordKey { return RecordKey{Kind: KindHomeHealth, Plan: id} }

// DMEKey addresses the plan's DME order list.
func DMEKey(id PlanID) RecordKey { return RecordKey{Kind: KindDME, Plan: id} }

// AppointmentsKey addresses the plan's appointment list.
func AppointmentsKey(id PlanID) RecordKey { return RecordKey{Kind: KindAppointments, Plan: id} }

// EducationKey addresses the plan's education record list.
func EducationKey(id PlanID) RecordKey { return RecordKey{Kind: KindEducation, Plan: id} }

// SNFCoordKey addresses the plan's SNF coordination record.
func SNFCoordKey(id PlanID) RecordKey { return RecordKey{Kind: KindSNFCoord, Plan: id} }

// CompletedKey addresses the plan's write-once completion record.
func CompletedKey(id PlanID) RecordKey { return RecordKey{Kind: KindCompleted, Plan: id} }

// RiskKey addresses the plan's readmission risk record.
func RiskKey(id PlanID) RecordKey { return RecordKey{Kind: KindRisk, Plan: id} }

// String renders the key in its snapshot form: "kind" for counters,
// "kind/id" for plan-scoped kinds.
func (k RecordKey) String() string {
	if !k.Kind.Scoped() {
		return string(k.Kind)
	}
	return string(k.Kind) + "/" + strconv.FormatUint(uint64(k.Plan), 10)
}

// ParseRecordKey reverses String. Unknown kinds and malformed discriminators
// are rejected so snapshot hydration fails loudly instead of silently
// dropping records.
func ParseRecordKey(s string) (RecordKey, error) {
	kindPart, idPart, scoped := strings.Cut(s, "/")
	kind := RecordKind(kindPart)
	switch kind {
	case KindPlanCounter, KindAppointmentCounter:
		if scoped {
			return RecordKey{}, fmt.Errorf("parse record key %q: counter keys carry no plan id", s)
		}
		return RecordKey{Kind: kind}, nil
	case KindPlan, KindReadiness, KindOrders, KindHomeHealth, KindDME,
		KindAppointments, KindEducation, KindSNFCoord, KindCompleted, KindRisk:
		if !scoped {
			return RecordKey{}, fmt.Errorf("parse record key %q: missing plan id", s)
		}
		id, err := strconv.ParseUint(idPart, 10, 64)
		if err != nil {
			return RecordKey{}, fmt.Errorf("parse record key %q: %w", s, err)
		}
		return RecordKey{Kind: kind, Plan: PlanID(id)}, nil
	default:
		return RecordKey{}, fmt.Errorf("parse record key %q: unknown kind", s)
	}
}
