// Package domain defines the persistent record types, numeric code tables,
// storage key space, and persistence contracts for the discharge planning
// core.
package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PlanID identifies one discharge planning process. Assigned once at plan
// creation from a monotonic counter and never reused.
type PlanID uint64

// AppointmentID identifies a follow-up appointment. Globally unique across
// all plans; allocated from a counter independent of plan IDs.
type AppointmentID uint64

// Ticks is a monotonically non-decreasing timestamp supplied by an external
// clock. The core never interprets tick values beyond ordering comparisons.
type Ticks uint64

// YearTicks is the default retention horizon applied on every record write,
// roughly one year of one-second ticks.
const YearTicks Ticks = 365 * 24 * 60 * 60

// Caller is the opaque identity of the party invoking an operation. The core
// never inspects it; the injected Authorizer decides whether it is accepted.
type Caller string

// Ref is an opaque fixed-size content identifier (for example a hash)
// standing in for off-store data. The core stores it verbatim and never
// interprets it. JSON encoding is lowercase hex.
type Ref [32]byte

// ParseRef decodes a 64-character hex string into a Ref.
func ParseRef(s string) (Ref, error) {
	var r Ref
	b, err := hex.DecodeString(s)
	if err != nil {
		return Ref{}, fmt.Errorf("parse ref: %w", err)
	}
	if len(b) != len(r) {
		return Ref{}, fmt.Errorf("parse ref: expected %d bytes, got %d", len(r), len(b))
	}
	copy(r[:], b)
	return r, nil
}

// String returns the lowercase hex form of the reference.
func (r Ref) String() string { return hex.EncodeToString(r[:]) }

// MarshalJSON encodes the reference as a hex string.
func (r Ref) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// UnmarshalJSON decodes a hex string into the reference.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRef(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Destination encodes where the patient goes after discharge. Values are
// wire-stable integers shared with external consumers.
type Destination uint32

// Discharge destination codes.
const (
	DestinationHome  Destination = 0
	DestinationSNF   Destination = 1
	DestinationRehab Destination = 2
	DestinationOther Destination = 3
)

// OrderType classifies a discharge order.
type OrderType uint32

// Discharge order type codes.
const (
	OrderMedication OrderType = 0
	OrderDME        OrderType = 1
	OrderHomeHealth OrderType = 2
	OrderLab        OrderType = 3
)

// ServiceType classifies a home health service.
type ServiceType uint32

// Home health service codes.
const (
	ServiceNursing       ServiceType = 0
	ServicePT            ServiceType = 1
	ServiceOT            ServiceType = 2
	ServiceSpeechTherapy ServiceType = 3
)

// Specialty classifies a follow-up appointment provider.
type Specialty uint32

// Appointment specialty codes.
const (
	SpecialtyPrimaryCare Specialty = 0
	SpecialtyCardiology  Specialty = 1
	SpecialtySurgery     Specialty = 2
	SpecialtyOther       Specialty = 3
)

// EquipmentType classifies durable medical equipment.
type EquipmentType uint32

// DME equipment codes.
const (
	EquipmentWalker             EquipmentType = 0
	EquipmentWheelchair         EquipmentType = 1
	EquipmentOxygenConcentrator EquipmentType = 2
	EquipmentHospitalBed        EquipmentType = 3
)

// EducationTopic classifies patient education material.
type EducationTopic uint32

// Education topic codes.
const (
	TopicMedications          EducationTopic = 0
	TopicWoundCare            EducationTopic = 1
	TopicDietNutrition        EducationTopic = 2
	TopicActivityRestrictions EducationTopic = 3
)

// RiskFactors is a bitmap of readmission risk factors.
type RiskFactors uint32

// Readmission risk factor bits.
const (
	RiskMultipleComorbidities   RiskFactors = 1
	RiskPoorSocialSupport       RiskFactors = 2
	RiskMedicationNonCompliance RiskFactors = 4
	RiskRecentReadmission       RiskFactors = 8
)

// Has reports whether every bit of factor is set.
func (f RiskFactors) Has(factor RiskFactors) bool { return f&factor == factor }

// DischargePlan is the root record of one discharge planning process.
type DischargePlan struct {
	PatientRef            Ref         `json:"patient_ref"`
	AdmissionDate         Ticks       `json:"admission_date"`
	ExpectedDischargeDate Ticks       `json:"expected_discharge_date"`
	Destination           Destination `json:"destination"`
	CreatedAt             Ticks       `json:"created_at"`
	Completed             bool        `json:"completed"`
}

// ReadinessScore records a discharge readiness assessment. At most one per
// plan; a new assessment overwrites the previous one.
type ReadinessScore struct {
	PlanID              PlanID `json:"plan_id"`
	MedicalStability    uint32 `json:"medical_stability_score"`
	FunctionalStatus    uint32 `json:"functional_status_score"`
	SupportSystem       uint32 `json:"support_system_score"`
	EducationCompletion uint32 `json:"education_completion_score"`
	TotalScore          uint32 `json:"total_score"`
	Ready               bool   `json:"is_ready"`
	AssessedAt          Ticks  `json:"assessed_at"`
}

// DischargeOrder is one entry in a plan's append-only order list.
type DischargeOrder struct {
	Type       OrderType `json:"order_type"`
	DetailsRef Ref       `json:"order_details_ref"`
	CreatedAt  Ticks     `json:"created_at"`
}

// HomeHealthArrangement records arranged in-home services. Last write wins.
type HomeHealthArrangement struct {
	AgencyRef        Ref         `json:"agency_ref"`
	Service          ServiceType `json:"service_type"`
	FrequencyPerWeek uint32      `json:"frequency_per_week"`
	DurationWeeks    uint32      `json:"duration_weeks"`
	ArrangedAt       Ticks       `json:"arranged_at"`
}

// DMEOrder is one entry in a plan's append-only equipment order list.
type DMEOrder struct {
	Equipment    EquipmentType `json:"equipment_type"`
	SupplierRef  Ref           `json:"supplier_ref"`
	DeliveryDate Ticks         `json:"delivery_date"`
	OrderedAt    Ticks         `json:"ordered_at"`
}

// AppointmentRequest is the caller-supplied portion of a follow-up
// appointment, before an ID has been assigned.
type AppointmentRequest struct {
	ProviderRef   Ref       `json:"provider_ref"`
	Specialty     Specialty `json:"specialty"`
	ScheduledTime Ticks     `json:"scheduled_time"`
	LocationRef   Ref       `json:"location_ref"`
}

// FollowUpAppointment is a scheduled appointment with its assigned
// globally-unique ID.
type FollowUpAppointment struct {
	ID            AppointmentID `json:"appointment_id"`
	ProviderRef   Ref           `json:"provider_ref"`
	Specialty     Specialty     `json:"specialty"`
	ScheduledTime Ticks         `json:"scheduled_time"`
	LocationRef   Ref           `json:"location_ref"`
}

// EducationRecord is one entry in a plan's append-only education list.
type EducationRecord struct {
	Topic        EducationTopic `json:"education_topic"`
	MaterialsRef Ref            `json:"materials_ref"`
	Completed    bool           `json:"completed"`
	ProvidedAt   Ticks          `json:"provided_at"`
}

// SNFCoordination records coordination with a skilled nursing facility.
// Last write wins.
type SNFCoordination struct {
	FacilityRef   Ref   `json:"facility_ref"`
	BedReserved   bool  `json:"bed_reserved"`
	TransferDate  Ticks `json:"transfer_date"`
	SummaryRef    Ref   `json:"medical_summary_ref"`
	CoordinatedAt Ticks `json:"coordinated_at"`
}

// ReadmissionRisk records tracked readmission risk. Last write wins.
type ReadmissionRisk struct {
	Factors   RiskFactors `json:"risk_factors"`
	Score     uint32      `json:"risk_score"`
	TrackedAt Ticks       `json:"tracked_at"`
}

// DischargeCompletion is the write-once record created when a plan
// transitions to completed.
type DischargeCompletion struct {
	ActualDischargeDate Ticks `json:"actual_discharge_date"`
	SummaryRef          Ref   `json:"discharge_summary_ref"`
}

// PlanSnapshot bundles every record attached to one plan. Used by read
// accessors and by the summary archive when a discharge completes.
type PlanSnapshot struct {
	PlanID       PlanID                 `json:"plan_id"`
	Plan         DischargePlan          `json:"plan"`
	Readiness    *ReadinessScore        `json:"readiness,omitempty"`
	Orders       []DischargeOrder       `json:"orders,omitempty"`
	HomeHealth   *HomeHealthArrangement `json:"home_health,omitempty"`
	DMEOrders    []DMEOrder             `json:"dme_orders,omitempty"`
	Appointments []FollowUpAppointment  `json:"appointments,omitempty"`
	Education    []EducationRecord      `json:"education,omitempty"`
	SNF          *SNFCoordination       `json:"snf_coordination,omitempty"`
	Risk         *ReadmissionRisk       `json:"readmission_risk,omitempty"`
	Completion   *DischargeCompletion   `json:"completion,omitempty"`
}
