package domain

import "context"

// EventType names the notification emitted after each successful operation.
// The values mirror the topic pairs used by the external wire encoding.
type EventType string

// Notification event types.
const (
	EventPlanInitiated        EventType = "discharge.init"
	EventReadinessAssessed    EventType = "discharge.ready"
	EventOrderCreated         EventType = "discharge.order"
	EventHomeHealthArranged   EventType = "discharge.homehealth"
	EventDMEOrdered           EventType = "discharge.dme"
	EventAppointmentScheduled EventType = "discharge.appt"
	EventEducationProvided    EventType = "discharge.edu"
	EventSNFCoordinated       EventType = "discharge.snf"
	EventDischargeCompleted   EventType = "discharge.complete"
	EventRiskTracked          EventType = "discharge.risk"
)

// Event is one notification describing a committed mutation. Payload holds
// the operation-specific struct below for the matching Type.
type Event struct {
	Type    EventType `json:"type"`
	Plan    PlanID    `json:"plan_id"`
	At      Ticks     `json:"at"`
	Payload any       `json:"payload"`
}

// PlanInitiated accompanies EventPlanInitiated.
type PlanInitiated struct {
	PatientRef Ref    `json:"patient_ref"`
	Caller     Caller `json:"caller"`
}

// ReadinessAssessed accompanies EventReadinessAssessed.
type ReadinessAssessed struct {
	TotalScore uint32 `json:"total_score"`
	Ready      bool   `json:"is_ready"`
}

// OrderCreated accompanies EventOrderCreated.
type OrderCreated struct {
	Type       OrderType `json:"order_type"`
	DetailsRef Ref       `json:"order_details_ref"`
}

// HomeHealthArranged accompanies EventHomeHealthArranged.
type HomeHealthArranged struct {
	AgencyRef Ref         `json:"agency_ref"`
	Service   ServiceType `json:"service_type"`
}

// DMEOrdered accompanies EventDMEOrdered.
type DMEOrdered struct {
	Equipment   EquipmentType `json:"equipment_type"`
	SupplierRef Ref           `json:"supplier_ref"`
}

// AppointmentScheduled accompanies EventAppointmentScheduled; one event is
// emitted per appointment in a scheduled batch.
type AppointmentScheduled struct {
	AppointmentID AppointmentID `json:"appointment_id"`
	ProviderRef   Ref           `json:"provider_ref"`
}

// EducationProvided accompanies EventEducationProvided.
type EducationProvided struct {
	Topic     EducationTopic `json:"education_topic"`
	Completed bool           `json:"completed"`
}

// SNFCoordinated accompanies EventSNFCoordinated.
type SNFCoordinated struct {
	FacilityRef Ref  `json:"facility_ref"`
	BedReserved bool `json:"bed_reserved"`
}

// DischargeCompleted accompanies EventDischargeCompleted.
type DischargeCompleted struct {
	ActualDischargeDate Ticks `json:"actual_discharge_date"`
}

// RiskTracked accompanies EventRiskTracked.
type RiskTracked struct {
	Score uint32 `json:"risk_score"`
}

// EventSink receives notifications for committed operations. Delivery is
// fire-and-forget: a sink error is logged by the caller, never propagated,
// and never unwinds the committed state.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}
