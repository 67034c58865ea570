// Package core implements the discharge planning workflow on top of the
// transactional record store. Every operation verifies the caller, validates
// its inputs, and performs all of its mutations inside one transaction, so a
// rejected invocation leaves no partial trace.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	blobcore "dischargecore/internal/infra/blob/core"
	"dischargecore/pkg/domain"
)

// Service exposes the discharge workflow operations.
type Service struct {
	store   domain.PersistentStore
	auth    Authorizer
	events  domain.EventSink
	metrics MetricsRecorder
	tracer  Tracer
	logger  Logger
	archive blobcore.Store
}

// NewService constructs a service backed by the supplied store. Collaborators
// default to permissive no-ops; production hosts install real ones via
// options.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		auth:   AllowAllAuthorizer{},
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying persistence implementation.
func (s *Service) Store() domain.PersistentStore { return s.store }

// run wraps one operation invocation: authorization first, then the
// transactional body, then post-commit event publication, with metrics and
// tracing around the whole invocation.
func (s *Service) run(ctx context.Context, op string, caller domain.Caller, fn func(tx domain.Transaction, pending *[]domain.Event) error) error {
	start := time.Now()
	var finish func(error)
	if s.tracer != nil {
		finish = s.tracer.Trace(ctx, op)
	}

	err := s.runAuthorized(ctx, caller, fn)

	if s.metrics != nil {
		s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	}
	if finish != nil {
		finish(err)
	}
	if err != nil {
		s.logger.Warn("operation rejected", "operation", op, "caller", string(caller), "error", err)
	} else {
		s.logger.Debug("operation committed", "operation", op, "caller", string(caller))
	}
	return err
}

func (s *Service) runAuthorized(ctx context.Context, caller domain.Caller, fn func(tx domain.Transaction, pending *[]domain.Event) error) error {
	if err := s.auth.Authorize(ctx, caller); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		return domain.NewError(domain.KindUnauthorized, "%v", err)
	}

	var pending []domain.Event
	if err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return fn(tx, &pending)
	}); err != nil {
		return err
	}

	s.publish(ctx, pending)
	return nil
}

// publish delivers events for a committed invocation. Sink failures are
// logged and swallowed: observability must never fail a committed operation.
func (s *Service) publish(ctx context.Context, events []domain.Event) {
	if s.events == nil {
		return
	}
	for _, event := range events {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("event publication failed", "type", string(event.Type), "plan_id", uint64(event.Plan), "error", err)
		}
	}
}

// requirePlan loads the plan or fails with PlanNotFound.
func requirePlan(view domain.View, id domain.PlanID) (domain.DischargePlan, error) {
	var plan domain.DischargePlan
	found, err := view.Get(domain.PlanKey(id), &plan)
	if err != nil {
		return domain.DischargePlan{}, err
	}
	if !found {
		return domain.DischargePlan{}, domain.NewError(domain.KindPlanNotFound, "plan %d does not exist", id)
	}
	return plan, nil
}

// InitiatePlanning creates a new discharge plan and returns its ID. The
// expected discharge date must be strictly after admission; the ordering is
// validated once here and never re-checked.
func (s *Service) InitiatePlanning(ctx context.Context, caller domain.Caller, patientRef domain.Ref, admissionDate, expectedDischargeDate domain.Ticks, destination domain.Destination) (domain.PlanID, error) {
	var id domain.PlanID
	err := s.run(ctx, "initiate_discharge_planning", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if expectedDischargeDate <= admissionDate {
			return domain.NewError(domain.KindInvalidDate, "expected discharge %d is not after admission %d", expectedDischargeDate, admissionDate)
		}
		raw, err := tx.NextID(domain.PlanCounterKey())
		if err != nil {
			return err
		}
		id = domain.PlanID(raw)
		plan := domain.DischargePlan{
			PatientRef:            patientRef,
			AdmissionDate:         admissionDate,
			ExpectedDischargeDate: expectedDischargeDate,
			Destination:           destination,
			CreatedAt:             tx.Now(),
		}
		if err := tx.Set(domain.PlanKey(id), plan); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventPlanInitiated, Plan: id, At: tx.Now(),
			Payload: domain.PlanInitiated{PatientRef: patientRef, Caller: caller},
		})
		return nil
	})
	return id, err
}

// AssessReadiness validates the four sub-scores, derives the total and the
// readiness flag, and overwrites the plan's assessment.
func (s *Service) AssessReadiness(ctx context.Context, caller domain.Caller, id domain.PlanID, medicalStability, functionalStatus, supportSystem, educationCompletion uint32) (domain.ReadinessScore, error) {
	var score domain.ReadinessScore
	err := s.run(ctx, "assess_discharge_readiness", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		for _, v := range []uint32{medicalStability, functionalStatus, supportSystem, educationCompletion} {
			if v > 100 {
				return domain.NewError(domain.KindInvalidScore, "sub-score %d exceeds 100", v)
			}
		}
		total := (medicalStability + functionalStatus + supportSystem + educationCompletion) / 4
		score = domain.ReadinessScore{
			PlanID:              id,
			MedicalStability:    medicalStability,
			FunctionalStatus:    functionalStatus,
			SupportSystem:       supportSystem,
			EducationCompletion: educationCompletion,
			TotalScore:          total,
			Ready:               total >= 75,
			AssessedAt:          tx.Now(),
		}
		if err := tx.Set(domain.ReadinessKey(id), score); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventReadinessAssessed, Plan: id, At: tx.Now(),
			Payload: domain.ReadinessAssessed{TotalScore: total, Ready: score.Ready},
		})
		return nil
	})
	return score, err
}

// CreateOrder appends a discharge order to the plan's order list.
func (s *Service) CreateOrder(ctx context.Context, caller domain.Caller, id domain.PlanID, orderType domain.OrderType, detailsRef domain.Ref) error {
	return s.run(ctx, "create_discharge_orders", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		order := domain.DischargeOrder{Type: orderType, DetailsRef: detailsRef, CreatedAt: tx.Now()}
		if err := tx.Append(domain.OrdersKey(id), order); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventOrderCreated, Plan: id, At: tx.Now(),
			Payload: domain.OrderCreated{Type: orderType, DetailsRef: detailsRef},
		})
		return nil
	})
}

// ArrangeHomeHealth overwrites the plan's home health arrangement. Frequency
// and duration must both be positive.
func (s *Service) ArrangeHomeHealth(ctx context.Context, caller domain.Caller, id domain.PlanID, agencyRef domain.Ref, service domain.ServiceType, frequencyPerWeek, durationWeeks uint32) error {
	return s.run(ctx, "arrange_home_health", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		if frequencyPerWeek == 0 || durationWeeks == 0 {
			return domain.NewError(domain.KindInvalidInput, "frequency and duration must be positive")
		}
		arrangement := domain.HomeHealthArrangement{
			AgencyRef:        agencyRef,
			Service:          service,
			FrequencyPerWeek: frequencyPerWeek,
			DurationWeeks:    durationWeeks,
			ArrangedAt:       tx.Now(),
		}
		if err := tx.Set(domain.HomeHealthKey(id), arrangement); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventHomeHealthArranged, Plan: id, At: tx.Now(),
			Payload: domain.HomeHealthArranged{AgencyRef: agencyRef, Service: service},
		})
		return nil
	})
}

// OrderDME appends an equipment order. The delivery date must be in the
// future relative to the invocation's clock read.
func (s *Service) OrderDME(ctx context.Context, caller domain.Caller, id domain.PlanID, equipment domain.EquipmentType, supplierRef domain.Ref, deliveryDate domain.Ticks) error {
	return s.run(ctx, "order_dme_for_discharge", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		if deliveryDate <= tx.Now() {
			return domain.NewError(domain.KindInvalidDate, "delivery date %d is not in the future", deliveryDate)
		}
		order := domain.DMEOrder{Equipment: equipment, SupplierRef: supplierRef, DeliveryDate: deliveryDate, OrderedAt: tx.Now()}
		if err := tx.Append(domain.DMEKey(id), order); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventDMEOrdered, Plan: id, At: tx.Now(),
			Payload: domain.DMEOrdered{Equipment: equipment, SupplierRef: supplierRef},
		})
		return nil
	})
}

// ScheduleAppointments validates and persists a non-empty batch of follow-up
// appointments, assigning each a globally unique ID. The batch is atomic: an
// invalid entry anywhere aborts the whole call, including appointments (and
// counter increments) staged earlier in the same batch.
func (s *Service) ScheduleAppointments(ctx context.Context, caller domain.Caller, id domain.PlanID, requests []domain.AppointmentRequest) ([]domain.AppointmentID, error) {
	var assigned []domain.AppointmentID
	err := s.run(ctx, "schedule_followup_appointments", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		assigned = nil
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		if len(requests) == 0 {
			return domain.NewError(domain.KindInvalidInput, "appointment batch is empty")
		}
		for _, req := range requests {
			if req.ScheduledTime <= tx.Now() {
				return domain.NewError(domain.KindInvalidDate, "scheduled time %d is not in the future", req.ScheduledTime)
			}
			raw, err := tx.NextID(domain.AppointmentCounterKey())
			if err != nil {
				return err
			}
			apptID := domain.AppointmentID(raw)
			appt := domain.FollowUpAppointment{
				ID:            apptID,
				ProviderRef:   req.ProviderRef,
				Specialty:     req.Specialty,
				ScheduledTime: req.ScheduledTime,
				LocationRef:   req.LocationRef,
			}
			if err := tx.Append(domain.AppointmentsKey(id), appt); err != nil {
				return err
			}
			assigned = append(assigned, apptID)
			*pending = append(*pending, domain.Event{
				Type: domain.EventAppointmentScheduled, Plan: id, At: tx.Now(),
				Payload: domain.AppointmentScheduled{AppointmentID: apptID, ProviderRef: req.ProviderRef},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// ProvideEducation appends an education record to the plan.
func (s *Service) ProvideEducation(ctx context.Context, caller domain.Caller, id domain.PlanID, topic domain.EducationTopic, materialsRef domain.Ref, completed bool) error {
	return s.run(ctx, "provide_discharge_education", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		record := domain.EducationRecord{Topic: topic, MaterialsRef: materialsRef, Completed: completed, ProvidedAt: tx.Now()}
		if err := tx.Append(domain.EducationKey(id), record); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventEducationProvided, Plan: id, At: tx.Now(),
			Payload: domain.EducationProvided{Topic: topic, Completed: completed},
		})
		return nil
	})
}

// CoordinateSNF overwrites the plan's skilled nursing facility coordination
// record. The transfer date must be in the future.
func (s *Service) CoordinateSNF(ctx context.Context, caller domain.Caller, id domain.PlanID, facilityRef domain.Ref, bedReserved bool, transferDate domain.Ticks, summaryRef domain.Ref) error {
	return s.run(ctx, "coordinate_with_snf", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		if transferDate <= tx.Now() {
			return domain.NewError(domain.KindInvalidDate, "transfer date %d is not in the future", transferDate)
		}
		coordination := domain.SNFCoordination{
			FacilityRef:   facilityRef,
			BedReserved:   bedReserved,
			TransferDate:  transferDate,
			SummaryRef:    summaryRef,
			CoordinatedAt: tx.Now(),
		}
		if err := tx.Set(domain.SNFCoordKey(id), coordination); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventSNFCoordinated, Plan: id, At: tx.Now(),
			Payload: domain.SNFCoordinated{FacilityRef: facilityRef, BedReserved: bedReserved},
		})
		return nil
	})
}

// CompleteDischarge transitions the plan to its terminal completed state and
// writes the write-once completion record. A second completion attempt is
// rejected, not a no-op. When an archive is configured, the plan's full
// record set is snapshotted into it after commit; an archive failure is
// logged but cannot unwind the committed transition.
func (s *Service) CompleteDischarge(ctx context.Context, caller domain.Caller, id domain.PlanID, actualDischargeDate domain.Ticks, summaryRef domain.Ref) error {
	err := s.run(ctx, "complete_discharge", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		plan, err := requirePlan(tx, id)
		if err != nil {
			return err
		}
		if plan.Completed {
			return domain.NewError(domain.KindAlreadyCompleted, "plan %d is already completed", id)
		}
		plan.Completed = true
		if err := tx.Set(domain.PlanKey(id), plan); err != nil {
			return err
		}
		completion := domain.DischargeCompletion{ActualDischargeDate: actualDischargeDate, SummaryRef: summaryRef}
		if err := tx.Set(domain.CompletedKey(id), completion); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventDischargeCompleted, Plan: id, At: tx.Now(),
			Payload: domain.DischargeCompleted{ActualDischargeDate: actualDischargeDate},
		})
		return nil
	})
	if err != nil {
		return err
	}
	s.archiveSnapshot(ctx, id)
	return nil
}

// TrackReadmissionRisk overwrites the plan's readmission risk record.
func (s *Service) TrackReadmissionRisk(ctx context.Context, caller domain.Caller, id domain.PlanID, factors domain.RiskFactors, score uint32) error {
	return s.run(ctx, "track_readmission_risk", caller, func(tx domain.Transaction, pending *[]domain.Event) error {
		if _, err := requirePlan(tx, id); err != nil {
			return err
		}
		if score > 100 {
			return domain.NewError(domain.KindInvalidScore, "risk score %d exceeds 100", score)
		}
		risk := domain.ReadmissionRisk{Factors: factors, Score: score, TrackedAt: tx.Now()}
		if err := tx.Set(domain.RiskKey(id), risk); err != nil {
			return err
		}
		*pending = append(*pending, domain.Event{
			Type: domain.EventRiskTracked, Plan: id, At: tx.Now(),
			Payload: domain.RiskTracked{Score: score},
		})
		return nil
	})
}

// GetPlan reads the root plan record from committed state.
func (s *Service) GetPlan(ctx context.Context, id domain.PlanID) (domain.DischargePlan, error) {
	var plan domain.DischargePlan
	err := s.store.ReadView(ctx, func(view domain.View) error {
		var err error
		plan, err = requirePlan(view, id)
		return err
	})
	return plan, err
}

// Snapshot bundles every record attached to the plan from committed state.
func (s *Service) Snapshot(ctx context.Context, id domain.PlanID) (domain.PlanSnapshot, error) {
	var snap domain.PlanSnapshot
	err := s.store.ReadView(ctx, func(view domain.View) error {
		plan, err := requirePlan(view, id)
		if err != nil {
			return err
		}
		snap = domain.PlanSnapshot{PlanID: id, Plan: plan}

		var readiness domain.ReadinessScore
		if found, err := view.Get(domain.ReadinessKey(id), &readiness); err != nil {
			return err
		} else if found {
			snap.Readiness = &readiness
		}
		if _, err := view.Get(domain.OrdersKey(id), &snap.Orders); err != nil {
			return err
		}
		var homeHealth domain.HomeHealthArrangement
		if found, err := view.Get(domain.HomeHealthKey(id), &homeHealth); err != nil {
			return err
		} else if found {
			snap.HomeHealth = &homeHealth
		}
		if _, err := view.Get(domain.DMEKey(id), &snap.DMEOrders); err != nil {
			return err
		}
		if _, err := view.Get(domain.AppointmentsKey(id), &snap.Appointments); err != nil {
			return err
		}
		if _, err := view.Get(domain.EducationKey(id), &snap.Education); err != nil {
			return err
		}
		var snf domain.SNFCoordination
		if found, err := view.Get(domain.SNFCoordKey(id), &snf); err != nil {
			return err
		} else if found {
			snap.SNF = &snf
		}
		var risk domain.ReadmissionRisk
		if found, err := view.Get(domain.RiskKey(id), &risk); err != nil {
			return err
		} else if found {
			snap.Risk = &risk
		}
		var completion domain.DischargeCompletion
		if found, err := view.Get(domain.CompletedKey(id), &completion); err != nil {
			return err
		} else if found {
			snap.Completion = &completion
		}
		return nil
	})
	return snap, err
}

func (s *Service) archiveSnapshot(ctx context.Context, id domain.PlanID) {
	if s.archive == nil {
		return
	}
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		s.logger.Error("archive snapshot read failed", "plan_id", uint64(id), "error", err)
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("archive snapshot encode failed", "plan_id", uint64(id), "error", err)
		return
	}
	key := fmt.Sprintf("plans/%d.json", id)
	if _, err := s.archive.Put(ctx, key, bytes.NewReader(data), blobcore.PutOptions{ContentType: "application/json"}); err != nil {
		s.logger.Error("archive write failed", "plan_id", uint64(id), "key", key, "error", err)
		return
	}
	s.logger.Info("discharge summary archived", "plan_id", uint64(id), "key", key)
}
