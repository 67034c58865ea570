package core

import (
	blobcore "dischargecore/internal/infra/blob/core"
	"dischargecore/pkg/domain"
)

// Option configures optional service collaborators.
type Option func(*Service)

// WithAuthorizer installs the caller verification capability. The default
// accepts every caller.
func WithAuthorizer(auth Authorizer) Option {
	return func(s *Service) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithEventSink installs the notification sink. Without one, events are
// dropped.
func WithEventSink(sink domain.EventSink) Option {
	return func(s *Service) { s.events = sink }
}

// WithMetricsRecorder installs the per-operation metrics recorder.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) { s.metrics = rec }
}

// WithTracer installs the per-operation tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// WithLogger installs the service logger. The default is a no-op.
func WithLogger(log Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithArchive installs the summary archive; completed plans are snapshotted
// into it. Without one, archiving is disabled.
func WithArchive(store blobcore.Store) Option {
	return func(s *Service) { s.archive = store }
}
