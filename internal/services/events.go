package services

import "pitwall/internal/logging"

// Event types published by the services.
const (
	EventUserRegistered      = "user.registered"
	EventUserUpdated         = "user.updated"
	EventUserDeleted         = "user.deleted"
	EventUserPasswordChanged = "user.password_changed"
	EventCircuitCreated      = "circuit.created"
	EventCircuitUpdated      = "circuit.updated"
	EventCircuitDeleted      = "circuit.deleted"
	EventSessionExported     = "session.exported"
	EventLapCreated          = "lap.created"
	EventLapUpdated          = "lap.updated"
	EventLapDeleted          = "lap.deleted"
)

// EventPublisher sends domain events to the message broker.
type EventPublisher interface {
	PublishEvent(eventType string, data interface{}) error
}

// publish is best effort: a broker failure never fails the request.
func publish(p EventPublisher, eventType string, data interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(eventType, data); err != nil {
		logging.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
