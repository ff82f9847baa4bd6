package scheduler

// Routing keys of the lifecycle messages published after each committed
// write.
const (
	EventCreated = "event.created"
	EventUpdated = "event.updated"
	EventDeleted = "event.deleted"
)

// EventMessage is the body of a lifecycle message. PreviousDate is set when
// an update moved the event to another day.
type EventMessage struct {
	Event        *Event `json:"event"`
	PreviousDate string `json:"previousDate,omitempty"`
}

// Dates returns the days whose schedule the change touched.
func (m *EventMessage) Dates() []string {
	if m.Event == nil {
		return nil
	}
	if m.PreviousDate != "" && m.PreviousDate != m.Event.EventDate {
		return []string{m.Event.EventDate, m.PreviousDate}
	}
	return []string{m.Event.EventDate}
}
