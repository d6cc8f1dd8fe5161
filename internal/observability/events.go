package observability

// EventEnvelope wraps a domain event for the message bus.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// MembershipEvent is the payload published on membership lifecycle changes.
type MembershipEvent struct {
	GroupID  int    `json:"group_id"`
	MemberID int    `json:"member_id"`
	ActorID  int    `json:"actor_id"`
	Status   string `json:"status,omitempty"`
}

// GroupEvent is the payload published on group lifecycle changes.
type GroupEvent struct {
	GroupID     int `json:"group_id"`
	OrganizerID int `json:"organizer_id"`
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
