package events

// Event is anything published on the event bus.
type Event interface {
	Type() string
}

// Keyed is implemented by events that must stay ordered relative to other
// events with the same key when published to a partitioned bus.
type Keyed interface {
	PartitionKey() string
}

// EventTypes maps an event type to a constructor for decoding serialized
// events received from an external bus.
var EventTypes = map[EventType]func() Event{
	EventTypeInvestmentSettled: func() Event { return &InvestmentSettled{} },
}
