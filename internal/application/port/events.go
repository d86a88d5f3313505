package port

// EngineEventKind identifies account engine events the shell reacts to.
type EngineEventKind int

const (
	EventWebxdcStatusUpdate EngineEventKind = iota
	EventWebxdcRealtimeData
	EventMessageChanged
	EventMessageDeleted
)

func (k EngineEventKind) String() string {
	switch k {
	case EventWebxdcStatusUpdate:
		return "webxdc-status-update"
	case EventWebxdcRealtimeData:
		return "webxdc-realtime-data"
	case EventMessageChanged:
		return "message-changed"
	case EventMessageDeleted:
		return "message-deleted"
	default:
		return "unknown"
	}
}

// EngineEvent is emitted by the account engine.
type EngineEvent struct {
	Kind      EngineEventKind
	AccountID uint32
	MessageID uint32
	// Data carries realtime packets.
	Data []byte
}

// EventSource streams account engine events.
type EventSource interface {
	Events() <-chan EngineEvent
}
