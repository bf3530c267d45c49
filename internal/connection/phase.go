package connection

// Phase is the current step of the session lifecycle
type Phase int

const (
	Scanning Phase = iota
	Connecting
	Subscribed
	Streaming
	Disconnected
)

func (p Phase) String() string {
	switch p {
	case Scanning:
		return "Scanning"
	case Connecting:
		return "Connecting"
	case Subscribed:
		return "Subscribed"
	case Streaming:
		return "Streaming"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
