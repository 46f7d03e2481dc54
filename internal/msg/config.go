package msg

// Config holds Kafka configuration
type Config struct {
	Brokers  []string
	ClientID string

	// MaxBufferedRecords bounds records produced but not yet acknowledged.
	// Produce blocks once the bound is reached.
	MaxBufferedRecords int
}

// Topic names
const (
	TopicMessages = "itch.messages"
	TopicControl  = "itch.control"
)

// Record header names set on every published ITCH message
const (
	HeaderSessionID = "session-id"
	HeaderSeq       = "seq"
	HeaderType      = "type"
)
