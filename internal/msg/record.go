package msg

// Header is a Kafka record header
type Header struct {
	Key   string
	Value []byte
}

// Record represents a consumed Kafka record
type Record struct {
	Topic     string
	Key       string
	Value     []byte
	Headers   []Header
	Partition int32
	Offset    int64
	Timestamp int64
}

// Header returns the value of the first header named key
func (r Record) Header(key string) ([]byte, bool) {
	for _, h := range r.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return nil, false
}
