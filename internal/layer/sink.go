package layer

// Sink terminates a chain. Its deltas slot receives the gradient of the loss
// with respect to the chain output; whoever computes the loss writes it
// there before the backward pass starts.
type Sink struct {
	Node
}

// NewSink creates a sink after input.
func NewSink(input Layer) (*Sink, error) {
	l := &Sink{}
	if _, err := l.Init(input); err != nil {
		return nil, err
	}
	return l, nil
}

// Init initializes a caller-allocated sink.
func (l *Sink) Init(input Layer) (Layer, error) {
	if err := l.link(l, SinkType, input, nil); err != nil {
		return nil, err
	}
	return l, nil
}

// Base returns the node record.
func (l *Sink) Base() *Node {
	if l == nil {
		return nil
	}
	return &l.Node
}

// Forward does nothing.
func (l *Sink) Forward() error { return nil }

// Backward does nothing.
func (l *Sink) Backward() error { return nil }
