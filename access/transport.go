package access

import (
	"github.com/cockroachdb/errors"
)

// Channel selects a delivery class on the transport. Reliability and
// ordering are the transport's business; the serializer only labels the send.
type Channel uint8

const (
	Reliable Channel = iota
	Unreliable
)

func (c Channel) String() string {
	switch c {
	case Reliable:
		return "reliable"
	case Unreliable:
		return "unreliable"
	}
	return "unknown"
}

// Transport carries finished segments to peers.
type Transport interface {
	Send(channel Channel, segment []byte) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(channel Channel, segment []byte) error

func (f TransportFunc) Send(channel Channel, segment []byte) error {
	return f(channel, segment)
}

// SendSegment hands exactly the written bytes of w to t. The segment aliases
// the writer's storage, so the transport must copy it before w is written to
// again or released.
func SendSegment(t Transport, channel Channel, w *Writer) error {
	if err := t.Send(channel, w.GetArraySegment()); err != nil {
		return errors.Wrapf(err, "send %d bytes on %s channel", w.Length(), channel)
	}
	return nil
}
