package protocol

import "github.com/vmihailenco/msgpack/v5"

// Version is the protocol version exchanged during the handshake.
const Version = 1

// Handshake is the first frame a client sends: which component it wants
// mounted and the request parameters the component renders with.
type Handshake struct {
	Version   int               `msgpack:"v"`
	Component string            `msgpack:"c"`
	Params    map[string]string `msgpack:"p,omitempty"`
}

// Event is a client-to-server event notification, forwarded from a node
// the server subscribed with OpListen.
type Event struct {
	Node    uint64         `msgpack:"n"`
	Name    string         `msgpack:"e"`
	Payload map[string]any `msgpack:"d,omitempty"`
}

// Ack acknowledges an ops batch by sequence number.
type Ack struct {
	Seq uint64 `msgpack:"s"`
}

// ControlKind identifies a control message.
type ControlKind uint8

const (
	ControlPing   ControlKind = 0x01
	ControlPong   ControlKind = 0x02
	ControlResync ControlKind = 0x03 // Client lost state; resend the tree
)

// Control is a lightweight keepalive or recovery message.
type Control struct {
	Kind ControlKind `msgpack:"k"`
}

// ErrorMessage reports a failure to the peer. Fatal errors are followed
// by connection close.
type ErrorMessage struct {
	Code    string `msgpack:"c"`
	Message string `msgpack:"m"`
	Fatal   bool   `msgpack:"f,omitempty"`
}

// EncodeHandshake encodes a handshake frame.
func EncodeHandshake(h *Handshake) (*Frame, error) {
	return marshalFrame(FrameHandshake, h)
}

// DecodeHandshake decodes a handshake frame payload.
func DecodeHandshake(f *Frame) (*Handshake, error) {
	if f.Type != FrameHandshake {
		return nil, ErrInvalidFrameType
	}
	var h Handshake
	if err := msgpack.Unmarshal(f.Payload, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// EncodeEvent encodes an event frame.
func EncodeEvent(e *Event) (*Frame, error) {
	return marshalFrame(FrameEvent, e)
}

// DecodeEvent decodes an event frame payload.
func DecodeEvent(f *Frame) (*Event, error) {
	if f.Type != FrameEvent {
		return nil, ErrInvalidFrameType
	}
	var e Event
	if err := msgpack.Unmarshal(f.Payload, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// EncodeAck encodes an ack frame.
func EncodeAck(a *Ack) (*Frame, error) {
	return marshalFrame(FrameAck, a)
}

// DecodeAck decodes an ack frame payload.
func DecodeAck(f *Frame) (*Ack, error) {
	if f.Type != FrameAck {
		return nil, ErrInvalidFrameType
	}
	var a Ack
	if err := msgpack.Unmarshal(f.Payload, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// EncodeControl encodes a control frame.
func EncodeControl(c *Control) (*Frame, error) {
	return marshalFrame(FrameControl, c)
}

// DecodeControl decodes a control frame payload.
func DecodeControl(f *Frame) (*Control, error) {
	if f.Type != FrameControl {
		return nil, ErrInvalidFrameType
	}
	var c Control
	if err := msgpack.Unmarshal(f.Payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// EncodeError encodes an error frame.
func EncodeError(e *ErrorMessage) (*Frame, error) {
	return marshalFrame(FrameError, e)
}

// DecodeError decodes an error frame payload.
func DecodeError(f *Frame) (*ErrorMessage, error) {
	if f.Type != FrameError {
		return nil, ErrInvalidFrameType
	}
	var e ErrorMessage
	if err := msgpack.Unmarshal(f.Payload, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func marshalFrame(ft FrameType, v any) (*Frame, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	return NewFrame(ft, payload), nil
}
