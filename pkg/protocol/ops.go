package protocol

import "github.com/vmihailenco/msgpack/v5"

// OpKind is the type of host operation.
type OpKind uint8

const (
	OpCreateElement  OpKind = 0x01 // Create an element node
	OpCreateText     OpKind = 0x02 // Create a text node
	OpCreateComment  OpKind = 0x03 // Create a comment node
	OpSetElementText OpKind = 0x04 // Replace an element's content with text
	OpSetText        OpKind = 0x05 // Update a text or comment node
	OpInsert         OpKind = 0x06 // Insert node before anchor inside parent
	OpRemove         OpKind = 0x07 // Remove node
	OpSetAttr        OpKind = 0x08 // Set attribute
	OpRemoveAttr     OpKind = 0x09 // Remove attribute
	OpListen         OpKind = 0x0A // Forward the named event from this node
	OpUnlisten       OpKind = 0x0B // Stop forwarding the named event
	OpSelectTarget   OpKind = 0x0C // Bind a node ID to a selector match
)

// String returns the string representation of the op kind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateComment:
		return "CreateComment"
	case OpSetElementText:
		return "SetElementText"
	case OpSetText:
		return "SetText"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	case OpSelectTarget:
		return "SelectTarget"
	default:
		return "Unknown"
	}
}

// Op is a single host operation. Node IDs are allocated by the server;
// ID zero means "no node" (a nil anchor on Insert).
type Op struct {
	Kind   OpKind `msgpack:"k"`
	Node   uint64 `msgpack:"n"`
	Parent uint64 `msgpack:"p,omitempty"`
	Anchor uint64 `msgpack:"a,omitempty"`
	Tag    string `msgpack:"t,omitempty"`
	Key    string `msgpack:"y,omitempty"`
	Value  string `msgpack:"v,omitempty"`
}

// OpsBatch is an ordered batch of host operations. Seq increments per
// batch so the client can detect loss and request a resync.
type OpsBatch struct {
	Seq uint64 `msgpack:"s"`
	Ops []Op   `msgpack:"o"`
}

// EncodeOps encodes a batch into an ops frame.
func EncodeOps(batch *OpsBatch) (*Frame, error) {
	payload, err := msgpack.Marshal(batch)
	if err != nil {
		return nil, err
	}
	return NewFrame(FrameOps, payload), nil
}

// DecodeOps decodes an ops frame payload.
func DecodeOps(f *Frame) (*OpsBatch, error) {
	if f.Type != FrameOps {
		return nil, ErrInvalidFrameType
	}
	var batch OpsBatch
	if err := msgpack.Unmarshal(f.Payload, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// NewCreateElementOp creates an element-creation op.
func NewCreateElementOp(node uint64, tag string) Op {
	return Op{Kind: OpCreateElement, Node: node, Tag: tag}
}

// NewCreateTextOp creates a text-node-creation op.
func NewCreateTextOp(node uint64, text string) Op {
	return Op{Kind: OpCreateText, Node: node, Value: text}
}

// NewCreateCommentOp creates a comment-node-creation op.
func NewCreateCommentOp(node uint64, text string) Op {
	return Op{Kind: OpCreateComment, Node: node, Value: text}
}

// NewSetElementTextOp creates a content-replacement op.
func NewSetElementTextOp(node uint64, text string) Op {
	return Op{Kind: OpSetElementText, Node: node, Value: text}
}

// NewSetTextOp creates a text-update op.
func NewSetTextOp(node uint64, text string) Op {
	return Op{Kind: OpSetText, Node: node, Value: text}
}

// NewInsertOp creates an insertion op; anchor zero appends.
func NewInsertOp(node, parent, anchor uint64) Op {
	return Op{Kind: OpInsert, Node: node, Parent: parent, Anchor: anchor}
}

// NewRemoveOp creates a removal op.
func NewRemoveOp(node uint64) Op {
	return Op{Kind: OpRemove, Node: node}
}

// NewSetAttrOp creates an attribute-set op.
func NewSetAttrOp(node uint64, key, value string) Op {
	return Op{Kind: OpSetAttr, Node: node, Key: key, Value: value}
}

// NewRemoveAttrOp creates an attribute-removal op.
func NewRemoveAttrOp(node uint64, key string) Op {
	return Op{Kind: OpRemoveAttr, Node: node, Key: key}
}

// NewListenOp creates an event-subscription op.
func NewListenOp(node uint64, event string) Op {
	return Op{Kind: OpListen, Node: node, Key: event}
}

// NewUnlistenOp creates an event-unsubscription op.
func NewUnlistenOp(node uint64, event string) Op {
	return Op{Kind: OpUnlisten, Node: node, Key: event}
}

// NewSelectTargetOp binds a server-side node ID to the client's first
// match of a selector, used for teleport targets.
func NewSelectTargetOp(node uint64, selector string) Op {
	return Op{Kind: OpSelectTarget, Node: node, Value: selector}
}
