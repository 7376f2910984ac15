package element

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is the persisted form of an element. Node references are stored as
// node indices and must be resolved once the node table has been rebuilt.
type Record struct {
	Index       int         `msgpack:"index"`
	Kind        ElementKind `msgpack:"kind"`
	Loads       []Load      `msgpack:"loads"`
	NodeIndices []int       `msgpack:"nodeIndices"`
	Properties  []byte      `msgpack:"properties"`
}

// ToRecord captures e for persistence. Resolved elements store the indices of
// their nodes, Raw elements their pending raw indices.
func ToRecord(e Element) (Record, error) {
	b := e.core()
	if b.State() == Unwired {
		return Record{}, fmt.Errorf("%s: cannot persist: %w", b.label(), ErrInvalidTopology)
	}
	props, err := e.MarshalProperties()
	if err != nil {
		return Record{}, fmt.Errorf("%s: encode properties: %w", b.label(), err)
	}
	return Record{
		Index:       e.Index(),
		Kind:        b.kind,
		Loads:       b.Loads(),
		NodeIndices: b.NodeIndices(),
		Properties:  props,
	}, nil
}

// FromRecord rebuilds an element in the Raw state. Its nodes stay unset until
// Resolve is called with the model's node table.
func FromRecord(rec Record) (Element, error) {
	if !rec.Kind.Valid() {
		return nil, fmt.Errorf("element %d: unknown kind %d: %w", rec.Index, uint8(rec.Kind), ErrMalformedTopology)
	}
	if len(rec.NodeIndices) != rec.Kind.NodeCount() {
		return nil, fmt.Errorf("%v element %d: %d node indices, kind needs %d: %w",
			rec.Kind, rec.Index, len(rec.NodeIndices), rec.Kind.NodeCount(), ErrMalformedTopology)
	}
	dec, ok := decoderFor(rec.Kind)
	if !ok {
		return nil, fmt.Errorf("%v element %d: no decoder registered: %w", rec.Kind, rec.Index, ErrMalformedTopology)
	}
	e, err := dec(rec.Properties)
	if err != nil {
		return nil, fmt.Errorf("%v element %d: %w", rec.Kind, rec.Index, err)
	}
	b := e.core()
	if rec.Index >= 0 {
		if err = b.AssignIndex(rec.Index); err != nil {
			return nil, err
		}
	}
	for _, l := range rec.Loads {
		if err = b.AddLoad(l); err != nil {
			return nil, err
		}
	}
	b.setRaw(rec.NodeIndices)
	return e, nil
}

// MarshalRecord encodes a record with msgpack
func MarshalRecord(rec Record) ([]byte, error) {
	return msgpack.Marshal(&rec)
}

func UnmarshalRecord(data []byte) (rec Record, err error) {
	if err = msgpack.Unmarshal(data, &rec); err != nil {
		err = fmt.Errorf("decode element record: %w", err)
	}
	return
}

// Marshal is ToRecord followed by MarshalRecord
func Marshal(e Element) ([]byte, error) {
	rec, err := ToRecord(e)
	if err != nil {
		return nil, err
	}
	return MarshalRecord(rec)
}

// Unmarshal decodes an element in the Raw state
func Unmarshal(data []byte) (Element, error) {
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec)
}
