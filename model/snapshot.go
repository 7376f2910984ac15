package model

import (
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/notargets/StructFE/element"
	"github.com/vmihailenco/msgpack/v5"
)

// NodeRecord is the persisted form of a node
type NodeRecord struct {
	Index int     `msgpack:"index"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Z     float64 `msgpack:"z"`
}

// Snapshot is the persisted form of a model. Elements reference nodes by
// index only, so loading one is a two phase affair (see Loader).
type Snapshot struct {
	Nodes    []NodeRecord     `msgpack:"nodes"`
	Elements []element.Record `msgpack:"elements"`
}

// Encode writes the snapshot as a snappy framed msgpack stream
func (s *Snapshot) Encode(w io.Writer) error {
	sw := snappy.NewBufferedWriter(w)
	if err := msgpack.NewEncoder(sw).Encode(s); err != nil {
		_ = sw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(snappy.NewReader(r)).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
