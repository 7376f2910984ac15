package element

import (
	"fmt"
	"sync"
)

// Decoder rebuilds an unwired element of one kind from its persisted
// properties.
type Decoder func(properties []byte) (Element, error)

var (
	decodersMu sync.RWMutex
	decoders   = make(map[ElementKind]Decoder)
)

// Register makes a decoder available for kind. It panics if the kind is
// unknown or already registered.
func Register(kind ElementKind, dec Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	if !kind.Valid() {
		panic(fmt.Sprintf("element: Register of unknown kind %d", uint8(kind)))
	}
	if dec == nil {
		panic("element: Register decoder is nil")
	}
	if _, dup := decoders[kind]; dup {
		panic("element: Register called twice for " + kind.String())
	}
	decoders[kind] = dec
}

func decoderFor(kind ElementKind) (Decoder, bool) {
	decodersMu.RLock()
	defer decodersMu.RUnlock()
	dec, ok := decoders[kind]
	return dec, ok
}
