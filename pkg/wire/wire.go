// Package wire encodes change lists as CBOR frames so a render tree can drive
// a host surface in another process.
//
// Each frame is encoded in canonical CBOR with integer map keys and written
// with an unsigned varint length prefix.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/go-drift/actuate/pkg/core"
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Frame is one applied change list.
type Frame struct {
	Seq     uint64   `cbor:"1,keyasint"`
	Changes []Change `cbor:"2,keyasint,omitempty"`
}

// Change is the wire form of core.Change.
type Change struct {
	Op     uint8             `cbor:"1,keyasint"`
	ID     core.ElementID    `cbor:"2,keyasint"`
	Parent core.ElementID    `cbor:"3,keyasint"`
	Slot   []int             `cbor:"4,keyasint,omitempty"`
	Tag    string            `cbor:"5,keyasint,omitempty"`
	Text   string            `cbor:"6,keyasint,omitempty"`
	Attrs  map[string]string `cbor:"7,keyasint,omitempty"`
}

// NewFrame converts a change list into a frame.
func NewFrame(seq uint64, changes core.ChangeList) Frame {
	f := Frame{Seq: seq, Changes: make([]Change, len(changes))}
	for i, c := range changes {
		f.Changes[i] = Change{
			Op:     uint8(c.Op),
			ID:     c.ID,
			Parent: c.Parent,
			Slot:   c.Slot,
			Tag:    c.Tag,
			Text:   c.Text,
			Attrs:  c.Attrs,
		}
	}
	return f
}

// ChangeList converts the frame back into a change list.
func (f Frame) ChangeList() core.ChangeList {
	if len(f.Changes) == 0 {
		return nil
	}
	changes := make(core.ChangeList, len(f.Changes))
	for i, c := range f.Changes {
		changes[i] = core.Change{
			Op:     core.Op(c.Op),
			ID:     c.ID,
			Parent: c.Parent,
			Slot:   c.Slot,
			Tag:    c.Tag,
			Text:   c.Text,
			Attrs:  c.Attrs,
		}
	}
	return changes
}

// Marshal serializes a frame to canonical CBOR.
func Marshal(f Frame) ([]byte, error) {
	return encMode.Marshal(f)
}

// Unmarshal deserializes a frame from CBOR.
func Unmarshal(data []byte) (Frame, error) {
	var f Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("wire: unmarshal frame: %w", err)
	}
	return f, nil
}
