// record.go — raw in-flight records and their validated decoding.
//
// A RawRecord is what an interception point sees of a raise: an origin tag,
// a layout version and the value itself. Decode turns it into a View (the
// ordered catchable-type descriptors plus the payload nodes they point into)
// or rejects it. Nothing unrecognized is ever interpreted speculatively.
package xgxtrap

import (
	"fmt"
	"reflect"
	"runtime"
)

// Magic tags the origin of a raw record.
type Magic uint32

const (
	// MagicPanic tags a value recovered from an ordinary panic.
	MagicPanic Magic = 0x474f504e // 'GOPN'
	// MagicRuntime tags a recovered value implementing runtime.Error
	// (nil dereference, index out of range, ...).
	MagicRuntime Magic = 0x474f5254 // 'GORT'
	// MagicRaised tags a value handed to Raise before the panic begins.
	MagicRaised Magic = 0x474f5253 // 'GORS'
)

func (m Magic) String() string {
	switch m {
	case MagicPanic:
		return "panic"
	case MagicRuntime:
		return "runtime"
	case MagicRaised:
		return "raised"
	}
	return fmt.Sprintf("Magic(%#x)", uint32(m))
}

// RecordVersion is the only record layout Decode accepts.
const RecordVersion uint32 = 1

// RawRecord is a read-only view of an in-flight raise, valid only inside the
// interception window.
type RawRecord struct {
	Magic   Magic
	Version uint32
	Payload any
}

// NewRecord tags payload for the interception point it was observed at.
// raised is true when the value comes from Raise (before panic), false when it
// was recovered from a panic.
func NewRecord(payload any, raised bool) RawRecord {
	rec := RawRecord{Magic: MagicPanic, Version: RecordVersion, Payload: payload}
	switch {
	case raised:
		rec.Magic = MagicRaised
	default:
		if _, ok := payload.(runtime.Error); ok {
			rec.Magic = MagicRuntime
		}
	}
	return rec
}

// View is the decoded, strongly-typed form of a RawRecord.
type View struct {
	record      RawRecord
	nodes       []any
	descriptors []Descriptor
}

// Record returns the record the view was decoded from.
func (v *View) Record() RawRecord { return v.record }

// Descriptors returns a copy of the catchable types in declared order.
func (v *View) Descriptors() []Descriptor {
	out := make([]Descriptor, len(v.descriptors))
	copy(out, v.descriptors)
	return out
}

// Thrown returns the descriptor of the raised value's own concrete type.
func (v *View) Thrown() Descriptor { return v.descriptors[0] }

// node returns the payload node at displacement d.
func (v *View) node(d int) any { return v.nodes[d] }

// Decode validates rec and builds its View. It returns a DecodeFailure error
// for an unknown tag, a layout version mismatch or a nil payload.
func Decode(rec RawRecord) (*View, error) {
	switch rec.Magic {
	case MagicPanic, MagicRuntime, MagicRaised:
	default:
		return nil, DecodeFailure("unknown record tag", "magic", fmt.Sprintf("%#x", uint32(rec.Magic)))
	}
	if rec.Version != RecordVersion {
		return nil, DecodeFailure("unsupported record version", "version", rec.Version, "want", RecordVersion)
	}
	if rec.Payload == nil {
		return nil, DecodeFailure("record has no payload", "magic", rec.Magic.String())
	}

	v := &View{record: rec}
	walkPayload(rec.Payload, func(n any) bool {
		d := len(v.nodes)
		v.nodes = append(v.nodes, n)
		t := reflect.TypeOf(n)
		base := Descriptor{
			Displacement: d,
			Size:         t.Size(),
			Module:       modulePath(t),
			Copy:         duplicate,
		}
		conc := base
		conc.Token = TypeToken{t: t}
		v.descriptors = append(v.descriptors, conc)
		for _, it := range catchable.implementedBy(t) {
			iface := base
			iface.Token = TypeToken{t: it}
			v.descriptors = append(v.descriptors, iface)
		}
		return true
	})
	return v, nil
}

// modulePath reports the package owning t, looking through pointers.
func modulePath(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}
