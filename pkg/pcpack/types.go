package pcpack

// PackHeader is the fixed 44-byte record at file offset 0. The reserved
// fields carry engine data this tool does not interpret; they are
// round-tripped unchanged.
type PackHeader struct {
	Versions        [5]uint32
	Field14         uint32
	DirectoryOffset uint32 // byte offset of the mash header, typically 0x30
	PayloadBase     uint32 // byte offset where the payload region begins
	Field20         uint32
	Field24         uint32
	Field28         uint32
}

// MashHeader is the fixed 16-byte record immediately preceding the
// resource directory. Preserved verbatim by every rebuild.
type MashHeader struct {
	SafetyKey int32
	Field4    int32
	Field8    int32
	ClassID   int16
	FieldE    int16
}

// VectorDesc describes one index vector in the directory. Data is the
// on-disk pointer placeholder left behind by the engine's in-place mash
// loader; it is never dereferenced and written back unchanged.
type VectorDesc struct {
	Data   uint32
	Count  uint16
	Shared uint8
	Field7 uint8
}

// ResourceLocation addresses one payload blob: content hash + type code,
// and an offset (relative to the payload base) and size in bytes.
type ResourceLocation struct {
	Hash   uint32
	Type   uint32
	Offset uint32
	Size   uint32
}

// End returns the exclusive end of the payload range, relative to the
// payload base.
func (r ResourceLocation) End() uint32 { return r.Offset + r.Size }

// Contains reports whether off falls inside this resource's payload range.
func (r ResourceLocation) Contains(off uint32) bool {
	return off >= r.Offset && off < r.Offset+r.Size
}

// TypeListLocation is a secondary reference into a primary resource's
// payload bytes. Offset is relative to the payload base; an offset that
// matches no resource range is a sentinel and passes through rebuilds
// unchanged.
type TypeListLocation struct {
	Hash   uint32
	Kind   uint8
	Pad    [3]byte
	Offset uint32
}

// ResourceDirectory is the fixed 700-byte directory record. The two
// 70-entry tables map each resource type code to the first index and the
// count of entries of that type in the resource location array, which is
// kept sorted by type.
type ResourceDirectory struct {
	Parents   VectorDesc
	Resources VectorDesc
	TypeLists [NumTypeLists]VectorDesc
	Field68   VectorDesc
	Field70   VectorDesc

	PackSlot int32
	Base     int32 // must equal PackHeader.PayloadBase
	Field80  int32
	Field84  int32
	Field88  int32

	TypeStart [NumResourceTypes]int32
	TypeCount [NumResourceTypes]int32
}
