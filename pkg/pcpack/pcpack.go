// Package pcpack implements the PCPACK asset container format.
//
// A PCPACK file carries a fixed 44-byte pack header, a resource directory
// (a 16-byte mash header followed by a fixed 700-byte directory record and
// a run of alignment-padded index vectors), and a payload region of
// concatenated binary blobs. Every resource offset is relative to the
// payload base recorded in the header. The package describes structure and
// data only; payload contents are opaque byte ranges.
package pcpack

// Fixed record sizes. These must never change: the directory layout is
// part of the format contract and a container whose directory size differs
// cannot be parsed.
const (
	packHeaderSize   = 0x2C
	mashHeaderSize   = 0x10
	directorySize    = 0x2BC
	vectorDescSize   = 8
	resourceLocSize  = 0x10
	typeListLocSize  = 0x0C
	NumResourceTypes = 70
	NumTypeLists     = 11
)

// PadByte fills alignment gaps between serialized vectors and between the
// directory area and the payload base. The original tool pads with 0xE3,
// and byte-exact round trips depend on it.
const PadByte byte = 0xE3

// DefaultAlign is the payload alignment applied between resources when a
// rebuild assigns new offsets.
const DefaultAlign = 16

// TypeListKind identifies one of the eleven typed cross-reference vectors
// in the resource directory, in their fixed on-disk order.
type TypeListKind int

const (
	KindTexture TypeListKind = iota
	KindMeshFile
	KindMesh
	KindMorphFile
	KindMorph
	KindMaterialFile
	KindMaterial
	KindAnimFile
	KindAnim
	KindSceneAnim
	KindSkeleton
)

var typeListKindNames = [NumTypeLists]string{
	"texture",
	"mesh_file",
	"mesh",
	"morph_file",
	"morph",
	"material_file",
	"material",
	"anim_file",
	"anim",
	"scene_anim",
	"skeleton",
}

func (k TypeListKind) String() string {
	if k < 0 || int(k) >= NumTypeLists {
		return "unknown"
	}
	return typeListKindNames[k]
}
