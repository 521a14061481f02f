package pcpack

import (
	"encoding/binary"
	"fmt"
)

type payloadWrite struct {
	offset uint32
	data   []byte
}

type serializeInput struct {
	header    PackHeader
	mash      MashHeader
	dir       ResourceDirectory
	parents   []int32
	resources []ResourceLocation
	typeLists [NumTypeLists][]TypeListLocation
	payloads  []payloadWrite

	// fixedBase keeps the original payload base and fails when the
	// directory area outgrows it. Otherwise the base is recomputed from
	// the directory end, never moving backwards.
	fixedBase bool
	align     int
}

type outBuf struct {
	b []byte
}

func (o *outBuf) padTo(n int, fill byte) {
	if n <= len(o.b) {
		return
	}
	pad := make([]byte, n-len(o.b))
	if fill != 0 {
		for i := range pad {
			pad[i] = fill
		}
	}
	o.b = append(o.b, pad...)
}

func (o *outBuf) alignTo(a int, fill byte) {
	o.padTo(AlignUp(len(o.b), a), fill)
}

// emitVector writes one index vector with the canonical padding
// sequence: align to 8, then 4, payload, then 4 again. The sequence must
// stay the exact inverse of the parser's.
func (o *outBuf) emitVector(raw []byte) {
	o.alignTo(8, PadByte)
	o.alignTo(4, PadByte)
	o.b = append(o.b, raw...)
	o.alignTo(4, PadByte)
}

func serializePack(in serializeInput) ([]byte, error) {
	hdr := in.header
	dir := in.dir
	dir.Parents.Count = uint16(len(in.parents))
	dir.Resources.Count = uint16(len(in.resources))
	for k := range in.typeLists {
		dir.TypeLists[k].Count = uint16(len(in.typeLists[k]))
	}

	var out outBuf
	out.b = make([]byte, packHeaderSize, packHeaderSize+directorySize)
	out.padTo(int(hdr.DirectoryOffset), 0x00)

	var mashRaw [mashHeaderSize]byte
	encodeMashHeader(mashRaw[:], in.mash)
	out.b = append(out.b, mashRaw[:]...)

	dirPos := len(out.b)
	out.b = append(out.b, make([]byte, directorySize)...)

	raw := make([]byte, len(in.parents)*4)
	for i, v := range in.parents {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(v))
	}
	out.emitVector(raw)

	raw = make([]byte, len(in.resources)*resourceLocSize)
	for i, rl := range in.resources {
		encodeResourceLocation(raw[i*resourceLocSize:], rl)
	}
	out.emitVector(raw)

	for k := range in.typeLists {
		raw = make([]byte, len(in.typeLists[k])*typeListLocSize)
		for i, tl := range in.typeLists[k] {
			encodeTypeListLocation(raw[i*typeListLocSize:], tl)
		}
		out.emitVector(raw)
	}

	dirEnd := len(out.b)
	base := int(hdr.PayloadBase)
	if in.fixedBase {
		if dirEnd > base {
			return nil, fmt.Errorf("%w: directory area 0x%X exceeds payload base 0x%X",
				ErrFormat, dirEnd, base)
		}
	} else {
		base = AlignUp(dirEnd, 16)
		// The base never moves backwards across rebuilds, even when the
		// directory shrank.
		if base < int(hdr.PayloadBase) {
			base = int(hdr.PayloadBase)
		}
		hdr.PayloadBase = uint32(base)
	}
	dir.Base = int32(base)
	out.padTo(base, PadByte)

	for _, pw := range in.payloads {
		start := base + int(pw.offset)
		out.padTo(start+len(pw.data), 0x00)
		copy(out.b[start:], pw.data)
	}

	encodePackHeader(out.b, hdr)
	encodeDirectory(out.b[dirPos:], dir)
	return out.b, nil
}
