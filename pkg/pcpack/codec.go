package pcpack

import "encoding/binary"

// All records are encoded little-endian at fixed offsets. The encode and
// decode routines are the only code that touches the wire layout; nothing
// in this package overlays structs onto file bytes.

func decodePackHeader(b []byte) (PackHeader, bool) {
	var h PackHeader
	if len(b) < packHeaderSize {
		return h, false
	}
	for i := range h.Versions {
		h.Versions[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	h.Field14 = binary.LittleEndian.Uint32(b[0x14:])
	h.DirectoryOffset = binary.LittleEndian.Uint32(b[0x18:])
	h.PayloadBase = binary.LittleEndian.Uint32(b[0x1C:])
	h.Field20 = binary.LittleEndian.Uint32(b[0x20:])
	h.Field24 = binary.LittleEndian.Uint32(b[0x24:])
	h.Field28 = binary.LittleEndian.Uint32(b[0x28:])
	return h, true
}

func encodePackHeader(b []byte, h PackHeader) bool {
	if len(b) < packHeaderSize {
		return false
	}
	for i, v := range h.Versions {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	binary.LittleEndian.PutUint32(b[0x14:], h.Field14)
	binary.LittleEndian.PutUint32(b[0x18:], h.DirectoryOffset)
	binary.LittleEndian.PutUint32(b[0x1C:], h.PayloadBase)
	binary.LittleEndian.PutUint32(b[0x20:], h.Field20)
	binary.LittleEndian.PutUint32(b[0x24:], h.Field24)
	binary.LittleEndian.PutUint32(b[0x28:], h.Field28)
	return true
}

func decodeMashHeader(b []byte) (MashHeader, bool) {
	var m MashHeader
	if len(b) < mashHeaderSize {
		return m, false
	}
	m.SafetyKey = int32(binary.LittleEndian.Uint32(b[0x00:]))
	m.Field4 = int32(binary.LittleEndian.Uint32(b[0x04:]))
	m.Field8 = int32(binary.LittleEndian.Uint32(b[0x08:]))
	m.ClassID = int16(binary.LittleEndian.Uint16(b[0x0C:]))
	m.FieldE = int16(binary.LittleEndian.Uint16(b[0x0E:]))
	return m, true
}

func encodeMashHeader(b []byte, m MashHeader) bool {
	if len(b) < mashHeaderSize {
		return false
	}
	binary.LittleEndian.PutUint32(b[0x00:], uint32(m.SafetyKey))
	binary.LittleEndian.PutUint32(b[0x04:], uint32(m.Field4))
	binary.LittleEndian.PutUint32(b[0x08:], uint32(m.Field8))
	binary.LittleEndian.PutUint16(b[0x0C:], uint16(m.ClassID))
	binary.LittleEndian.PutUint16(b[0x0E:], uint16(m.FieldE))
	return true
}

func decodeVectorDesc(b []byte) VectorDesc {
	return VectorDesc{
		Data:   binary.LittleEndian.Uint32(b[0:]),
		Count:  binary.LittleEndian.Uint16(b[4:]),
		Shared: b[6],
		Field7: b[7],
	}
}

func encodeVectorDesc(b []byte, v VectorDesc) {
	binary.LittleEndian.PutUint32(b[0:], v.Data)
	binary.LittleEndian.PutUint16(b[4:], v.Count)
	b[6] = v.Shared
	b[7] = v.Field7
}

func decodeDirectory(b []byte) (ResourceDirectory, bool) {
	var d ResourceDirectory
	if len(b) < directorySize {
		return d, false
	}
	d.Parents = decodeVectorDesc(b[0x00:])
	d.Resources = decodeVectorDesc(b[0x08:])
	for i := range d.TypeLists {
		d.TypeLists[i] = decodeVectorDesc(b[0x10+i*vectorDescSize:])
	}
	d.Field68 = decodeVectorDesc(b[0x68:])
	d.Field70 = decodeVectorDesc(b[0x70:])
	d.PackSlot = int32(binary.LittleEndian.Uint32(b[0x78:]))
	d.Base = int32(binary.LittleEndian.Uint32(b[0x7C:]))
	d.Field80 = int32(binary.LittleEndian.Uint32(b[0x80:]))
	d.Field84 = int32(binary.LittleEndian.Uint32(b[0x84:]))
	d.Field88 = int32(binary.LittleEndian.Uint32(b[0x88:]))
	for i := 0; i < NumResourceTypes; i++ {
		d.TypeStart[i] = int32(binary.LittleEndian.Uint32(b[0x8C+i*4:]))
		d.TypeCount[i] = int32(binary.LittleEndian.Uint32(b[0x1A4+i*4:]))
	}
	return d, true
}

func encodeDirectory(b []byte, d ResourceDirectory) bool {
	if len(b) < directorySize {
		return false
	}
	encodeVectorDesc(b[0x00:], d.Parents)
	encodeVectorDesc(b[0x08:], d.Resources)
	for i := range d.TypeLists {
		encodeVectorDesc(b[0x10+i*vectorDescSize:], d.TypeLists[i])
	}
	encodeVectorDesc(b[0x68:], d.Field68)
	encodeVectorDesc(b[0x70:], d.Field70)
	binary.LittleEndian.PutUint32(b[0x78:], uint32(d.PackSlot))
	binary.LittleEndian.PutUint32(b[0x7C:], uint32(d.Base))
	binary.LittleEndian.PutUint32(b[0x80:], uint32(d.Field80))
	binary.LittleEndian.PutUint32(b[0x84:], uint32(d.Field84))
	binary.LittleEndian.PutUint32(b[0x88:], uint32(d.Field88))
	for i := 0; i < NumResourceTypes; i++ {
		binary.LittleEndian.PutUint32(b[0x8C+i*4:], uint32(d.TypeStart[i]))
		binary.LittleEndian.PutUint32(b[0x1A4+i*4:], uint32(d.TypeCount[i]))
	}
	return true
}

func decodeResourceLocation(b []byte) ResourceLocation {
	return ResourceLocation{
		Hash:   binary.LittleEndian.Uint32(b[0x0:]),
		Type:   binary.LittleEndian.Uint32(b[0x4:]),
		Offset: binary.LittleEndian.Uint32(b[0x8:]),
		Size:   binary.LittleEndian.Uint32(b[0xC:]),
	}
}

func encodeResourceLocation(b []byte, r ResourceLocation) {
	binary.LittleEndian.PutUint32(b[0x0:], r.Hash)
	binary.LittleEndian.PutUint32(b[0x4:], r.Type)
	binary.LittleEndian.PutUint32(b[0x8:], r.Offset)
	binary.LittleEndian.PutUint32(b[0xC:], r.Size)
}

func decodeTypeListLocation(b []byte) TypeListLocation {
	var t TypeListLocation
	t.Hash = binary.LittleEndian.Uint32(b[0:])
	t.Kind = b[4]
	copy(t.Pad[:], b[5:8])
	t.Offset = binary.LittleEndian.Uint32(b[8:])
	return t
}

func encodeTypeListLocation(b []byte, t TypeListLocation) {
	binary.LittleEndian.PutUint32(b[0:], t.Hash)
	b[4] = t.Kind
	copy(b[5:8], t.Pad[:])
	binary.LittleEndian.PutUint32(b[8:], t.Offset)
}
