package pcpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Pack is a parsed container: the raw file bytes plus the decoded header,
// directory and index vectors. A Pack is immutable after parsing; rebuild
// operations work on their own copies of the vectors. Each operation
// should parse its own Pack, nothing is shared between calls.
type Pack struct {
	Data      []byte
	Header    PackHeader
	Mash      MashHeader
	Dir       ResourceDirectory
	Parents   []int32
	Resources []ResourceLocation
	TypeLists [NumTypeLists][]TypeListLocation

	mmapped bool
}

// Open maps a container read-only and parses its structure. If mmap is
// unavailable, it falls back to ReadAt-based loading. The returned Pack
// must be closed to release any mapping.
func Open(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: file size %d not addressable", ErrFormat, size64)
	}
	size := int(size64)

	// Prefer mmap where available for zero-copy payload slices.
	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		p, parseErr := parsePackData(data, true)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return p, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parsePackData(data, false)
}

// OpenReaderAt loads and parses a container from a random-access reader
// without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*Pack, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: file size %d not addressable", ErrFormat, size)
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parsePackData(data, false)
}

// Parse parses a container from an in-memory buffer. The Pack retains
// data; the caller must not mutate it afterwards.
func Parse(data []byte) (*Pack, error) {
	return parsePackData(data, false)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parsePackData(data []byte, mmapped bool) (*Pack, error) {
	if len(data) < packHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the pack header", ErrFormat, len(data))
	}
	hdr, _ := decodePackHeader(data)

	if uint64(hdr.PayloadBase) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: payload base 0x%X past end of file", ErrFormat, hdr.PayloadBase)
	}

	dirOff := uint64(hdr.DirectoryOffset)
	if dirOff+mashHeaderSize+directorySize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: directory at 0x%X out of bounds", ErrFormat, hdr.DirectoryOffset)
	}

	mash, _ := decodeMashHeader(data[dirOff:])
	dir, _ := decodeDirectory(data[dirOff+mashHeaderSize:])

	if uint32(dir.Base) != hdr.PayloadBase {
		return nil, fmt.Errorf("%w: directory base 0x%X disagrees with header payload base 0x%X",
			ErrFormat, uint32(dir.Base), hdr.PayloadBase)
	}

	p := &Pack{
		Data:    data,
		Header:  hdr,
		Mash:    mash,
		Dir:     dir,
		mmapped: mmapped,
	}

	// The vectors follow the directory in a fixed order, each preceded by
	// the canonical align-8 then align-4 sequence and followed by another
	// align-4. This is the exact inverse of the rebuild serialization.
	pos := int(dirOff) + mashHeaderSize + directorySize

	readVec := func(count int, elemSize int, name string) ([]byte, error) {
		pos = AlignUp(pos, 8)
		pos = AlignUp(pos, 4)
		n := count * elemSize
		if pos+n > len(data) {
			return nil, fmt.Errorf("%w: %s vector (%d entries) reads past end of file at 0x%X",
				ErrFormat, name, count, pos)
		}
		b := data[pos : pos+n]
		pos += n
		pos = AlignUp(pos, 4)
		return b, nil
	}

	raw, err := readVec(int(dir.Parents.Count), 4, "parents")
	if err != nil {
		return nil, err
	}
	p.Parents = make([]int32, dir.Parents.Count)
	for i := range p.Parents {
		p.Parents[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	raw, err = readVec(int(dir.Resources.Count), resourceLocSize, "resource locations")
	if err != nil {
		return nil, err
	}
	p.Resources = make([]ResourceLocation, dir.Resources.Count)
	for i := range p.Resources {
		p.Resources[i] = decodeResourceLocation(raw[i*resourceLocSize:])
	}

	for k := 0; k < NumTypeLists; k++ {
		count := int(dir.TypeLists[k].Count)
		raw, err = readVec(count, typeListLocSize, TypeListKind(k).String())
		if err != nil {
			return nil, err
		}
		locs := make([]TypeListLocation, count)
		for i := range locs {
			locs[i] = decodeTypeListLocation(raw[i*typeListLocSize:])
		}
		p.TypeLists[k] = locs
	}

	return p, nil
}

// Close releases the pack's resources and any mmap backing.
func (p *Pack) Close() error {
	if p == nil || p.Data == nil {
		return nil
	}
	var err error
	if p.mmapped {
		err = unix.Munmap(p.Data)
	}
	p.Data = nil
	p.mmapped = false
	return err
}

// PayloadBase returns the file offset resource offsets are measured from.
func (p *Pack) PayloadBase() uint32 { return p.Header.PayloadBase }

// Payload returns the byte range of one resource's payload, or nil when
// the declared range falls outside the file.
func (p *Pack) Payload(r ResourceLocation) []byte {
	start := uint64(p.Header.PayloadBase) + uint64(r.Offset)
	end := start + uint64(r.Size)
	if end > uint64(len(p.Data)) {
		return nil
	}
	return p.Data[start:end]
}
