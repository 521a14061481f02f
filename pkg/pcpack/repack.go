package pcpack

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// Strategy selects how Rebuild lays out the new container.
type Strategy int

const (
	// StrategyFixed preserves resource count and order. Replacement files
	// may change sizes; offsets are reassigned in original order.
	StrategyFixed Strategy = iota

	// StrategyInPlace overwrites payload bytes at their original offsets
	// without touching the directory. Every replacement must match the
	// original size exactly; the output length equals the original.
	StrategyInPlace

	// StrategyFullSync syncs the resource set against a folder: existing
	// resources are updated, unmatched files become new resources, and
	// the whole array is re-sorted by (type, hash) with the type-range
	// tables recomputed.
	StrategyFullSync
)

func (s Strategy) String() string {
	switch s {
	case StrategyFixed:
		return "fixed"
	case StrategyInPlace:
		return "in-place"
	case StrategyFullSync:
		return "full-sync"
	}
	return "unknown"
}

// RebuildOptions configures one Rebuild call. Nothing is ambient: the
// dictionary, strategy and alignment all travel with the call.
type RebuildOptions struct {
	InputDir string
	Dict     *Dictionary
	Strategy Strategy
	Align    int // payload alignment, DefaultAlign when <= 0
}

// RebuildReport summarises one Rebuild run.
type RebuildReport struct {
	Updated     int
	Added       int
	Kept        int
	Skipped     int
	PayloadBase uint32
	FileSize    int
	Warnings    []Warning
}

// Rebuild produces a new container from p and the files in
// opts.InputDir. The result is accumulated fully in memory; on error
// nothing has been written anywhere.
func Rebuild(p *Pack, opts RebuildOptions) ([]byte, RebuildReport, error) {
	if opts.Align <= 0 {
		opts.Align = DefaultAlign
	}
	switch opts.Strategy {
	case StrategyInPlace:
		return rebuildInPlace(p, opts)
	case StrategyFixed:
		return rebuildFixed(p, opts)
	case StrategyFullSync:
		return rebuildFullSync(p, opts)
	}
	return nil, RebuildReport{}, fmt.Errorf("unknown rebuild strategy %d", opts.Strategy)
}

// relocation maps one resource's old payload range to its new offset.
// Type-list offsets contained in the old range keep their internal
// displacement relative to the new offset.
type relocation struct {
	oldOff uint32
	oldEnd uint32
	newOff uint32
}

type relocator []relocation

func newRelocator(capacity int) relocator {
	return make(relocator, 0, capacity)
}

func (r relocator) sorted() relocator {
	sort.Slice(r, func(i, j int) bool { return r[i].oldOff < r[j].oldOff })
	return r
}

// apply rewrites a type-list offset. Offsets outside every old resource
// range (such as the 0 sentinel) pass through unchanged.
func (r relocator) apply(off uint32) uint32 {
	i := sort.Search(len(r), func(i int) bool { return r[i].oldOff > off }) - 1
	if i >= 0 && off < r[i].oldEnd {
		return r[i].newOff + (off - r[i].oldOff)
	}
	return off
}

func relocateTypeLists(lists [NumTypeLists][]TypeListLocation, rel relocator) [NumTypeLists][]TypeListLocation {
	var out [NumTypeLists][]TypeListLocation
	for k := range lists {
		locs := make([]TypeListLocation, len(lists[k]))
		copy(locs, lists[k])
		for i := range locs {
			locs[i].Offset = rel.apply(locs[i].Offset)
		}
		out[k] = locs
	}
	return out
}

func sortTypeList(locs []TypeListLocation) {
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Kind != locs[j].Kind {
			return locs[i].Kind < locs[j].Kind
		}
		return locs[i].Hash < locs[j].Hash
	})
}

// kindForResourceType maps a primary resource type to the type-list
// vector a reference to it lives in, if any.
func kindForResourceType(typ uint32) (TypeListKind, bool) {
	switch Extension(typ) {
	case ".DDS", ".DDSMP":
		return KindTexture, true
	case ".PCMESHDEF":
		return KindMeshFile, true
	case ".PCMESH":
		return KindMesh, true
	case ".PCMORPHDEF":
		return KindMorphFile, true
	case ".PCMORPH":
		return KindMorph, true
	case ".PCMATDEF":
		return KindMaterialFile, true
	case ".PCMAT":
		return KindMaterial, true
	case ".PCANIM":
		return KindAnim, true
	case ".PCSANIM":
		return KindSceneAnim, true
	case ".PCSKEL":
		return KindSkeleton, true
	}
	return 0, false
}

func rebuildInPlace(p *Pack, opts RebuildOptions) ([]byte, RebuildReport, error) {
	var rep RebuildReport
	rep.PayloadBase = p.Header.PayloadBase

	out := make([]byte, len(p.Data))
	copy(out, p.Data)

	for i, rl := range p.Resources {
		name := opts.Dict.FileName(rl.Hash, rl.Type)
		data, err := os.ReadFile(filepath.Join(opts.InputDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				rep.Kept++
				continue
			}
			return nil, rep, err
		}
		if uint32(len(data)) != rl.Size {
			rep.Warnings = append(rep.Warnings, Warning{
				Index:  i,
				Name:   name,
				Reason: fmt.Sprintf("size %d differs from original %d, in-place rebuild cannot relocate", len(data), rl.Size),
			})
			rep.Skipped++
			continue
		}
		start := uint64(p.Header.PayloadBase) + uint64(rl.Offset)
		if start+uint64(rl.Size) > uint64(len(out)) {
			return nil, rep, fmt.Errorf("%w: resource %d payload 0x%X+0x%X out of bounds",
				ErrFormat, i, rl.Offset, rl.Size)
		}
		copy(out[start:start+uint64(rl.Size)], data)
		rep.Updated++
	}

	rep.FileSize = len(out)
	return out, rep, nil
}

func rebuildFixed(p *Pack, opts RebuildOptions) ([]byte, RebuildReport, error) {
	var rep RebuildReport

	type newResource struct {
		offset uint32
		data   []byte
	}
	newRes := make([]newResource, len(p.Resources))

	var cursor uint64
	for i, rl := range p.Resources {
		name := opts.Dict.FileName(rl.Hash, rl.Type)

		data, err := os.ReadFile(filepath.Join(opts.InputDir, name))
		switch {
		case err == nil:
			rep.Updated++
		case os.IsNotExist(err):
			data = p.Payload(rl)
			if data == nil {
				return nil, rep, fmt.Errorf("%w: resource %d payload 0x%X+0x%X out of bounds",
					ErrFormat, i, rl.Offset, rl.Size)
			}
			rep.Kept++
			rep.Warnings = append(rep.Warnings, Warning{
				Index:  i,
				Name:   name,
				Reason: "no replacement file, original bytes kept",
			})
		default:
			return nil, rep, err
		}

		cursor = uint64(AlignUp(int(cursor), opts.Align))
		end := cursor + uint64(len(data))
		if end > math.MaxUint32 {
			return nil, rep, fmt.Errorf("%w: resource %d would end at 0x%X", ErrOffsetRange, i, end)
		}
		newRes[i] = newResource{offset: uint32(cursor), data: data}
		cursor = end
	}

	rel := newRelocator(len(p.Resources))
	for i, rl := range p.Resources {
		if rl.Size == 0 {
			continue
		}
		rel = append(rel, relocation{oldOff: rl.Offset, oldEnd: rl.End(), newOff: newRes[i].offset})
	}
	typeLists := relocateTypeLists(p.TypeLists, rel.sorted())

	resources := make([]ResourceLocation, len(p.Resources))
	copy(resources, p.Resources)
	for i := range resources {
		resources[i].Offset = newRes[i].offset
		resources[i].Size = uint32(len(newRes[i].data))
	}

	payloads := make([]payloadWrite, len(newRes))
	for i, nr := range newRes {
		payloads[i] = payloadWrite{offset: nr.offset, data: nr.data}
	}

	out, err := serializePack(serializeInput{
		header:    p.Header,
		mash:      p.Mash,
		dir:       p.Dir,
		parents:   p.Parents,
		resources: resources,
		typeLists: typeLists,
		payloads:  payloads,
		fixedBase: true,
		align:     opts.Align,
	})
	if err != nil {
		return nil, rep, err
	}

	rep.PayloadBase = p.Header.PayloadBase
	rep.FileSize = len(out)
	return out, rep, nil
}

func rebuildFullSync(p *Pack, opts RebuildOptions) ([]byte, RebuildReport, error) {
	var rep RebuildReport

	type item struct {
		hash    uint32
		typ     uint32
		data    []byte
		hasOld  bool
		oldOff  uint32
		oldSize uint32
	}

	items := make([]item, 0, len(p.Resources)+16)
	keyToIndex := make(map[uint64]int, len(p.Resources))
	key := func(hash, typ uint32) uint64 { return uint64(typ)<<32 | uint64(hash) }

	for i, rl := range p.Resources {
		data := p.Payload(rl)
		if data == nil {
			return nil, rep, fmt.Errorf("%w: resource %d payload 0x%X+0x%X out of bounds",
				ErrFormat, i, rl.Offset, rl.Size)
		}
		keyToIndex[key(rl.Hash, rl.Type)] = len(items)
		items = append(items, item{
			hash:    rl.Hash,
			typ:     rl.Type,
			data:    data,
			hasOld:  true,
			oldOff:  rl.Offset,
			oldSize: rl.Size,
		})
	}

	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		return nil, rep, err
	}
	for _, de := range entries {
		if !de.Type().IsRegular() || de.Name() == ManifestName {
			continue
		}
		hash, typ, ok := opts.Dict.ParseFileName(de.Name())
		if !ok {
			rep.Skipped++
			rep.Warnings = append(rep.Warnings, Warning{
				Index:  -1,
				Name:   de.Name(),
				Reason: "name does not decode to a (hash, type) pair",
			})
			continue
		}
		data, err := os.ReadFile(filepath.Join(opts.InputDir, de.Name()))
		if err != nil {
			rep.Skipped++
			rep.Warnings = append(rep.Warnings, Warning{
				Index:  -1,
				Name:   de.Name(),
				Reason: fmt.Sprintf("read failed: %v", err),
			})
			continue
		}
		if idx, exists := keyToIndex[key(hash, typ)]; exists {
			items[idx].data = data
			rep.Updated++
		} else {
			keyToIndex[key(hash, typ)] = len(items)
			items = append(items, item{hash: hash, typ: typ, data: data})
			rep.Added++
		}
	}
	rep.Kept = len(p.Resources) - rep.Updated

	if len(items) > math.MaxUint16 {
		return nil, rep, fmt.Errorf("%w: %d resources exceed the 16-bit directory count", ErrOffsetRange, len(items))
	}

	// The resource array is kept sorted by (type, hash); the type-range
	// tables below depend on entries of one type being contiguous.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].typ != items[j].typ {
			return items[i].typ < items[j].typ
		}
		return items[i].hash < items[j].hash
	})

	resources := make([]ResourceLocation, len(items))
	var cursor uint64
	for i := range items {
		cursor = uint64(AlignUp(int(cursor), opts.Align))
		end := cursor + uint64(len(items[i].data))
		if end > math.MaxUint32 {
			return nil, rep, fmt.Errorf("%w: resource %d would end at 0x%X", ErrOffsetRange, i, end)
		}
		resources[i] = ResourceLocation{
			Hash:   items[i].hash,
			Type:   items[i].typ,
			Offset: uint32(cursor),
			Size:   uint32(len(items[i].data)),
		}
		cursor = end
	}

	dir := p.Dir
	dir.Resources.Count = uint16(len(resources))
	for t := 0; t < NumResourceTypes; t++ {
		dir.TypeStart[t] = 0
		dir.TypeCount[t] = 0
	}
	for i, rl := range resources {
		if rl.Type >= NumResourceTypes {
			continue
		}
		if dir.TypeCount[rl.Type] == 0 {
			dir.TypeStart[rl.Type] = int32(i)
		}
		dir.TypeCount[rl.Type]++
	}

	// Relocate existing type-list references before synthesizing entries
	// for added resources: synthesized offsets are already new and must
	// not be remapped.
	rel := newRelocator(len(items))
	for i := range items {
		if !items[i].hasOld || items[i].oldSize == 0 {
			continue
		}
		rel = append(rel, relocation{
			oldOff: items[i].oldOff,
			oldEnd: items[i].oldOff + items[i].oldSize,
			newOff: resources[i].Offset,
		})
	}
	typeLists := relocateTypeLists(p.TypeLists, rel.sorted())

	for i := range items {
		if items[i].hasOld {
			continue
		}
		kind, ok := kindForResourceType(items[i].typ)
		if !ok {
			continue
		}
		kindByte := uint8(items[i].typ)
		duplicate := false
		for _, tl := range typeLists[kind] {
			if tl.Hash == items[i].hash && tl.Kind == kindByte {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		typeLists[kind] = append(typeLists[kind], TypeListLocation{
			Hash:   items[i].hash,
			Kind:   kindByte,
			Offset: resources[i].Offset,
		})
	}

	for k := range typeLists {
		sortTypeList(typeLists[k])
		if len(typeLists[k]) > math.MaxUint16 {
			return nil, rep, fmt.Errorf("%w: %s list exceeds the 16-bit directory count",
				ErrOffsetRange, TypeListKind(k))
		}
		dir.TypeLists[k].Count = uint16(len(typeLists[k]))
	}

	hdr := p.Header
	if hdr.DirectoryOffset < packHeaderSize {
		hdr.DirectoryOffset = packHeaderSize
	}

	payloads := make([]payloadWrite, len(items))
	for i := range items {
		payloads[i] = payloadWrite{offset: resources[i].Offset, data: items[i].data}
	}

	out, err := serializePack(serializeInput{
		header:    hdr,
		mash:      p.Mash,
		dir:       dir,
		parents:   p.Parents,
		resources: resources,
		typeLists: typeLists,
		payloads:  payloads,
		fixedBase: false,
		align:     opts.Align,
	})
	if err != nil {
		return nil, rep, err
	}

	newBase, _ := decodePackHeader(out)
	rep.PayloadBase = newBase.PayloadBase
	rep.FileSize = len(out)
	return out, rep, nil
}
