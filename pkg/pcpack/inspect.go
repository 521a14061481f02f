package pcpack

// Summary is a JSON-friendly view of a parsed container's geometry, for
// the inspect command and the HTTP server.
type Summary struct {
	FileSize        int               `json:"file_size"`
	DirectoryOffset uint32            `json:"directory_offset"`
	PayloadBase     uint32            `json:"payload_base"`
	PackSlot        int32             `json:"pack_slot"`
	Parents         int               `json:"parents"`
	Resources       int               `json:"resources"`
	TypeLists       []TypeListSummary `json:"type_lists"`
	Types           []TypeSummary     `json:"types"`
}

type TypeListSummary struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// TypeSummary is one row of the directory's type-range table, reported
// only for types that are present.
type TypeSummary struct {
	Type      uint32 `json:"type"`
	Extension string `json:"extension"`
	Start     int32  `json:"start"`
	Count     int32  `json:"count"`
}

func Summarize(p *Pack) Summary {
	s := Summary{
		FileSize:        len(p.Data),
		DirectoryOffset: p.Header.DirectoryOffset,
		PayloadBase:     p.Header.PayloadBase,
		PackSlot:        p.Dir.PackSlot,
		Parents:         len(p.Parents),
		Resources:       len(p.Resources),
	}
	for k := range p.TypeLists {
		s.TypeLists = append(s.TypeLists, TypeListSummary{
			Kind:  TypeListKind(k).String(),
			Count: len(p.TypeLists[k]),
		})
	}
	for t := 0; t < NumResourceTypes; t++ {
		if p.Dir.TypeCount[t] == 0 {
			continue
		}
		s.Types = append(s.Types, TypeSummary{
			Type:      uint32(t),
			Extension: resourceTypeExt[t],
			Start:     p.Dir.TypeStart[t],
			Count:     p.Dir.TypeCount[t],
		})
	}
	return s
}

// ResourceInfo is one resource directory entry with its resolved name.
type ResourceInfo struct {
	Index     int    `json:"index"`
	Hash      string `json:"hash"`
	Type      uint32 `json:"type"`
	Extension string `json:"extension"`
	Offset    uint32 `json:"offset"`
	Size      uint32 `json:"size"`
	Name      string `json:"name"`
}

// ResourceInfos lists every resource with names resolved through dict.
func ResourceInfos(p *Pack, dict *Dictionary) []ResourceInfo {
	infos := make([]ResourceInfo, len(p.Resources))
	for i, rl := range p.Resources {
		infos[i] = ResourceInfo{
			Index:     i,
			Hash:      FormatHash(rl.Hash),
			Type:      rl.Type,
			Extension: Extension(rl.Type),
			Offset:    rl.Offset,
			Size:      rl.Size,
			Name:      dict.FileName(rl.Hash, rl.Type),
		}
	}
	return infos
}
