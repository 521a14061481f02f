package pcpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the file written next to extracted payloads. One line
// per resource: index, hash, type, offset, size, resolved name. Rebuilds
// do not consume it; they re-derive names from the container.
const ManifestName = "_manifest.txt"

// Warning records a recoverable per-resource condition. Warnings never
// abort a batch; the caller decides how to report them.
type Warning struct {
	Index  int
	Name   string
	Reason string
}

// ExtractReport summarises one ExtractAll run.
type ExtractReport struct {
	Extracted    int
	ManifestPath string
	Warnings     []Warning
}

// ExtractAll writes every in-bounds payload to outDir under its resolved
// name and emits the manifest. A resource whose declared range exceeds
// the file is skipped with a warning; only I/O failures abort the batch.
func ExtractAll(p *Pack, dict *Dictionary, outDir string) (ExtractReport, error) {
	var rep ExtractReport

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, err
	}

	var manifest strings.Builder
	fmt.Fprintf(&manifest, "# PCPACK Manifest\n# base=%d\n# resources=%d\n\n",
		p.Header.PayloadBase, len(p.Resources))

	for i, rl := range p.Resources {
		name := dict.FileName(rl.Hash, rl.Type)

		data := p.Payload(rl)
		if data == nil {
			rep.Warnings = append(rep.Warnings, Warning{
				Index:  i,
				Name:   name,
				Reason: fmt.Sprintf("payload 0x%X+0x%X out of bounds", rl.Offset, rl.Size),
			})
			continue
		}

		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
			return rep, err
		}

		fmt.Fprintf(&manifest, "%d 0x%x %d 0x%x 0x%x %s\n",
			i, rl.Hash, rl.Type, rl.Offset, rl.Size, name)
		rep.Extracted++
	}

	rep.ManifestPath = filepath.Join(outDir, ManifestName)
	if err := os.WriteFile(rep.ManifestPath, []byte(manifest.String()), 0o644); err != nil {
		return rep, err
	}
	return rep, nil
}

// ExtractOne writes a single resource's payload to outPath.
func ExtractOne(p *Pack, index int, outPath string) error {
	if index < 0 || index >= len(p.Resources) {
		return fmt.Errorf("resource index %d out of range", index)
	}
	rl := p.Resources[index]
	data := p.Payload(rl)
	if data == nil {
		return fmt.Errorf("%w: resource %d payload 0x%X+0x%X out of bounds",
			ErrFormat, index, rl.Offset, rl.Size)
	}
	return os.WriteFile(outPath, data, 0o644)
}
