package pcpack

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractAll(t *testing.T) {
	t.Parallel()

	dict, err := ParseDictionary(strings.NewReader("0x00000501 sky_texture\n"))
	if err != nil {
		t.Fatal(err)
	}

	data := buildContainer(t, 16, []testResource{
		{hash: 0x501, typ: 6, data: bytes.Repeat([]byte{0x11}, 40)},
		{hash: 0x102, typ: 21, data: bytes.Repeat([]byte{0x22}, 20)},
	}, [NumTypeLists][]TypeListLocation{})

	p, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	rep, err := ExtractAll(p, dict, outDir)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rep.Extracted != 2 || len(rep.Warnings) != 0 {
		t.Fatalf("report: %+v", rep)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "sky_texture.DDS"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0x11}, 40)) {
		t.Fatalf("sky_texture.DDS payload mismatch (%d bytes)", len(got))
	}
	if _, err := os.Stat(filepath.Join(outDir, "0x00000102.PCMESH")); err != nil {
		t.Fatalf("hex-named file: %v", err)
	}

	manifest, err := os.ReadFile(rep.ManifestPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(manifest), "\n"), "\n")
	if lines[0] != "# PCPACK Manifest" {
		t.Fatalf("manifest header: %q", lines[0])
	}
	if lines[2] != "# resources=2" {
		t.Fatalf("manifest count: %q", lines[2])
	}
	if lines[4] != "0 0x501 6 0x0 0x28 sky_texture.DDS" {
		t.Fatalf("manifest entry 0: %q", lines[4])
	}
	if lines[5] != "1 0x102 21 0x30 0x14 0x00000102.PCMESH" {
		t.Fatalf("manifest entry 1: %q", lines[5])
	}
}

func TestExtractAllSkipsOutOfBounds(t *testing.T) {
	t.Parallel()

	data := buildContainer(t, 16, []testResource{
		{hash: 0x1, typ: 6, data: bytes.Repeat([]byte{0x11}, 16)},
		{hash: 0x2, typ: 6, data: bytes.Repeat([]byte{0x22}, 64)},
	}, [NumTypeLists][]TypeListLocation{})

	// Truncate into the second payload; parsing still succeeds because the
	// index area is intact.
	p, err := Parse(data[:len(data)-10])
	if err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	rep, err := ExtractAll(p, nil, outDir)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rep.Extracted != 1 {
		t.Fatalf("extracted: got %d want 1", rep.Extracted)
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Index != 1 {
		t.Fatalf("warnings: %+v", rep.Warnings)
	}
	if _, err := os.Stat(filepath.Join(outDir, "0x00000002.DDS")); !os.IsNotExist(err) {
		t.Fatal("out-of-bounds resource must not be written")
	}
}

func TestExtractOne(t *testing.T) {
	t.Parallel()

	want := []byte("single payload")
	data := buildContainer(t, 16, []testResource{
		{hash: 0x9, typ: 19, data: want},
	}, [NumTypeLists][]TypeListLocation{})

	p, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(t.TempDir(), "out.bin")
	if err := ExtractOne(p, 0, outPath); err != nil {
		t.Fatalf("extract one: %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("payload mismatch: %q", got)
	}

	if err := ExtractOne(p, 5, outPath); err == nil {
		t.Fatal("out-of-range index must fail")
	}
}
