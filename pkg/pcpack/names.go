package pcpack

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// resourceTypeExt maps resource type codes to file extensions. The table
// is a format constant shared with existing containers and dictionaries;
// it must stay byte-identical, including the duplicate .CSV slots and the
// bare "M2V" at index 33.
var resourceTypeExt = [NumResourceTypes]string{
	".NONE",             // 0
	".PCANIM",           // 1
	".PCSKEL",           // 2
	".ALS",              // 3
	".ENT",              // 4
	".ENTEXT",           // 5
	".DDS",              // 6
	".DDSMP",            // 7
	".IFL",              // 8
	".DESC",             // 9
	".ENS",              // 10
	".SPL",              // 11
	".AB",               // 12
	".QP",               // 13
	".TRIG",             // 14
	".PCSX",             // 15
	".INST",             // 16
	".FDF",              // 17
	".PANEL",            // 18
	".TXT",              // 19
	".ICN",              // 20
	".PCMESH",           // 21
	".PCMORPH",          // 22
	".PCMAT",            // 23
	".COLL",             // 24
	".PCPACK",           // 25
	".PCSANIM",          // 26
	".MSN",              // 27
	".MARKER",           // 28
	".HH",               // 29
	".WAV",              // 30
	".WBK",              // 31
	".M2V",              // 32
	"M2V",               // 33
	".PFX",              // 34
	".CSV",              // 35
	".CLE",              // 36
	".LIT",              // 37
	".GRD",              // 38
	".GLS",              // 39
	".LOD",              // 40
	".SIN",              // 41
	".GV",               // 42
	".SV",               // 43
	".TOKENS",           // 44
	".DSG",              // 45
	".PATH",             // 46
	".PTRL",             // 47
	".LANG",             // 48
	".SLF",              // 49
	".VISEME",           // 50
	".PCMESHDEF",        // 51
	".PCMORPHDEF",       // 52
	".PCMATDEF",         // 53
	".MUT",              // 54
	".ASG",              // 55
	".BAI",              // 56
	".CUT",              // 57
	".INTERACT",         // 58
	".CSV",              // 59
	".CSV",              // 60
	"._ENTID_",          // 61
	"._ANIMID_",         // 62
	"._REGIONID_",       // 63
	"._AI_GENERIC_ID_",  // 64
	"._RADIOMSG_",       // 65
	"._GOAL_",           // 66
	"._IFC_ATTRIBUTE_",  // 67
	"._SIGNAL_",         // 68
	"._PACKGROUP_",      // 69
}

// Extension returns the file extension for a resource type code, or
// ".UNK" when the code is outside the table.
func Extension(typ uint32) string {
	if typ < NumResourceTypes {
		return resourceTypeExt[typ]
	}
	return ".UNK"
}

// TypeForExtension returns the first type code whose extension matches
// ext case-insensitively, or -1.
func TypeForExtension(ext string) int {
	u := strings.ToUpper(ext)
	for i, e := range resourceTypeExt {
		if strings.ToUpper(e) == u {
			return i
		}
	}
	return -1
}

// Dictionary maps content hashes to human-readable names (and back). The
// zero value and nil are both usable and resolve every hash to its hex
// form.
type Dictionary struct {
	names  map[uint32]string
	hashes map[string]uint32
}

// LoadDictionary reads a hash dictionary file. Each non-empty line is
// "0xHHHHHHHH name"; lines that don't match are ignored and the last
// occurrence of a duplicate hash wins.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseDictionary(f)
}

// ParseDictionary reads dictionary lines from r.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{
		names:  make(map[uint32]string),
		hashes: make(map[string]uint32),
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		hex := fields[0]
		if len(hex) < 3 || hex[0] != '0' || (hex[1] != 'x' && hex[1] != 'X') {
			continue
		}
		v, err := strconv.ParseUint(hex[2:], 16, 32)
		if err != nil {
			continue
		}
		d.names[uint32(v)] = fields[1]
		d.hashes[fields[1]] = uint32(v)
		d.hashes[strings.ToLower(fields[1])] = uint32(v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Len reports the number of known hashes.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Name returns the dictionary name for a hash.
func (d *Dictionary) Name(hash uint32) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[hash]
	return name, ok
}

// Hash resolves a name back to its hash, trying an exact match first and
// a case-insensitive match second (filesystems fold case).
func (d *Dictionary) Hash(name string) (uint32, bool) {
	if d == nil {
		return 0, false
	}
	if h, ok := d.hashes[name]; ok {
		return h, true
	}
	h, ok := d.hashes[strings.ToLower(name)]
	return h, ok
}

// FileName resolves a (hash, type) pair to a sanitized file name:
// the dictionary name when known, the canonical hex form otherwise.
func (d *Dictionary) FileName(hash, typ uint32) string {
	base, ok := d.Name(hash)
	if !ok {
		base = FormatHash(hash)
	}
	return sanitizeFileName(base + Extension(typ))
}

// ParseFileName decodes a file name back into a (hash, type) pair: the
// extension picks the type and the stem is either a 0x-prefixed hash or a
// dictionary name.
func (d *Dictionary) ParseFileName(name string) (hash, typ uint32, ok bool) {
	ext := filepath.Ext(name)
	t := TypeForExtension(ext)
	if t < 0 {
		return 0, 0, false
	}
	stem := strings.TrimSuffix(filepath.Base(name), ext)

	if len(stem) >= 3 && stem[0] == '0' && (stem[1] == 'x' || stem[1] == 'X') {
		v, err := strconv.ParseUint(stem[2:], 16, 32)
		if err != nil {
			return 0, 0, false
		}
		return uint32(v), uint32(t), true
	}

	h, found := d.Hash(stem)
	if !found {
		return 0, 0, false
	}
	return h, uint32(t), true
}

// FormatHash renders a hash in the canonical 0x%08X form used for
// unresolved names and manifests.
func FormatHash(hash uint32) string {
	return fmt.Sprintf("0x%08X", hash)
}

func sanitizeFileName(name string) string {
	return strings.Map(func(c rune) rune {
		if c < 32 {
			return '_'
		}
		switch c {
		case ':', '*', '?', '"', '<', '>', '|', '/', '\\':
			return '_'
		}
		return c
	}, name)
}
