package packserve

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

// buildTestPack assembles a minimal two-resource container by hand: a
// 44-byte header, the mash header and 700-byte directory at offset 44,
// the resource vector, and payloads at a 16-aligned base.
func buildTestPack(t *testing.T) *pcpack.Pack {
	t.Helper()

	payloadA := bytes.Repeat([]byte{0xAB}, 16)
	payloadB := []byte("mesh bytes")

	const (
		dirOff = 44
		vecPos = dirOff + 16 + 700 // 760, already 8-aligned
		base   = 800               // the 32-byte resource vector ends at 792
	)

	buf := make([]byte, base+16+len(payloadB))
	binary.LittleEndian.PutUint32(buf[0x18:], dirOff)
	binary.LittleEndian.PutUint32(buf[0x1C:], base)

	dir := buf[dirOff+16:]
	binary.LittleEndian.PutUint16(dir[0x08+4:], 2) // resource count
	binary.LittleEndian.PutUint32(dir[0x7C:], base)

	res := buf[vecPos:]
	binary.LittleEndian.PutUint32(res[0x0:], 0x501) // hash
	binary.LittleEndian.PutUint32(res[0x4:], 6)     // .DDS
	binary.LittleEndian.PutUint32(res[0x8:], 0)
	binary.LittleEndian.PutUint32(res[0xC:], uint32(len(payloadA)))
	binary.LittleEndian.PutUint32(res[0x10:], 0x102) // hash
	binary.LittleEndian.PutUint32(res[0x14:], 21)    // .PCMESH
	binary.LittleEndian.PutUint32(res[0x18:], 16)
	binary.LittleEndian.PutUint32(res[0x1C:], uint32(len(payloadB)))

	copy(buf[base:], payloadA)
	copy(buf[base+16:], payloadB)

	p, err := pcpack.Parse(buf)
	if err != nil {
		t.Fatalf("parse test container: %v", err)
	}
	return p
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	dict, err := pcpack.ParseDictionary(strings.NewReader("0x00000501 sky_texture\n"))
	if err != nil {
		t.Fatal(err)
	}
	e := echo.New()
	New(buildTestPack(t), dict, nil).Register(e)
	return e
}

func doGET(t *testing.T, e *echo.Echo, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPackInfoEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doGET(t, e, "/v1/pack")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var sum pcpack.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Resources != 2 {
		t.Fatalf("resources: got %d", sum.Resources)
	}
	if sum.PayloadBase != 800 {
		t.Fatalf("payload base: got %d", sum.PayloadBase)
	}
}

func TestListResourcesEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doGET(t, e, "/v1/resources")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var infos []pcpack.ResourceInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("count: got %d", len(infos))
	}
	if infos[0].Name != "sky_texture.DDS" {
		t.Fatalf("resolved name: got %q", infos[0].Name)
	}
	if infos[1].Name != "0x00000102.PCMESH" {
		t.Fatalf("hex name: got %q", infos[1].Name)
	}
}

func TestListResourcesTypeFilter(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doGET(t, e, "/v1/resources?type=.PCMESH")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var infos []pcpack.ResourceInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(infos) != 1 || infos[0].Type != 21 {
		t.Fatalf("filtered list: %+v", infos)
	}

	rec = doGET(t, e, "/v1/resources?type=6")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(infos) != 1 || infos[0].Type != 6 {
		t.Fatalf("numeric filter: %+v", infos)
	}

	rec = doGET(t, e, "/v1/resources?type=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetResourceEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doGET(t, e, "/v1/resources/sky_texture.DDS")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), bytes.Repeat([]byte{0xAB}, 16)) {
		t.Fatalf("payload mismatch: % X", rec.Body.Bytes())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/octet-stream" {
		t.Fatalf("content type: %q", ct)
	}

	rec = doGET(t, e, "/v1/resources/0x00000102.PCMESH")
	if rec.Code != http.StatusOK {
		t.Fatalf("hex name status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "mesh bytes" {
		t.Fatalf("hex name payload: %q", rec.Body.String())
	}

	rec = doGET(t, e, "/v1/resources/0x0000BEEF.DDS")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doGET(t, e, "/v1/resources/not-a-resource")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}
