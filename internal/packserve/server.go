// Package packserve exposes a parsed PCPACK container over a small
// read-only HTTP API, so resources can be browsed and downloaded without
// extracting the whole file.
package packserve

import (
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/pcpacktool/internal/logger"
	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

// Server serves one container. The pack is parsed once and read-only, so
// handlers are safe to run concurrently.
type Server struct {
	pack *pcpack.Pack
	dict *pcpack.Dictionary
	log  logger.Logger
}

func New(pack *pcpack.Pack, dict *pcpack.Dictionary, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{pack: pack, dict: dict, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/pack", s.handlePackInfo)
	e.GET("/v1/resources", s.handleListResources)
	e.GET("/v1/resources/:name", s.handleGetResource)
}

func (s *Server) handlePackInfo(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, pcpack.Summarize(s.pack))
}

func (s *Server) handleListResources(c *echo.Context) error {
	infos := pcpack.ResourceInfos(s.pack, s.dict)

	if q := c.QueryParam("type"); q != "" {
		typ, err := resolveTypeQuery(q)
		if err != nil {
			return writeError(c, http.StatusBadRequest, err.Error())
		}
		filtered := infos[:0:0]
		for _, info := range infos {
			if info.Type == typ {
				filtered = append(filtered, info)
			}
		}
		infos = filtered
	}
	return writeJSON(c, http.StatusOK, infos)
}

func (s *Server) handleGetResource(c *echo.Context) error {
	op := s.log.With("op", uuid.NewString())

	name := c.Param("name")
	hash, typ, ok := s.dict.ParseFileName(name)
	if !ok {
		return writeError(c, http.StatusBadRequest, fmt.Sprintf("unresolvable resource name %q", name))
	}

	for _, rl := range s.pack.Resources {
		if rl.Hash != hash || rl.Type != typ {
			continue
		}
		data := s.pack.Payload(rl)
		if data == nil {
			op.Warn("resource payload out of bounds", "name", name, "offset", rl.Offset, "size", rl.Size)
			return writeError(c, http.StatusInternalServerError, "resource payload out of bounds")
		}
		op.Info("serving resource", "name", name, "size", rl.Size)
		return c.Blob(http.StatusOK, "application/octet-stream", data)
	}
	return writeError(c, http.StatusNotFound, fmt.Sprintf("no resource %q in pack", name))
}

// resolveTypeQuery accepts a decimal type code or an extension string.
func resolveTypeQuery(q string) (uint32, error) {
	if v, err := strconv.ParseUint(q, 10, 32); err == nil {
		return uint32(v), nil
	}
	if t := pcpack.TypeForExtension(q); t >= 0 {
		return uint32(t), nil
	}
	return 0, fmt.Errorf("unknown resource type %q", q)
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeError(c *echo.Context, status int, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": map[string]string{"message": msg},
	})
}
