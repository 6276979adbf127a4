package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// Static serves the built single-page application. A path that names a
// regular file under the root gets that file; anything else gets
// index.html so client-side routing can handle it. Directories are never
// listed and cleaned paths cannot leave the root.
type Static struct {
	root string
}

func NewStatic(root string) *Static {
	return &Static{root: root}
}

// resolve maps a URL path to a regular file under the root.
func (s *Static) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(s.root, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return full, true
}

func (s *Static) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name, ok := s.resolve(c.Request.URL.Path)
	if !ok {
		name = filepath.Join(s.root, indexFile)
	}

	if err := serveFile(c, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}

// serveFile writes name with http.ServeContent, which handles Range and
// conditional requests but never redirects.
func serveFile(c *gin.Context, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fs.ErrNotExist
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return nil
}
