package sonolus

import (
	"fmt"
	"strings"
)

// Server is a Sonolus server hosting levels.
type Server struct {
	ID    string
	Name  string
	Color int
	URL   string
}

var knownServers = []struct {
	prefix string
	server Server
}{
	{"ptlv-", Server{ID: "potato_leaves", Name: "Potato Leaves", Color: 0x88cb7f, URL: "https://ptlv.sevenc7c.com"}},
	{"chcy-", Server{ID: "chart_cyanvas", Name: "Chart Cyanvas", Color: 0x83ccd2, URL: "https://cc.sevenc7c.com"}},
}

// TrimID removes the decoration users tend to copy along with a level id.
func TrimID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "#")
}

// Guess tells which server hosts the level, from the prefix of its id.
func Guess(id string) (Server, error) {
	id = TrimID(id)
	for _, k := range knownServers {
		if strings.HasPrefix(id, k.prefix) {
			return k.server, nil
		}
	}
	return Server{}, fmt.Errorf("cannot tell which server hosts level %q", id)
}

// MergeURL resolves a resource url against the server. Absolute urls are
// returned as is.
func (s Server) MergeURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(s.URL, "/") + "/" + strings.TrimLeft(path, "/")
}
