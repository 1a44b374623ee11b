package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/webserv/core/httpx"
	"github.com/dmitrymomot/webserv/core/router"
)

// File is the YAML server configuration: the listen address, the route
// table, error pages, and the per-CGI and session timers.
type File struct {
	Addr        string         `yaml:"addr"`
	ServerName  string         `yaml:"server_name"`
	CGITimeout  time.Duration  `yaml:"cgi_timeout"`
	SessionTTL  time.Duration  `yaml:"session_ttl"`
	MaxBodySize int64          `yaml:"max_body_size"`
	ErrorPages  map[int]string `yaml:"error_pages"`
	RouteList   []RouteEntry   `yaml:"routes"`
}

// RouteEntry is one route in the YAML file. Kind selects which target
// fields apply: static (root, default_file, upload_dir, autoindex),
// cgi (program, dir), redirect (location, status), error (status).
type RouteEntry struct {
	Path        string   `yaml:"path"`
	Kind        string   `yaml:"kind"`
	Methods     []string `yaml:"methods"`
	Root        string   `yaml:"root"`
	DefaultFile string   `yaml:"default_file"`
	UploadDir   string   `yaml:"upload_dir"`
	Autoindex   bool     `yaml:"autoindex"`
	Program     string   `yaml:"program"`
	Dir         string   `yaml:"dir"`
	Location    string   `yaml:"location"`
	Status      int      `yaml:"status"`
}

// LoadFile reads and decodes the YAML configuration file.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return &f, nil
}

// Routes converts the file's route entries into the router's route table,
// preserving file order. Route validation itself happens in router.New.
func (f *File) Routes() ([]router.Route, error) {
	routes := make([]router.Route, 0, len(f.RouteList))
	for i, entry := range f.RouteList {
		methods := make([]httpx.Method, 0, len(entry.Methods))
		for _, raw := range entry.Methods {
			m, err := httpx.ParseMethod(raw)
			if err != nil {
				return nil, fmt.Errorf("route %d (%s): %w", i, entry.Path, err)
			}
			methods = append(methods, m)
		}
		routes = append(routes, router.Route{
			Pattern:     entry.Path,
			Kind:        router.Kind(entry.Kind),
			Methods:     methods,
			Root:        entry.Root,
			DefaultFile: entry.DefaultFile,
			UploadDir:   entry.UploadDir,
			Autoindex:   entry.Autoindex,
			Program:     entry.Program,
			Dir:         entry.Dir,
			Location:    entry.Location,
			Status:      entry.Status,
		})
	}
	return routes, nil
}
