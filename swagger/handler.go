package swagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// DocsUI selects which interactive documentation UI to serve.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRedoc
)

// HandleConfig configures the endpoints registered by Handle.
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: info.title).
	Title string

	// JSONFilename is the path of the JSON document (default:
	// "swagger.json"). Relative paths are joined with the base path,
	// absolute ones are used as-is. Set to "-" to disable.
	JSONFilename string

	// YAMLFilename is the path of the YAML document (default:
	// "swagger.yaml"). Same rules as JSONFilename.
	YAMLFilename string

	// DisableDocs disables the interactive HTML docs endpoint.
	DisableDocs bool

	// SwaggerUIConfig holds extra SwaggerUIBundle options, rendered next
	// to url and dom_id.
	SwaggerUIConfig map[string]any
}

func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "swagger.json"
	}
	return cfg.JSONFilename
}

func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "swagger.yaml"
	}
	return cfg.YAMLFilename
}

func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	return basePath + "/" + filename
}

// Handle registers the document endpoints for the tree below root under
// basePath on r:
//
//	<basePath>/             interactive HTML docs (unless DisableDocs)
//	<basePath>/swagger.json document as JSON
//	<basePath>/swagger.yaml document as YAML
//
// The document is built on first request and cached, so every route must be
// registered before the first request is served. cfg may be nil.
func (s *Spec) Handle(r *mux.Router, root RouteNode, basePath string, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	basePath = strings.TrimRight(basePath, "/")

	var (
		once sync.Once
		doc  *Document
	)
	build := func() *Document {
		once.Do(func() {
			doc = s.Build(root)
		})
		return doc
	}

	var jsonPath, yamlPath string

	if name := cfg.jsonFilename(); name != "-" {
		jsonPath = resolvePath(basePath, name)
		r.Handle(jsonPath, documentHandler(build, "application/json", func(d *Document) ([]byte, error) {
			return json.MarshalIndent(d, "", "  ")
		})).Methods(http.MethodGet, http.MethodHead)
	}

	if name := cfg.yamlFilename(); name != "-" {
		yamlPath = resolvePath(basePath, name)
		r.Handle(yamlPath, documentHandler(build, "application/x-yaml", func(d *Document) ([]byte, error) {
			return yaml.Marshal(d)
		})).Methods(http.MethodGet, http.MethodHead)
	}

	if cfg.DisableDocs {
		return
	}

	specURL := jsonPath
	if specURL == "" {
		specURL = yamlPath
	}
	if specURL == "" {
		return
	}

	title := cfg.Title
	if title == "" {
		title = s.info.Title
	}

	var page []byte
	switch cfg.UI {
	case DocsRedoc:
		page = []byte(redocTemplate(title, specURL))
	default:
		page = []byte(swaggerUITemplate(title, specURL, cfg.SwaggerUIConfig))
	}

	docs := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	})

	if basePath == "" {
		r.Handle("/", docs).Methods(http.MethodGet, http.MethodHead)
		return
	}
	r.Handle(basePath, docs).Methods(http.MethodGet, http.MethodHead)
	r.Handle(basePath+"/", docs).Methods(http.MethodGet, http.MethodHead)
}

// documentHandler serves the encoded document. Encoding happens once; a
// panic while building is reported as 500 on every request.
func documentHandler(build func() *Document, contentType string, encode func(*Document) ([]byte, error)) http.Handler {
	var (
		once sync.Once
		data []byte
		err  error
	)

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			defer func() {
				if rv := recover(); rv != nil {
					err = fmt.Errorf("%v", rv)
				}
			}()
			doc := build()
			if doc == nil {
				err = errors.New("swagger: document was not built")
				return
			}
			data, err = encode(doc)
		})

		if err != nil {
			http.Error(w, "failed to encode swagger document", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra strings.Builder
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&extra, ", %s: %s", k, v)
		}
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra.String())
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
