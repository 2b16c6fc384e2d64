package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/textproto"

	"github.com/vitalvas/reqspec/spec"
)

// DefaultMaxMemory is the multipart memory limit used by NewRequest.
const DefaultMaxMemory = 32 << 20

// ErrInvalidBody is returned when a JSON request body cannot be decoded.
var ErrInvalidBody = errors.New("validate: request body is not valid JSON")

// ErrBodyNotObject is returned when a JSON request body is not an object.
var ErrBodyNotObject = errors.New("validate: request body is not a JSON object")

// Request is the snapshot of an inbound request the pipeline works on.
// Each location has its own map; a nil map means nothing was sent there.
// Header keys are stored in canonical MIME form.
type Request struct {
	Method string
	Path   map[string]any
	Query  map[string]any
	Header map[string]any
	Body   map[string]any
	Files  map[string]any
}

// NewRequest snapshots r. Path variables come from vars (usually
// mux.Vars). Query and header values with a single element are stored as
// strings, repeated ones as []string. The body is decoded as JSON, as a
// URL-encoded form, or as a multipart form, by Content-Type; the raw body
// is put back on r so downstream handlers can still read it.
func NewRequest(r *http.Request, vars map[string]string) (*Request, error) {
	return newRequest(r, vars, true)
}

func newRequest(r *http.Request, vars map[string]string, withBody bool) (*Request, error) {
	req := &Request{Method: r.Method}

	if len(vars) > 0 {
		req.Path = make(map[string]any, len(vars))
		for k, v := range vars {
			req.Path[k] = v
		}
	}

	if query := r.URL.Query(); len(query) > 0 {
		req.Query = flatten(query)
	}

	if len(r.Header) > 0 {
		req.Header = flatten(r.Header)
	}

	if !withBody {
		return req, nil
	}

	if err := req.readBody(r); err != nil {
		return req, err
	}

	return req, nil
}

func (req *Request) readBody(r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return err
		}
		if len(r.MultipartForm.Value) > 0 {
			req.Body = flatten(r.MultipartForm.Value)
		}
		if len(r.MultipartForm.File) > 0 {
			req.Files = make(map[string]any, len(r.MultipartForm.File))
			for name, headers := range r.MultipartForm.File {
				if len(headers) == 1 {
					req.Files[name] = headers[0]
				} else {
					req.Files[name] = headers
				}
			}
		}
		return nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return err
		}
		if len(r.PostForm) > 0 {
			req.Body = flatten(r.PostForm)
		}
		return nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(data))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	body, err := decodeJSON(data)
	if err != nil {
		return err
	}
	req.Body = body

	return nil
}

// decodeJSON decodes exactly one JSON object; trailing data is an error.
func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, ErrInvalidBody
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrInvalidBody
	}

	body, ok := v.(map[string]any)
	if !ok {
		return nil, ErrBodyNotObject
	}

	return body, nil
}

func flatten[M ~map[string][]string](values M) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
			out[k] = ""
		case 1:
			out[k] = v[0]
		default:
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}

// source returns the map backing a location. With create set, a missing
// map is allocated so defaults can be stored into it.
func (req *Request) source(in spec.Location, create bool) map[string]any {
	var m *map[string]any

	switch in {
	case spec.InPath:
		m = &req.Path
	case spec.InQuery:
		m = &req.Query
	case spec.InHeader:
		m = &req.Header
	case spec.InBody:
		m = &req.Body
	case spec.InFile, spec.InFormData:
		m = &req.Files
	default:
		return nil
	}

	if *m == nil && create {
		*m = make(map[string]any)
	}

	return *m
}

// key maps a parameter name to its storage key within a location.
func key(in spec.Location, name string) string {
	if in == spec.InHeader {
		return textproto.CanonicalMIMEHeaderKey(name)
	}
	return name
}

// Get returns the value stored for name in a location.
func (req *Request) Get(in spec.Location, name string) (any, bool) {
	src := req.source(in, false)
	if src == nil {
		return nil, false
	}
	v, ok := src[key(in, name)]
	return v, ok
}

// Set stores a value for name in a location.
func (req *Request) Set(in spec.Location, name string, value any) {
	src := req.source(in, true)
	if src == nil {
		return
	}
	src[key(in, name)] = value
}

type requestKey struct{}

// NewContext returns a copy of ctx carrying the sanitized request.
func NewContext(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// FromContext returns the sanitized request stored by the validation
// middleware, if any.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestKey{}).(*Request)
	return req, ok
}
