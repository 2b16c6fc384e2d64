package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/vitalvas/reqspec/spec"
	"github.com/vitalvas/reqspec/swagger"
	"github.com/vitalvas/reqspec/validate"
)

// ErrNoSpec is returned when a route is validated before a specification
// was attached.
var ErrNoSpec = errors.New("router: route has no specification")

// Route is a path of a Router together with its specification and
// handlers. Route implements swagger.RouteNode.
type Route struct {
	router   *Router
	fragment string
	template string

	spec     *spec.RouteSpec
	resolved *spec.RouteSpec
	validate bool
	err      error
}

var _ swagger.RouteNode = (*Route)(nil)

// Spec attaches the specification of the route.
func (rt *Route) Spec(rs *spec.RouteSpec) *Route {
	rt.spec = rs
	return rt
}

// Validate checks the attached specification, resolves its body schema
// references against the router definitions and turns on request
// validation for every handler of the route, including those registered
// before the call. The validation failure response is added to the
// specification. A malformed specification is recorded, see Err, and the
// handlers of the route answer 500 Internal Server Error.
func (rt *Route) Validate() *Route {
	shared := rt.router.shared

	if rt.spec == nil {
		rt.fail(ErrNoSpec)
		return rt
	}

	if err := rt.spec.Validate(); err != nil {
		rt.fail(err)
		return rt
	}

	resolved, err := shared.resolve(rt.spec)
	if err != nil {
		rt.fail(err)
		return rt
	}

	swagger.InjectValidationResponse(rt.spec)
	rt.resolved = resolved
	rt.validate = true

	shared.logger.Debug().
		Str("path", rt.fragment).
		Strs("methods", rt.spec.Methods()).
		Msg("route validation enabled")

	return rt
}

func (rt *Route) fail(err error) {
	err = fmt.Errorf("route %q: %w", rt.fragment, err)
	rt.err = errors.Join(rt.err, err)
	rt.router.shared.addErr(err)

	rt.router.shared.logger.Debug().Err(err).Str("path", rt.fragment).Msg("route registration failed")
}

// Err returns the registration errors of the route.
func (rt *Route) Err() error {
	return rt.err
}

// Handle registers h for method on the route.
func (rt *Route) Handle(method string, h http.Handler) *Route {
	method = strings.ToUpper(method)

	route := rt.router.mux.Handle(rt.template, rt.wrap(h)).Methods(method)
	if err := route.GetError(); err != nil {
		rt.fail(err)
	}

	return rt
}

// HandleFunc registers f for method on the route.
func (rt *Route) HandleFunc(method string, f func(http.ResponseWriter, *http.Request)) *Route {
	return rt.Handle(method, http.HandlerFunc(f))
}

// Get registers f for GET requests.
func (rt *Route) Get(f http.HandlerFunc) *Route {
	return rt.Handle(http.MethodGet, f)
}

// Post registers f for POST requests.
func (rt *Route) Post(f http.HandlerFunc) *Route {
	return rt.Handle(http.MethodPost, f)
}

// Put registers f for PUT requests.
func (rt *Route) Put(f http.HandlerFunc) *Route {
	return rt.Handle(http.MethodPut, f)
}

// Patch registers f for PATCH requests.
func (rt *Route) Patch(f http.HandlerFunc) *Route {
	return rt.Handle(http.MethodPatch, f)
}

// Delete registers f for DELETE requests.
func (rt *Route) Delete(f http.HandlerFunc) *Route {
	return rt.Handle(http.MethodDelete, f)
}

// wrap runs the validation pipeline before h once Validate succeeded, and
// refuses requests once the route recorded an error. The decision is taken
// per request, so registration order between Validate and the handlers
// does not matter.
func (rt *Route) wrap(h http.Handler) http.Handler {
	shared := rt.router.shared

	onFail := func(w http.ResponseWriter, r *http.Request, violations validate.Violations) {
		shared.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("violations", len(violations)).
			Msg("request validation failed")

		shared.onFail(w, r, violations)
	}

	var (
		once      sync.Once
		validated http.Handler
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.err != nil {
			shared.logger.Error().
				Err(rt.err).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request refused, route registration failed")

			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if !rt.validate {
			h.ServeHTTP(w, r)
			return
		}

		once.Do(func() {
			validated = shared.pipeline.Handler(rt.resolved, h, onFail)
		})
		validated.ServeHTTP(w, r)
	})
}

// Fragment implements swagger.RouteNode.
func (rt *Route) Fragment() string {
	return rt.fragment
}

// RouteSpec implements swagger.RouteNode.
func (rt *Route) RouteSpec() *spec.RouteSpec {
	return rt.spec
}

// Children implements swagger.RouteNode. Routes are leaves.
func (rt *Route) Children() []swagger.RouteNode {
	return nil
}
