// Package swagger builds Swagger 2.0 documents from route trees.
//
// See: https://swagger.io/specification/v2/
//
// # Route Trees
//
// Any router exposing its routes as a tree of RouteNode values can be
// documented. Collect walks the tree depth-first, joins path fragments and
// returns every route that carries a specification:
//
//	resources := swagger.Collect(root, "")
//	// [{Path: "/a/b/{id}", Spec: ...}]
//
// Express-style ":name" and gorilla-style "{name:pattern}" placeholders are
// both rewritten to "{name}".
//
// # Assembly
//
// Build folds resources into a document. Every operation that does not
// declare a 400 response gets one describing the violation list written by
// request validation:
//
//	doc := swagger.Build(info, "/api", resources, definitions)
//
// The route specifications are copied first; the tree is never modified.
//
// # Spec Builder
//
// Spec adds document metadata and definitions on top of Build:
//
//	s := swagger.NewSpec(swagger.Info{Title: "Pets", Version: "1.0.0"})
//	s.SetBasePath("/v1")
//	s.DefinitionFor("Pet", Pet{})
//
//	if err := s.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	doc := s.Build(root)
//
// DefinitionFor derives schemas from Go types using json tags for names and
// optionality, and the `swagger` struct tag for constraints:
//
//	type Pet struct {
//	    Name string `json:"name" swagger:"minLength=1,maxLength=64"`
//	    Kind string `json:"kind,omitempty" swagger:"enum=cat|dog"`
//	}
//
// # Serving
//
// Handle serves the document as JSON and YAML next to an interactive
// Swagger UI or Redoc page:
//
//	s.Handle(r, root, "/swagger", nil)
//	// GET /swagger/              -> Swagger UI
//	// GET /swagger/swagger.json  -> JSON document
//	// GET /swagger/swagger.yaml  -> YAML document
//
// # OpenAPI 3
//
// Document.OpenAPI3 converts a document with kin-openapi and validates the
// result.
package swagger
