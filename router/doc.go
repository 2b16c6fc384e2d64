// Package router registers HTTP routes together with their request
// specifications on top of gorilla/mux.
//
// A route is declared with its specification and handlers. Calling
// Validate turns on the validation pipeline for every handler of the route:
//
//	r := router.New(router.WithLogger(logger))
//
//	r.Route("/users/:id").
//	    Spec(userSpec).
//	    Validate().
//	    Get(getUser).
//	    Put(updateUser)
//
//	if err := r.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// A route whose specification fails these checks answers every request
// with 500 Internal Server Error instead of serving it unchecked.
//
// Body schemas may reference shared definitions. They are resolved when
// Validate runs, so definitions are added first:
//
//	r := router.New(router.WithDefinitions(map[string]*spec.Schema{"Pet": petSchema}))
//	// or r.Define("Pet", petSchema)
//
// Handlers read the sanitized request from the context:
//
//	func getUser(w http.ResponseWriter, r *http.Request) {
//	    req, _ := validate.FromContext(r.Context())
//	    id := req.Path["id"].(int64)
//	}
//
// Routers nest with Mount. The router tree implements swagger.RouteNode,
// so the same tree that serves requests is documented:
//
//	api := r.Mount("/api")
//	api.Route("/pets").Spec(petsSpec).Validate().Get(listPets)
//
//	swagger.NewSpec(info).Handle(r.Mux(), r, "/swagger", nil)
//
// Path variables may be written as ":name", "{name}" or "{name:pattern}".
// A ":name(pattern)" placeholder becomes "{name:pattern}" for matching.
package router
