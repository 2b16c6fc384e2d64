// Package muxhandlers provides gorilla/mux middleware for services built
// on validated routes.
//
// # Request ID
//
// RequestID stores an ID on the request, the response and the context. With
// a logger configured, handlers get a request-scoped logger through
// zerolog.Ctx:
//
//	r.Use(muxhandlers.RequestID(muxhandlers.RequestIDConfig{Logger: &logger}))
//
// # Access Log and Recovery
//
//	r.Use(
//	    muxhandlers.AccessLog(logger, muxhandlers.AccessLogConfig{SkipPaths: []string{"/healthz"}}),
//	    muxhandlers.Recovery(logger),
//	)
//
// # Body Limit
//
// BodyLimit rejects oversized bodies with 413. Bodies of unknown length
// are cut at the limit and reported by request validation:
//
//	mw, err := muxhandlers.BodyLimit(1 << 20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// # Consumes
//
// Consumes enforces the media types the operations of a route declare:
//
//	pets := r.Mount("/pets")
//	pets.Use(muxhandlers.Consumes(petsSpec, "application/json"))
//	pets.Route("").Spec(petsSpec).Validate().Post(createPet)
package muxhandlers
