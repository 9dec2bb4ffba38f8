// Package server Orpheus
//
// Orpheus is a GraphQL API which provides access to community entities
// (users, posts, profiles, member types).
//
//     Schemes: https
//     BasePath: /
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/graphql-go/graphql"

	mm "github.com/orpheus-net/orpheus/internal/middleware"
	"github.com/orpheus-net/orpheus/internal/storage"
)

const maxBodySize = 1024 * 1024

type server struct {
	schema graphql.Schema
	s      storage.Storage
}

// SetupRouter setups handlers to chi router.
func SetupRouter(schema graphql.Schema, s storage.Storage, r chi.Router, timeout time.Duration) {
	r.Use(
		mm.Logger,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.RequestID,
		mm.Recoverer,
		middleware.Timeout(timeout),
		mm.BodyLimiter(maxBodySize),
	)

	srv := server{
		schema: schema,
		s:      s,
	}

	r.Get("/health", srv.health)
	r.Post("/graphql", srv.graphql)
}
