// Package schema composes the served GraphQL schema over a storage.
package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/orpheus-net/orpheus/internal/storage"
)

// New builds the process-wide immutable schema. Building is deterministic and
// does no I/O, the storage is only touched by resolvers at execution time.
func New(s storage.Storage) (graphql.Schema, error) {
	b := newBuilder(s)

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.query(),
		Mutation: b.mutation(),
	})
}
