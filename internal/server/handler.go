package server

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

func (s server) graphql(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode request")
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	// Execution errors, validation errors included, travel in the standard
	// errors channel of the result next to any partial data.
	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	writeOK(w, http.StatusOK, result)
}

func (s server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.s.Ping(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "storage is unavailable")
		return
	}

	writeOK(w, http.StatusOK, HealthResponse{Status: "ok"})
}
