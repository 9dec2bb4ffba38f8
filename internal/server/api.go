package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Error ...
type Error struct {
	Error string `json:"error"`
}

// GraphQLRequest is a request to the /graphql endpoint.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HealthResponse ...
type HealthResponse struct {
	Status string `json:"status"`
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b) // nolint
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}
