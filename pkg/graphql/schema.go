// Package graphql serves a graphql-go schema over HTTP.
//
//	schema, _ := graphql.NewSchema(rootQuery)
//	r.Mount("/api/graphql", "graphql", graphql.Handler(schema))
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/response"
)

// NewSchema creates a read-only schema from the root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL POST body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Execute runs req against schema with the caller's context.
func Execute(r *http.Request, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
}

// Handler answers POST requests with the result inside the standard
// envelope. A result carrying errors is a 400.
func Handler(schema graphql.Schema) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w)
			return
		}

		var req Request
		body := http.MaxBytesReader(w, r.Body, config.MaxBodyBytes())
		if err := json.NewDecoder(body).Decode(&req); err != nil || req.Query == "" {
			response.Write(w, http.StatusBadRequest, response.Envelope{
				Message: "Validation failed",
				Errors:  map[string]string{"query": "The query field is required."},
			})
			return
		}

		result := Execute(r, schema, req)
		status := http.StatusOK
		msg := ""
		if result.HasErrors() {
			status = http.StatusBadRequest
			msg = result.Errors[0].Message
			logger.WithCtx(r.Context()).Debug("graphql: query failed", "errors", len(result.Errors))
		}
		response.Write(w, status, response.Envelope{Message: msg, Data: result})
	})
}
