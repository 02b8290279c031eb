package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes ProblemDetail responses for the fulfillment API. Problem
// type URIs stay relative unless BaseURI is set, which keeps the templates in
// problem.go deployment-agnostic.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
}

// NewResponder creates a problem responder with an optional base URI.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// Respond sends the problem with the problem+json content type. A missing
// instance defaults to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError sends err as a problem. Errors that already are a
// ProblemDetail pass through; anything else becomes a generic 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// ErrorMapper translates a domain or application sentinel into a
// ProblemDetail. The second return reports whether the error was recognized.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder runs errors through domain mappers before the generic
// handling. Each transport adapter registers its own chain; see the
// fulfillment HTTP adapter's mapDomainError.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with the given error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// RespondError tries each mapper in order before falling back to the
// embedded responder.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
