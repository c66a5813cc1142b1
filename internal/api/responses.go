package api

import (
	"errors"
	"net/http"

	"bestronggym/gym-desk/internal/service"
	"bestronggym/gym-desk/internal/store"

	"github.com/gin-gonic/gin"
)

// CollectionResponse wraps a whole record collection.
type CollectionResponse[T any] struct {
	Items  []T    `json:"items"`
	Status string `json:"status,omitempty"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

func loadResponse[T store.Record](res store.LoadResult[T]) CollectionResponse[T] {
	resp := CollectionResponse[T]{
		Items:  nonNil(res.Records),
		Status: res.Status().String(),
		Source: string(res.Source),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}

func collectionResponse[T any](items []T) CollectionResponse[T] {
	return CollectionResponse[T]{Items: nonNil(items)}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// abortWithServiceError maps service errors to HTTP status codes.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrUnknownPlan):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrMembershipNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "Records are temporarily unavailable")
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
