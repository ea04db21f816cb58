package server

import (
	"errors"
	"net/http"

	"github.com/plenggn/TalentMatch/internal/drafting"
	"github.com/plenggn/TalentMatch/internal/matching"
)

// HTTPStatus maps a pipeline error to the response status code. Anything
// unrecognized is an internal error.
func HTTPStatus(err error) int {
	var notFound *matching.NotFoundError
	var missingInput *matching.MissingInputError
	var draftNotFound *drafting.NotFoundError
	var draftErr *drafting.DraftingError

	switch {
	case errors.As(err, &notFound), errors.As(err, &draftNotFound):
		return http.StatusNotFound
	case errors.As(err, &missingInput):
		return http.StatusBadRequest
	case errors.As(err, &draftErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
