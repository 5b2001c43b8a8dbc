package handlers_fiber

import (
	"errors"
	"net/http"

	"review-consensus-guard/internal/entities"
	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INTERNAL
	msg := "internal error"

	var violation *entities.PolicyViolation
	switch {
	case errors.As(err, &violation):
		status = http.StatusForbidden
		code = api.POLICYVIOLATION
		msg = violation.Error()
	case errors.Is(err, entities.ErrInvalidArgument), errors.Is(err, entities.ErrInterpolation):
		status = http.StatusBadRequest
		code = api.INVALIDARGUMENT
		msg = err.Error()
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrPRNotFound),
		errors.Is(err, entities.ErrRevisionNotFound),
		errors.Is(err, entities.ErrJobNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "resource not found: " + err.Error()
	case errors.Is(err, entities.ErrPRExists):
		status = http.StatusConflict
		code = api.PREXISTS
		msg = "PR id already exists"
	case errors.Is(err, entities.ErrPRClosed):
		status = http.StatusConflict
		code = api.PRCLOSED
		msg = "PR is merged or discarded"
	case errors.Is(err, entities.ErrVoteExists):
		status = http.StatusConflict
		code = api.VOTEEXISTS
		msg = "reviewer already voted on this revision"
	case errors.Is(err, entities.ErrConflict):
		status = http.StatusConflict
		code = api.CONFLICT
		msg = err.Error()
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	var res api.ErrorResponse
	res.Error.Code = code
	res.Error.Message = msg
	return res
}

func badBody(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
}
