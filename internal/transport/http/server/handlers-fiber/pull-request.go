package handlers_fiber

import (
	"net/http"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/mapper"
	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

type pullRequestResponse struct {
	PR api.PullRequest `json:"pr"`
}

// PostPullRequestCreate opens a PR with its first revision.
func (h *Handler) PostPullRequestCreate(c *fiber.Ctx) error {
	var body api.PostPullRequestCreateJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	pr, err := h.uc.CreatePullRequest(c.Context(), entities.PullRequest{
		ID:          body.PullRequestId,
		Title:       body.Title,
		SubmitterID: body.SubmitterId,
	}, body.CommitHash)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(pullRequestResponse{PR: mapper.ToOAPIPull(*pr)})
}

// PostPullRequestAddRevision appends a revision.
func (h *Handler) PostPullRequestAddRevision(c *fiber.Ctx) error {
	var body api.PostPullRequestAddRevisionJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	rev, err := h.uc.AddRevision(c.Context(), entities.Revision{
		PullRequestID: body.PullRequestId,
		AuthorID:      body.AuthorId,
		CommitHash:    body.CommitHash,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		PullRequestID string       `json:"pull_request_id"`
		Revision      api.Revision `json:"revision"`
	}{PullRequestID: rev.PullRequestID, Revision: mapper.ToOAPIRevision(*rev)})
}

// PostPullRequestAddReviewer invites a reviewer.
func (h *Handler) PostPullRequestAddReviewer(c *fiber.Ctx) error {
	var body api.PostPullRequestAddReviewerJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.AddReviewer(c.Context(), body.PullRequestId, body.ReviewerId)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Invitation api.VoteInvitation `json:"invitation"`
	}{Invitation: mapper.ToOAPIInvitation(*inv)})
}

// PostPullRequestClose merges or discards a PR.
func (h *Handler) PostPullRequestClose(c *fiber.Ctx) error {
	var body api.PostPullRequestCloseJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	pr, err := h.uc.ClosePullRequest(c.Context(), body.PullRequestId, entities.PullRequestStatus(body.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(pullRequestResponse{PR: mapper.ToOAPIPull(*pr)})
}

// GetPullRequestGet returns the PR with its history.
func (h *Handler) GetPullRequestGet(c *fiber.Ctx, params api.GetPullRequestGetParams) error {
	pr, err := h.uc.PullRequest(c.Context(), params.PullRequestId)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(pullRequestResponse{PR: mapper.ToOAPIPull(*pr)})
}
