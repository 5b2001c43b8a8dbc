package handlers_fiber

import (
	"net/http"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/mapper"
	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PostPullRequestVote records a reviewer vote.
func (h *Handler) PostPullRequestVote(c *fiber.Ctx) error {
	var body api.PostPullRequestVoteJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	vote := entities.Vote{
		PullRequestID: body.PullRequestId,
		ReviewerID:    body.ReviewerId,
		Result:        entities.VoteResult(body.Result),
	}
	if body.RevisionSeq != nil {
		vote.RevisionSeq = *body.RevisionSeq
	}
	if body.Comment != nil {
		vote.Comment = *body.Comment
	}

	res, err := h.uc.CastVote(c.Context(), vote)
	if err != nil {
		h.log.Errorw("failed to cast vote", "error", err.Error(), "pr_id", body.PullRequestId)
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Vote api.Vote `json:"vote"`
	}{Vote: mapper.ToOAPIVote(*res)})
}

// GetPullRequestApproval returns the approval partition of the reviewers.
func (h *Handler) GetPullRequestApproval(c *fiber.Ctx, params api.GetPullRequestApprovalParams) error {
	approval, err := h.uc.Approval(c.Context(), params.PullRequestId, intOrZero(params.FromRevision))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIApproval(approval))
}

// GetPullRequestEffectiveVote returns a reviewer's vote as of a revision.
func (h *Handler) GetPullRequestEffectiveVote(c *fiber.Ctx, params api.GetPullRequestEffectiveVoteParams) error {
	vote, err := h.uc.EffectiveVote(c.Context(), params.PullRequestId, params.ReviewerId, intOrZero(params.FromRevision))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIEffectiveVote(vote))
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
