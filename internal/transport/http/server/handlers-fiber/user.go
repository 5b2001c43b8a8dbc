package handlers_fiber

import (
	"net/http"

	"review-consensus-guard/internal/mapper"
	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PostUsersAdd registers a user or refreshes its profile.
func (h *Handler) PostUsersAdd(c *fiber.Ctx) error {
	var body api.PostUsersAddJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		h.log.Errorw("failed to parse body", "error", err.Error())
		return badBody(c)
	}

	usr, err := h.uc.RegisterUser(c.Context(), mapper.FromOAPIUser(body))
	if err != nil {
		h.log.Errorw("failed to register user", "error", err.Error())
		return writeError(c, err)
	}

	resp := struct {
		User api.User `json:"user"`
	}{User: mapper.ToOAPIUser(*usr)}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetUsersGetInvitations returns vote invitations addressed to the user.
func (h *Handler) GetUsersGetInvitations(c *fiber.Ctx, params api.GetUsersGetInvitationsParams) error {
	pendingOnly := params.PendingOnly != nil && *params.PendingOnly

	invitations, err := h.uc.ReviewerInvitations(c.Context(), params.UserId, pendingOnly)
	if err != nil {
		h.log.Errorw("failed to get invitations", "error", err.Error())
		return writeError(c, err)
	}

	resp := struct {
		UserID      string                `json:"user_id"`
		Invitations []api.VoteInvitation `json:"invitations"`
	}{
		UserID:      params.UserId,
		Invitations: mapper.ToOAPIInvitationList(invitations),
	}
	return c.Status(http.StatusOK).JSON(resp)
}
