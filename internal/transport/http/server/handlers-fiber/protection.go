package handlers_fiber

import (
	"net/http"

	"review-consensus-guard/internal/mapper"
	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PostProtectionTagsSet replaces the tag protection rules of a project.
func (h *Handler) PostProtectionTagsSet(c *fiber.Ctx) error {
	var body api.PostProtectionTagsSetJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	stored, err := h.uc.SetTagProtections(c.Context(), body.ProjectId, mapper.FromOAPITagProtections(body.ProjectId, body.Rules))
	if err != nil {
		h.log.Errorw("failed to set tag protections", "error", err.Error(), "project_id", body.ProjectId)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITagProtectionList(body.ProjectId, stored))
}

// GetProtectionTagsGet lists the tag protection rules of a project.
func (h *Handler) GetProtectionTagsGet(c *fiber.Ctx, params api.GetProtectionTagsGetParams) error {
	rules, err := h.uc.TagProtections(c.Context(), params.ProjectId)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITagProtectionList(params.ProjectId, rules))
}

// PostProtectionTagsEvaluate reports the protection applying to a tag in a build.
func (h *Handler) PostProtectionTagsEvaluate(c *fiber.Ctx) error {
	var body api.PostProtectionTagsEvaluateJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	decision, err := h.uc.EvaluateTagProtection(c.Context(), body.Tag, mapper.FromOAPIBuild(body.Build))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIDecision(body.Tag, decision))
}
