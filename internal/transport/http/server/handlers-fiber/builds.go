package handlers_fiber

import (
	"net/http"

	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/mapper"
	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PostBuildsCreateTag runs a single create_tag step for a build.
func (h *Handler) PostBuildsCreateTag(c *fiber.Ctx) error {
	var body api.PostBuildsCreateTagJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	message := ""
	if body.TagMessage != nil {
		message = *body.TagMessage
	}

	res, err := h.uc.CreateTag(c.Context(), mapper.FromOAPIBuild(body.Build), body.TagName, message)
	if err != nil {
		h.log.Warnw("create tag failed", "error", err.Error(), "tag", body.TagName, "project", body.Build.ProjectId)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Result api.ActionResult `json:"result"`
	}{Result: mapper.ToOAPIActionResults([]entities.ActionResult{res})[0]})
}

// PostBuildsRunActions runs the post-build actions of the build's job.
func (h *Handler) PostBuildsRunActions(c *fiber.Ctx) error {
	var body api.PostBuildsRunActionsJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	results, err := h.uc.RunBuildActions(c.Context(), mapper.FromOAPIBuild(body.Build), []byte(body.Spec))
	if err != nil {
		h.log.Warnw("post-build actions failed", "error", err.Error(), "project", body.Build.ProjectId,
			"job", body.Build.JobName, "completed", len(results))
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Results []api.ActionResult `json:"results"`
	}{Results: mapper.ToOAPIActionResults(results)})
}
