package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /users/add)
	PostUsersAdd(c *fiber.Ctx) error
	// (GET /users/getInvitations)
	GetUsersGetInvitations(c *fiber.Ctx, params GetUsersGetInvitationsParams) error
	// (POST /pullRequest/create)
	PostPullRequestCreate(c *fiber.Ctx) error
	// (POST /pullRequest/addRevision)
	PostPullRequestAddRevision(c *fiber.Ctx) error
	// (POST /pullRequest/addReviewer)
	PostPullRequestAddReviewer(c *fiber.Ctx) error
	// (POST /pullRequest/vote)
	PostPullRequestVote(c *fiber.Ctx) error
	// (POST /pullRequest/close)
	PostPullRequestClose(c *fiber.Ctx) error
	// (GET /pullRequest/get)
	GetPullRequestGet(c *fiber.Ctx, params GetPullRequestGetParams) error
	// (GET /pullRequest/approval)
	GetPullRequestApproval(c *fiber.Ctx, params GetPullRequestApprovalParams) error
	// (GET /pullRequest/effectiveVote)
	GetPullRequestEffectiveVote(c *fiber.Ctx, params GetPullRequestEffectiveVoteParams) error
	// (POST /protection/tags/set)
	PostProtectionTagsSet(c *fiber.Ctx) error
	// (GET /protection/tags/get)
	GetProtectionTagsGet(c *fiber.Ctx, params GetProtectionTagsGetParams) error
	// (POST /protection/tags/evaluate)
	PostProtectionTagsEvaluate(c *fiber.Ctx) error
	// (POST /builds/createTag)
	PostBuildsCreateTag(c *fiber.Ctx) error
	// (POST /builds/runActions)
	PostBuildsRunActions(c *fiber.Ctx) error
	// (GET /stats)
	GetStats(c *fiber.Ctx) error
	// (GET /stats/reviewer/{user_id})
	GetStatsReviewerUserId(c *fiber.Ctx, userId string, params GetStatsReviewerUserIdParams) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindQuery(c *fiber.Ctx, dst any, required ...string) error {
	if err := c.QueryParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid format for query parameters: %s", err))
	}
	for _, name := range required {
		if c.Query(name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Query argument %s is required, but not found", name))
		}
	}
	return nil
}

// PostUsersAdd operation middleware
func (w *ServerInterfaceWrapper) PostUsersAdd(c *fiber.Ctx) error {
	return w.Handler.PostUsersAdd(c)
}

// GetUsersGetInvitations operation middleware
func (w *ServerInterfaceWrapper) GetUsersGetInvitations(c *fiber.Ctx) error {
	var params GetUsersGetInvitationsParams
	if err := bindQuery(c, &params, "user_id"); err != nil {
		return err
	}
	return w.Handler.GetUsersGetInvitations(c, params)
}

// PostPullRequestCreate operation middleware
func (w *ServerInterfaceWrapper) PostPullRequestCreate(c *fiber.Ctx) error {
	return w.Handler.PostPullRequestCreate(c)
}

// PostPullRequestAddRevision operation middleware
func (w *ServerInterfaceWrapper) PostPullRequestAddRevision(c *fiber.Ctx) error {
	return w.Handler.PostPullRequestAddRevision(c)
}

// PostPullRequestAddReviewer operation middleware
func (w *ServerInterfaceWrapper) PostPullRequestAddReviewer(c *fiber.Ctx) error {
	return w.Handler.PostPullRequestAddReviewer(c)
}

// PostPullRequestVote operation middleware
func (w *ServerInterfaceWrapper) PostPullRequestVote(c *fiber.Ctx) error {
	return w.Handler.PostPullRequestVote(c)
}

// PostPullRequestClose operation middleware
func (w *ServerInterfaceWrapper) PostPullRequestClose(c *fiber.Ctx) error {
	return w.Handler.PostPullRequestClose(c)
}

// GetPullRequestGet operation middleware
func (w *ServerInterfaceWrapper) GetPullRequestGet(c *fiber.Ctx) error {
	var params GetPullRequestGetParams
	if err := bindQuery(c, &params, "pull_request_id"); err != nil {
		return err
	}
	return w.Handler.GetPullRequestGet(c, params)
}

// GetPullRequestApproval operation middleware
func (w *ServerInterfaceWrapper) GetPullRequestApproval(c *fiber.Ctx) error {
	var params GetPullRequestApprovalParams
	if err := bindQuery(c, &params, "pull_request_id"); err != nil {
		return err
	}
	return w.Handler.GetPullRequestApproval(c, params)
}

// GetPullRequestEffectiveVote operation middleware
func (w *ServerInterfaceWrapper) GetPullRequestEffectiveVote(c *fiber.Ctx) error {
	var params GetPullRequestEffectiveVoteParams
	if err := bindQuery(c, &params, "pull_request_id", "reviewer_id"); err != nil {
		return err
	}
	return w.Handler.GetPullRequestEffectiveVote(c, params)
}

// PostProtectionTagsSet operation middleware
func (w *ServerInterfaceWrapper) PostProtectionTagsSet(c *fiber.Ctx) error {
	return w.Handler.PostProtectionTagsSet(c)
}

// GetProtectionTagsGet operation middleware
func (w *ServerInterfaceWrapper) GetProtectionTagsGet(c *fiber.Ctx) error {
	var params GetProtectionTagsGetParams
	if err := bindQuery(c, &params, "project_id"); err != nil {
		return err
	}
	return w.Handler.GetProtectionTagsGet(c, params)
}

// PostProtectionTagsEvaluate operation middleware
func (w *ServerInterfaceWrapper) PostProtectionTagsEvaluate(c *fiber.Ctx) error {
	return w.Handler.PostProtectionTagsEvaluate(c)
}

// PostBuildsCreateTag operation middleware
func (w *ServerInterfaceWrapper) PostBuildsCreateTag(c *fiber.Ctx) error {
	return w.Handler.PostBuildsCreateTag(c)
}

// PostBuildsRunActions operation middleware
func (w *ServerInterfaceWrapper) PostBuildsRunActions(c *fiber.Ctx) error {
	return w.Handler.PostBuildsRunActions(c)
}

// GetStats operation middleware
func (w *ServerInterfaceWrapper) GetStats(c *fiber.Ctx) error {
	return w.Handler.GetStats(c)
}

// GetStatsReviewerUserId operation middleware
func (w *ServerInterfaceWrapper) GetStatsReviewerUserId(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Path argument user_id is required")
	}
	var params GetStatsReviewerUserIdParams
	if err := bindQuery(c, &params); err != nil {
		return err
	}
	return w.Handler.GetStatsReviewerUserId(c, userID, params)
}

// FiberServerOptions provides options for the Fiber server.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []fiber.Handler
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options.
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	for _, m := range options.Middlewares {
		router.Use(m)
	}

	router.Post(options.BaseURL+"/users/add", wrapper.PostUsersAdd)
	router.Get(options.BaseURL+"/users/getInvitations", wrapper.GetUsersGetInvitations)
	router.Post(options.BaseURL+"/pullRequest/create", wrapper.PostPullRequestCreate)
	router.Post(options.BaseURL+"/pullRequest/addRevision", wrapper.PostPullRequestAddRevision)
	router.Post(options.BaseURL+"/pullRequest/addReviewer", wrapper.PostPullRequestAddReviewer)
	router.Post(options.BaseURL+"/pullRequest/vote", wrapper.PostPullRequestVote)
	router.Post(options.BaseURL+"/pullRequest/close", wrapper.PostPullRequestClose)
	router.Get(options.BaseURL+"/pullRequest/get", wrapper.GetPullRequestGet)
	router.Get(options.BaseURL+"/pullRequest/approval", wrapper.GetPullRequestApproval)
	router.Get(options.BaseURL+"/pullRequest/effectiveVote", wrapper.GetPullRequestEffectiveVote)
	router.Post(options.BaseURL+"/protection/tags/set", wrapper.PostProtectionTagsSet)
	router.Get(options.BaseURL+"/protection/tags/get", wrapper.GetProtectionTagsGet)
	router.Post(options.BaseURL+"/protection/tags/evaluate", wrapper.PostProtectionTagsEvaluate)
	router.Post(options.BaseURL+"/builds/createTag", wrapper.PostBuildsCreateTag)
	router.Post(options.BaseURL+"/builds/runActions", wrapper.PostBuildsRunActions)
	router.Get(options.BaseURL+"/stats", wrapper.GetStats)
	router.Get(options.BaseURL+"/stats/reviewer/:user_id", wrapper.GetStatsReviewerUserId)
}
