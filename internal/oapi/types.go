// Package api holds the HTTP contract of the service: transport DTOs, the
// server interface and fiber route registration.
package api

import "time"

// ErrorResponseErrorCode classifies API errors.
type ErrorResponseErrorCode string

// Error codes.
const (
	INVALIDARGUMENT ErrorResponseErrorCode = "INVALID_ARGUMENT"
	NOTFOUND        ErrorResponseErrorCode = "NOT_FOUND"
	PREXISTS        ErrorResponseErrorCode = "PR_EXISTS"
	PRCLOSED        ErrorResponseErrorCode = "PR_CLOSED"
	VOTEEXISTS      ErrorResponseErrorCode = "VOTE_EXISTS"
	CONFLICT        ErrorResponseErrorCode = "CONFLICT"
	POLICYVIOLATION ErrorResponseErrorCode = "POLICY_VIOLATION"
	INTERNAL        ErrorResponseErrorCode = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// PullRequestStatus defines model for PullRequest.Status.
type PullRequestStatus string

// Defines values for PullRequestStatus.
const (
	PullRequestStatusOPEN      PullRequestStatus = "OPEN"
	PullRequestStatusMERGED    PullRequestStatus = "MERGED"
	PullRequestStatusDISCARDED PullRequestStatus = "DISCARDED"
)

// VoteResult defines model for Vote.Result.
type VoteResult string

// Defines values for VoteResult.
const (
	VoteResultAPPROVE VoteResult = "APPROVE"
	VoteResultREJECT  VoteResult = "REJECT"
	VoteResultABSTAIN VoteResult = "ABSTAIN"
)

// User defines model for User.
type User struct {
	UserId   string `json:"user_id"`
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	IsActive bool   `json:"is_active"`
}

// VoteInvitation defines model for VoteInvitation.
type VoteInvitation struct {
	InvitationId  string     `json:"invitation_id"`
	PullRequestId string     `json:"pull_request_id"`
	ReviewerId    string     `json:"reviewer_id"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// Revision defines model for Revision.
type Revision struct {
	Seq        int       `json:"seq"`
	AuthorId   string    `json:"author_id"`
	CommitHash string    `json:"commit_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

// Vote defines model for Vote.
type Vote struct {
	PullRequestId string     `json:"pull_request_id"`
	RevisionSeq   int        `json:"revision_seq"`
	ReviewerId    string     `json:"reviewer_id"`
	Result        VoteResult `json:"result"`
	Comment       string     `json:"comment,omitempty"`
	CastAt        time.Time  `json:"cast_at"`
}

// PullRequest defines model for PullRequest.
type PullRequest struct {
	PullRequestId string            `json:"pull_request_id"`
	Title         string            `json:"title"`
	SubmitterId   string            `json:"submitter_id"`
	Status        PullRequestStatus `json:"status"`
	Revisions     []Revision        `json:"revisions"`
	Votes         []Vote            `json:"votes"`
	Reviewers     []string          `json:"reviewers"`
	CreatedAt     *time.Time        `json:"createdAt,omitempty"`
	ClosedAt      *time.Time        `json:"closedAt,omitempty"`
}

// Approval defines model for Approval.
type Approval struct {
	PullRequestId string   `json:"pull_request_id"`
	FromRevision  int      `json:"from_revision"`
	Approved      []string `json:"approved"`
	Pending       []string `json:"pending"`
	Rejected      []string `json:"rejected"`
	Satisfied     bool     `json:"satisfied"`
}

// EffectiveVote defines model for EffectiveVote. Result is absent when the
// reviewer has no opinion.
type EffectiveVote struct {
	PullRequestId string      `json:"pull_request_id"`
	ReviewerId    string      `json:"reviewer_id"`
	FromRevision  int         `json:"from_revision"`
	Result        *VoteResult `json:"result,omitempty"`
}

// TagProtection defines model for TagProtection.
type TagProtection struct {
	Position        int    `json:"position"`
	Tags            string `json:"tags"`
	Branches        string `json:"branches,omitempty"`
	Jobs            string `json:"jobs,omitempty"`
	PreventCreation bool   `json:"prevent_creation"`
	PreventUpdate   bool   `json:"prevent_update"`
	PreventDeletion bool   `json:"prevent_deletion"`
}

// TagProtectionList defines model for TagProtectionList.
type TagProtectionList struct {
	ProjectId string          `json:"project_id"`
	Rules     []TagProtection `json:"rules"`
}

// Build defines model for Build.
type Build struct {
	ProjectId     string            `json:"project_id"`
	Number        int64             `json:"number"`
	JobName       string            `json:"job_name"`
	Branch        string            `json:"branch,omitempty"`
	CommitHash    string            `json:"commit_hash"`
	PullRequestId string            `json:"pull_request_id,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
}

// ProtectionDecision defines model for ProtectionDecision.
type ProtectionDecision struct {
	Tag             string `json:"tag"`
	PreventCreation bool   `json:"prevent_creation"`
	PreventUpdate   bool   `json:"prevent_update"`
	PreventDeletion bool   `json:"prevent_deletion"`
	MatchedRules    []int  `json:"matched_rules"`
}

// ActionResult defines model for ActionResult.
type ActionResult struct {
	Action  string `json:"action"`
	Ref     string `json:"ref"`
	Outcome string `json:"outcome"`
}

// PostUsersAddJSONRequestBody defines body for PostUsersAdd.
type PostUsersAddJSONRequestBody = User

// PostPullRequestCreateJSONRequestBody defines body for PostPullRequestCreate.
type PostPullRequestCreateJSONRequestBody struct {
	PullRequestId string `json:"pull_request_id"`
	Title         string `json:"title"`
	SubmitterId   string `json:"submitter_id"`
	CommitHash    string `json:"commit_hash"`
}

// PostPullRequestAddRevisionJSONRequestBody defines body for PostPullRequestAddRevision.
type PostPullRequestAddRevisionJSONRequestBody struct {
	PullRequestId string `json:"pull_request_id"`
	AuthorId      string `json:"author_id"`
	CommitHash    string `json:"commit_hash"`
}

// PostPullRequestAddReviewerJSONRequestBody defines body for PostPullRequestAddReviewer.
type PostPullRequestAddReviewerJSONRequestBody struct {
	PullRequestId string `json:"pull_request_id"`
	ReviewerId    string `json:"reviewer_id"`
}

// PostPullRequestVoteJSONRequestBody defines body for PostPullRequestVote.
type PostPullRequestVoteJSONRequestBody struct {
	PullRequestId string     `json:"pull_request_id"`
	ReviewerId    string     `json:"reviewer_id"`
	RevisionSeq   *int       `json:"revision_seq,omitempty"`
	Result        VoteResult `json:"result"`
	Comment       *string    `json:"comment,omitempty"`
}

// PostPullRequestCloseJSONRequestBody defines body for PostPullRequestClose.
type PostPullRequestCloseJSONRequestBody struct {
	PullRequestId string            `json:"pull_request_id"`
	Status        PullRequestStatus `json:"status"`
}

// PostProtectionTagsSetJSONRequestBody defines body for PostProtectionTagsSet.
type PostProtectionTagsSetJSONRequestBody = TagProtectionList

// PostProtectionTagsEvaluateJSONRequestBody defines body for PostProtectionTagsEvaluate.
type PostProtectionTagsEvaluateJSONRequestBody struct {
	Tag   string `json:"tag"`
	Build Build  `json:"build"`
}

// PostBuildsCreateTagJSONRequestBody defines body for PostBuildsCreateTag.
type PostBuildsCreateTagJSONRequestBody struct {
	Build      Build   `json:"build"`
	TagName    string  `json:"tag_name"`
	TagMessage *string `json:"tag_message,omitempty"`
}

// PostBuildsRunActionsJSONRequestBody defines body for PostBuildsRunActions.
// Spec is the YAML build definition.
type PostBuildsRunActionsJSONRequestBody struct {
	Build Build  `json:"build"`
	Spec  string `json:"spec"`
}

// GetUsersGetInvitationsParams defines parameters for GetUsersGetInvitations.
type GetUsersGetInvitationsParams struct {
	UserId      string `query:"user_id"`
	PendingOnly *bool  `query:"pending_only"`
}

// GetPullRequestGetParams defines parameters for GetPullRequestGet.
type GetPullRequestGetParams struct {
	PullRequestId string `query:"pull_request_id"`
}

// GetPullRequestApprovalParams defines parameters for GetPullRequestApproval.
type GetPullRequestApprovalParams struct {
	PullRequestId string `query:"pull_request_id"`
	FromRevision  *int   `query:"from_revision"`
}

// GetPullRequestEffectiveVoteParams defines parameters for GetPullRequestEffectiveVote.
type GetPullRequestEffectiveVoteParams struct {
	PullRequestId string `query:"pull_request_id"`
	ReviewerId    string `query:"reviewer_id"`
	FromRevision  *int   `query:"from_revision"`
}

// GetProtectionTagsGetParams defines parameters for GetProtectionTagsGet.
type GetProtectionTagsGetParams struct {
	ProjectId string `query:"project_id"`
}

// GetStatsReviewerUserIdParams defines parameters for GetStatsReviewerUserId.
type GetStatsReviewerUserIdParams struct {
	Limit *int `query:"limit"`
}
