// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"review-consensus-guard/internal/entities"
	oapi "review-consensus-guard/internal/oapi"
)

// FromOAPIUser builds an entities.User from transport DTO.
func FromOAPIUser(src oapi.User) entities.User {
	return entities.User{
		ID:       src.UserId,
		Name:     src.Name,
		FullName: src.FullName,
		Email:    src.Email,
		IsActive: src.IsActive,
	}
}

// ToOAPIUser maps entities.User to transport model.
func ToOAPIUser(u entities.User) oapi.User {
	return oapi.User{
		UserId:   u.ID,
		Name:     u.Name,
		FullName: u.FullName,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}

// ToOAPIInvitationList maps vote invitations to transport slice.
func ToOAPIInvitationList(list []entities.VoteInvitation) []oapi.VoteInvitation {
	res := make([]oapi.VoteInvitation, 0, len(list))
	for _, inv := range list {
		res = append(res, ToOAPIInvitation(inv))
	}
	return res
}

// ToOAPIInvitation maps entities.VoteInvitation to transport model.
func ToOAPIInvitation(inv entities.VoteInvitation) oapi.VoteInvitation {
	return oapi.VoteInvitation{
		InvitationId:  inv.ID,
		PullRequestId: inv.PullRequestID,
		ReviewerId:    inv.ReviewerID,
		CreatedAt:     inv.CreatedAt,
		ResolvedAt:    inv.ResolvedAt,
	}
}

// ToOAPIRevision maps entities.Revision to transport model.
func ToOAPIRevision(r entities.Revision) oapi.Revision {
	return oapi.Revision{
		Seq:        r.Seq,
		AuthorId:   r.AuthorID,
		CommitHash: r.CommitHash,
		CreatedAt:  r.CreatedAt,
	}
}

// ToOAPIVote maps entities.Vote to transport model.
func ToOAPIVote(v entities.Vote) oapi.Vote {
	return oapi.Vote{
		PullRequestId: v.PullRequestID,
		RevisionSeq:   v.RevisionSeq,
		ReviewerId:    v.ReviewerID,
		Result:        oapi.VoteResult(v.Result),
		Comment:       v.Comment,
		CastAt:        v.CastAt,
	}
}

// ToOAPIPull maps entities.PullRequest to transport model.
func ToOAPIPull(pr entities.PullRequest) oapi.PullRequest {
	revisions := make([]oapi.Revision, 0, len(pr.Revisions))
	for _, r := range pr.Revisions {
		revisions = append(revisions, ToOAPIRevision(r))
	}
	votes := make([]oapi.Vote, 0, len(pr.Votes))
	for _, v := range pr.Votes {
		votes = append(votes, ToOAPIVote(v))
	}
	reviewers := pr.Reviewers
	if reviewers == nil {
		reviewers = []string{}
	}

	return oapi.PullRequest{
		PullRequestId: pr.ID,
		Title:         pr.Title,
		SubmitterId:   pr.SubmitterID,
		Status:        oapi.PullRequestStatus(pr.Status),
		Revisions:     revisions,
		Votes:         votes,
		Reviewers:     reviewers,
		CreatedAt:     pr.CreatedAt,
		ClosedAt:      pr.ClosedAt,
	}
}

// ToOAPIApproval maps entities.Approval to transport model.
func ToOAPIApproval(a entities.Approval) oapi.Approval {
	return oapi.Approval{
		PullRequestId: a.PullRequestID,
		FromRevision:  a.FromRevision,
		Approved:      a.Approved,
		Pending:       a.Pending,
		Rejected:      a.Rejected,
		Satisfied:     a.Satisfied(),
	}
}

// ToOAPIEffectiveVote omits the result when the reviewer has not voted.
func ToOAPIEffectiveVote(v entities.EffectiveVote) oapi.EffectiveVote {
	out := oapi.EffectiveVote{
		PullRequestId: v.PullRequestID,
		ReviewerId:    v.ReviewerID,
		FromRevision:  v.FromRevision,
	}
	if v.Voted {
		r := oapi.VoteResult(v.Result)
		out.Result = &r
	}
	return out
}

// FromOAPITagProtections builds domain rules for projectID.
func FromOAPITagProtections(projectID string, src []oapi.TagProtection) []entities.TagProtection {
	rules := make([]entities.TagProtection, 0, len(src))
	for _, r := range src {
		rules = append(rules, entities.TagProtection{
			ProjectID:       projectID,
			Position:        r.Position,
			Tags:            r.Tags,
			Branches:        r.Branches,
			Jobs:            r.Jobs,
			PreventCreation: r.PreventCreation,
			PreventUpdate:   r.PreventUpdate,
			PreventDeletion: r.PreventDeletion,
		})
	}
	return rules
}

// ToOAPITagProtectionList maps stored rules to transport model.
func ToOAPITagProtectionList(projectID string, rules []entities.TagProtection) oapi.TagProtectionList {
	res := oapi.TagProtectionList{ProjectId: projectID, Rules: make([]oapi.TagProtection, 0, len(rules))}
	for _, r := range rules {
		res.Rules = append(res.Rules, oapi.TagProtection{
			Position:        r.Position,
			Tags:            r.Tags,
			Branches:        r.Branches,
			Jobs:            r.Jobs,
			PreventCreation: r.PreventCreation,
			PreventUpdate:   r.PreventUpdate,
			PreventDeletion: r.PreventDeletion,
		})
	}
	return res
}

// FromOAPIBuild maps the transport build context to the domain.
func FromOAPIBuild(src oapi.Build) entities.Build {
	return entities.Build{
		ProjectID:     src.ProjectId,
		Number:        src.Number,
		JobName:       src.JobName,
		Branch:        src.Branch,
		CommitHash:    src.CommitHash,
		PullRequestID: src.PullRequestId,
		Params:        src.Params,
	}
}

// ToOAPIDecision maps a protection decision to transport model.
func ToOAPIDecision(tag string, d entities.ProtectionDecision) oapi.ProtectionDecision {
	matched := d.MatchedRules
	if matched == nil {
		matched = []int{}
	}
	return oapi.ProtectionDecision{
		Tag:             tag,
		PreventCreation: d.PreventCreation,
		PreventUpdate:   d.PreventUpdate,
		PreventDeletion: d.PreventDeletion,
		MatchedRules:    matched,
	}
}

// ToOAPIActionResults maps executed actions to transport slice.
func ToOAPIActionResults(list []entities.ActionResult) []oapi.ActionResult {
	res := make([]oapi.ActionResult, 0, len(list))
	for _, r := range list {
		res = append(res, oapi.ActionResult{Action: r.Action, Ref: r.Ref, Outcome: string(r.Outcome)})
	}
	return res
}
