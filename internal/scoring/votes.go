// Package scoring holds the vote ledger, reputation accumulator, and answer
// acceptance state machine. Everything here is pure in-memory state
// manipulation: callers load the models, apply a transition, and persist the
// result (entity plus affected user rows) in one transaction.
package scoring

import "github.com/devoverflow/backend/internal/models"

// Action is a vote request from a user against a question or answer.
type Action string

const (
	Upvote   Action = "upvote"
	Downvote Action = "downvote"
	Remove   Action = "remove"
)

func (a Action) Valid() bool {
	switch a {
	case Upvote, Downvote, Remove:
		return true
	}
	return false
}

// VoterState is the acting user's vote on an entity after a transition.
type VoterState string

const (
	VoterUpvoted   VoterState = "upvoted"
	VoterDownvoted VoterState = "downvoted"
	VoterNone      VoterState = "none"
)

// Points are the reputation values a vote carries for the entity's author.
type Points struct {
	Upvote          int
	DownvotePenalty int
}

var (
	QuestionPoints = Points{Upvote: 5, DownvotePenalty: 2}
	AnswerPoints   = Points{Upvote: 10, DownvotePenalty: 2}
)

// VoteResult describes the state after a vote transition.
type VoteResult struct {
	// Votes is the entity's new denormalized count.
	Votes int
	// State is the acting user's resulting vote state.
	State VoterState
	// ReputationDelta is the change owed to the entity's author. It is the
	// sum of sub-steps for switch votes (e.g. downvoted -> upvoted on an
	// answer is +2 for the removed downvote plus +10 for the new upvote),
	// applied once so clamping never happens mid-sequence.
	ReputationDelta int
}

// ApplyVote applies one vote action by voterID against the entity's vote
// state. authorID is the entity owner; self-votes are rejected. The voter ID
// ends up in at most one of the two sets.
func ApplyVote(vs *models.VoteState, authorID, voterID int, action Action, pts Points) (VoteResult, error) {
	if !action.Valid() {
		return VoteResult{}, ErrInvalidAction
	}
	if voterID == authorID {
		return VoteResult{}, ErrSelfVote
	}

	hadUp := vs.UpvoterIDs.Contains(voterID)
	hadDown := vs.DownvoterIDs.Contains(voterID)

	delta := 0

	switch action {
	case Upvote:
		if hadUp {
			// Toggle off.
			vs.UpvoterIDs = vs.UpvoterIDs.Without(voterID)
			vs.Votes--
			delta = -pts.Upvote
		} else {
			if hadDown {
				vs.DownvoterIDs = vs.DownvoterIDs.Without(voterID)
				vs.Votes++
				delta = pts.DownvotePenalty
			}
			vs.UpvoterIDs = append(vs.UpvoterIDs, voterID)
			vs.Votes++
			delta += pts.Upvote
		}
	case Downvote:
		if hadDown {
			// Toggle off.
			vs.DownvoterIDs = vs.DownvoterIDs.Without(voterID)
			vs.Votes++
			delta = pts.DownvotePenalty
		} else {
			if hadUp {
				vs.UpvoterIDs = vs.UpvoterIDs.Without(voterID)
				vs.Votes--
				delta = -pts.Upvote
			}
			vs.DownvoterIDs = append(vs.DownvoterIDs, voterID)
			vs.Votes--
			delta -= pts.DownvotePenalty
		}
	case Remove:
		if hadUp {
			vs.UpvoterIDs = vs.UpvoterIDs.Without(voterID)
			vs.Votes--
			delta = -pts.Upvote
		} else if hadDown {
			vs.DownvoterIDs = vs.DownvoterIDs.Without(voterID)
			vs.Votes++
			delta = pts.DownvotePenalty
		}
	}

	return VoteResult{
		Votes:           vs.Votes,
		State:           stateOf(vs, voterID),
		ReputationDelta: delta,
	}, nil
}

// StateOf reports the user's current vote on an entity.
func StateOf(vs *models.VoteState, userID int) VoterState {
	return stateOf(vs, userID)
}

func stateOf(vs *models.VoteState, userID int) VoterState {
	switch {
	case vs.UpvoterIDs.Contains(userID):
		return VoterUpvoted
	case vs.DownvoterIDs.Contains(userID):
		return VoterDownvoted
	default:
		return VoterNone
	}
}
