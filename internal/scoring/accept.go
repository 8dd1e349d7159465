package scoring

import "github.com/devoverflow/backend/internal/models"

// AcceptOutcome describes an acceptance toggle. ReputationDelta applies to
// the toggled answer's author. When a different answer was previously
// accepted, DisplacedAnswerID is set and the caller must also unaccept that
// answer and apply -AcceptedAnswerPoints to its author; the two reputation
// updates are independent, not a transfer.
type AcceptOutcome struct {
	Accepted          bool
	ReputationDelta   int
	DisplacedAnswerID *int
}

// ToggleAccept flips the acceptance state of answer for question, mutating
// both. Only the question's author may call this. The question ends up with
// at most one accepted answer and its status tracks acceptance: solved when
// set, open when cleared.
func ToggleAccept(q *models.Question, a *models.Answer, actingUserID int) (AcceptOutcome, error) {
	if q.AuthorID != actingUserID {
		return AcceptOutcome{}, ErrNotQuestionAuthor
	}
	if a.QuestionID != q.ID {
		return AcceptOutcome{}, ErrAnswerMismatch
	}

	if a.IsAccepted {
		a.IsAccepted = false
		q.AcceptedAnswerID = nil
		q.Status = models.StatusOpen
		return AcceptOutcome{Accepted: false, ReputationDelta: -AcceptedAnswerPoints}, nil
	}

	out := AcceptOutcome{Accepted: true, ReputationDelta: AcceptedAnswerPoints}
	if q.AcceptedAnswerID != nil && *q.AcceptedAnswerID != a.ID {
		displaced := *q.AcceptedAnswerID
		out.DisplacedAnswerID = &displaced
	}

	a.IsAccepted = true
	id := a.ID
	q.AcceptedAnswerID = &id
	q.Status = models.StatusSolved
	return out, nil
}
