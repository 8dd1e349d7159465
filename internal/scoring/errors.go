package scoring

import "errors"

var (
	// ErrSelfVote is returned when a user votes on their own content.
	ErrSelfVote = errors.New("cannot vote on your own content")

	// ErrInvalidAction is returned for an unknown vote action.
	ErrInvalidAction = errors.New("invalid vote type")

	// ErrNotQuestionAuthor is returned when someone other than the question
	// author tries to accept or unaccept an answer.
	ErrNotQuestionAuthor = errors.New("only the question author can accept answers")

	// ErrAnswerMismatch is returned when the answer does not belong to the
	// question it is being accepted for.
	ErrAnswerMismatch = errors.New("answer does not belong to this question")
)
