package scoring

import "github.com/devoverflow/backend/internal/models"

// AcceptedAnswerPoints is granted to an answer's author on acceptance and
// removed on unacceptance.
const AcceptedAnswerPoints = 15

// ApplyReputation adds delta to the user's reputation, clamped at zero.
// Each computed transition must be applied exactly once.
func ApplyReputation(u *models.User, delta int) {
	u.Reputation += delta
	if u.Reputation < 0 {
		u.Reputation = 0
	}
}
