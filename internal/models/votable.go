package models

// IDSet is a set of user IDs stored as a JSON array column.
type IDSet []int

func (s IDSet) Contains(id int) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the set with id removed.
func (s IDSet) Without(id int) IDSet {
	out := make(IDSet, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// VoteState is embedded in every votable model (questions and answers).
// Votes is a denormalized counter; the voter ID sets are authoritative.
type VoteState struct {
	Votes        int   `gorm:"default:0" json:"votes"`
	UpvoterIDs   IDSet `gorm:"serializer:json" json:"-"`
	DownvoterIDs IDSet `gorm:"serializer:json" json:"-"`
}
