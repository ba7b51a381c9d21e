package domain

// VoteState is the relationship between one voter and one review.
// Only VoteUp and VoteDown are ever stored; VoteNone is the absence of a row.
type VoteState int

// Vote states. The numeric values of Up and Down are the stored vote column values.
const (
	VoteDown VoteState = -1
	VoteNone VoteState = 0
	VoteUp   VoteState = 1
)

// NormalizeVote maps raw vote input to a direction: positive is up, anything else is down.
func NormalizeVote(v int) VoteState {
	if v > 0 {
		return VoteUp
	}
	return VoteDown
}

// NextVote returns the state after a voter submits requested while in current.
// Submitting the current direction again clears the vote.
func NextVote(current, requested VoteState) VoteState {
	if requested == VoteNone {
		return VoteNone
	}
	if current == requested {
		return VoteNone
	}
	return requested
}

// Stored reports whether the state is represented by a row.
func (v VoteState) Stored() bool {
	return v == VoteUp || v == VoteDown
}

func (v VoteState) String() string {
	switch v {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}
