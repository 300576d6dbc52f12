package types

// ApprovalType identifies the action a request gates.
type ApprovalType string

const (
	ApprovalTypeCreate ApprovalType = "create"
	ApprovalTypeModify ApprovalType = "modify"
	ApprovalTypeCancel ApprovalType = "cancel"
)

func (t ApprovalType) Valid() bool {
	switch t {
	case ApprovalTypeCreate, ApprovalTypeModify, ApprovalTypeCancel:
		return true
	}
	return false
}

// ApprovalStatus transitions pending -> approved or pending -> rejected,
// exactly once.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)
