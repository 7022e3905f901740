package errors

// MetaReason is the meta key carrying a game rule violation's reason.
const MetaReason = "reason"

// Reason classifies a rejected game action independently of its transport code.
type Reason string

const (
	ReasonInvalidAction        Reason = "invalid_action"
	ReasonInsufficientResource Reason = "insufficient_resource"
	ReasonIllegalUpgrade       Reason = "illegal_upgrade"
	ReasonCorruptPersistence   Reason = "corrupt_persistence"
)

// InvalidAction reports an action that is not allowed in the current state.
// The session stays where it is and the player is asked again.
func InvalidAction(message string) *Error {
	return New(CodeFailedPrecondition, message).WithMeta(MetaReason, string(ReasonInvalidAction))
}

// InvalidActionf creates an invalid action error with formatted message
func InvalidActionf(format string, args ...interface{}) *Error {
	return Newf(CodeFailedPrecondition, format, args...).WithMeta(MetaReason, string(ReasonInvalidAction))
}

// InvalidPosition reports an inventory pick outside the stack list.
func InvalidPosition(position, size int) *Error {
	return Newf(CodeOutOfRange, "there is no item at position %d", position).
		WithMeta(MetaReason, string(ReasonInvalidAction)).
		WithMeta("position", position).
		WithMeta("size", size)
}

// InsufficientResource reports a missing key, ankh, gold or item.
func InsufficientResource(message string) *Error {
	return New(CodeResourceExhausted, message).WithMeta(MetaReason, string(ReasonInsufficientResource))
}

// InsufficientResourcef creates an insufficient resource error with formatted message
func InsufficientResourcef(format string, args ...interface{}) *Error {
	return Newf(CodeResourceExhausted, format, args...).WithMeta(MetaReason, string(ReasonInsufficientResource))
}

// IllegalUpgrade reports an upgrade of default gear or gear at the maximum level.
func IllegalUpgrade(message string) *Error {
	return New(CodeFailedPrecondition, message).WithMeta(MetaReason, string(ReasonIllegalUpgrade))
}

// CorruptPersistence reports a stored record that cannot be decoded.
func CorruptPersistence(message string) *Error {
	return New(CodeDataLoss, message).WithMeta(MetaReason, string(ReasonCorruptPersistence))
}

// CorruptPersistencef creates a corrupt persistence error with formatted message
func CorruptPersistencef(format string, args ...interface{}) *Error {
	return Newf(CodeDataLoss, format, args...).WithMeta(MetaReason, string(ReasonCorruptPersistence))
}

// GetReason extracts the game reason from an error, or "" when there is none.
func GetReason(err error) Reason {
	meta := GetMeta(err)
	if meta == nil {
		return ""
	}
	switch r := meta[MetaReason].(type) {
	case string:
		return Reason(r)
	case Reason:
		return r
	}
	return ""
}

// IsInvalidAction checks if an error is an invalid action
func IsInvalidAction(err error) bool {
	return GetReason(err) == ReasonInvalidAction
}

// IsInsufficientResource checks if an error is an insufficient resource error
func IsInsufficientResource(err error) bool {
	return GetReason(err) == ReasonInsufficientResource
}

// IsIllegalUpgrade checks if an error is an illegal upgrade
func IsIllegalUpgrade(err error) bool {
	return GetReason(err) == ReasonIllegalUpgrade
}

// IsCorruptPersistence checks if an error came from an undecodable record
func IsCorruptPersistence(err error) bool {
	return GetReason(err) == ReasonCorruptPersistence
}

// IsRejection reports whether err is a game rule violation the player can recover from.
func IsRejection(err error) bool {
	switch GetReason(err) {
	case ReasonInvalidAction, ReasonInsufficientResource, ReasonIllegalUpgrade:
		return true
	}
	return false
}
