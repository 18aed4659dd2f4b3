package lobby

// Result is the closed outcome code shared by every lobby, room and user
// operation. Denied values name the violated precondition; Failure is the
// catch-all for infrastructure faults (store errors and the like), which are
// logged with context before being degraded.
type Result int

const (
	Failure Result = iota
	Success
	DeniedUserNull
	DeniedUserBanned
	DeniedUserNotBanned
	DeniedUserAlreadyPresent
	DeniedUserNotFound
	DeniedUserInUse
	DeniedSelfTarget
	DeniedReasonEmpty
	DeniedAmountNotPositive
	DeniedAmountExceedsBalance
	DeniedMembershipStatusNotHighEnough
	DeniedAlreadyFriends
	DeniedNotFriends
	DeniedNoStrikes
	DeniedFieldEmpty
	DeniedFieldLengthOutOfRange
	DeniedTextBanned
	DeniedUsernameInUse
	DeniedEmailInUse
	DeniedEndPointNull
	DeniedAccessPasswordNullOrWhitespace
	DeniedPasswordsDoNotMatch
	DeniedAdminPasswordEmpty
	DeniedRoomNameEmpty
	DeniedRoomNotFound
	DeniedMessageEmpty
	DeniedVisibilityNotMatched
	DeniedTextBanExists
	DeniedTextBanNotFound
	DeniedRateLimited
)

func (r Result) String() string {
	switch r {
	case Failure:
		return "Failure"
	case Success:
		return "Success"
	case DeniedUserNull:
		return "DeniedUserNull"
	case DeniedUserBanned:
		return "DeniedUserBanned"
	case DeniedUserNotBanned:
		return "DeniedUserNotBanned"
	case DeniedUserAlreadyPresent:
		return "DeniedUserAlreadyPresent"
	case DeniedUserNotFound:
		return "DeniedUserNotFound"
	case DeniedUserInUse:
		return "DeniedUserInUse"
	case DeniedSelfTarget:
		return "DeniedSelfTarget"
	case DeniedReasonEmpty:
		return "DeniedReasonEmpty"
	case DeniedAmountNotPositive:
		return "DeniedAmountNotPositive"
	case DeniedAmountExceedsBalance:
		return "DeniedAmountExceedsBalance"
	case DeniedMembershipStatusNotHighEnough:
		return "DeniedMembershipStatusNotHighEnough"
	case DeniedAlreadyFriends:
		return "DeniedAlreadyFriends"
	case DeniedNotFriends:
		return "DeniedNotFriends"
	case DeniedNoStrikes:
		return "DeniedNoStrikes"
	case DeniedFieldEmpty:
		return "DeniedFieldEmpty"
	case DeniedFieldLengthOutOfRange:
		return "DeniedFieldLengthOutOfRange"
	case DeniedTextBanned:
		return "DeniedTextBanned"
	case DeniedUsernameInUse:
		return "DeniedUsernameInUse"
	case DeniedEmailInUse:
		return "DeniedEmailInUse"
	case DeniedEndPointNull:
		return "DeniedEndPointNull"
	case DeniedAccessPasswordNullOrWhitespace:
		return "DeniedAccessPasswordNullOrWhitespace"
	case DeniedPasswordsDoNotMatch:
		return "DeniedPasswordsDoNotMatch"
	case DeniedAdminPasswordEmpty:
		return "DeniedAdminPasswordEmpty"
	case DeniedRoomNameEmpty:
		return "DeniedRoomNameEmpty"
	case DeniedRoomNotFound:
		return "DeniedRoomNotFound"
	case DeniedMessageEmpty:
		return "DeniedMessageEmpty"
	case DeniedVisibilityNotMatched:
		return "DeniedVisibilityNotMatched"
	case DeniedTextBanExists:
		return "DeniedTextBanExists"
	case DeniedTextBanNotFound:
		return "DeniedTextBanNotFound"
	case DeniedRateLimited:
		return "DeniedRateLimited"
	default:
		return "Unknown"
	}
}
