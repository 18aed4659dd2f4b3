package lobby

// Membership is the ordered privilege tier attached to a user. Moderation
// gates compare with >=, so higher tiers satisfy every lower-tier gate.
type Membership int

const (
	MembershipBanned Membership = iota
	MembershipGuest
	MembershipTrial
	MembershipMember
	MembershipKarmic
	MembershipModerator
	MembershipStaff
	MembershipAdmin
)

func (m Membership) String() string {
	switch m {
	case MembershipBanned:
		return "Banned"
	case MembershipGuest:
		return "Guest"
	case MembershipTrial:
		return "Trial"
	case MembershipMember:
		return "Member"
	case MembershipKarmic:
		return "Karmic"
	case MembershipModerator:
		return "Moderator"
	case MembershipStaff:
		return "Staff"
	case MembershipAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Visibility is a room access level. A room can declare several. Visibility
// matching at login is by exact tier equality, unlike the hierarchical
// moderation gates.
type Visibility int

const (
	VisibilityGuests Visibility = iota
	VisibilityMembers
	VisibilityPrivate
	VisibilityVIP
	VisibilityStaff
	VisibilityAdmin
)

func (v Visibility) String() string {
	switch v {
	case VisibilityGuests:
		return "Guests"
	case VisibilityMembers:
		return "Members"
	case VisibilityPrivate:
		return "Private"
	case VisibilityVIP:
		return "VIP"
	case VisibilityStaff:
		return "Staff"
	case VisibilityAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// matchesVisibility reports the exact-tier mapping used by room login.
func matchesVisibility(m Membership, v Visibility) bool {
	switch v {
	case VisibilityGuests:
		return m == MembershipGuest
	case VisibilityMembers:
		return m == MembershipMember
	case VisibilityStaff:
		return m == MembershipStaff
	case VisibilityAdmin:
		return m == MembershipAdmin
	default:
		return false
	}
}
