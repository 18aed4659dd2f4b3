package lobby

import "time"

// Settings holds the lobby-wide field bounds, the minimum membership tiers
// per privileged action, and timing knobs. A single Settings value is shared
// by the lobby, its rooms and its users.
type Settings struct {
	MinNameLength     int
	MaxNameLength     int
	MinUsernameLength int
	MaxUsernameLength int
	MinEmailLength    int
	MaxEmailLength    int
	MinPasswordLength int
	MaxPasswordLength int

	// Moderation gates, checked hierarchically (>=).
	KarmaModifyMinimum  Membership
	CoinModifyMinimum   Membership
	CoinGiftMinimum     Membership
	StrikeModifyMinimum Membership
	BanModifyMinimum    Membership

	// Room gates.
	RoomAdminMinimum      Membership // bypasses the admin password
	RoomMemberListMinimum Membership // add/remove members besides the owner
	RoomRemoveMinimum     Membership

	// Chat flood control, per user per room.
	ChatPostsPerSecond float64
	ChatPostBurst      int

	// Upkeep cadence for Update.
	UpkeepInterval time.Duration
}

// DefaultSettings mirrors the documented defaults: staff-or-above performs
// reputation moderation, moderators handle strikes and bans, and upkeep runs
// every 30 seconds.
func DefaultSettings() *Settings {
	return &Settings{
		MinNameLength:     2,
		MaxNameLength:     48,
		MinUsernameLength: 3,
		MaxUsernameLength: 24,
		MinEmailLength:    6,
		MaxEmailLength:    128,
		MinPasswordLength: 8,
		MaxPasswordLength: 128,

		KarmaModifyMinimum:  MembershipStaff,
		CoinModifyMinimum:   MembershipStaff,
		CoinGiftMinimum:     MembershipMember,
		StrikeModifyMinimum: MembershipModerator,
		BanModifyMinimum:    MembershipModerator,

		RoomAdminMinimum:      MembershipStaff,
		RoomMemberListMinimum: MembershipModerator,
		RoomRemoveMinimum:     MembershipStaff,

		ChatPostsPerSecond: 2,
		ChatPostBurst:      5,

		UpkeepInterval: 30 * time.Second,
	}
}
