package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, owner *User, accessPassword string) *Room {
	t.Helper()
	return NewRoom("room-1", "Test Room", owner, "admin-secret", accessPassword, nil, nil)
}

func TestPrivateRoomLogin(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "open-sesame")
	user := newTestUser(t, "visitor", MembershipGuest)

	// Non-blank access password implies Private visibility.
	require.True(t, room.HasVisibility(VisibilityPrivate))

	require.Equal(t, DeniedUserNull, room.Login(nil, "open-sesame"))
	require.Equal(t, DeniedAccessPasswordNullOrWhitespace, room.Login(user, ""))
	require.Equal(t, DeniedAccessPasswordNullOrWhitespace, room.Login(user, "   "))
	require.Equal(t, DeniedPasswordsDoNotMatch, room.Login(user, "wrong"))
	require.Zero(t, room.UserCount())

	require.Equal(t, Success, room.Login(user, "open-sesame"))
	require.Equal(t, 1, room.UserCount())

	require.Equal(t, DeniedUserAlreadyPresent, room.Login(user, "open-sesame"))
}

func TestBannedUserCannotLogin(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	banned := newTestUser(t, "banned", MembershipBanned)

	require.Equal(t, DeniedUserBanned, room.Login(banned, ""))
}

func TestVisibilityMatchIsExactTier(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	admin := newTestUser(t, "admin", MembershipAdmin)
	require.Equal(t, Success, room.SetVisibility(admin, "", VisibilityGuests, true))

	guest := newTestUser(t, "guest", MembershipGuest)
	require.Equal(t, Success, room.Login(guest, ""))

	// Member outranks Guest but the match is exact, not hierarchical.
	member := newTestUser(t, "member", MembershipMember)
	require.Equal(t, DeniedVisibilityNotMatched, room.Login(member, ""))

	require.Equal(t, Success, room.SetVisibility(admin, "", VisibilityMembers, true))
	require.Equal(t, Success, room.Login(member, ""))
}

func TestVIPFastPath(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := NewRoom("vip-room", "VIP Room", owner, "admin-secret", "vip-pass", nil, nil)
	admin := newTestUser(t, "admin", MembershipAdmin)
	require.Equal(t, Success, room.SetVisibility(admin, "", VisibilityVIP, true))

	vip := newTestUser(t, "vip", MembershipGuest)
	require.Equal(t, Success, room.AddUser(owner, vip, true))
	require.True(t, room.IsVIP(vip))
	require.Equal(t, Success, room.Logout(vip))

	// Recorded VIPs re-enter a VIP room without the access password.
	require.Equal(t, Success, room.Login(vip, ""))
	require.Equal(t, 1, room.UserCount())

	// Everyone else still needs the password.
	other := newTestUser(t, "other", MembershipGuest)
	require.Equal(t, DeniedAccessPasswordNullOrWhitespace, room.Login(other, ""))
}

func TestMemberListAuthorization(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	target := newTestUser(t, "target", MembershipMember)
	stranger := newTestUser(t, "stranger", MembershipMember)
	mod := newTestUser(t, "mod", MembershipModerator)

	require.Equal(t, DeniedMembershipStatusNotHighEnough, room.AddUser(stranger, target, false))
	require.Equal(t, Success, room.AddUser(owner, target, false))
	require.Equal(t, DeniedUserAlreadyPresent, room.AddUser(mod, target, false))

	banned := newTestUser(t, "bannedactor", MembershipBanned)
	require.Equal(t, DeniedUserBanned, room.AddUser(banned, stranger, false))
	bannedTarget := newTestUser(t, "bannedtarget", MembershipBanned)
	require.Equal(t, DeniedUserBanned, room.AddUser(owner, bannedTarget, false))

	require.Equal(t, Success, room.RemoveUser(mod, target))
	require.Equal(t, DeniedUserNotFound, room.RemoveUser(owner, target))
}

func TestAdminMutations(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	member := newTestUser(t, "member", MembershipMember)
	staff := newTestUser(t, "staff", MembershipStaff)

	// Staff tier bypasses the admin password.
	require.Equal(t, Success, room.SetName(staff, "", "Renamed"))
	require.Equal(t, "Renamed", room.Name())

	// Anyone else needs the current admin password.
	require.Equal(t, DeniedAdminPasswordEmpty, room.SetName(member, "", "Hijacked"))
	require.Equal(t, DeniedPasswordsDoNotMatch, room.SetName(member, "bad", "Hijacked"))
	require.Equal(t, Success, room.SetName(member, "admin-secret", "Proper"))
	require.Equal(t, "Proper", room.Name())

	require.Equal(t, DeniedRoomNameEmpty, room.SetName(staff, "", "  "))

	// Access password toggles Private visibility.
	require.Equal(t, Success, room.SetAccessPassword(member, "admin-secret", "sesame"))
	require.True(t, room.HasVisibility(VisibilityPrivate))
	require.Equal(t, Success, room.SetAccessPassword(member, "admin-secret", ""))
	require.False(t, room.HasVisibility(VisibilityPrivate))

	require.Equal(t, DeniedAdminPasswordEmpty, room.SetAdminPassword(member, "admin-secret", " "))
	require.Equal(t, Success, room.SetAdminPassword(member, "admin-secret", "next-secret"))
	require.Equal(t, DeniedPasswordsDoNotMatch, room.SetName(member, "admin-secret", "Stale"))
	require.Equal(t, Success, room.SetName(member, "next-secret", "Fresh"))
}

func TestSetOwnerRotatesAdminPassword(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	member := newTestUser(t, "member", MembershipMember)
	next := newTestUser(t, "next", MembershipMember)

	require.Equal(t, DeniedUserNull, room.SetOwner(member, "admin-secret", nil))
	require.Equal(t, Success, room.SetOwner(member, "admin-secret", next))
	require.True(t, room.Owner().Equal(next))

	// The old admin password no longer authorizes anything.
	require.Equal(t, DeniedPasswordsDoNotMatch, room.SetName(member, "admin-secret", "Stale"))
}

func TestPost(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	admin := newTestUser(t, "admin", MembershipAdmin)
	require.Equal(t, Success, room.SetVisibility(admin, "", VisibilityMembers, true))

	author := newTestUser(t, "author", MembershipMember)
	require.Equal(t, DeniedUserNull, room.Post(nil, "hello"))
	require.Equal(t, DeniedMessageEmpty, room.Post(author, "   "))
	require.Equal(t, DeniedUserNotFound, room.Post(author, "hello"))

	require.Equal(t, Success, room.Login(author, ""))
	require.Equal(t, Success, room.Post(author, "hello"))
	require.Equal(t, Success, room.Post(author, "world"))

	chat := room.Chat()
	require.Len(t, chat, 2)
	require.Equal(t, author.ID(), chat[0].Author)
	require.Equal(t, "hello", chat[0].Message)
	require.False(t, chat[0].Time.IsZero())
}

func TestPostRateLimit(t *testing.T) {
	settings := DefaultSettings()
	settings.ChatPostsPerSecond = 0.001
	settings.ChatPostBurst = 2
	owner := newTestUser(t, "owner", MembershipMember)
	room := NewRoom("r", "Throttled", owner, "admin-secret", "", settings, nil)

	author := newTestUser(t, "author", MembershipMember)
	require.Equal(t, Success, room.AddUser(owner, author, false))

	require.Equal(t, Success, room.Post(author, "one"))
	require.Equal(t, Success, room.Post(author, "two"))
	require.Equal(t, DeniedRateLimited, room.Post(author, "three"))
}

func TestFlagForDeletion(t *testing.T) {
	owner := newTestUser(t, "owner", MembershipMember)
	room := newTestRoom(t, owner, "")
	member := newTestUser(t, "member", MembershipMember)
	staff := newTestUser(t, "staff", MembershipStaff)

	require.Equal(t, DeniedMembershipStatusNotHighEnough, room.FlagForDeletion(member))
	require.False(t, room.FlaggedForDeletion())
	require.Equal(t, Success, room.FlagForDeletion(staff))
	require.True(t, room.FlaggedForDeletion())
}
