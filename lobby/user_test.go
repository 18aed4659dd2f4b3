package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, username string, m Membership) *User {
	t.Helper()
	u := NewUser("id-"+username, "Test", "User", username+"@example.com", username, nil, nil)
	u.SetMembership(m)
	return u
}

func TestNewUserFallbacks(t *testing.T) {
	u := NewUser("u1", "", "  ", "a@b.c", "", nil, nil)
	require.Equal(t, NameUnavailable, u.FirstName())
	require.Equal(t, NameUnavailable, u.LastName())
	require.Equal(t, NameUnavailable, u.Username())
	require.Equal(t, NameUnavailable, u.ScreenName())

	named := NewUser("u2", "Ada", "Lovelace", "ada@b.c", "ada", nil, nil)
	require.Equal(t, "ada", named.ScreenName())
	named.SetScreenName("")
	require.Equal(t, NameUnavailable, named.ScreenName())
}

func TestEqualityAndOrdering(t *testing.T) {
	a := newTestUser(t, "alpha", MembershipGuest)
	b := newTestUser(t, "beta", MembershipGuest)
	sameID := NewUser(a.ID(), "Other", "Name", "x@y.z", "zeta", nil, nil)

	require.True(t, a.Equal(sameID))
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(nil))

	require.Negative(t, a.Compare(b))
	require.Positive(t, b.Compare(a))
	require.Positive(t, a.Compare(nil))
}

func TestAddKarmaGating(t *testing.T) {
	target := newTestUser(t, "target", MembershipMember)

	cases := []struct {
		name   string
		actor  *User
		amount float64
		reason string
		want   Result
	}{
		{"nil actor", nil, 5, "helpful", DeniedUserNull},
		{"blank reason", newTestUser(t, "staff1", MembershipStaff), 5, "  ", DeniedReasonEmpty},
		{"zero amount", newTestUser(t, "staff2", MembershipStaff), 0, "helpful", DeniedAmountNotPositive},
		{"guest actor", newTestUser(t, "guest", MembershipGuest), 5, "helpful", DeniedMembershipStatusNotHighEnough},
		{"member actor", newTestUser(t, "member", MembershipMember), 5, "helpful", DeniedMembershipStatusNotHighEnough},
		{"staff actor", newTestUser(t, "staff3", MembershipStaff), 5, "helpful", Success},
		{"admin actor", newTestUser(t, "admin", MembershipAdmin), 2.5, "helpful", Success},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, target.AddKarma(tc.actor, tc.amount, tc.reason))
		})
	}
	// 5 from staff, 2.5 from admin.
	require.Equal(t, 7.5, target.Karma())
}

func TestRemoveKarma(t *testing.T) {
	target := newTestUser(t, "target", MembershipMember)
	staff := newTestUser(t, "staff", MembershipStaff)

	require.Equal(t, Success, target.AddKarma(staff, 10, "seed"))
	require.Equal(t, Success, target.RemoveKarma(staff, 4, "abuse"))
	require.Equal(t, 6.0, target.Karma())

	guest := newTestUser(t, "guest", MembershipGuest)
	require.Equal(t, DeniedMembershipStatusNotHighEnough, target.RemoveKarma(guest, 1, "grief"))
}

func TestCoinModeration(t *testing.T) {
	target := newTestUser(t, "target", MembershipMember)
	staff := newTestUser(t, "staff", MembershipStaff)

	require.Equal(t, Success, target.AddCoin(staff, 100, "event prize"))
	require.Equal(t, Success, target.RemoveCoin(staff, 30, "refund"))
	require.Equal(t, 70.0, target.Coins())
}

func TestGiftCoin(t *testing.T) {
	giver := newTestUser(t, "giver", MembershipMember)
	receiver := newTestUser(t, "receiver", MembershipMember)
	staff := newTestUser(t, "staff", MembershipStaff)

	require.Equal(t, Success, giver.AddCoin(staff, 50, "seed"))

	require.Equal(t, DeniedUserNull, receiver.GiftCoin(nil, 10, "gift"))
	require.Equal(t, DeniedSelfTarget, giver.GiftCoin(giver, 10, "gift"))
	require.Equal(t, DeniedAmountNotPositive, receiver.GiftCoin(giver, -1, "gift"))
	require.Equal(t, DeniedAmountExceedsBalance, receiver.GiftCoin(giver, 51, "gift"))

	trial := newTestUser(t, "trial", MembershipTrial)
	require.Equal(t, DeniedMembershipStatusNotHighEnough, receiver.GiftCoin(trial, 1, "gift"))

	require.Equal(t, Success, receiver.GiftCoin(giver, 20, "gift"))
	require.Equal(t, 30.0, giver.Coins())
	require.Equal(t, 20.0, receiver.Coins())
}

func TestStrikes(t *testing.T) {
	target := newTestUser(t, "target", MembershipMember)
	mod := newTestUser(t, "mod", MembershipModerator)
	member := newTestUser(t, "member", MembershipMember)

	require.Equal(t, DeniedMembershipStatusNotHighEnough, target.AddStrike(member, "spam"))
	require.Equal(t, Success, target.AddStrike(mod, "spam"))
	require.Equal(t, 1, target.Strikes())

	require.Equal(t, Success, target.RemoveStrike(mod, "appeal"))
	require.Equal(t, DeniedNoStrikes, target.RemoveStrike(mod, "appeal"))
	require.Zero(t, target.Strikes())
}

func TestBanAndUnban(t *testing.T) {
	target := newTestUser(t, "target", MembershipKarmic)
	mod := newTestUser(t, "mod", MembershipModerator)
	member := newTestUser(t, "member", MembershipMember)
	until := time.Now().Add(time.Hour)

	require.Equal(t, DeniedMembershipStatusNotHighEnough, target.Ban(member, "abuse", until))

	require.Equal(t, Success, target.Ban(mod, "abuse", until))
	require.Equal(t, MembershipBanned, target.Membership())
	reason, start, end := target.BanInfo()
	require.Equal(t, "abuse", reason)
	require.False(t, start.IsZero())
	require.Equal(t, until, end)

	require.Equal(t, DeniedUserBanned, target.Ban(mod, "again", until))

	require.Equal(t, Success, target.Unban(mod, "appeal granted"))
	require.Equal(t, MembershipKarmic, target.Membership())
	reason, start, end = target.BanInfo()
	require.Empty(t, reason)
	require.True(t, start.IsZero())
	require.True(t, end.IsZero())

	require.Equal(t, DeniedUserNotBanned, target.Unban(mod, "noop"))
}

func TestFriends(t *testing.T) {
	a := newTestUser(t, "a", MembershipMember)
	b := newTestUser(t, "b", MembershipMember)

	require.Equal(t, DeniedUserNull, a.AddFriend(nil))
	require.Equal(t, DeniedSelfTarget, a.AddFriend(a))
	require.Equal(t, Success, a.AddFriend(b))
	require.Equal(t, DeniedAlreadyFriends, a.AddFriend(b))
	require.True(t, a.IsFriend(b))
	require.Equal(t, 1, a.FriendCount())

	require.Equal(t, Success, a.RemoveFriend(b))
	require.Equal(t, DeniedNotFriends, a.RemoveFriend(b))
	require.Zero(t, a.FriendCount())
}

func TestActionLog(t *testing.T) {
	target := newTestUser(t, "target", MembershipMember)
	staff := newTestUser(t, "staff", MembershipStaff)

	require.Equal(t, Success, target.AddKarma(staff, 1, "first"))
	require.Equal(t, Success, target.AddCoin(staff, 1, "second"))

	actions := target.Actions()
	require.Len(t, actions, 2)
	require.Equal(t, "karma.add", actions[0].Action)
	require.Equal(t, staff.ID(), actions[0].ActorID)
	require.Equal(t, "coin.add", actions[1].Action)
}
