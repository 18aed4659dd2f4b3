package lobby

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// NameUnavailable is the sentinel stored when a name-like field is set to a
// blank value. Blank names are substituted, not rejected.
const NameUnavailable = "Unavailable"

// ActionEntry is one immutable line of a user's moderation history.
type ActionEntry struct {
	Time    time.Time
	ActorID string
	Action  string
	Reason  string
}

// User is a lobby participant: identity, membership tier, reputation
// (karma, coins, strikes), a friends set and moderation state. All methods
// are safe for concurrent use.
type User struct {
	mu             sync.Mutex
	id             string
	firstName      string
	lastName       string
	email          string
	username       string
	screenName     string
	membership     Membership
	prevMembership Membership
	karma          float64
	coins          float64
	strikes        int
	banReason      string
	banStart       time.Time
	banEnd         time.Time
	friends        map[string]*User
	actions        []ActionEntry

	settings *Settings
	logger   *slog.Logger
	now      func() time.Time
}

func fallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return NameUnavailable
	}
	return s
}

// NewUser builds a user with the given identity. Blank name-like fields
// fall back to NameUnavailable; the screen name defaults to the username.
// Nil settings and logger fall back to DefaultSettings and slog.Default.
func NewUser(id, firstName, lastName, email, username string, settings *Settings, logger *slog.Logger) *User {
	if settings == nil {
		settings = DefaultSettings()
	}
	if logger == nil {
		logger = slog.Default()
	}
	uname := fallback(username)
	return &User{
		id:         id,
		firstName:  fallback(firstName),
		lastName:   fallback(lastName),
		email:      email,
		username:   uname,
		screenName: uname,
		membership: MembershipGuest,
		friends:    make(map[string]*User),
		settings:   settings,
		logger:     logger.With(slog.String("component", "lobby_user")),
		now:        time.Now,
	}
}

func (u *User) ID() string { return u.id }

func (u *User) FirstName() string  { u.mu.Lock(); defer u.mu.Unlock(); return u.firstName }
func (u *User) LastName() string   { u.mu.Lock(); defer u.mu.Unlock(); return u.lastName }
func (u *User) Email() string      { u.mu.Lock(); defer u.mu.Unlock(); return u.email }
func (u *User) Username() string   { u.mu.Lock(); defer u.mu.Unlock(); return u.username }
func (u *User) ScreenName() string { u.mu.Lock(); defer u.mu.Unlock(); return u.screenName }

func (u *User) SetFirstName(s string)  { u.mu.Lock(); u.firstName = fallback(s); u.mu.Unlock() }
func (u *User) SetLastName(s string)   { u.mu.Lock(); u.lastName = fallback(s); u.mu.Unlock() }
func (u *User) SetScreenName(s string) { u.mu.Lock(); u.screenName = fallback(s); u.mu.Unlock() }

// Membership returns the current tier.
func (u *User) Membership() Membership {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.membership
}

// SetMembership assigns a tier directly. Moderation paths go through Ban
// and Unban instead.
func (u *User) SetMembership(m Membership) {
	u.mu.Lock()
	u.membership = m
	u.mu.Unlock()
}

func (u *User) Karma() float64 { u.mu.Lock(); defer u.mu.Unlock(); return u.karma }
func (u *User) Coins() float64 { u.mu.Lock(); defer u.mu.Unlock(); return u.coins }
func (u *User) Strikes() int   { u.mu.Lock(); defer u.mu.Unlock(); return u.strikes }

// BanInfo returns the ban metadata; the times are zero when not banned.
func (u *User) BanInfo() (reason string, start, end time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.banReason, u.banStart, u.banEnd
}

// Equal reports identity equality: two users are the same iff ids match.
func (u *User) Equal(other *User) bool {
	return other != nil && u.id == other.id
}

// Compare orders users by case-sensitive username text.
func (u *User) Compare(other *User) int {
	if other == nil {
		return 1
	}
	return strings.Compare(u.Username(), other.Username())
}

func (u *User) record(actorID, action, reason string) {
	entry := ActionEntry{Time: u.now(), ActorID: actorID, Action: action, Reason: reason}
	u.actions = append(u.actions, entry)
	u.logger.Info("User moderation action",
		slog.String("action", action),
		slog.String("actor", actorID),
		slog.String("target", u.id),
		slog.String("reason", reason))
}

// Actions returns a copy of the moderation history.
func (u *User) Actions() []ActionEntry {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]ActionEntry, len(u.actions))
	copy(out, u.actions)
	return out
}

// checkModeration runs the shared precondition chain: actor present, reason
// present, amount positive (when amounted), actor tier at or above minimum.
func (u *User) checkModeration(actor *User, reason string, amount float64, amounted bool, minimum Membership) Result {
	if actor == nil {
		return DeniedUserNull
	}
	if strings.TrimSpace(reason) == "" {
		return DeniedReasonEmpty
	}
	if amounted && amount <= 0 {
		return DeniedAmountNotPositive
	}
	if actor.Membership() < minimum {
		return DeniedMembershipStatusNotHighEnough
	}
	return Success
}

// AddKarma awards karma to the user. Staff-or-above only.
func (u *User) AddKarma(actor *User, amount float64, reason string) Result {
	if res := u.checkModeration(actor, reason, amount, true, u.settings.KarmaModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.karma += amount
	u.record(actor.id, "karma.add", reason)
	return Success
}

// RemoveKarma deducts karma from the user. Staff-or-above only.
func (u *User) RemoveKarma(actor *User, amount float64, reason string) Result {
	if res := u.checkModeration(actor, reason, amount, true, u.settings.KarmaModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.karma -= amount
	u.record(actor.id, "karma.remove", reason)
	return Success
}

// AddCoin credits coins to the user. Staff-or-above only.
func (u *User) AddCoin(actor *User, amount float64, reason string) Result {
	if res := u.checkModeration(actor, reason, amount, true, u.settings.CoinModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coins += amount
	u.record(actor.id, "coin.add", reason)
	return Success
}

// RemoveCoin debits coins from the user. Staff-or-above only.
func (u *User) RemoveCoin(actor *User, amount float64, reason string) Result {
	if res := u.checkModeration(actor, reason, amount, true, u.settings.CoinModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coins -= amount
	u.record(actor.id, "coin.remove", reason)
	return Success
}

// GiftCoin transfers coins from the giver's balance to this user. The gift
// may not exceed the giver's balance.
func (u *User) GiftCoin(giver *User, amount float64, reason string) Result {
	if giver == nil {
		return DeniedUserNull
	}
	if giver.id == u.id {
		return DeniedSelfTarget
	}
	if strings.TrimSpace(reason) == "" {
		return DeniedReasonEmpty
	}
	if amount <= 0 {
		return DeniedAmountNotPositive
	}
	if giver.Membership() < u.settings.CoinGiftMinimum {
		return DeniedMembershipStatusNotHighEnough
	}

	// Lock both users in id order so concurrent gifts cannot deadlock.
	first, second := giver, u
	if first.id > second.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if giver.coins < amount {
		return DeniedAmountExceedsBalance
	}
	giver.coins -= amount
	u.coins += amount
	u.record(giver.id, "coin.gift", reason)
	return Success
}

// AddStrike records a strike against the user. Moderator-or-above only.
func (u *User) AddStrike(actor *User, reason string) Result {
	if res := u.checkModeration(actor, reason, 0, false, u.settings.StrikeModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.strikes++
	u.record(actor.id, "strike.add", reason)
	return Success
}

// RemoveStrike clears one strike. Moderator-or-above only.
func (u *User) RemoveStrike(actor *User, reason string) Result {
	if res := u.checkModeration(actor, reason, 0, false, u.settings.StrikeModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.strikes == 0 {
		return DeniedNoStrikes
	}
	u.strikes--
	u.record(actor.id, "strike.remove", reason)
	return Success
}

// Ban moves the user to the Banned tier until the given time and stamps the
// ban metadata. Moderator-or-above only.
func (u *User) Ban(actor *User, reason string, until time.Time) Result {
	if res := u.checkModeration(actor, reason, 0, false, u.settings.BanModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.membership == MembershipBanned {
		return DeniedUserBanned
	}
	u.prevMembership = u.membership
	u.membership = MembershipBanned
	u.banReason = reason
	u.banStart = u.now()
	u.banEnd = until
	u.record(actor.id, "ban.add", reason)
	return Success
}

// Unban restores the tier held before the ban and clears the ban metadata.
// Moderator-or-above only.
func (u *User) Unban(actor *User, reason string) Result {
	if res := u.checkModeration(actor, reason, 0, false, u.settings.BanModifyMinimum); res != Success {
		return res
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.membership != MembershipBanned {
		return DeniedUserNotBanned
	}
	restored := u.prevMembership
	if restored == MembershipBanned {
		restored = MembershipGuest
	}
	u.membership = restored
	u.banReason = ""
	u.banStart = time.Time{}
	u.banEnd = time.Time{}
	u.record(actor.id, "ban.remove", reason)
	return Success
}

// expireBan restores the pre-ban tier when the ban window has elapsed at
// the given time. Returns true when a ban was lifted. Used by lobby upkeep.
func (u *User) expireBan(now time.Time) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.membership != MembershipBanned || u.banEnd.IsZero() || u.banEnd.After(now) {
		return false
	}
	restored := u.prevMembership
	if restored == MembershipBanned {
		restored = MembershipGuest
	}
	u.membership = restored
	u.banReason = ""
	u.banStart = time.Time{}
	u.banEnd = time.Time{}
	u.record("system", "ban.expire", "ban window elapsed")
	return true
}

// AddFriend adds another user to the friends set. Self-friending is
// rejected.
func (u *User) AddFriend(friend *User) Result {
	if friend == nil {
		return DeniedUserNull
	}
	if friend.id == u.id {
		return DeniedSelfTarget
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.friends[friend.id]; ok {
		return DeniedAlreadyFriends
	}
	u.friends[friend.id] = friend
	return Success
}

// RemoveFriend drops a user from the friends set.
func (u *User) RemoveFriend(friend *User) Result {
	if friend == nil {
		return DeniedUserNull
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.friends[friend.id]; !ok {
		return DeniedNotFriends
	}
	delete(u.friends, friend.id)
	return Success
}

// IsFriend reports friends-set membership.
func (u *User) IsFriend(friend *User) bool {
	if friend == nil {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.friends[friend.id]
	return ok
}

// FriendCount reports the friends-set size.
func (u *User) FriendCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.friends)
}
