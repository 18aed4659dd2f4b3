package lobby

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"lobbynet/netutil"
)

// ChatEntry is one line of a room's chronological chat log.
type ChatEntry struct {
	Time    time.Time
	Author  string
	Message string
}

// roomMember tracks one user's standing in the room. VIP standing survives
// logout so the VIP fast-path can readmit without a password.
type roomMember struct {
	user    *User
	vip     bool
	present bool
}

// Room is a chat/session space owned by a user, with declared visibility
// levels, an admin password, an optional access password (which implies
// Private visibility) and its own membership list.
type Room struct {
	mu                 sync.Mutex
	id                 string
	name               string
	owner              *User
	adminPassword      string
	accessPassword     string
	flaggedForDeletion bool
	visibility         map[Visibility]struct{}
	members            map[string]*roomMember
	chat               []ChatEntry
	limiters           map[string]*rate.Limiter

	settings *Settings
	logger   *slog.Logger
	now      func() time.Time
}

// NewRoom builds a room. A non-blank access password marks the room
// Private. Nil settings and logger fall back to DefaultSettings and
// slog.Default.
func NewRoom(id, name string, owner *User, adminPassword, accessPassword string, settings *Settings, logger *slog.Logger) *Room {
	if settings == nil {
		settings = DefaultSettings()
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Room{
		id:             id,
		name:           name,
		owner:          owner,
		adminPassword:  adminPassword,
		accessPassword: accessPassword,
		visibility:     make(map[Visibility]struct{}),
		members:        make(map[string]*roomMember),
		limiters:       make(map[string]*rate.Limiter),
		settings:       settings,
		logger:         logger.With(slog.String("component", "lobby_room"), slog.String("room", id)),
		now:            time.Now,
	}
	if strings.TrimSpace(accessPassword) != "" {
		r.visibility[VisibilityPrivate] = struct{}{}
	}
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) Name() string { r.mu.Lock(); defer r.mu.Unlock(); return r.name }

func (r *Room) Owner() *User { r.mu.Lock(); defer r.mu.Unlock(); return r.owner }

// FlaggedForDeletion reports whether upkeep should prune this room.
func (r *Room) FlaggedForDeletion() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flaggedForDeletion
}

// HasVisibility reports whether the room declares the given level.
func (r *Room) HasVisibility(v Visibility) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.visibility[v]
	return ok
}

// SetVisibility declares or retracts a visibility level. Requires the
// configured admin tier or the admin password.
func (r *Room) SetVisibility(requester *User, adminPassword string, v Visibility, enabled bool) Result {
	if res := r.authorize(requester, adminPassword); res != Success {
		return res
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if enabled {
		r.visibility[v] = struct{}{}
	} else {
		delete(r.visibility, v)
	}
	return Success
}

// authorize implements the shared admin-mutation gate: a requester at or
// above the lobby-configured admin tier passes unconditionally; anyone else
// must present the current admin password.
func (r *Room) authorize(requester *User, adminPassword string) Result {
	if requester == nil {
		return DeniedUserNull
	}
	if requester.Membership() >= r.settings.RoomAdminMinimum {
		return Success
	}
	if strings.TrimSpace(adminPassword) == "" {
		return DeniedAdminPasswordEmpty
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if adminPassword != r.adminPassword {
		return DeniedPasswordsDoNotMatch
	}
	return Success
}

// Login admits a user, evaluated in fixed order: nil user, banned user,
// already present, VIP fast-path, private-room password, then exact-tier
// visibility match.
func (r *Room) Login(user *User, accessPassword string) Result {
	if user == nil {
		return DeniedUserNull
	}
	membership := user.Membership()
	if membership == MembershipBanned {
		return DeniedUserBanned
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	member := r.members[user.ID()]
	if member != nil && member.present {
		return DeniedUserAlreadyPresent
	}

	if _, vipRoom := r.visibility[VisibilityVIP]; vipRoom && member != nil && member.vip {
		member.present = true
		return Success
	}

	if _, private := r.visibility[VisibilityPrivate]; private {
		if strings.TrimSpace(accessPassword) == "" {
			return DeniedAccessPasswordNullOrWhitespace
		}
		if accessPassword != r.accessPassword {
			return DeniedPasswordsDoNotMatch
		}
		r.admitLocked(user)
		return Success
	}

	for v := range r.visibility {
		if matchesVisibility(membership, v) {
			r.admitLocked(user)
			return Success
		}
	}
	return DeniedVisibilityNotMatched
}

func (r *Room) admitLocked(user *User) {
	member := r.members[user.ID()]
	if member == nil {
		member = &roomMember{user: user}
		r.members[user.ID()] = member
	}
	member.present = true
}

// Logout marks the user absent. VIP standing is retained.
func (r *Room) Logout(user *User) Result {
	if user == nil {
		return DeniedUserNull
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	member := r.members[user.ID()]
	if member == nil || !member.present {
		return DeniedUserNotFound
	}
	member.present = false
	return Success
}

// UserCount reports how many users are currently present.
func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.members {
		if m.present {
			n++
		}
	}
	return n
}

// IsVIP reports the user's recorded VIP standing.
func (r *Room) IsVIP(user *User) bool {
	if user == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	member := r.members[user.ID()]
	return member != nil && member.vip
}

// memberListAuthorized gates user-list mutation: the room owner or the
// configured tier, with banned actors rejected.
func (r *Room) memberListAuthorized(actor *User) Result {
	if actor == nil {
		return DeniedUserNull
	}
	if actor.Membership() == MembershipBanned {
		return DeniedUserBanned
	}
	r.mu.Lock()
	owner := r.owner
	r.mu.Unlock()
	if owner != nil && owner.Equal(actor) {
		return Success
	}
	if actor.Membership() >= r.settings.RoomMemberListMinimum {
		return Success
	}
	return DeniedMembershipStatusNotHighEnough
}

// AddUser places a user directly on the member list, optionally with VIP
// standing. Owner or configured tier only.
func (r *Room) AddUser(actor, target *User, vip bool) Result {
	if res := r.memberListAuthorized(actor); res != Success {
		return res
	}
	if target == nil {
		return DeniedUserNull
	}
	if target.Membership() == MembershipBanned {
		return DeniedUserBanned
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if member := r.members[target.ID()]; member != nil && member.present {
		return DeniedUserAlreadyPresent
	}
	member := r.members[target.ID()]
	if member == nil {
		member = &roomMember{user: target}
		r.members[target.ID()] = member
	}
	member.vip = vip
	member.present = true
	return Success
}

// RemoveUser drops a user from the member list entirely, VIP standing
// included. Owner or configured tier only.
func (r *Room) RemoveUser(actor, target *User) Result {
	if res := r.memberListAuthorized(actor); res != Success {
		return res
	}
	if target == nil {
		return DeniedUserNull
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[target.ID()]; !ok {
		return DeniedUserNotFound
	}
	delete(r.members, target.ID())
	delete(r.limiters, target.ID())
	return Success
}

// Post appends a timestamped chat entry. No content filtering happens here;
// banned-text enforcement is the lobby's concern. Flooding is throttled per
// author.
func (r *Room) Post(author *User, message string) Result {
	if author == nil {
		return DeniedUserNull
	}
	if strings.TrimSpace(message) == "" {
		return DeniedMessageEmpty
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	member := r.members[author.ID()]
	if member == nil || !member.present {
		return DeniedUserNotFound
	}

	limiter := r.limiters[author.ID()]
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(r.settings.ChatPostsPerSecond), r.settings.ChatPostBurst)
		r.limiters[author.ID()] = limiter
	}
	if !limiter.Allow() {
		return DeniedRateLimited
	}

	r.chat = append(r.chat, ChatEntry{Time: r.now(), Author: author.ID(), Message: message})
	return Success
}

// Chat returns a copy of the chat log.
func (r *Room) Chat() []ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChatEntry, len(r.chat))
	copy(out, r.chat)
	return out
}

// SetOwner transfers ownership. On success the admin password is rotated so
// the old owner cannot keep administering the room.
func (r *Room) SetOwner(requester *User, adminPassword string, newOwner *User) Result {
	if newOwner == nil {
		return DeniedUserNull
	}
	if res := r.authorize(requester, adminPassword); res != Success {
		return res
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owner = newOwner
	r.adminPassword = netutil.NewID()
	return Success
}

// SetName renames the room.
func (r *Room) SetName(requester *User, adminPassword, name string) Result {
	if strings.TrimSpace(name) == "" {
		return DeniedRoomNameEmpty
	}
	if res := r.authorize(requester, adminPassword); res != Success {
		return res
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	return Success
}

// SetAccessPassword replaces the access password. A non-blank password
// marks the room Private; a blank one clears Private visibility.
func (r *Room) SetAccessPassword(requester *User, adminPassword, accessPassword string) Result {
	if res := r.authorize(requester, adminPassword); res != Success {
		return res
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessPassword = accessPassword
	if strings.TrimSpace(accessPassword) == "" {
		delete(r.visibility, VisibilityPrivate)
	} else {
		r.visibility[VisibilityPrivate] = struct{}{}
	}
	return Success
}

// SetAdminPassword replaces the admin password. The new password must be
// non-blank.
func (r *Room) SetAdminPassword(requester *User, currentPassword, newPassword string) Result {
	if strings.TrimSpace(newPassword) == "" {
		return DeniedAdminPasswordEmpty
	}
	if res := r.authorize(requester, currentPassword); res != Success {
		return res
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminPassword = newPassword
	return Success
}

// FlagForDeletion marks the room for pruning at the next upkeep tick.
// Owner or configured remove tier only.
func (r *Room) FlagForDeletion(actor *User) Result {
	if actor == nil {
		return DeniedUserNull
	}
	r.mu.Lock()
	owner := r.owner
	r.mu.Unlock()
	if (owner == nil || !owner.Equal(actor)) && actor.Membership() < r.settings.RoomRemoveMinimum {
		return DeniedMembershipStatusNotHighEnough
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flaggedForDeletion = true
	return Success
}
