// Package lobby implements the social-gaming registry: users with ordered
// membership tiers and reputation, rooms with visibility gating, a global
// banned-text filter and moderation with closed result codes.
package lobby

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"lobbynet/lobby/store"
	"lobbynet/netutil"
)

// TextBan is the value kept for a banned string: the reason and the ban
// window. A zero End means the ban never expires.
type TextBan struct {
	Reason string
	Start  time.Time
	End    time.Time
}

// Registration carries the fields a prospective user submits.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
	Addr      net.Addr
}

// Lobby is the top-level registry of users, rooms and text bans. All maps
// are guarded by one mutex; id generation and insertion happen under the
// same critical section so generated ids are collision-free even with
// concurrent callers.
type Lobby struct {
	mu       sync.Mutex
	name     string
	users    map[string]*User
	rooms    map[string]*Room
	textBans map[string]TextBan
	elapsed  time.Duration

	settings *Settings
	store    store.UserStore
	logger   *slog.Logger
	now      func() time.Time
	metrics  *lobbyMetrics
}

// New builds a lobby over the given user store. Nil settings, logger and
// clock fall back to DefaultSettings, slog.Default and time.Now. The clock
// serves both engine-driven and headless deployments; tests inject their
// own.
func New(name string, settings *Settings, st store.UserStore, logger *slog.Logger, now func() time.Time) *Lobby {
	if settings == nil {
		settings = DefaultSettings()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Lobby{
		name:     name,
		users:    make(map[string]*User),
		rooms:    make(map[string]*Room),
		textBans: make(map[string]TextBan),
		settings: settings,
		store:    st,
		logger:   logger.With(slog.String("component", "lobby"), slog.String("lobby", name)),
		now:      now,
		metrics:  newLobbyMetrics(),
	}
}

func (l *Lobby) Name() string { return l.name }

// Settings returns the shared settings value.
func (l *Lobby) Settings() *Settings { return l.settings }

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (l *Lobby) boundedField(value string, min, max int) Result {
	if n := len(value); n < min || n > max {
		return DeniedFieldLengthOutOfRange
	}
	return Success
}

// RegisterUser validates, persists and admits a new user. Checks run in a
// fixed order so input violating several rules always reports the first
// violation: nil registration, blank required fields, nil endpoint, field
// length bounds, banned text, then username/email uniqueness against the
// store.
func (l *Lobby) RegisterUser(reg *Registration) (*User, Result) {
	if reg == nil {
		return nil, DeniedUserNull
	}
	for _, field := range []string{reg.FirstName, reg.LastName, reg.Email, reg.Username, reg.Password} {
		if strings.TrimSpace(field) == "" {
			l.metrics.registrations.WithLabelValues(DeniedFieldEmpty.String()).Inc()
			return nil, DeniedFieldEmpty
		}
	}
	if reg.Addr == nil {
		l.metrics.registrations.WithLabelValues(DeniedEndPointNull.String()).Inc()
		return nil, DeniedEndPointNull
	}

	s := l.settings
	for _, check := range []struct {
		value    string
		min, max int
	}{
		{reg.FirstName, s.MinNameLength, s.MaxNameLength},
		{reg.LastName, s.MinNameLength, s.MaxNameLength},
		{reg.Email, s.MinEmailLength, s.MaxEmailLength},
		{reg.Username, s.MinUsernameLength, s.MaxUsernameLength},
		{reg.Password, s.MinPasswordLength, s.MaxPasswordLength},
	} {
		if res := l.boundedField(check.value, check.min, check.max); res != Success {
			l.metrics.registrations.WithLabelValues(res.String()).Inc()
			return nil, res
		}
	}

	for _, field := range []string{reg.FirstName, reg.LastName, reg.Username} {
		if l.ContainsBannedText(field) {
			l.metrics.registrations.WithLabelValues(DeniedTextBanned.String()).Inc()
			return nil, DeniedTextBanned
		}
	}

	if inUse, err := l.store.UserExistsByUsername(reg.Username); err != nil {
		l.logger.Error("Username lookup failed",
			slog.String("op", "RegisterUser"),
			slog.Any("error", err))
		return nil, Failure
	} else if inUse {
		l.metrics.registrations.WithLabelValues(DeniedUsernameInUse.String()).Inc()
		return nil, DeniedUsernameInUse
	}
	if inUse, err := l.store.UserExistsByEmail(reg.Email); err != nil {
		l.logger.Error("Email lookup failed",
			slog.String("op", "RegisterUser"),
			slog.Any("error", err))
		return nil, Failure
	} else if inUse {
		l.metrics.registrations.WithLabelValues(DeniedEmailInUse.String()).Inc()
		return nil, DeniedEmailInUse
	}

	id := l.GenerateUserID()
	rec := store.UserRecord{
		ID:           id,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		Username:     reg.Username,
		PasswordHash: hashPassword(reg.Password),
		CreatedAt:    l.now().UTC(),
	}
	if err := l.store.InsertUser(rec); err != nil {
		l.logger.Error("User insert failed",
			slog.String("op", "RegisterUser"),
			slog.String("username", reg.Username),
			slog.Any("error", err))
		return nil, Failure
	}

	user := NewUser(id, reg.FirstName, reg.LastName, reg.Email, reg.Username, l.settings, l.logger)
	user.now = l.now
	if res := l.AddUser(user); res != Success {
		return nil, res
	}
	l.metrics.registrations.WithLabelValues(Success.String()).Inc()
	l.logger.Info("User registered",
		slog.String("user", id),
		slog.String("username", reg.Username))
	return user, Success
}

// AddUser admits an already-constructed user to the in-memory lobby,
// re-validating the in-memory subset of the registration checks.
func (l *Lobby) AddUser(user *User) Result {
	if user == nil {
		return DeniedUserNull
	}
	if strings.TrimSpace(user.Username()) == "" {
		return DeniedFieldEmpty
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[user.ID()]; ok {
		return DeniedUserAlreadyPresent
	}
	for _, existing := range l.users {
		if existing.Username() == user.Username() {
			return DeniedUsernameInUse
		}
	}
	l.users[user.ID()] = user
	l.metrics.users.Set(float64(len(l.users)))
	return Success
}

// RemoveUser drops a user from the in-memory lobby. The durable record
// stays in the store.
func (l *Lobby) RemoveUser(id string) Result {
	if strings.TrimSpace(id) == "" {
		return DeniedFieldEmpty
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[id]; !ok {
		return DeniedUserNotFound
	}
	delete(l.users, id)
	l.metrics.users.Set(float64(len(l.users)))
	return Success
}

// User looks up an admitted user. Non-nil iff the result is Success.
func (l *Lobby) User(id string) (*User, Result) {
	if strings.TrimSpace(id) == "" {
		return nil, DeniedFieldEmpty
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		return nil, DeniedUserNotFound
	}
	return u, Success
}

// UserCount reports how many users are admitted.
func (l *Lobby) UserCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}

// GenerateUserID returns a user id that collides with no admitted user.
// The retry loop runs under the registry lock; durable uniqueness is
// enforced again by the store on insert.
func (l *Lobby) GenerateUserID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		id := netutil.NewID()
		if _, ok := l.users[id]; !ok {
			return id
		}
	}
}

// GenerateRoomID returns a room id that collides with no registered room.
func (l *Lobby) GenerateRoomID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		id := netutil.NewID()
		if _, ok := l.rooms[id]; !ok {
			return id
		}
	}
}

// CreateRoom validates and registers a new room owned by user. The room
// name must be present, free of banned text, and the admin password is
// required.
func (l *Lobby) CreateRoom(owner *User, name, adminPassword, accessPassword string) (*Room, Result) {
	if owner == nil {
		return nil, DeniedUserNull
	}
	if strings.TrimSpace(name) == "" {
		return nil, DeniedRoomNameEmpty
	}
	if strings.TrimSpace(adminPassword) == "" {
		return nil, DeniedAdminPasswordEmpty
	}
	if l.ContainsBannedText(name) {
		return nil, DeniedTextBanned
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	var id string
	for {
		id = netutil.NewID()
		if _, ok := l.rooms[id]; !ok {
			break
		}
	}
	room := NewRoom(id, name, owner, adminPassword, accessPassword, l.settings, l.logger)
	room.now = l.now
	l.rooms[id] = room
	l.metrics.rooms.Set(float64(len(l.rooms)))
	l.metrics.roomsCreated.Inc()
	l.logger.Info("Room created",
		slog.String("room", id),
		slog.String("owner", owner.ID()))
	return room, Success
}

// RemoveRoom deletes a room. The requester must own it or hold the
// configured remove tier.
func (l *Lobby) RemoveRoom(requester *User, roomID string) Result {
	if requester == nil {
		return DeniedUserNull
	}
	if strings.TrimSpace(roomID) == "" {
		return DeniedFieldEmpty
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	room, ok := l.rooms[roomID]
	if !ok {
		return DeniedRoomNotFound
	}
	owner := room.Owner()
	if (owner == nil || !owner.Equal(requester)) && requester.Membership() < l.settings.RoomRemoveMinimum {
		return DeniedMembershipStatusNotHighEnough
	}
	delete(l.rooms, roomID)
	l.metrics.rooms.Set(float64(len(l.rooms)))
	return Success
}

// Room looks up a registered room. Non-nil iff the result is Success.
func (l *Lobby) Room(id string) (*Room, Result) {
	if strings.TrimSpace(id) == "" {
		return nil, DeniedFieldEmpty
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rooms[id]
	if !ok {
		return nil, DeniedRoomNotFound
	}
	return r, Success
}

// RoomCount reports how many rooms are registered.
func (l *Lobby) RoomCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}

// AddTextBan blocks a string from names and room names for the given
// window. A zero until never expires.
func (l *Lobby) AddTextBan(text, reason string, until time.Time) Result {
	if strings.TrimSpace(text) == "" {
		return DeniedFieldEmpty
	}
	if strings.TrimSpace(reason) == "" {
		return DeniedReasonEmpty
	}
	key := strings.ToLower(text)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.textBans[key]; ok {
		return DeniedTextBanExists
	}
	l.textBans[key] = TextBan{Reason: reason, Start: l.now(), End: until}
	return Success
}

// RemoveTextBan lifts a text ban.
func (l *Lobby) RemoveTextBan(text string) Result {
	if strings.TrimSpace(text) == "" {
		return DeniedFieldEmpty
	}
	key := strings.ToLower(text)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.textBans[key]; !ok {
		return DeniedTextBanNotFound
	}
	delete(l.textBans, key)
	return Success
}

// TextBanExists reports whether the exact string is banned.
func (l *Lobby) TextBanExists(text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.textBans[strings.ToLower(text)]
	return ok
}

// ContainsBannedText reports whether any banned string occurs in s,
// case-insensitively.
func (l *Lobby) ContainsBannedText(s string) bool {
	lowered := strings.ToLower(s)
	l.mu.Lock()
	defer l.mu.Unlock()
	for banned := range l.textBans {
		if strings.Contains(lowered, banned) {
			return true
		}
	}
	return false
}

// Update advances the upkeep accumulator by elapsed and, once the
// configured cadence is crossed, runs upkeep: expiring elapsed user bans
// and text bans, and pruning rooms flagged for deletion. Engine-driven
// deployments call this with frame time; headless ones use Run.
func (l *Lobby) Update(elapsed time.Duration) {
	l.mu.Lock()
	l.elapsed += elapsed
	if l.elapsed < l.settings.UpkeepInterval {
		l.mu.Unlock()
		return
	}
	l.elapsed = 0
	now := l.now()

	users := make([]*User, 0, len(l.users))
	for _, u := range l.users {
		users = append(users, u)
	}
	for key, ban := range l.textBans {
		if !ban.End.IsZero() && !ban.End.After(now) {
			delete(l.textBans, key)
		}
	}
	for id, room := range l.rooms {
		if room.FlaggedForDeletion() {
			delete(l.rooms, id)
		}
	}
	l.metrics.rooms.Set(float64(len(l.rooms)))
	l.mu.Unlock()

	// User locks are taken outside the lobby lock.
	for _, u := range users {
		if u.expireBan(now) {
			l.logger.Info("Ban expired", slog.String("user", u.ID()))
		}
	}
	l.metrics.upkeepRuns.Inc()
}

// Run drives Update from a free-running ticker for headless deployments,
// until ctx is cancelled.
func (l *Lobby) Run(ctx context.Context) {
	const tick = time.Second
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Update(tick)
		}
	}
}
