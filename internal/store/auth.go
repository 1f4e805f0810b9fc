package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TokenIssuer creates the opaque token attached to a new session
type TokenIssuer interface {
	Issue(user domain.SessionUser) (string, error)
}

// AuthStore owns the user accounts and the current session
type AuthStore interface {
	Signup(ctx context.Context, email, password, name string) (domain.SessionUser, error)
	Login(ctx context.Context, email, password string) (domain.SessionUser, error)
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, id int64, update domain.UserUpdate) error
	MakeAdmin(ctx context.Context, id int64) error
	RemoveAdmin(ctx context.Context, id int64) error
	GetAllUsers() []domain.PublicUser
	CurrentUser() (domain.SessionUser, bool)
	IsAuthenticated() bool
	IsAdmin() bool
	Subscribe(fn Listener) (unsubscribe func())
}

type authStore struct {
	observers

	mu       sync.Mutex
	storage  *storage.Store
	tokens   TokenIssuer
	validate *validator.Validate
	ids      *idGenerator
	logger   *zap.Logger
	now      func() time.Time

	users   []domain.User
	current *domain.SessionUser
}

// userChange is one edit applied to a user record and mirrored into the
// session when the record is the logged-in user
type userChange struct {
	profile domain.UserUpdate
	role    *domain.Role
}

// NewAuthStore hydrates the accounts and session from st, guarantees the
// bootstrap admin account and persists the resulting account list
func NewAuthStore(ctx context.Context, st *storage.Store, tokens TokenIssuer, logger *zap.Logger) (AuthStore, error) {
	s := &authStore{
		storage:  st,
		tokens:   tokens,
		validate: domain.NewValidator(),
		logger:   logger.Named("auth"),
		now:      time.Now,
	}

	var users []domain.User
	if !st.Load(ctx, storage.KeyUsers, &users) {
		s.logger.Info("No usable persisted users, starting from the bootstrap admin")
	}
	s.users = s.bootstrap(users)
	s.ids = newIDGenerator(maxUserID(s.users))

	var session domain.SessionUser
	if st.Load(ctx, storage.KeySession, &session) {
		if session.Email == domain.AdminEmail {
			session.Role = domain.RoleAdmin
		}
		s.current = &session
	}

	if err := st.Save(ctx, storage.KeyUsers, s.users); err != nil {
		return nil, fmt.Errorf("failed to initialize users: %w", err)
	}

	s.logger.Info("Auth store ready",
		zap.Int("users", len(s.users)),
		zap.Bool("session", s.current != nil),
	)

	return s, nil
}

// bootstrap drops duplicate emails (first record wins), forces the admin
// email to the admin role and prepends the admin account when it is missing
func (s *authStore) bootstrap(users []domain.User) []domain.User {
	seen := make(map[string]bool, len(users))
	out := make([]domain.User, 0, len(users)+1)
	hasAdmin := false

	for _, u := range users {
		if seen[u.Email] {
			s.logger.Warn("Dropping duplicate user record", zap.String("email", u.Email), zap.Int64("user_id", u.ID))
			continue
		}
		seen[u.Email] = true

		if u.Email == domain.AdminEmail {
			u.Role = domain.RoleAdmin
			hasAdmin = true
		}
		out = append(out, u)
	}

	if hasAdmin {
		return out
	}

	adminID := domain.AdminID
	if indexByID(out, adminID) >= 0 {
		adminID = newIDGenerator(maxUserID(out)).Next()
	}

	admin := domain.User{
		ID:             adminID,
		Email:          domain.AdminEmail,
		Password:       domain.AdminPassword,
		Name:           domain.AdminName,
		Role:           domain.RoleAdmin,
		ProfilePicture: domain.AvatarURL(domain.AdminName),
		CreatedAt:      s.now().UTC(),
	}
	return append([]domain.User{admin}, out...)
}

// Signup registers a new account and logs it in
func (s *authStore) Signup(ctx context.Context, email, password, name string) (domain.SessionUser, error) {
	session, err := s.signup(ctx, email, password, name)
	if err != nil {
		return domain.SessionUser{}, err
	}
	s.notify()
	return session, nil
}

func (s *authStore) signup(ctx context.Context, email, password, name string) (domain.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexByEmail(s.users, email) >= 0 {
		return domain.SessionUser{}, domain.ErrEmailTaken
	}
	if err := s.validate.Var(email, domain.EmailTag); err != nil {
		return domain.SessionUser{}, domain.ErrInvalidEmail
	}
	if err := s.validate.Var(password, "min="+strconv.Itoa(domain.MinPasswordLength)); err != nil {
		return domain.SessionUser{}, domain.ErrPasswordTooShort
	}

	user := domain.User{
		ID:             s.ids.Next(),
		Email:          email,
		Password:       password,
		Name:           name,
		Role:           domain.RoleUser,
		ProfilePicture: domain.AvatarURL(name),
		CreatedAt:      s.now().UTC(),
	}

	session, err := s.newSession(user)
	if err != nil {
		return domain.SessionUser{}, err
	}

	users := append(cloneUsers(s.users), user)
	if err := s.commit(ctx, users, &session); err != nil {
		return domain.SessionUser{}, err
	}

	s.logger.Info("User registered successfully", zap.Int64("user_id", user.ID))
	return session, nil
}

// Login starts a session for the account matching email and password
func (s *authStore) Login(ctx context.Context, email, password string) (domain.SessionUser, error) {
	session, err := s.login(ctx, email, password)
	if err != nil {
		return domain.SessionUser{}, err
	}
	s.notify()
	return session, nil
}

func (s *authStore) login(ctx context.Context, email, password string) (domain.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByEmail(s.users, email)
	if idx < 0 {
		s.logger.Debug("Login for unknown email")
		return domain.SessionUser{}, domain.ErrUserNotFound
	}

	user := s.users[idx]
	if user.Password != password {
		s.logger.Debug("Login with wrong password", zap.Int64("user_id", user.ID))
		return domain.SessionUser{}, domain.ErrInvalidPassword
	}

	session, err := s.newSession(user)
	if err != nil {
		return domain.SessionUser{}, err
	}

	if err := s.commit(ctx, nil, &session); err != nil {
		return domain.SessionUser{}, err
	}

	s.logger.Info("User logged in successfully", zap.Int64("user_id", user.ID))
	return session, nil
}

// Logout ends the current session. Accounts are untouched.
func (s *authStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.commit(ctx, nil, nil)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// UpdateUser edits a profile and mirrors the edit into the session when the
// record is the logged-in user
func (s *authStore) UpdateUser(ctx context.Context, id int64, update domain.UserUpdate) error {
	return s.applyUserChange(ctx, id, userChange{profile: update})
}

func (s *authStore) MakeAdmin(ctx context.Context, id int64) error {
	role := domain.RoleAdmin
	return s.applyUserChange(ctx, id, userChange{role: &role})
}

// RemoveAdmin demotes id to a regular user. The bootstrap admin is not exempt
// here; callers that expose demotion must refuse it themselves.
func (s *authStore) RemoveAdmin(ctx context.Context, id int64) error {
	role := domain.RoleUser
	return s.applyUserChange(ctx, id, userChange{role: &role})
}

// applyUserChange updates the account list and the session as one step
func (s *authStore) applyUserChange(ctx context.Context, id int64, change userChange) error {
	if err := s.changeUser(ctx, id, change); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *authStore) changeUser(ctx context.Context, id int64, change userChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.users, id)
	if idx < 0 {
		return domain.ErrUserNotFound
	}

	if email := change.profile.Email; email != nil {
		if !domain.ValidEmail(*email) {
			return domain.ErrInvalidEmail
		}
		if other := indexByEmail(s.users, *email); other >= 0 && other != idx {
			return domain.ErrEmailTaken
		}
	}

	users := cloneUsers(s.users)
	users[idx].Apply(change.profile)
	if change.role != nil {
		users[idx].Role = *change.role
	}

	current := s.current
	if current != nil && current.ID == id {
		mirrored := *current
		mirrored.Apply(change.profile)
		if change.role != nil {
			mirrored.Role = *change.role
		}
		current = &mirrored
	}

	if err := s.commit(ctx, users, current); err != nil {
		return err
	}

	s.logger.Info("User updated", zap.Int64("user_id", id))
	return nil
}

// GetAllUsers lists every account without passwords
func (s *authStore) GetAllUsers() []domain.PublicUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PublicUser, len(s.users))
	for i, u := range s.users {
		out[i] = u.Public()
	}
	return out
}

func (s *authStore) CurrentUser() (domain.SessionUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.SessionUser{}, false
	}
	return *s.current, true
}

func (s *authStore) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

func (s *authStore) IsAdmin() bool {
	current, ok := s.CurrentUser()
	return ok && current.IsAdmin()
}

func (s *authStore) newSession(user domain.User) (domain.SessionUser, error) {
	session := user.Session("")
	token, err := s.tokens.Issue(session)
	if err != nil {
		return domain.SessionUser{}, fmt.Errorf("failed to issue session token: %w", err)
	}
	session.Token = token
	return session, nil
}

// commit persists the next state and installs it. A nil users slice leaves
// the account list as is; a nil session logs out. Nothing is installed when a
// write fails, and an account write that already landed is reverted.
func (s *authStore) commit(ctx context.Context, users []domain.User, current *domain.SessionUser) error {
	if users != nil {
		if err := s.storage.Save(ctx, storage.KeyUsers, users); err != nil {
			return err
		}
	}

	var err error
	if current == nil {
		err = s.storage.Remove(ctx, storage.KeySession)
	} else {
		err = s.storage.Save(ctx, storage.KeySession, current)
	}
	if err != nil {
		if users != nil {
			if rbErr := s.storage.Save(ctx, storage.KeyUsers, s.users); rbErr != nil {
				s.logger.Error("Failed to revert users after session write failure", zap.Error(rbErr))
			}
		}
		return err
	}

	if users != nil {
		s.users = users
	}
	s.current = current
	return nil
}

func cloneUsers(users []domain.User) []domain.User {
	return append(make([]domain.User, 0, len(users)+1), users...)
}

func indexByEmail(users []domain.User, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func indexByID(users []domain.User, id int64) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func maxUserID(users []domain.User) int64 {
	var max int64
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max
}
