package domain

import (
	"net/url"
	"strings"
	"time"
)

// Role is the authorization level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Bootstrap admin credentials. The account is recreated on every load if missing
// and can never come back from storage with a non-admin role.
const (
	AdminEmail          = "koiryrishan1@gmail.com"
	AdminPassword       = "rk2025"
	AdminName           = "Admin"
	AdminID       int64 = 1
)

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 6

// User is a stored account record
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Name           string    `json:"name"`
	Role           Role      `json:"role,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SessionUser is the logged-in view of a user. It is a copy, not a reference,
// and never carries the password.
type SessionUser struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	ProfilePicture string `json:"profilePicture"`
	Token          string `json:"token"`
}

// IsAdmin reports whether the session carries the admin role
func (s SessionUser) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// PublicUser is a user record safe to hand to the admin panel
type PublicUser struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserUpdate holds the editable profile fields. Nil fields are left untouched.
type UserUpdate struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// AvatarURL returns the generated avatar used when a user has no picture
func AvatarURL(name string) string {
	name = strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return "https://ui-avatars.com/api/?name=" + name + "&background=6366f1&color=fff"
}

// EffectiveRole returns the stored role, defaulting to RoleUser
func (u User) EffectiveRole() Role {
	if u.Role == "" {
		return RoleUser
	}
	return u.Role
}

// EffectivePicture returns the stored picture or the generated avatar
func (u User) EffectivePicture() string {
	if u.ProfilePicture == "" {
		return AvatarURL(u.Name)
	}
	return u.ProfilePicture
}

// Public projects the record without its password
func (u User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.EffectiveRole(),
		ProfilePicture: u.EffectivePicture(),
		CreatedAt:      u.CreatedAt,
	}
}

// Session builds the session view of the record with the given token
func (u User) Session(token string) SessionUser {
	return SessionUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.EffectiveRole(),
		ProfilePicture: u.EffectivePicture(),
		Token:          token,
	}
}

// Apply merges the non-nil fields of upd into the record
func (u *User) Apply(upd UserUpdate) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.ProfilePicture != nil {
		u.ProfilePicture = *upd.ProfilePicture
	}
}

// Apply merges the non-nil fields of upd into the session view
func (s *SessionUser) Apply(upd UserUpdate) {
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Email != nil {
		s.Email = *upd.Email
	}
	if upd.ProfilePicture != nil {
		s.ProfilePicture = *upd.ProfilePicture
	}
}
