package domain

import (
	"slices"
	"time"
)

// LibraryRole defines what a member can do within a library.
type LibraryRole string

const (
	// RoleOwner is the library creator. Exactly one per library.
	RoleOwner LibraryRole = "OWNER"

	// RoleAdmin can manage games, borrows, and members.
	RoleAdmin LibraryRole = "ADMIN"

	// RoleMember can browse the collection and borrow games.
	RoleMember LibraryRole = "MEMBER"
)

// CanManage reports whether the role allows mutating the collection.
func (r LibraryRole) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Member associates a user with a library and a role.
type Member struct {
	UserID   string      `json:"user_id"`
	Role     LibraryRole `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// Library represents one game collection. Users can own or belong to
// several libraries (home shelf, board game club, office collection).
type Library struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`

	Members []Member `json:"members"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleOf returns the role of the given user, or empty when they are not a member.
func (l *Library) RoleOf(userID string) LibraryRole {
	if l.OwnerID == userID {
		return RoleOwner
	}
	for _, m := range l.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

// AddMember adds a user with the given role. Adding an existing member
// updates their role instead of duplicating the entry.
func (l *Library) AddMember(userID string, role LibraryRole, now time.Time) {
	for i := range l.Members {
		if l.Members[i].UserID == userID {
			l.Members[i].Role = role
			return
		}
	}
	l.Members = append(l.Members, Member{UserID: userID, Role: role, JoinedAt: now})
}

// RemoveMember drops a user from the library. The owner cannot be removed.
func (l *Library) RemoveMember(userID string) {
	if userID == l.OwnerID {
		return
	}
	l.Members = slices.DeleteFunc(l.Members, func(m Member) bool {
		return m.UserID == userID
	})
}
