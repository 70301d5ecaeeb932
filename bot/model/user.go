package model

import "time"

type EventType string

const (
	NewMatch EventType = "new_match"
)

type UserRole int

const (
	RoleAdmin UserRole = 1
	RoleUser  UserRole = 3
)

type User struct {
	ID        int64
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Role UserRole

	Subscriptions []EventType
}

func (u User) Subscribed(t EventType) bool {
	for _, s := range u.Subscriptions {
		if s == t {
			return true
		}
	}
	return false
}
