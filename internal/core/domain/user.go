package domain

import "time"

// User models a registered account.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	PasswordHash   string     `json:"-"`
	Roles          RoleSet    `json:"roles"`
	PaidBeforeDate *time.Time `json:"paidBeforeDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy so callers can mutate roles and dates freely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = u.Roles.Clone()
	if u.PaidBeforeDate != nil {
		d := *u.PaidBeforeDate
		c.PaidBeforeDate = &d
	}
	return &c
}
