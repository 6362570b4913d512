package domain

import (
	"slices"
	"strings"
)

// Role is a named permission tag.
type Role string

const (
	RoleFreeUser Role = "FREE_USER"
	RolePaidUser Role = "PAID_USER"
	RoleAdmin    Role = "ADMIN"
)

const authorityPrefix = "ROLE_"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFreeUser, RolePaidUser, RoleAdmin:
		return true
	}
	return false
}

// Authority returns the external form of the role, e.g. ROLE_FREE_USER.
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// ParseRole accepts both the bare name and the ROLE_ prefixed authority.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), authorityPrefix))
	return r, r.Valid()
}

// RoleSet is an ordered set of roles without duplicates.
type RoleSet []Role

// NewRoleSet builds a set from roles, dropping duplicates.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	return slices.Contains(s, r)
}

// HasAny reports whether the set shares at least one role with roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// With returns the set with r added. Adding an existing role is a no-op.
func (s RoleSet) With(r Role) RoleSet {
	if s.Has(r) {
		return s
	}
	out := make(RoleSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, r)
}

// Clone copies the set.
func (s RoleSet) Clone() RoleSet {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Names returns the bare role names.
func (s RoleSet) Names() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Authorities returns the ROLE_ prefixed role names.
func (s RoleSet) Authorities() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Authority()
	}
	return out
}

// RoleSetFromNames parses role names, skipping unknown entries.
func RoleSetFromNames(names []string) RoleSet {
	var s RoleSet
	for _, n := range names {
		if r, ok := ParseRole(n); ok {
			s = s.With(r)
		}
	}
	return s
}
