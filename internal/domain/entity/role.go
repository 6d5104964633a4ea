package entity

import (
	"errors"
	"strings"
)

// Role is the closed set of account roles. A role is assigned at
// registration and never changes; every authorization decision starts
// from it.
type Role string

const (
	RolePatient  Role = "PATIENT"
	RoleDoctor   Role = "DOCTOR"
	RolePharmacy Role = "PHARMACY"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a client-supplied role string.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(s))
	switch role {
	case RolePatient, RoleDoctor, RolePharmacy:
		return role, nil
	}
	return "", ErrUnknownRole
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
