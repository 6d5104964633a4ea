// Package policy holds the stateless authorization decisions. Role
// gating at the route level lives in the HTTP middleware; everything
// that needs to compare a principal against a specific record is here,
// so no handler re-implements an ownership check.
package policy

import (
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// CanModifyAppointment reports whether the principal may cancel or
// update the appointment linking the given patient and doctor user ids.
// Only the owning patient or the assigned doctor qualifies.
func CanModifyAppointment(p entity.Principal, patientUserID, doctorUserID uuid.UUID) bool {
	switch p.Role {
	case entity.RolePatient:
		return p.UserID == patientUserID
	case entity.RoleDoctor:
		return p.UserID == doctorUserID
	}
	return false
}

// CanViewPrescription allows the prescribing doctor and the patient it
// was written for. Pharmacy access is decided against the routed
// pharmacy id, which requires a profile lookup and lives in the
// usecase.
func CanViewPrescription(p entity.Principal, patientUserID, doctorUserID uuid.UUID) bool {
	switch p.Role {
	case entity.RolePatient:
		return p.UserID == patientUserID
	case entity.RoleDoctor:
		return p.UserID == doctorUserID
	}
	return false
}

// HasRole reports whether the principal holds one of the given roles.
func HasRole(p entity.Principal, roles ...entity.Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
