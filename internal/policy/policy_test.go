package policy

import (
	"testing"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

func TestCanModifyAppointment(t *testing.T) {
	patientUserID := uuid.New()
	doctorUserID := uuid.New()
	strangerID := uuid.New()

	tests := []struct {
		name string
		p    entity.Principal
		want bool
	}{
		{"owning patient", entity.Principal{UserID: patientUserID, Role: entity.RolePatient}, true},
		{"assigned doctor", entity.Principal{UserID: doctorUserID, Role: entity.RoleDoctor}, true},
		{"other patient", entity.Principal{UserID: strangerID, Role: entity.RolePatient}, false},
		{"other doctor", entity.Principal{UserID: strangerID, Role: entity.RoleDoctor}, false},
		{"pharmacy", entity.Principal{UserID: patientUserID, Role: entity.RolePharmacy}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyAppointment(tt.p, patientUserID, doctorUserID); got != tt.want {
				t.Errorf("CanModifyAppointment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewPrescription(t *testing.T) {
	patientUserID := uuid.New()
	doctorUserID := uuid.New()

	if !CanViewPrescription(entity.Principal{UserID: patientUserID, Role: entity.RolePatient}, patientUserID, doctorUserID) {
		t.Error("patient should view own prescription")
	}
	if !CanViewPrescription(entity.Principal{UserID: doctorUserID, Role: entity.RoleDoctor}, patientUserID, doctorUserID) {
		t.Error("prescribing doctor should view prescription")
	}
	if CanViewPrescription(entity.Principal{UserID: uuid.New(), Role: entity.RolePatient}, patientUserID, doctorUserID) {
		t.Error("unrelated patient should not view prescription")
	}
}

func TestHasRole(t *testing.T) {
	p := entity.Principal{UserID: uuid.New(), Role: entity.RoleDoctor}

	if !HasRole(p, entity.RoleDoctor) {
		t.Error("expected doctor role match")
	}
	if !HasRole(p, entity.RolePatient, entity.RoleDoctor) {
		t.Error("expected match within role set")
	}
	if HasRole(p, entity.RolePatient, entity.RolePharmacy) {
		t.Error("expected no match outside role set")
	}
}
