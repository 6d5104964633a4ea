package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	var req dto.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.prescriptionUsecase.Create(r.Context(), principal, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.Error(w, http.StatusBadRequest, "Doctor profile not found", nil)
		case errors.Is(err, usecase.ErrPrescriptionPatientNotFound):
			response.Error(w, http.StatusBadRequest, "Patient not found", nil)
		default:
			response.InternalServerError(w, "Failed to create prescription")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	prescriptionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	prescription, err := h.prescriptionUsecase.Get(r.Context(), principal, prescriptionID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.Error(w, http.StatusBadRequest, "Prescription not found", nil)
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "You cannot view this prescription")
		default:
			response.InternalServerError(w, "Failed to get prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) MyPrescriptions(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	prescriptions, err := h.prescriptionUsecase.MyPrescriptions(r.Context(), principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientProfileNotFound):
			response.Error(w, http.StatusBadRequest, "Patient profile not found", nil)
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.Error(w, http.StatusBadRequest, "Doctor profile not found", nil)
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "You don't have permission to access this resource")
		default:
			response.InternalServerError(w, "Failed to retrieve prescriptions")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) PharmacyQueue(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	prescriptions, err := h.prescriptionUsecase.PharmacyQueue(r.Context(), principal, r.URL.Query().Get("status"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPharmacyProfileNotFound):
			response.Error(w, http.StatusBadRequest, "Pharmacy profile not found", nil)
		case errors.Is(err, usecase.ErrInvalidPrescriptionStatus):
			response.Error(w, http.StatusBadRequest, "Invalid status value", nil)
		default:
			response.InternalServerError(w, "Failed to retrieve prescriptions")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	prescriptionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	var req dto.UpdatePrescriptionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.prescriptionUsecase.UpdateStatus(r.Context(), principal, prescriptionID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.Error(w, http.StatusBadRequest, "Prescription not found", nil)
		case errors.Is(err, usecase.ErrInvalidPrescriptionStatus):
			response.Error(w, http.StatusBadRequest, "Invalid prescription status", nil)
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "You cannot update this prescription")
		default:
			response.InternalServerError(w, "Failed to update prescription status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription status updated successfully", prescription)
}
