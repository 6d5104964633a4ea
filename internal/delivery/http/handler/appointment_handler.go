package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	doctorUsecase      usecase.DoctorUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		doctorUsecase:      doctorUsecase,
		validator:          validator,
	}
}

// Resource-level failures surface as 400 with a descriptive message.
// Only authorization failures use 403.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), principal, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.Error(w, http.StatusBadRequest, "Doctor not found", nil)
		case errors.Is(err, usecase.ErrPatientProfileNotFound):
			response.Error(w, http.StatusBadRequest, "Patient profile not found", nil)
		case errors.Is(err, usecase.ErrCapacityExceeded):
			response.Error(w, http.StatusBadRequest, "Doctor has reached the daily appointment limit for this date", nil)
		case errors.Is(err, usecase.ErrInvalidType):
			response.Error(w, http.StatusBadRequest, "Invalid appointment type", nil)
		case errors.Is(err, usecase.ErrInvalidDateFormat):
			response.Error(w, http.StatusBadRequest, "Invalid appointment date format", nil)
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), principal, appointmentID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.Error(w, http.StatusBadRequest, "Appointment not found", nil)
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "You cannot modify this appointment")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), principal, appointmentID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.Error(w, http.StatusBadRequest, "Appointment not found", nil)
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.Error(w, http.StatusBadRequest, "Invalid status value", nil)
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "You cannot modify this appointment")
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) MyAppointments(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	appointments, err := h.appointmentUsecase.MyAppointments(r.Context(), principal)
	if err != nil {
		h.writeListError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	appointments, err := h.appointmentUsecase.Upcoming(r.Context(), principal)
	if err != nil {
		h.writeListError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Upcoming appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) DoctorBooked(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	appointments, err := h.appointmentUsecase.DoctorBooked(r.Context(), principal, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidStatus) {
			response.Error(w, http.StatusBadRequest, "Invalid status value", nil)
			return
		}
		h.writeListError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booked appointments retrieved successfully", appointments)
}

// DoctorAvailability answers whether the doctor can still take a
// booking on the given date.
func (h *AppointmentHandler) DoctorAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		dateParam = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
		return
	}

	available, err := h.appointmentUsecase.CanBook(r.Context(), doctorID, date)
	if err != nil {
		response.InternalServerError(w, "Failed to check availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", &dto.AvailabilityResponse{
		DoctorID:  doctorID.String(),
		Date:      date.Format("2006-01-02"),
		Available: available,
	})
}

func (h *AppointmentHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *AppointmentHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	stats, err := h.appointmentUsecase.DashboardStats(r.Context(), principal)
	if err != nil {
		h.writeListError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (h *AppointmentHandler) writeListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrPatientProfileNotFound):
		response.Error(w, http.StatusBadRequest, "Patient profile not found", nil)
	case errors.Is(err, usecase.ErrDoctorProfileNotFound):
		response.Error(w, http.StatusBadRequest, "Doctor profile not found", nil)
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, "You don't have permission to access this resource")
	default:
		response.InternalServerError(w, "Failed to retrieve appointments")
	}
}
