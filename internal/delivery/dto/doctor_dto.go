package dto

type UpdateDoctorProfileRequest struct {
	Specialization        string `json:"specialization,omitempty" validate:"omitempty,max=100"`
	Education             string `json:"education,omitempty"`
	Experience            *int   `json:"experience,omitempty" validate:"omitempty,gte=0"`
	DailyAppointmentLimit *int   `json:"daily_appointment_limit,omitempty" validate:"omitempty,gte=1,lte=100"`
}

type DoctorResponse struct {
	ID                    string `json:"id"`
	UserID                string `json:"user_id"`
	Name                  string `json:"name"`
	Email                 string `json:"email,omitempty"`
	LicenseNumber         string `json:"license_number"`
	Specialization        string `json:"specialization"`
	Experience            int    `json:"experience"`
	Education             string `json:"education,omitempty"`
	DailyAppointmentLimit int    `json:"daily_appointment_limit"`
}
