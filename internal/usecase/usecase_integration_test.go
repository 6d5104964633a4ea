package usecase_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"
	"mediconnect/internal/repository"
	"mediconnect/internal/service"
	"mediconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	auth        usecase.AuthUsecase
	appointment usecase.AppointmentUsecase
	doctor      usecase.DoctorUsecase
	guard       *service.CapacityGuard
	doctorRepo  domainRepo.DoctorRepository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("db: %v", err)
	}

	db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")
	if err := db.AutoMigrate(
		&entity.User{}, &entity.Patient{}, &entity.Doctor{}, &entity.Pharmacy{},
		&entity.Appointment{}, &entity.Prescription{}, &entity.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	doctorRepo := repository.NewDoctorRepository()
	pharmacyRepo := repository.NewPharmacyRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	sessionRepo := repository.NewMemorySessionRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	guard := service.NewCapacityGuard(log)
	t.Cleanup(guard.Stop)

	return &testEnv{
		db:          db,
		auth:        usecase.NewAuthUsecase(db, log, userRepo, patientRepo, doctorRepo, pharmacyRepo, sessionRepo, auditService, time.Hour),
		appointment: usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, patientRepo, guard, auditService),
		doctor:      usecase.NewDoctorUsecase(db, log, doctorRepo, auditService),
		guard:       guard,
		doctorRepo:  doctorRepo,
	}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@test.com", prefix, uuid.NewString()[:8])
}

func registerAndLogin(t *testing.T, env *testEnv, role string) (entity.Principal, string) {
	t.Helper()
	email := uniqueEmail(role)

	_, err := env.auth.Register(context.Background(), &dto.RegisterRequest{
		Email:     email,
		Password:  "testpass123",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", role, err)
	}

	login, err := env.auth.Login(context.Background(), &dto.LoginRequest{
		Email:    email,
		Password: "testpass123",
	})
	if err != nil {
		t.Fatalf("login %s: %v", role, err)
	}

	principal, err := env.auth.Authenticate(context.Background(), login.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal == nil {
		t.Fatal("fresh token should authenticate")
	}
	return *principal, login.Token
}

func setDoctorLimit(t *testing.T, env *testEnv, doctorUserID uuid.UUID, limit int) uuid.UUID {
	t.Helper()
	doctor, err := env.doctorRepo.FindByUserID(env.db, doctorUserID)
	if err != nil || doctor == nil {
		t.Fatalf("find doctor profile: %v", err)
	}
	doctor.DailyAppointmentLimit = limit
	if err := env.doctorRepo.Update(env.db, doctor); err != nil {
		t.Fatalf("update doctor limit: %v", err)
	}
	return doctor.ID
}

func TestAuthRoundTrip(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	principal, token := registerAndLogin(t, env, "PATIENT")
	if principal.Role != entity.RolePatient {
		t.Errorf("role = %s, want PATIENT", principal.Role)
	}

	user, err := env.auth.CurrentUser(ctx, principal)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.ID != principal.UserID.String() {
		t.Errorf("current user id = %s, want %s", user.ID, principal.UserID)
	}

	if err := env.auth.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// second logout is a no-op
	if err := env.auth.Logout(ctx, token); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}

	got, err := env.auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate after logout: %v", err)
	}
	if got != nil {
		t.Error("token should be invalid after logout")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	email := uniqueEmail("patient")

	if _, err := env.auth.Register(ctx, &dto.RegisterRequest{
		Email: email, Password: "testpass123", FirstName: "Test", LastName: "User", Role: "PATIENT",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: email, Password: "wrongpass"})
	if err != usecase.ErrInvalidCredentials {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: uniqueEmail("ghost"), Password: "testpass123"})
	if err != usecase.ErrInvalidCredentials {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	email := uniqueEmail("dup")

	req := &dto.RegisterRequest{
		Email: email, Password: "testpass123", FirstName: "Test", LastName: "User", Role: "PATIENT",
	}
	if _, err := env.auth.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := env.auth.Register(ctx, req); err != usecase.ErrEmailAlreadyExists {
		t.Errorf("error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestSecondLoginRevokesFirst(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	email := uniqueEmail("patient")

	if _, err := env.auth.Register(ctx, &dto.RegisterRequest{
		Email: email, Password: "testpass123", FirstName: "Test", LastName: "User", Role: "PATIENT",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := env.auth.Login(ctx, &dto.LoginRequest{Email: email, Password: "testpass123"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := env.auth.Login(ctx, &dto.LoginRequest{Email: email, Password: "testpass123"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if p, _ := env.auth.Authenticate(ctx, first.Token); p != nil {
		t.Error("first token should be revoked after second login")
	}
	if p, _ := env.auth.Authenticate(ctx, second.Token); p == nil {
		t.Error("second token should be active")
	}
}

func TestBookingCapacityLimit(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	patientPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, 1)

	date := time.Date(2026, 10, 5, 10, 0, 0, 0, time.UTC)

	can, err := env.appointment.CanBook(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("canBook: %v", err)
	}
	if !can {
		t.Fatal("empty day should be bookable")
	}

	booked, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date.Format(time.RFC3339),
		AppointmentType: "VIDEO",
		Reason:          "checkup",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("status = %s, want SCHEDULED", booked.Status)
	}

	can, err = env.appointment.CanBook(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("canBook after booking: %v", err)
	}
	if can {
		t.Error("full day should not be bookable")
	}

	_, err = env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date.Add(time.Hour).Format(time.RFC3339),
		AppointmentType: "VIDEO",
	})
	if err != usecase.ErrCapacityExceeded {
		t.Errorf("second booking error = %v, want ErrCapacityExceeded", err)
	}
}

func TestBookingCapacityUnderConcurrency(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	const limit = 3
	const attempts = 12

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, limit)

	principals := make([]entity.Principal, attempts)
	for i := range principals {
		principals[i], _ = registerAndLogin(t, env, "PATIENT")
	}

	date := time.Date(2026, 10, 6, 9, 0, 0, 0, time.UTC)

	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func(p entity.Principal) {
			_, err := env.appointment.Book(ctx, p, &dto.BookAppointmentRequest{
				DoctorID:        doctorID,
				AppointmentDate: date.Format(time.RFC3339),
				AppointmentType: "IN_PERSON",
			})
			results <- err
		}(principals[i])
	}

	var succeeded, exceeded int
	for i := 0; i < attempts; i++ {
		switch err := <-results; err {
		case nil:
			succeeded++
		case usecase.ErrCapacityExceeded:
			exceeded++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}

	if succeeded != limit {
		t.Errorf("succeeded = %d, want exactly %d", succeeded, limit)
	}
	if exceeded != attempts-limit {
		t.Errorf("exceeded = %d, want %d", exceeded, attempts-limit)
	}
}

func TestCancelOwnershipAndCapacityRelease(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	ownerPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	strangerPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, 1)

	date := time.Date(2026, 10, 7, 14, 0, 0, 0, time.UTC)

	booked, err := env.appointment.Book(ctx, ownerPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date.Format(time.RFC3339),
		AppointmentType: "VIDEO",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	appointmentID := uuid.MustParse(booked.ID)

	if err := env.appointment.Cancel(ctx, strangerPrincipal, appointmentID); err != usecase.ErrForbidden {
		t.Errorf("stranger cancel error = %v, want ErrForbidden", err)
	}

	if err := env.appointment.Cancel(ctx, ownerPrincipal, appointmentID); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}

	// The cancelled row no longer occupies a capacity slot.
	can, err := env.appointment.CanBook(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("canBook after cancel: %v", err)
	}
	if !can {
		t.Error("cancelled slot should be bookable again")
	}

	if err := env.appointment.Cancel(ctx, ownerPrincipal, uuid.New()); err != usecase.ErrAppointmentNotFound {
		t.Errorf("unknown id error = %v, want ErrAppointmentNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	patientPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, 5)

	booked, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: time.Date(2026, 10, 8, 11, 0, 0, 0, time.UTC).Format(time.RFC3339),
		AppointmentType: "IN_PERSON",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	appointmentID := uuid.MustParse(booked.ID)

	if _, err := env.appointment.UpdateStatus(ctx, doctorPrincipal, appointmentID, "NOT_A_STATUS"); err != usecase.ErrInvalidStatus {
		t.Errorf("invalid status error = %v, want ErrInvalidStatus", err)
	}

	updated, err := env.appointment.UpdateStatus(ctx, doctorPrincipal, appointmentID, "CONFIRMED")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != string(entity.AppointmentStatusConfirmed) {
		t.Errorf("status = %s, want CONFIRMED", updated.Status)
	}
}

func TestBookingVisibleInQueries(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	patientPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, 5)

	future := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	booked, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: future.Format(time.RFC3339),
		AppointmentType: "VIDEO",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	mine, err := env.appointment.MyAppointments(ctx, patientPrincipal)
	if err != nil {
		t.Fatalf("my appointments: %v", err)
	}
	if !containsAppointment(mine, booked.ID) {
		t.Error("booking missing from patient list")
	}

	upcoming, err := env.appointment.Upcoming(ctx, doctorPrincipal)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if !containsAppointment(upcoming, booked.ID) {
		t.Error("booking missing from doctor upcoming list")
	}
}

func TestDoctorBookedStatusFilter(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	patientPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, 5)

	date := time.Date(2026, 10, 9, 9, 0, 0, 0, time.UTC)

	kept, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date.Format(time.RFC3339),
		AppointmentType: "VIDEO",
	})
	if err != nil {
		t.Fatalf("first book: %v", err)
	}
	cancelled, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date.Add(time.Hour).Format(time.RFC3339),
		AppointmentType: "VIDEO",
	})
	if err != nil {
		t.Fatalf("second book: %v", err)
	}
	if err := env.appointment.Cancel(ctx, patientPrincipal, uuid.MustParse(cancelled.ID)); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	all, err := env.appointment.DoctorBooked(ctx, doctorPrincipal, "")
	if err != nil {
		t.Fatalf("booked: %v", err)
	}
	if !containsAppointment(all, kept.ID) || !containsAppointment(all, cancelled.ID) {
		t.Error("unfiltered list should contain both appointments")
	}

	onlyCancelled, err := env.appointment.DoctorBooked(ctx, doctorPrincipal, "CANCELLED")
	if err != nil {
		t.Fatalf("booked by status: %v", err)
	}
	if !containsAppointment(onlyCancelled, cancelled.ID) {
		t.Error("cancelled appointment missing from CANCELLED filter")
	}
	if containsAppointment(onlyCancelled, kept.ID) {
		t.Error("scheduled appointment leaked into CANCELLED filter")
	}

	if _, err := env.appointment.DoctorBooked(ctx, doctorPrincipal, "NOT_A_STATUS"); err != usecase.ErrInvalidStatus {
		t.Errorf("invalid filter error = %v, want ErrInvalidStatus", err)
	}
}

func TestDashboardCountsTodayAppointments(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	doctorPrincipal, _ := registerAndLogin(t, env, "DOCTOR")
	patientPrincipal, _ := registerAndLogin(t, env, "PATIENT")
	doctorID := setDoctorLimit(t, env, doctorPrincipal.UserID, 5)

	if _, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: time.Now().Truncate(time.Second).Format(time.RFC3339),
		AppointmentType: "IN_PERSON",
	}); err != nil {
		t.Fatalf("book today: %v", err)
	}
	if _, err := env.appointment.Book(ctx, patientPrincipal, &dto.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: time.Now().Add(96 * time.Hour).Truncate(time.Second).Format(time.RFC3339),
		AppointmentType: "IN_PERSON",
	}); err != nil {
		t.Fatalf("book later: %v", err)
	}

	stats, err := env.appointment.DashboardStats(ctx, doctorPrincipal)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalAppointments != 2 {
		t.Errorf("total = %d, want 2", stats.TotalAppointments)
	}
	if stats.TodayAppointments != 1 {
		t.Errorf("today = %d, want 1", stats.TodayAppointments)
	}
}

func containsAppointment(list []*dto.AppointmentResponse, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}
