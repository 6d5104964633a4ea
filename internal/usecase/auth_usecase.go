package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*entity.Principal, error)
	CurrentUser(ctx context.Context, principal entity.Principal) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	pharmacyRepo repository.PharmacyRepository
	sessionRepo  repository.SessionRepository
	auditService service.AuditService
	sessionTTL   time.Duration
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	pharmacyRepo repository.PharmacyRepository,
	sessionRepo repository.SessionRepository,
	auditService service.AuditService,
	sessionTTL time.Duration,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		pharmacyRepo: pharmacyRepo,
		sessionRepo:  sessionRepo,
		auditService: auditService,
		sessionTTL:   sessionTTL,
	}
}

// Register creates the user and its role-specific profile in one
// transaction. Doctors and pharmacies registering without a license
// number get a generated placeholder so the profile row is complete.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	exists, err := u.userRepo.ExistsByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to check email existence: %+v", err)
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.createProfile(tx, user, req); err != nil {
		return nil, err
	}

	if err := u.auditService.Record(tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), entity.JSON{
		"email": user.Email,
		"role":  string(user.Role),
	}); err != nil {
		// Audit failures never block registration.
		u.log.Warnf("Failed to audit registration: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) createProfile(tx *gorm.DB, user *entity.User, req *dto.RegisterRequest) error {
	switch user.Role {
	case entity.RolePatient:
		patient := &entity.Patient{
			UserID: user.ID,
			Gender: req.Gender,
			Phone:  req.Phone,
		}
		if req.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				return ErrInvalidDateFormat
			}
			patient.DateOfBirth = &dob
		}
		return u.patientRepo.Create(tx, patient)

	case entity.RoleDoctor:
		license := req.LicenseNumber
		if license == "" {
			license = fmt.Sprintf("DOC_%d", time.Now().UnixMilli())
		}
		specialization := req.Specialization
		if specialization == "" {
			specialization = "General Practice"
		}
		doctor := &entity.Doctor{
			UserID:                user.ID,
			LicenseNumber:         license,
			Specialization:        specialization,
			Experience:            req.Experience,
			DailyAppointmentLimit: entity.DefaultDailyAppointmentLimit,
		}
		return u.doctorRepo.Create(tx, doctor)

	case entity.RolePharmacy:
		license := req.LicenseNumber
		if license == "" {
			license = fmt.Sprintf("PHARM_%d", time.Now().UnixMilli())
		}
		name := req.PharmacyName
		if name == "" {
			name = fmt.Sprintf("Pharmacy %d", time.Now().UnixMilli())
		}
		pharmacy := &entity.Pharmacy{
			UserID:        user.ID,
			Name:          name,
			LicenseNumber: license,
			Address:       req.Address,
			Phone:         req.Phone,
		}
		return u.pharmacyRepo.Create(tx, pharmacy)
	}
	return ErrInvalidRole
}

// Login verifies credentials and issues a fresh opaque session token.
// Creating the session revokes any token the user held before, so a
// second login invalidates the first.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &entity.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}

	if err := u.sessionRepo.Create(ctx, session); err != nil {
		u.log.Warnf("Failed to create session for user %s: %+v", user.ID, err)
		return nil, err
	}

	if err := u.auditService.Record(u.db.WithContext(ctx), &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil); err != nil {
		u.log.Warnf("Failed to audit login: %+v", err)
	}

	return &dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      converter.UserToResponse(user),
	}, nil
}

// Logout is idempotent; an unknown token is not an error.
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := u.sessionRepo.DeleteByToken(ctx, token); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}
	return nil
}

// Authenticate resolves a token to a principal. It returns (nil, nil)
// for unknown, expired or orphaned sessions: "not logged in" is a
// state, not an error. The role comes from the user record, not the
// session snapshot, so the store stays authoritative.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (*entity.Principal, error) {
	if token == "" {
		return nil, nil
	}

	session, err := u.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		u.log.Warnf("Failed to look up session: %+v", err)
		return nil, err
	}
	if session == nil || session.Expired(time.Now()) {
		return nil, nil
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), session.UserID)
	if err != nil {
		u.log.Warnf("Failed to resolve session user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return &entity.Principal{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	}, nil
}

func (u *authUsecase) CurrentUser(ctx context.Context, principal entity.Principal) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// isDuplicateKeyError checks for a PostgreSQL unique constraint
// violation on the named constraint.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
