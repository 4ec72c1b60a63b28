package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/metrics"
	"github.com/shashiranjanraj/brewandco/pkg/validate"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid username or password"

type RegisterInput struct {
	Username string  `json:"username"  validate:"required,alpha_dash,min=3,max=50"`
	Email    string  `json:"email"     validate:"required,email,max=255"`
	Password string  `json:"password"  validate:"required,min=5,max=72"`
	FullName *string `json:"full_name" validate:"nullable,max=120"`
	Phone    *string `json:"phone"     validate:"nullable,max=20"`
	Address  *string `json:"address"   validate:"nullable,max=500"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput is a partial update: nil fields are left unchanged.
type ProfileInput struct {
	FullName *string `json:"full_name" validate:"nullable,max=120"`
	Phone    *string `json:"phone"     validate:"nullable,max=20"`
	Address  *string `json:"address"   validate:"nullable,max=500"`
	Email    *string `json:"email"     validate:"nullable,email,max=255"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AdminAuthResult is returned by admin login.
type AdminAuthResult struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin"`
}

// AdminIdentity is what admin verify reports.
type AdminIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthService struct {
	users  *repositories.UserRepository
	admins *repositories.AdminRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		users:  repositories.NewUserRepository(db),
		admins: repositories.NewAdminRepository(db),
	}
}

func invalid(in any) error {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return apperr.Validation("The given data was invalid.", errs)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Register creates a customer account and signs a customer token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := invalid(&in); err != nil {
		return nil, err
	}

	taken, err := s.users.Taken(ctx, in.Username, in.Email)
	if err != nil {
		return nil, apperr.Internal("registration failed", err)
	}
	if taken {
		metrics.RecordAuth("register", false)
		return nil, apperr.Conflict("Username or email already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("registration failed", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     deref(in.FullName),
		Phone:        deref(in.Phone),
		Address:      deref(in.Address),
		Role:         auth.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.UniqueViolation(err) {
			metrics.RecordAuth("register", false)
			return nil, apperr.Conflict("Username or email already registered")
		}
		return nil, apperr.Internal("registration failed", err)
	}

	token, err := customerToken(user)
	if err != nil {
		return nil, apperr.Internal("registration failed", err)
	}

	metrics.RecordAuth("register", true)
	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login accepts a username or an email as the identifier.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := invalid(&in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if repositories.NotFound(err) {
			metrics.RecordAuth("login", false)
			return nil, apperr.Authentication(invalidCredentials)
		}
		return nil, apperr.Internal("login failed", err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		metrics.RecordAuth("login", false)
		return nil, apperr.Authentication(invalidCredentials)
	}

	token, err := customerToken(&user)
	if err != nil {
		return nil, apperr.Internal("login failed", err)
	}

	metrics.RecordAuth("login", true)
	logger.WithCtx(ctx).Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: &user}, nil
}

func customerToken(u *models.User) (string, error) {
	return auth.GenerateToken(auth.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Kind:     auth.KindCustomer,
	})
}

// Me loads the current customer's profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repositories.NotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("profile lookup failed", err)
	}
	return &user, nil
}

// UpdateProfile changes only the fields present in in.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	if in.Email != nil {
		lower := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &lower
	}
	if err := invalid(&in); err != nil {
		return nil, err
	}

	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.FullName != nil {
		fields["full_name"] = deref(in.FullName)
	}
	if in.Phone != nil {
		fields["phone"] = deref(in.Phone)
	}
	if in.Address != nil {
		fields["address"] = deref(in.Address)
	}
	if in.Email != nil {
		owned, err := s.users.EmailOwnedByOther(ctx, *in.Email, userID)
		if err != nil {
			return nil, apperr.Internal("profile update failed", err)
		}
		if owned {
			return nil, apperr.Conflict("Email already registered")
		}
		fields["email"] = *in.Email
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if repositories.UniqueViolation(err) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("profile update failed", err)
	}

	logger.WithCtx(ctx).Info("profile updated", "user_id", userID, "fields", len(fields))
	return s.Me(ctx, userID)
}

// AdminLogin signs an admin token carrying the persisted role.
func (s *AuthService) AdminLogin(ctx context.Context, in LoginInput) (*AdminAuthResult, error) {
	if err := invalid(&in); err != nil {
		return nil, err
	}

	admin, err := s.admins.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if repositories.NotFound(err) {
			metrics.RecordAuth("admin_login", false)
			return nil, apperr.Authentication(invalidCredentials)
		}
		return nil, apperr.Internal("login failed", err)
	}
	if !auth.CheckPassword(admin.PasswordHash, in.Password) {
		metrics.RecordAuth("admin_login", false)
		return nil, apperr.Authentication(invalidCredentials)
	}

	token, err := auth.GenerateToken(auth.Claims{
		UserID:   admin.ID,
		Username: admin.Username,
		Email:    admin.Email,
		Role:     admin.Role,
		Kind:     auth.KindAdmin,
	})
	if err != nil {
		return nil, apperr.Internal("login failed", err)
	}

	metrics.RecordAuth("admin_login", true)
	logger.WithCtx(ctx).Info("admin logged in", "admin_id", admin.ID)
	return &AdminAuthResult{Token: token, Admin: &admin}, nil
}

// AdminVerify echoes the identity carried by verified admin claims.
func (s *AuthService) AdminVerify(c *auth.Claims) AdminIdentity {
	return AdminIdentity{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// CreateAdmin adds a back-office account. Used by the CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (*models.Admin, error) {
	if len(password) < 8 {
		return nil, apperr.Validation("The given data was invalid.", map[string]string{
			"password": "The password must be at least 8 characters.",
		})
	}

	if _, err := s.admins.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("Admin already exists")
	} else if !repositories.NotFound(err) {
		return nil, apperr.Internal("admin lookup failed", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("admin create failed", err)
	}
	admin := &models.Admin{Username: username, Email: email, PasswordHash: hash, Role: auth.RoleAdmin}
	if err := s.admins.Create(ctx, admin); err != nil {
		if repositories.UniqueViolation(err) {
			return nil, apperr.Conflict("Admin already exists")
		}
		return nil, apperr.Internal("admin create failed", err)
	}
	return admin, nil
}
