package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/auth"
	"jharkhand-tourism/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	LinkTelegram(ctx context.Context, userID int, telegramID int64) error
}

type AdminStore interface {
	Create(ctx context.Context, admin *model.Admin) (int, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
}

type TokenIssuer interface {
	Issue(userID int, role string) (string, error)
}

// AuthService registers and signs in users and admins.
type AuthService struct {
	users      UserStore
	admins     AdminStore
	tokens     TokenIssuer
	inviteCode string
}

func NewAuthService(users UserStore, admins AdminStore, tokens TokenIssuer, inviteCode string) *AuthService {
	return &AuthService{users: users, admins: admins, tokens: tokens, inviteCode: inviteCode}
}

type SignupInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type AdminSignupInput struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

type UserSession struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AdminSession struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

var errBadCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthorized)

func checkCredentials(fullName, email, password string) error {
	if strings.TrimSpace(fullName) == "" {
		return apperr.Invalid("full_name", "is required")
	}
	if !validEmail(email) {
		return apperr.Invalid("email", "must be a valid email address")
	}
	if len(password) < 6 {
		return apperr.Invalid("password", "must be at least 6 characters")
	}
	return nil
}

// Signup creates a tourist account.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkCredentials(in.FullName, in.Email, in.Password); err != nil {
		return nil, err
	}
	if in.Phone != "" && !validPhone(in.Phone) {
		return nil, apperr.Invalid("phone", "must be a 10 digit mobile number")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
		}
		return nil, err
	}
	user.ID = id
	return user, nil
}

// Login checks the password and issues a user token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*UserSession, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errBadCredentials
	}
	if user.Blocked {
		return nil, fmt.Errorf("account is blocked: %w", apperr.ErrForbidden)
	}
	token, err := s.tokens.Issue(user.ID, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return &UserSession{Token: token, User: user}, nil
}

// RegisterAdmin creates an admin account when the invite code matches.
func (s *AuthService) RegisterAdmin(ctx context.Context, in AdminSignupInput) (*model.Admin, error) {
	if s.inviteCode == "" || in.InviteCode != s.inviteCode {
		return nil, fmt.Errorf("invalid invite code: %w", apperr.ErrForbidden)
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkCredentials(in.FullName, in.Email, in.Password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := &model.Admin{FullName: strings.TrimSpace(in.FullName), Email: in.Email, PasswordHash: hash}
	id, err := s.admins.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
		}
		return nil, err
	}
	admin.ID = id
	return admin, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, errBadCredentials
	}
	token, err := s.tokens.Issue(admin.ID, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &AdminSession{Token: token, Admin: admin}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// LinkTelegram attaches a Telegram account to the user for offer broadcasts.
func (s *AuthService) LinkTelegram(ctx context.Context, userID int, telegramID int64) (*model.User, error) {
	if telegramID <= 0 {
		return nil, apperr.Invalid("telegram_id", "must be a positive number")
	}
	if err := s.users.LinkTelegram(ctx, userID, telegramID); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("telegram account already linked: %w", apperr.ErrConflict)
		}
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// TelegramUser finds the account linked to a Telegram user.
func (s *AuthService) TelegramUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}
