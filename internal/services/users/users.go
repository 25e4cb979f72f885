// Package users implements registration, login and bearer-identity
// resolution against the users table.
package users

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
)

const tokenTTL = 24 * time.Hour

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Service struct {
	db     *gorm.DB
	tokens *auth.TokenManager
}

func NewService(db *gorm.DB, tokens *auth.TokenManager) *Service {
	return &Service{db: db, tokens: tokens}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func validateRegistration(in RegisterInput) error {
	var problems []string
	if !usernameRe.MatchString(in.Username) {
		problems = append(problems, "username must be 3-50 characters of letters, digits or underscores")
	}
	if !emailRe.MatchString(in.Email) {
		problems = append(problems, "email is invalid")
	}
	if len(in.Password) < 6 {
		problems = append(problems, "password must be at least 6 characters")
	}
	if l := len(strings.TrimSpace(in.FullName)); l < 2 || l > 100 {
		problems = append(problems, "full_name must be 2-100 characters")
	}
	if in.Role != "" && !auth.ValidRole(in.Role) {
		problems = append(problems, "role must be admin or sales_rep")
	}
	if len(problems) > 0 {
		return apperr.InvalidInput(strings.Join(problems, ", "))
	}
	return nil
}

// Register creates an active account and issues its first token.
func (s *Service) Register(in RegisterInput) (*models.User, string, error) {
	if err := validateRegistration(in); err != nil {
		return nil, "", err
	}

	role := in.Role
	if role == "" {
		role = auth.RoleSalesRep
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", in.Username, strings.ToLower(in.Email)).First(&existing).Error
	if err == nil {
		return nil, "", apperr.DuplicateKey("username or email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperr.Internal(err)
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	user := models.User{
		Username: in.Username,
		Email:    strings.ToLower(in.Email),
		Password: string(pwHash),
		FullName: strings.TrimSpace(in.FullName),
		Role:     role,
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", apperr.Wrap(apperr.KindConflict, "username or email already exists", err)
	}

	token, _, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role, tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	return &user, token, nil
}

// Login checks credentials and account state, records the login time and
// issues a token.
func (s *Service) Login(username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", apperr.InvalidInput("username and password are required")
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Unauthenticated("invalid username or password")
		}
		return nil, "", apperr.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperr.Unauthenticated("invalid username or password")
	}

	if !user.IsActive {
		return nil, "", apperr.Unauthenticated("account is inactive")
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Model(&user).Update("last_login", now)

	token, _, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role, tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	return &user, token, nil
}

// Resolve maps a verified token subject to its active user record. Tokens for
// deactivated or deleted accounts do not authenticate.
func (s *Service) Resolve(userID int64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthenticated("account no longer exists")
		}
		return nil, apperr.Internal(err)
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("account is inactive")
	}
	return &user, nil
}
