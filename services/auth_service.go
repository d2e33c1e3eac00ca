package services

import (
	"context"
	"strings"
	"time"

	"attendance/constants"
	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultTokenMinutes = 60 * 24

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lowercases and trims an email for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type AuthService struct {
	db           *gorm.DB
	logger       logger.Logger
	secret       []byte
	tokenMinutes int
	now          func() time.Time
}

type AuthServiceOptions struct {
	DB           *gorm.DB
	Logger       logger.Logger
	Secret       string
	TokenMinutes int
	Now          func() time.Time
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.TokenMinutes <= 0 {
		opts.TokenMinutes = defaultTokenMinutes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AuthService{
		db:           opts.DB,
		logger:       opts.Logger,
		secret:       []byte(opts.Secret),
		tokenMinutes: opts.TokenMinutes,
		now:          opts.Now,
	}
}

// Login checks the credentials and issues an access token for the account's tenant
func (s *AuthService) Login(ctx context.Context, in dto.LoginInput) (dto.LoginResponse, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(in.Email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.LoginResponse{}, errors.ErrInvalidPassword
	}
	if err != nil {
		return dto.LoginResponse{}, errors.Database(err, "failed to load account")
	}
	if !CheckPassword(account.Password, in.Password) {
		s.logger.Warn("failed login for account %s", account.ID)
		return dto.LoginResponse{}, errors.ErrInvalidPassword
	}
	return s.Issue(ctx, account)
}

// Issue resolves the tenant of an account and signs its token
func (s *AuthService) Issue(ctx context.Context, account models.Account) (dto.LoginResponse, error) {
	info := UserInfo{AccountID: account.ID, Role: account.Role}

	switch account.Role {
	case constants.RoleEmployer:
		var employer models.Employer
		if err := s.db.WithContext(ctx).Where("account_id = ?", account.ID).First(&employer).Error; err != nil {
			return dto.LoginResponse{}, errors.Database(err, "employer profile not found")
		}
		info.EmployerID = employer.ID
	case constants.RoleEmployee:
		var employee models.Employee
		if err := s.db.WithContext(ctx).Where("account_id = ?", account.ID).First(&employee).Error; err != nil {
			return dto.LoginResponse{}, errors.Database(err, "employee profile not found")
		}
		if !employee.IsActive {
			return dto.LoginResponse{}, errors.ErrEmployeeInactive
		}
		id := employee.ID
		info.EmployerID = employee.EmployerID
		info.EmployeeID = &id
	default:
		return dto.LoginResponse{}, errors.NewAppError(errors.ErrCodeInvalidRole, "unknown role "+account.Role, nil)
	}

	token, expiresAt, err := GenerateToken(info, s.secret, s.tokenMinutes, s.now())
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Role:        info.Role,
		AccountID:   info.AccountID,
		EmployerID:  info.EmployerID,
		EmployeeID:  info.EmployeeID,
	}, nil
}

// Authenticate verifies a bearer token
func (s *AuthService) Authenticate(token string) (UserInfo, error) {
	return ParseToken(token, s.secret)
}

func newAccount(email, password, role string) (models.Account, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return models.Account{}, errors.NewAppError(errors.ErrCodeDBError, "failed to hash password", err)
	}
	return models.Account{
		ID:       uuid.New(),
		Email:    NormalizeEmail(email),
		Password: hashed,
		Role:     role,
	}, nil
}

// createAccount inserts an account, mapping a taken email to USER_EXISTS
func createAccount(tx *gorm.DB, email, password, role string) (models.Account, error) {
	account, err := newAccount(email, password, role)
	if err != nil {
		return account, err
	}
	var count int64
	if err := tx.Model(&models.Account{}).Where("email = ?", account.Email).Count(&count).Error; err != nil {
		return account, errors.Database(err, "failed to check email")
	}
	if count > 0 {
		return account, errors.ErrUserExists
	}
	if err := tx.Create(&account).Error; err != nil {
		if errors.IsDuplicateKey(err) {
			return account, errors.ErrUserExists
		}
		return account, errors.Database(err, "failed to create account")
	}
	return account, nil
}
