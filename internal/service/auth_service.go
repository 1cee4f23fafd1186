package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/config"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/dto"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
)

// Actor is the authenticated employee acting on a request, resolved from JWT
// claims back to internal ids. Internal ids never leave the core — tokens
// carry public UUIDs only.
type Actor struct {
	EmployeeID       uint
	EmployeePublicID uuid.UUID
	CompanyID        uint
	Role             string
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// Resolve maps a token's employee public UUID to the acting employee.
	Resolve(ctx context.Context, employeePublicID uuid.UUID) (*Actor, error)
}

type authService struct {
	repo repository.EmployeeRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apierror.Validation("invalid credentials")
	}
	if !employee.Active {
		return nil, apierror.Validation("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Validation("invalid credentials")
	}

	return s.tokenPair(employee)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Validation("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Validation("malformed token")
	}
	idStr, ok := claims["employee_id"].(string)
	if !ok {
		return nil, apierror.Validation("malformed token")
	}
	publicID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apierror.Validation("malformed token")
	}

	employee, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil || !employee.Active {
		return nil, apierror.Validation("employee not found or inactive")
	}

	return s.tokenPair(employee)
}

func (s *authService) Resolve(ctx context.Context, employeePublicID uuid.UUID) (*Actor, error) {
	employee, err := s.repo.FindByPublicID(ctx, employeePublicID)
	if err != nil || !employee.Active {
		return nil, apierror.NotFound("employee not found or inactive")
	}
	return &Actor{
		EmployeeID:       employee.ID,
		EmployeePublicID: employee.PublicID,
		CompanyID:        employee.CompanyID,
		Role:             employee.Role,
	}, nil
}

func (s *authService) tokenPair(employee *model.Employee) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(employee, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(employee, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	companyID := ""
	if employee.Company != nil {
		companyID = employee.Company.PublicID.String()
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Employee: dto.EmployeeResponse{
			ID:       employee.PublicID.String(),
			Username: employee.Username,
			Name:     employee.Name,
			Role:     employee.Role,
			Company:  companyID,
		},
	}, nil
}

func (s *authService) generateToken(employee *model.Employee, ttl time.Duration) (string, error) {
	companyID := ""
	if employee.Company != nil {
		companyID = employee.Company.PublicID.String()
	}
	claims := jwt.MapClaims{
		"employee_id": employee.PublicID.String(),
		"company_id":  companyID,
		"username":    employee.Username,
		"role":        employee.Role,
		"exp":         time.Now().Add(ttl).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
