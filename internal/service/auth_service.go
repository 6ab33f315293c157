package service

import (
	"context"
	"errors"
	"time"

	"shoptrack/internal/codegen"
	"shoptrack/internal/config"
	"shoptrack/internal/dto"
	"shoptrack/internal/middleware"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers unknown username, wrong password and
// deactivated accounts alike; callers never learn which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.EmployeeRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil || !emp.Active {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(emp)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken, s.cfg.JWTSecret)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidCredentials
	}
	id, err := uuid.Parse(claims.EmployeeID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil || !emp.Active {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(emp)
}

func (s *authService) issueTokens(emp *model.Employee) (*dto.LoginResponse, error) {
	accessTTL := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	refreshTTL := time.Duration(s.cfg.JWTRefreshHours) * time.Hour

	access, err := s.signToken(emp, "access", accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(emp, "refresh", refreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(accessTTL.Seconds()),
		User:         *employeeToResponse(emp),
	}, nil
}

func (s *authService) signToken(emp *model.Employee, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		EmployeeID: emp.ID.String(),
		Username:   emp.Username,
		Role:       emp.Role,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   emp.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if existing, err := s.repo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, &ValidationError{Msg: "username already taken"}
	}

	code, err := codegen.Generate("EMP", 4, func(c string) (bool, error) {
		return s.repo.CodeExists(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	emp := &model.Employee{
		Code:         code,
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return employeeToResponse(emp), nil
}

func (s *authService) ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, *employeeToResponse(&employees[i]))
	}
	return out, nil
}

func (s *authService) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Entity: "employee"}
	}
	emp.Active = false
	return s.repo.Update(ctx, emp)
}

func employeeToResponse(e *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:       e.ID.String(),
		Code:     e.Code,
		Username: e.Username,
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
		Active:   e.Active,
	}
}
