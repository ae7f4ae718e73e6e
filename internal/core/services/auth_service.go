package services

import (
	"context"
	"errors"
	"log"
	"time"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/config"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/pkg/jwt"
	"shomiti-fund/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles signup and login. It is the calling layer that turns
// credentials into the verified role claim the core services receive; the
// services themselves never consult the identity store.
type AuthService struct {
	memberRepo       repositories.MemberRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		memberRepo:       memberRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents signup input
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.MemberResponse `json:"member"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Register signs up a new member. The account starts with role "member" and
// approval status "pending"; a manager/owner must approve it before the
// member can contribute.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.MemberResponse, error) {
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.memberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		FullName:       input.FullName,
		Email:          input.Email,
		Phone:          input.Phone,
		Password:       hashedPassword,
		Role:           string(domain.RoleMember),
		ApprovalStatus: models.MemberPending,
		IsActive:       true,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("✅ Member registered: %s (pending approval)", member.Email)
	return member.ToResponse(), nil
}

// Login authenticates a member and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	member, err := s.memberRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, member.Password) {
		return nil, ErrInvalidCredentials
	}
	if !member.IsActive {
		return nil, domain.ErrMemberInactive
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, member)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates a refresh token and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if stored.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, ErrTokenExpired
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	if !member.IsActive {
		return nil, domain.ErrMemberInactive
	}

	// Rotate: revoke the presented token before issuing a new pair
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, err := s.issueTokens(ctx, member)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.refreshTokenRepo.Revoke(ctx, stored.ID)
}

// LogoutAll revokes every active refresh token for a member
func (s *AuthService) LogoutAll(ctx context.Context, memberID string) error {
	return s.refreshTokenRepo.RevokeAllByMemberID(ctx, memberID)
}

func (s *AuthService) issueTokens(ctx context.Context, member *models.Member) (string, string, error) {
	accessToken, err := jwt.GenerateAccessToken(
		member.ID, member.Email, member.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return "", "", err
	}

	tokenID := uuid.NewString()
	refreshToken, err := jwt.GenerateRefreshToken(
		member.ID, tokenID,
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return "", "", err
	}

	stored := &models.RefreshToken{
		ID:        tokenID,
		MemberID:  member.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.JWT.RefreshTokenDays) * 24 * time.Hour),
	}
	if err := s.refreshTokenRepo.Create(ctx, stored); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
