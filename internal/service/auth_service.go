package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
	"smartschool/backend/pkg/jwt"
	"smartschool/backend/pkg/redis"
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将令牌 JTI 加入黑名单直至其自然过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	users  repository.UserRepository
	jwt    *jwt.Manager
	redis  *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{users: users, jwt: jwtManager, redis: rdb, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	identity := jwt.Identity{
		UserID: user.UserID,
		Role:   user.Role,
	}
	if user.TeacherID != nil {
		identity.TeacherID = *user.TeacherID
	}
	if user.StudentID != nil {
		identity.StudentID = *user.StudentID
		// 班级从学生档案解析，凭证内不允许自报
		if user.Student != nil {
			identity.ClassID = user.Student.ClassID
		}
	}

	resp, err := s.issueTokens(identity)
	if err != nil {
		return nil, err
	}
	resp.User = toUserResponse(user, identity.ClassID)

	s.logger.Info("用户登录", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidCredentials
	}
	if s.redis != nil {
		revoked, err := s.redis.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	// 重新读取账号，身份字段变更（换班、注销）即时生效
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	identity := jwt.Identity{UserID: user.UserID, Role: user.Role}
	if user.TeacherID != nil {
		identity.TeacherID = *user.TeacherID
	}
	if user.StudentID != nil {
		identity.StudentID = *user.StudentID
		if user.Student != nil {
			identity.ClassID = user.Student.ClassID
		}
	}

	resp, err := s.issueTokens(identity)
	if err != nil {
		return nil, err
	}
	resp.User = toUserResponse(user, identity.ClassID)
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.redis == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.redis.BlacklistToken(ctx, claims.ID, ttl)
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	classID := ""
	if user.Student != nil {
		classID = user.Student.ClassID
	}
	resp := toUserResponse(user, classID)
	return &resp, nil
}

func (s *authService) issueTokens(identity jwt.Identity) (*dto.TokenResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(identity)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(identity)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwt.AccessTokenTTL().Seconds()),
	}, nil
}

func toUserResponse(user *model.User, classID string) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Role:      user.Role,
		TeacherID: user.TeacherID,
		StudentID: user.StudentID,
	}
	if classID != "" {
		resp.ClassID = &classID
	}
	return resp
}
