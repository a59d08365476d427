package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"smartschool/backend/config"
	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	"smartschool/backend/pkg/jwt"
)

func newAuthServiceForTest(t *testing.T, repos *testRepos) (AuthService, *jwt.Manager) {
	t.Helper()
	manager := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	return NewAuthService(repos.users, manager, nil, zap.NewNop()), manager
}

func seedUser(t *testing.T, repos *testRepos, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成口令哈希失败: %v", err)
	}
	u := &model.User{
		UserID:       "user-" + username,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	repos.users.users[username] = u
	return u
}

func TestLogin(t *testing.T) {
	repos := newTestRepos()
	seedUser(t, repos, "admin", "secret123", "admin")
	svc, manager := newAuthServiceForTest(t, repos)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("令牌不应为空")
	}

	claims, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.Role != "admin" || claims.TokenType != "access" {
		t.Errorf("声明内容错误: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repos := newTestRepos()
	seedUser(t, repos, "admin", "secret123", "admin")
	svc, _ := newAuthServiceForTest(t, repos)
	ctx := context.Background()

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("错误口令应被拒绝，实际 %v", err)
	}
	// 账号不存在与口令错误对外同一错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("不存在的账号应被拒绝，实际 %v", err)
	}
}

func TestLoginResolvesClassFromStudent(t *testing.T) {
	repos := newTestRepos()
	u := seedUser(t, repos, "pupil", "secret123", "student")
	studentID := "stu-1"
	u.StudentID = &studentID
	u.Student = &model.Student{StudentID: studentID, ClassID: "class-a"}
	svc, manager := newAuthServiceForTest(t, repos)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "pupil", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	claims, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	// 班级来自学生档案而非客户端输入
	if claims.StudentID != "stu-1" || claims.ClassID != "class-a" {
		t.Errorf("身份字段错误: student=%s class=%s", claims.StudentID, claims.ClassID)
	}
	if resp.User.ClassID == nil || *resp.User.ClassID != "class-a" {
		t.Errorf("响应中的班级错误: %v", resp.User.ClassID)
	}
}

func TestRefresh(t *testing.T) {
	repos := newTestRepos()
	seedUser(t, repos, "admin", "secret123", "admin")
	svc, _ := newAuthServiceForTest(t, repos)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新后应签发新令牌")
	}

	// Access Token 不可用于刷新
	if _, err := svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用 access token 刷新应被拒绝，实际 %v", err)
	}
}
