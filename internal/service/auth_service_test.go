package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"edu-eval/backend/config"
	"edu-eval/backend/internal/dto"
	"edu-eval/backend/internal/model"
	"edu-eval/backend/internal/repository"
	"edu-eval/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *mockUserRepo) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  7 * 24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:          userRepo,
		AcademicCycle: newMockAcademicCycleRepo(),
		Notification:  newMockNotificationRepo(),
		AuditLog:      newMockAuditLogRepo(),
	}
	logger := zap.NewNop()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// rdb 传 nil：黑名单降级为不可用（写入跳过、查询恒为未命中）
	svc := NewAuthService(cfg, repo, jwtMgr, nil, logger)
	return svc, userRepo
}

func createTestUser(userRepo *mockUserRepo, employeeNo, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + employeeNo,
		Name:         "测试教师",
		EmployeeNo:   employeeNo,
		Email:        employeeNo + "@school.example.cn",
		PasswordHash: string(hash),
		Role:         model.RoleTeacher,
	}
	userRepo.users[user.UserID] = user
	return user
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "T2026001", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("期望返回 Token 对")
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
	if result.User.EmployeeNo != "T2026001" {
		t.Errorf("期望EmployeeNo=T2026001，实际=%s", result.User.EmployeeNo)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "T2026001", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "wrong_password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UserNotExists(t *testing.T) {
	svc, _ := setupTestAuthService()

	// 用户不存在与密码错误返回同一个错误，不泄露工号是否有效
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "nonexistent",
		Password:   "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "T2026001", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	result, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("期望签发新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "T2026001", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// 拿 access token 冒充 refresh token
	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: "not-a-jwt",
	})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_UserDeleted(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "T2026001", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// token 有效期内用户被删除，刷新必须失败
	delete(userRepo.users, user.UserID)

	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_InvalidTokenIsNoop(t *testing.T) {
	svc, _ := setupTestAuthService()

	if err := svc.Logout(context.Background(), "garbage-token"); err != nil {
		t.Errorf("无效 token 登出应视为成功: %v", err)
	}
}

func TestAuthService_Logout_ValidToken(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "T2026001", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	if err := svc.Logout(context.Background(), login.AccessToken); err != nil {
		t.Errorf("Logout 应成功: %v", err)
	}
}

// ── GetCurrentUser 测试 ──

func TestAuthService_GetCurrentUser_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "T2026001", "password123")

	result, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Name != "测试教师" {
		t.Errorf("期望Name=测试教师，实际=%s", result.Name)
	}
}

func TestAuthService_GetCurrentUser_NotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.GetCurrentUser(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "T2026001", "password123")
	user.MustChangePassword = true

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	if user.MustChangePassword {
		t.Error("修改密码后应清除强制改密标记")
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "newpassword456",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		EmployeeNo: "T2026001",
		Password:   "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码登录应失败，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "T2026001", "password123")

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong_password",
		NewPassword: "newpassword456",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}
