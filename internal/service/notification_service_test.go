package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"edu-eval/backend/internal/model"
	"edu-eval/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestNotificationService() (NotificationService, *mockNotificationRepo) {
	notificationRepo := newMockNotificationRepo()
	repo := &repository.Repository{
		User:         newMockUserRepo(),
		Notification: notificationRepo,
		AuditLog:     newMockAuditLogRepo(),
	}
	logger := zap.NewNop()
	svc := NewNotificationService(repo, logger)
	return svc, notificationRepo
}

func seedNotification(repo *mockNotificationRepo, id int64, userID string, read bool) {
	repo.notifications[id] = &model.Notification{
		NotificationID: id,
		UserID:         userID,
		Type:           model.NotificationTypeInfo,
		Title:          "测试通知",
		Content:        "测试内容",
		IsRead:         read,
	}
}

// ── List 测试 ──

func TestNotificationService_List_UnreadOnly(t *testing.T) {
	svc, notificationRepo := setupTestNotificationService()
	seedNotification(notificationRepo, 1, "teacher-001", false)
	seedNotification(notificationRepo, 2, "teacher-001", true)
	seedNotification(notificationRepo, 3, "teacher-002", false)

	result, err := svc.List(context.Background(), "teacher-001", true)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望1条未读通知，实际=%d", len(result))
	}
	if result[0].ID != 1 {
		t.Errorf("期望通知ID=1，实际=%d", result[0].ID)
	}

	all, err := svc.List(context.Background(), "teacher-001", false)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("不过滤时期望2条通知，实际=%d", len(all))
	}
}

// ── MarkRead 测试 ──

func TestNotificationService_MarkRead_Success(t *testing.T) {
	svc, notificationRepo := setupTestNotificationService()
	seedNotification(notificationRepo, 1, "teacher-001", false)

	if err := svc.MarkRead(context.Background(), 1, "teacher-001"); err != nil {
		t.Fatalf("MarkRead 应成功: %v", err)
	}
	if !notificationRepo.notifications[1].IsRead {
		t.Error("通知应已标记为已读")
	}
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	svc, _ := setupTestNotificationService()

	err := svc.MarkRead(context.Background(), 999, "teacher-001")
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("期望 ErrNotificationNotFound，实际: %v", err)
	}
}

func TestNotificationService_MarkRead_OtherUsersNotification(t *testing.T) {
	svc, notificationRepo := setupTestNotificationService()
	seedNotification(notificationRepo, 1, "teacher-001", false)

	// 别人的通知按不存在处理，不泄露他人通知的存在性
	err := svc.MarkRead(context.Background(), 1, "teacher-002")
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("期望 ErrNotificationNotFound，实际: %v", err)
	}
	if notificationRepo.notifications[1].IsRead {
		t.Error("他人的通知不应被标记")
	}
}

// ── MarkAllRead 测试 ──

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, notificationRepo := setupTestNotificationService()
	seedNotification(notificationRepo, 1, "teacher-001", false)
	seedNotification(notificationRepo, 2, "teacher-001", false)
	seedNotification(notificationRepo, 3, "teacher-002", false)

	if err := svc.MarkAllRead(context.Background(), "teacher-001"); err != nil {
		t.Fatalf("MarkAllRead 应成功: %v", err)
	}
	if !notificationRepo.notifications[1].IsRead || !notificationRepo.notifications[2].IsRead {
		t.Error("本人通知应全部已读")
	}
	if notificationRepo.notifications[3].IsRead {
		t.Error("他人通知不应被波及")
	}
}
