package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"edu-eval/backend/internal/dto"
	"edu-eval/backend/internal/model"
	"edu-eval/backend/internal/repository"
)

// ── 测试辅助 ──

type signatureTestMocks struct {
	cycles        *mockAcademicCycleRepo
	indicators    *mockIndicatorRepo
	signatures    *mockSignatureRepo
	notifications *mockNotificationRepo
	audits        *mockAuditLogRepo
	users         *mockUserRepo
	mailer        *mockMailer
}

func setupTestSignatureService() (SignatureService, *signatureTestMocks) {
	userRepo := newMockUserRepo()
	cycleRepo := newMockAcademicCycleRepo()
	criteriaRepo := newMockCriteriaRepo()
	witnessRepo := newMockWitnessRepo()
	indicatorRepo := newMockIndicatorRepo(criteriaRepo, witnessRepo)
	signatureRepo := newMockSignatureRepo()
	notificationRepo := newMockNotificationRepo()
	auditRepo := newMockAuditLogRepo()
	m := newMockMailer()

	repo := &repository.Repository{
		User:          userRepo,
		AcademicCycle: cycleRepo,
		Indicator:     indicatorRepo,
		Criteria:      criteriaRepo,
		Witness:       witnessRepo,
		Signature:     signatureRepo,
		Notification:  notificationRepo,
		AuditLog:      auditRepo,
	}
	logger := zap.NewNop()
	cycleSvc := NewCycleService(repo, logger)
	dispatcher := NewEffectDispatcher(repo, m, logger)
	svc := NewSignatureService(repo, cycleSvc, dispatcher, logger)

	seedCycle(cycleRepo, 1, "2026-2027学年度考核周期", true, false)
	userRepo.users["teacher-001"] = &model.User{
		UserID:     "teacher-001",
		Name:       "张老师",
		EmployeeNo: "T2026001",
		Email:      "zhang@school.example.cn",
		Role:       model.RoleTeacher,
	}
	indicatorRepo.indicators[100] = &model.Indicator{
		IndicatorID:     100,
		UserID:          "teacher-001",
		AcademicCycleID: 1,
		Title:           "课堂教学能力",
		Type:            model.IndicatorTypeCompetency,
		Status:          model.StatusCompleted,
	}

	return svc, &signatureTestMocks{
		cycles:        cycleRepo,
		indicators:    indicatorRepo,
		signatures:    signatureRepo,
		notifications: notificationRepo,
		audits:        auditRepo,
		users:         userRepo,
		mailer:        m,
	}
}

func submitTestSignature(t *testing.T, svc SignatureService) *dto.SignatureResponse {
	t.Helper()
	result, err := svc.Submit(context.Background(), &dto.SubmitSignatureRequest{IndicatorID: 100}, "teacher-001")
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	return result
}

// ── Submit 测试 ──

func TestSignatureService_Submit_Success(t *testing.T) {
	svc, _ := setupTestSignatureService()

	result := submitTestSignature(t, svc)
	if result.Status != model.SignatureStatusPending {
		t.Errorf("期望Status=pending，实际=%s", result.Status)
	}
	if result.AcademicCycleID != 1 {
		t.Errorf("期望盖上活动周期ID=1，实际=%d", result.AcademicCycleID)
	}
	if result.IndicatorTitle != "课堂教学能力" {
		t.Errorf("期望IndicatorTitle=课堂教学能力，实际=%s", result.IndicatorTitle)
	}
}

func TestSignatureService_Submit_IndicatorNotFound(t *testing.T) {
	svc, _ := setupTestSignatureService()

	_, err := svc.Submit(context.Background(), &dto.SubmitSignatureRequest{IndicatorID: 999}, "teacher-001")
	if !errors.Is(err, ErrIndicatorNotFound) {
		t.Errorf("期望 ErrIndicatorNotFound，实际: %v", err)
	}
}

func TestSignatureService_Submit_NotOwner(t *testing.T) {
	svc, _ := setupTestSignatureService()

	_, err := svc.Submit(context.Background(), &dto.SubmitSignatureRequest{IndicatorID: 100}, "teacher-002")
	if !errors.Is(err, ErrNotIndicatorOwner) {
		t.Errorf("期望 ErrNotIndicatorOwner，实际: %v", err)
	}
}

func TestSignatureService_Submit_DuplicatePending(t *testing.T) {
	svc, _ := setupTestSignatureService()
	submitTestSignature(t, svc)

	_, err := svc.Submit(context.Background(), &dto.SubmitSignatureRequest{IndicatorID: 100}, "teacher-001")
	if !errors.Is(err, ErrSignaturePending) {
		t.Errorf("期望 ErrSignaturePending，实际: %v", err)
	}
}

func TestSignatureService_Submit_AfterDecisionCreatesNewRow(t *testing.T) {
	svc, m := setupTestSignatureService()
	first := submitTestSignature(t, svc)

	if _, err := svc.Reject(context.Background(), first.ID, "principal-001", "材料不充分", "10.0.0.1"); err != nil {
		t.Fatalf("Reject 应成功: %v", err)
	}

	second := submitTestSignature(t, svc)
	if second.ID == first.ID {
		t.Error("终审后重新送审应新建签核行，而非复用旧行")
	}
	if m.signatures.signatures[first.ID].Status != model.SignatureStatusRejected {
		t.Error("旧签核行应保持驳回终态")
	}
}

// ── Approve 测试 ──

func TestSignatureService_Approve_Success(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	result, err := svc.Approve(context.Background(), sig.ID, "principal-001", "表现优秀", "10.0.0.1")
	if err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	if result.Status != model.SignatureStatusApproved {
		t.Errorf("期望Status=approved，实际=%s", result.Status)
	}
	if result.PrincipalID == nil || *result.PrincipalID != "principal-001" {
		t.Error("期望记录审批人principal-001")
	}
	if result.SignedAt == nil {
		t.Error("期望写入签核时间")
	}

	stored := m.signatures.signatures[sig.ID]
	if stored.Status != model.SignatureStatusApproved {
		t.Errorf("落库状态应为approved，实际=%s", stored.Status)
	}
}

func TestSignatureService_Approve_WritesAuditLog(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	if _, err := svc.Approve(context.Background(), sig.ID, "principal-001", "同意", "10.0.0.1"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	if len(m.audits.entries) != 1 {
		t.Fatalf("期望1条审计日志，实际=%d", len(m.audits.entries))
	}
	entry := m.audits.entries[0]
	if entry.Action != model.AuditActionApprove {
		t.Errorf("期望Action=APPROVE，实际=%s", entry.Action)
	}
	if entry.ActorID != "principal-001" {
		t.Errorf("期望ActorID=principal-001，实际=%s", entry.ActorID)
	}
	if entry.EntityID != sig.ID {
		t.Errorf("期望EntityID=%d，实际=%d", sig.ID, entry.EntityID)
	}
	if entry.Origin != "10.0.0.1" {
		t.Errorf("期望Origin=10.0.0.1，实际=%s", entry.Origin)
	}
}

func TestSignatureService_Approve_NotifiesTeacher(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	if _, err := svc.Approve(context.Background(), sig.ID, "principal-001", "", "10.0.0.1"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	notifs, _ := m.notifications.ListByUser(context.Background(), "teacher-001", false)
	if len(notifs) != 1 {
		t.Fatalf("期望1条通知，实际=%d", len(notifs))
	}
	if notifs[0].Type != model.NotificationTypeSuccess {
		t.Errorf("期望通知Type=success，实际=%s", notifs[0].Type)
	}

	if len(m.mailer.sent) != 1 {
		t.Fatalf("教师有邮箱，期望发送1封邮件，实际=%d", len(m.mailer.sent))
	}
	if m.mailer.sent[0].To != "zhang@school.example.cn" {
		t.Errorf("期望收件人=zhang@school.example.cn，实际=%s", m.mailer.sent[0].To)
	}
}

func TestSignatureService_Approve_NoEmailWhenTeacherHasNone(t *testing.T) {
	svc, m := setupTestSignatureService()
	m.users.users["teacher-001"].Email = ""
	sig := submitTestSignature(t, svc)

	if _, err := svc.Approve(context.Background(), sig.ID, "principal-001", "", "10.0.0.1"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	if len(m.mailer.sent) != 0 {
		t.Errorf("教师无邮箱时不应发邮件，实际发送=%d", len(m.mailer.sent))
	}
}

func TestSignatureService_Approve_NotFound(t *testing.T) {
	svc, _ := setupTestSignatureService()

	_, err := svc.Approve(context.Background(), 999, "principal-001", "", "10.0.0.1")
	if !errors.Is(err, ErrSignatureNotFound) {
		t.Errorf("期望 ErrSignatureNotFound，实际: %v", err)
	}
}

func TestSignatureService_Approve_AlreadyDecided(t *testing.T) {
	svc, _ := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	if _, err := svc.Approve(context.Background(), sig.ID, "principal-001", "", "10.0.0.1"); err != nil {
		t.Fatalf("首次 Approve 应成功: %v", err)
	}

	// 终态不可再迁移，批准和驳回都被拒绝
	if _, err := svc.Approve(context.Background(), sig.ID, "principal-002", "", "10.0.0.1"); !errors.Is(err, ErrSignatureDecided) {
		t.Errorf("期望 ErrSignatureDecided，实际: %v", err)
	}
	if _, err := svc.Reject(context.Background(), sig.ID, "principal-002", "想改主意", "10.0.0.1"); !errors.Is(err, ErrSignatureDecided) {
		t.Errorf("期望 ErrSignatureDecided，实际: %v", err)
	}
}

func TestSignatureService_Approve_EffectFailuresDoNotFailDecision(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	// 三路侧效应全部失败，审批决定依旧提交
	m.audits.createErr = errors.New("审计库不可用")
	m.notifications.createErr = errors.New("通知库不可用")
	m.mailer.sendErr = errors.New("SMTP 不可用")

	result, err := svc.Approve(context.Background(), sig.ID, "principal-001", "", "10.0.0.1")
	if err != nil {
		t.Fatalf("侧效应失败不应影响审批: %v", err)
	}
	if result.Status != model.SignatureStatusApproved {
		t.Errorf("期望Status=approved，实际=%s", result.Status)
	}
	if m.signatures.signatures[sig.ID].Status != model.SignatureStatusApproved {
		t.Error("落库状态应为approved")
	}
}

// ── Reject 测试 ──

func TestSignatureService_Reject_Success(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	result, err := svc.Reject(context.Background(), sig.ID, "principal-001", "佐证材料不足，请补充", "10.0.0.1")
	if err != nil {
		t.Fatalf("Reject 应成功: %v", err)
	}
	if result.Status != model.SignatureStatusRejected {
		t.Errorf("期望Status=rejected，实际=%s", result.Status)
	}
	if result.Notes == nil || *result.Notes != "佐证材料不足，请补充" {
		t.Error("期望记录驳回意见")
	}

	notifs, _ := m.notifications.ListByUser(context.Background(), "teacher-001", false)
	if len(notifs) != 1 {
		t.Fatalf("期望1条通知，实际=%d", len(notifs))
	}
	if notifs[0].Type != model.NotificationTypeError {
		t.Errorf("期望通知Type=error，实际=%s", notifs[0].Type)
	}
	if !strings.Contains(notifs[0].Content, "佐证材料不足") {
		t.Error("通知内容应包含驳回意见")
	}

	if len(m.audits.entries) != 1 || m.audits.entries[0].Action != model.AuditActionReject {
		t.Error("期望写入REJECT审计日志")
	}
}

func TestSignatureService_Reject_NotesRequired(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	for _, notes := range []string{"", "   ", "\t\n"} {
		_, err := svc.Reject(context.Background(), sig.ID, "principal-001", notes, "10.0.0.1")
		if !errors.Is(err, ErrNotesRequired) {
			t.Errorf("意见=%q 期望 ErrNotesRequired，实际: %v", notes, err)
		}
	}

	// 校验失败不产生任何改动
	stored := m.signatures.signatures[sig.ID]
	if stored.Status != model.SignatureStatusPending {
		t.Errorf("签核状态不应被改动，实际=%s", stored.Status)
	}
	if stored.PrincipalID != nil || stored.SignedAt != nil {
		t.Error("审批人与签核时间不应被写入")
	}
	if len(m.audits.entries) != 0 {
		t.Errorf("不应写入审计日志，实际=%d", len(m.audits.entries))
	}
	if len(m.notifications.notifications) != 0 {
		t.Errorf("不应产生通知，实际=%d", len(m.notifications.notifications))
	}
}

// ── ListMine / List 测试 ──

func TestSignatureService_ListMine_OnlyCurrentCycle(t *testing.T) {
	svc, m := setupTestSignatureService()
	submitTestSignature(t, svc)

	// 旧周期的历史签核不应出现
	m.signatures.signatures[50] = &model.Signature{
		SignatureID:     50,
		IndicatorID:     100,
		TeacherID:       "teacher-001",
		AcademicCycleID: 99,
		Status:          model.SignatureStatusApproved,
		SubmittedAt:     time.Now(),
	}

	result, err := svc.ListMine(context.Background(), "teacher-001")
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("期望1条当前周期签核，实际=%d", len(result))
	}
}

func TestSignatureService_List_FilterByStatus(t *testing.T) {
	svc, m := setupTestSignatureService()
	sig := submitTestSignature(t, svc)
	if _, err := svc.Approve(context.Background(), sig.ID, "principal-001", "", "10.0.0.1"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	// 再挂一条待审
	m.indicators.indicators[101] = &model.Indicator{
		IndicatorID:     101,
		UserID:          "teacher-001",
		AcademicCycleID: 1,
		Title:           "专业发展能力",
		Type:            model.IndicatorTypeCompetency,
	}
	if _, err := svc.Submit(context.Background(), &dto.SubmitSignatureRequest{IndicatorID: 101}, "teacher-001"); err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}

	pending := model.SignatureStatusPending
	result, err := svc.List(context.Background(), &pending)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望1条待审签核，实际=%d", len(result))
	}
	if result[0].IndicatorID != 101 {
		t.Errorf("期望待审签核指向指标101，实际=%d", result[0].IndicatorID)
	}

	all, err := svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("不过滤时期望2条签核，实际=%d", len(all))
	}
}

func TestSignatureService_AuditTrail(t *testing.T) {
	svc, _ := setupTestSignatureService()
	sig := submitTestSignature(t, svc)
	if _, err := svc.Approve(context.Background(), sig.ID, "principal-001", "表现优秀", "10.0.0.1"); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	trail, err := svc.AuditTrail(context.Background(), sig.ID)
	if err != nil {
		t.Fatalf("AuditTrail 应成功: %v", err)
	}
	if len(trail) != 1 {
		t.Fatalf("期望1条审计记录，实际=%d", len(trail))
	}
	entry := trail[0]
	if entry.Action != model.AuditActionApprove {
		t.Errorf("期望动作 APPROVE，实际=%s", entry.Action)
	}
	if entry.ActorID != "principal-001" {
		t.Errorf("期望操作人 principal-001，实际=%s", entry.ActorID)
	}
	if entry.Origin != "10.0.0.1" {
		t.Errorf("期望来源 10.0.0.1，实际=%s", entry.Origin)
	}
	if entry.Details != "表现优秀" {
		t.Errorf("期望批注记入审计详情，实际=%q", entry.Details)
	}
}

func TestSignatureService_AuditTrail_NotFound(t *testing.T) {
	svc, _ := setupTestSignatureService()

	_, err := svc.AuditTrail(context.Background(), 999)
	if !errors.Is(err, ErrSignatureNotFound) {
		t.Errorf("期望 ErrSignatureNotFound，实际=%v", err)
	}
}

func TestSignatureService_AuditTrail_EmptyBeforeDecision(t *testing.T) {
	svc, _ := setupTestSignatureService()
	sig := submitTestSignature(t, svc)

	trail, err := svc.AuditTrail(context.Background(), sig.ID)
	if err != nil {
		t.Fatalf("AuditTrail 应成功: %v", err)
	}
	if len(trail) != 0 {
		t.Errorf("终审前不应有审计记录，实际=%d", len(trail))
	}
}
