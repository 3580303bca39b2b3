package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"edu-eval/backend/internal/model"
	pkgerrors "edu-eval/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	idCounter int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.idCounter++
		user.UserID = fmt.Sprintf("user-%d", m.idCounter)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeNo == employeeNo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role *string, keyword string, page, pageSize int) ([]model.User, int64, error) {
	var filtered []model.User
	for _, u := range m.users {
		if role != nil && u.Role != *role {
			continue
		}
		if keyword != "" && !strings.Contains(u.Name, keyword) && !strings.Contains(u.EmployeeNo, keyword) {
			continue
		}
		filtered = append(filtered, *u)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].EmployeeNo < filtered[j].EmployeeNo })

	total := int64(len(filtered))
	offset := (page - 1) * pageSize
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock AcademicCycleRepository ──

type mockAcademicCycleRepo struct {
	cycles          map[int64]*model.AcademicCycle
	idCounter       int64
	createErr       error // 非空时 Create 直接失败（故障注入）
	getActiveMisses int   // >0 时 GetActive 先返回未找到（模拟并发窗口）
}

func newMockAcademicCycleRepo() *mockAcademicCycleRepo {
	return &mockAcademicCycleRepo{cycles: make(map[int64]*model.AcademicCycle)}
}

func (m *mockAcademicCycleRepo) Create(_ context.Context, cycle *model.AcademicCycle) error {
	if m.createErr != nil {
		return m.createErr
	}
	// 活动周期部分唯一索引：已有活动周期时再插入活动行冲突
	if cycle.IsActive {
		for _, c := range m.cycles {
			if c.IsActive {
				return pkgerrors.ErrUniqueActiveCycle
			}
		}
	}
	if cycle.CycleID == 0 {
		m.idCounter++
		cycle.CycleID = m.idCounter
	}
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockAcademicCycleRepo) GetByID(_ context.Context, id int64) (*model.AcademicCycle, error) {
	if c, ok := m.cycles[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicCycleRepo) GetActive(_ context.Context) (*model.AcademicCycle, error) {
	if m.getActiveMisses > 0 {
		m.getActiveMisses--
		return nil, gorm.ErrRecordNotFound
	}
	for _, c := range m.cycles {
		if c.IsActive {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicCycleRepo) List(_ context.Context) ([]model.AcademicCycle, error) {
	var result []model.AcademicCycle
	for _, c := range m.cycles {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CycleID < result[j].CycleID })
	return result, nil
}

func (m *mockAcademicCycleRepo) Update(_ context.Context, cycle *model.AcademicCycle) error {
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockAcademicCycleRepo) ClearActive(_ context.Context) error {
	for _, c := range m.cycles {
		c.IsActive = false
	}
	return nil
}

// ── Mock IndicatorRepository ──

// mockIndicatorRepo 持有细则 / 佐证 mock 的引用，
// GetByIDWithChildren 从中装配关联，模拟 Preload
type mockIndicatorRepo struct {
	indicators map[int64]*model.Indicator
	idCounter  int64
	criteria   *mockCriteriaRepo
	witnesses  *mockWitnessRepo
}

func newMockIndicatorRepo(criteria *mockCriteriaRepo, witnesses *mockWitnessRepo) *mockIndicatorRepo {
	return &mockIndicatorRepo{
		indicators: make(map[int64]*model.Indicator),
		criteria:   criteria,
		witnesses:  witnesses,
	}
}

func (m *mockIndicatorRepo) Create(_ context.Context, indicator *model.Indicator) error {
	if indicator.IndicatorID == 0 {
		m.idCounter++
		indicator.IndicatorID = m.idCounter
	}
	m.indicators[indicator.IndicatorID] = indicator
	return nil
}

func (m *mockIndicatorRepo) GetByID(_ context.Context, id int64) (*model.Indicator, error) {
	if ind, ok := m.indicators[id]; ok {
		return ind, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIndicatorRepo) GetByIDWithChildren(ctx context.Context, id int64) (*model.Indicator, error) {
	ind, ok := m.indicators[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ind
	cp.Criteria, _ = m.criteria.ListByIndicator(ctx, id)
	cp.Witnesses = m.witnesses.listByIndicator(id)
	return &cp, nil
}

func (m *mockIndicatorRepo) ListByCycle(ctx context.Context, cycleID int64, userID *string) ([]model.Indicator, error) {
	var result []model.Indicator
	for _, ind := range m.indicators {
		if ind.AcademicCycleID != cycleID {
			continue
		}
		if userID != nil && ind.UserID != *userID {
			continue
		}
		full, _ := m.GetByIDWithChildren(ctx, ind.IndicatorID)
		result = append(result, *full)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockIndicatorRepo) CountByUserAndCycle(_ context.Context, userID string, cycleID int64) (int64, error) {
	var n int64
	for _, ind := range m.indicators {
		if ind.UserID == userID && ind.AcademicCycleID == cycleID {
			n++
		}
	}
	return n, nil
}

func (m *mockIndicatorRepo) Update(_ context.Context, indicator *model.Indicator) error {
	m.indicators[indicator.IndicatorID] = indicator
	return nil
}

func (m *mockIndicatorRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	ind, ok := m.indicators[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ind.Status = status
	return nil
}

func (m *mockIndicatorRepo) UpdateWitnessCount(_ context.Context, id int64, count int) error {
	ind, ok := m.indicators[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ind.WitnessCount = count
	return nil
}

func (m *mockIndicatorRepo) ResetEvaluation(_ context.Context, id int64) error {
	ind, ok := m.indicators[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ind.Status = model.StatusPending
	ind.WitnessCount = 0
	return nil
}

func (m *mockIndicatorRepo) Delete(_ context.Context, id int64) error {
	delete(m.indicators, id)
	return nil
}

// ── Mock CriteriaRepository ──

type mockCriteriaRepo struct {
	items     map[int64]*model.Criteria
	idCounter int64
	resetErr  error // 非空时 ResetByIndicator 失败（事务回滚路径）
}

func newMockCriteriaRepo() *mockCriteriaRepo {
	return &mockCriteriaRepo{items: make(map[int64]*model.Criteria)}
}

func (m *mockCriteriaRepo) CreateBatch(_ context.Context, items []model.Criteria) error {
	for i := range items {
		if items[i].CriteriaID == 0 {
			m.idCounter++
			items[i].CriteriaID = m.idCounter
		}
		cp := items[i]
		m.items[cp.CriteriaID] = &cp
	}
	return nil
}

func (m *mockCriteriaRepo) GetByID(_ context.Context, id int64) (*model.Criteria, error) {
	if c, ok := m.items[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCriteriaRepo) ListByIndicator(_ context.Context, indicatorID int64) ([]model.Criteria, error) {
	var result []model.Criteria
	for _, c := range m.items {
		if c.IndicatorID == indicatorID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockCriteriaRepo) UpdateCompletion(_ context.Context, id int64, isCompleted bool) error {
	c, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsCompleted = isCompleted
	return nil
}

func (m *mockCriteriaRepo) ResetByIndicator(_ context.Context, indicatorID int64) error {
	if m.resetErr != nil {
		return m.resetErr
	}
	for _, c := range m.items {
		if c.IndicatorID == indicatorID {
			c.IsCompleted = false
		}
	}
	return nil
}

func (m *mockCriteriaRepo) DeleteByIndicator(_ context.Context, indicatorID int64) error {
	for id, c := range m.items {
		if c.IndicatorID == indicatorID {
			delete(m.items, id)
		}
	}
	return nil
}

// ── Mock WitnessRepository ──

type mockWitnessRepo struct {
	witnesses map[int64]*model.Witness
	idCounter int64
}

func newMockWitnessRepo() *mockWitnessRepo {
	return &mockWitnessRepo{witnesses: make(map[int64]*model.Witness)}
}

func (m *mockWitnessRepo) Create(_ context.Context, witness *model.Witness) error {
	if witness.WitnessID == 0 {
		m.idCounter++
		witness.WitnessID = m.idCounter
	}
	m.witnesses[witness.WitnessID] = witness
	return nil
}

func (m *mockWitnessRepo) GetByID(_ context.Context, id int64) (*model.Witness, error) {
	if w, ok := m.witnesses[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWitnessRepo) CountByIndicator(_ context.Context, indicatorID int64) (int64, error) {
	var n int64
	for _, w := range m.witnesses {
		if w.IndicatorID == indicatorID {
			n++
		}
	}
	return n, nil
}

func (m *mockWitnessRepo) Delete(_ context.Context, id int64) error {
	delete(m.witnesses, id)
	return nil
}

func (m *mockWitnessRepo) DeleteByIndicator(_ context.Context, indicatorID int64) error {
	for id, w := range m.witnesses {
		if w.IndicatorID == indicatorID {
			delete(m.witnesses, id)
		}
	}
	return nil
}

func (m *mockWitnessRepo) listByIndicator(indicatorID int64) []model.Witness {
	var result []model.Witness
	for _, w := range m.witnesses {
		if w.IndicatorID == indicatorID {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WitnessID < result[j].WitnessID })
	return result
}

// ── Mock SignatureRepository ──

type mockSignatureRepo struct {
	signatures map[int64]*model.Signature
	idCounter  int64
}

func newMockSignatureRepo() *mockSignatureRepo {
	return &mockSignatureRepo{signatures: make(map[int64]*model.Signature)}
}

func (m *mockSignatureRepo) Create(_ context.Context, signature *model.Signature) error {
	if signature.SignatureID == 0 {
		m.idCounter++
		signature.SignatureID = m.idCounter
	}
	m.signatures[signature.SignatureID] = signature
	return nil
}

func (m *mockSignatureRepo) GetByID(_ context.Context, id int64) (*model.Signature, error) {
	if s, ok := m.signatures[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSignatureRepo) ListByTeacher(_ context.Context, teacherID string, cycleID int64) ([]model.Signature, error) {
	var result []model.Signature
	for _, s := range m.signatures {
		if s.TeacherID == teacherID && s.AcademicCycleID == cycleID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SignatureID < result[j].SignatureID })
	return result, nil
}

func (m *mockSignatureRepo) List(_ context.Context, cycleID int64, status *string) ([]model.Signature, error) {
	var result []model.Signature
	for _, s := range m.signatures {
		if s.AcademicCycleID != cycleID {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SignatureID < result[j].SignatureID })
	return result, nil
}

func (m *mockSignatureRepo) HasPending(_ context.Context, indicatorID int64) (bool, error) {
	for _, s := range m.signatures {
		if s.IndicatorID == indicatorID && s.Status == model.SignatureStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSignatureRepo) Update(_ context.Context, signature *model.Signature) error {
	if _, ok := m.signatures[signature.SignatureID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.signatures[signature.SignatureID] = signature
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[int64]*model.Notification
	idCounter     int64
	createErr     error // 非空时 Create 失败（侧效应降级路径）
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[int64]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	if notification.NotificationID == 0 {
		m.idCounter++
		notification.NotificationID = m.idCounter
	}
	m.notifications[notification.NotificationID] = notification
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NotificationID > result[j].NotificationID })
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id int64, userID string) (int64, error) {
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return 0, nil
	}
	n.IsRead = true
	return 1, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	entries   []model.AuditLog
	createErr error // 非空时 Create 失败（侧效应降级路径）
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	entry.AuditLogID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditLogRepo) ListByEntity(_ context.Context, entityType string, entityID int64) ([]model.AuditLog, error) {
	var result []model.AuditLog
	for _, e := range m.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock Mailer ──

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	sent    []sentMail
	sendErr error // 非空时 Send 失败（侧效应降级路径）
}

func newMockMailer() *mockMailer {
	return &mockMailer{}
}

func (m *mockMailer) Send(to, subject, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}
