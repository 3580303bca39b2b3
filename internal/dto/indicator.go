package dto

// ── 绩效指标模块 DTO ──

// CreateIndicatorRequest 创建指标请求
// Domain 仅对 competency 有意义，TargetOutput 仅对 goal 有意义
type CreateIndicatorRequest struct {
	Title        string                  `json:"title"         binding:"required,min=2,max=255"`
	Description  *string                 `json:"description"`
	Type         string                  `json:"type"          binding:"required,oneof=goal competency"`
	Weight       int                     `json:"weight"        binding:"min=0,max=100"`
	Domain       *string                 `json:"domain"        binding:"omitempty,max=100"`
	TargetOutput *string                 `json:"target_output" binding:"omitempty,max=255"`
	SortOrder    int                     `json:"sort_order"`
	Criteria     []CreateCriteriaRequest `json:"criteria"      binding:"omitempty,dive"`
}

// CreateCriteriaRequest 随指标一并创建的细则
type CreateCriteriaRequest struct {
	Title     string `json:"title" binding:"required,min=2,max=255"`
	SortOrder int    `json:"sort_order"`
}

// UpdateIndicatorRequest 更新指标请求（周期归属不可修改）
type UpdateIndicatorRequest struct {
	Title        *string `json:"title"         binding:"omitempty,min=2,max=255"`
	Description  *string `json:"description"`
	Weight       *int    `json:"weight"        binding:"omitempty,min=0,max=100"`
	Domain       *string `json:"domain"        binding:"omitempty,max=100"`
	TargetOutput *string `json:"target_output" binding:"omitempty,max=255"`
	SortOrder    *int    `json:"sort_order"`
}

// ToggleCriteriaRequest 细则完成状态切换请求
type ToggleCriteriaRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// CreateWitnessRequest 新增佐证材料请求
// FileKey 与 ExternalLink 至少其一必填（服务层校验）
type CreateWitnessRequest struct {
	Title        string  `json:"title"         binding:"required,min=2,max=255"`
	Description  *string `json:"description"`
	CriteriaID   *int64  `json:"criteria_id"`
	FileKey      *string `json:"file_key"      binding:"omitempty,max=512"`
	ExternalLink *string `json:"external_link" binding:"omitempty,url,max=1024"`
}

// ReEvaluateRequest 批量重新评价请求
type ReEvaluateRequest struct {
	IndicatorIDs []int64 `json:"indicator_ids" binding:"required,min=1"`
}

// ReEvaluateResponse 批量重新评价结果
// 逐个处理：Reset 为已重置成功的指标，Failed 逐条说明失败原因
type ReEvaluateResponse struct {
	Reset  []int64             `json:"reset"`
	Failed []ReEvaluateFailure `json:"failed"`
}

// ReEvaluateFailure 单个指标重置失败详情
type ReEvaluateFailure struct {
	IndicatorID int64  `json:"indicator_id"`
	Reason      string `json:"reason"`
}

// CriteriaResponse 细则响应
type CriteriaResponse struct {
	ID          int64  `json:"id"`
	IndicatorID int64  `json:"indicator_id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	SortOrder   int    `json:"sort_order"`
}

// WitnessResponse 佐证材料响应
type WitnessResponse struct {
	ID           int64   `json:"id"`
	IndicatorID  int64   `json:"indicator_id"`
	CriteriaID   *int64  `json:"criteria_id,omitempty"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	FileKey      *string `json:"file_key,omitempty"`
	ExternalLink *string `json:"external_link,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// IndicatorResponse 指标响应（含有序的细则与佐证）
type IndicatorResponse struct {
	ID              int64              `json:"id"`
	UserID          string             `json:"user_id"`
	AcademicCycleID int64              `json:"academic_cycle_id"`
	Title           string             `json:"title"`
	Description     *string            `json:"description,omitempty"`
	Type            string             `json:"type"`
	Weight          int                `json:"weight"`
	Domain          *string            `json:"domain,omitempty"`
	TargetOutput    *string            `json:"target_output,omitempty"`
	Status          string             `json:"status"`
	WitnessCount    int                `json:"witness_count"`
	SortOrder       int                `json:"sort_order"`
	Criteria        []CriteriaResponse `json:"criteria"`
	Witnesses       []WitnessResponse  `json:"witnesses"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

// [自证通过] internal/dto/indicator.go
