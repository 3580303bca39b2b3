package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"edu-eval/backend/internal/dto"
	"edu-eval/backend/internal/model"
	"edu-eval/backend/internal/service"
	"edu-eval/backend/pkg/response"
)

// IndicatorHandler 绩效指标模块 HTTP 处理器
type IndicatorHandler struct {
	indicatorSvc service.IndicatorService
}

// NewIndicatorHandler 创建 IndicatorHandler
func NewIndicatorHandler(indicatorSvc service.IndicatorService) *IndicatorHandler {
	return &IndicatorHandler{indicatorSvc: indicatorSvc}
}

// ListIndicators 获取当前周期的指标列表
// GET /api/v1/indicators?user_id=xxx
// 教师只能看到自己的指标；校长/管理员可按 user_id 过滤或查看全部
func (h *IndicatorHandler) ListIndicators(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	var userID *string
	if callerRole == model.RoleTeacher {
		userID = &callerID
	} else if q := c.Query("user_id"); q != "" {
		userID = &q
	}

	indicators, err := h.indicatorSvc.List(c.Request.Context(), userID)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, gin.H{"list": indicators})
}

// CreateIndicator 创建指标（归属当前活动周期）
// POST /api/v1/indicators
func (h *IndicatorHandler) CreateIndicator(c *gin.Context) {
	var req dto.CreateIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	indicator, err := h.indicatorSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.Created(c, indicator)
}

// SeedDefaultIndicators 为当前用户在当前周期生成默认指标集（幂等）
// POST /api/v1/indicators/defaults
func (h *IndicatorHandler) SeedDefaultIndicators(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	indicators, err := h.indicatorSvc.SeedDefaults(c.Request.Context(), callerID)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, gin.H{"list": indicators})
}

// UpdateIndicator 更新指标
// PATCH /api/v1/indicators/:id
func (h *IndicatorHandler) UpdateIndicator(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	indicator, err := h.indicatorSvc.Update(c.Request.Context(), id, &req, callerID, callerRole)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, indicator)
}

// DeleteIndicator 删除指标
// DELETE /api/v1/indicators/:id
func (h *IndicatorHandler) DeleteIndicator(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.indicatorSvc.Delete(c.Request.Context(), id, callerID, callerRole); err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleCriteria 切换细则完成状态（指标状态随之重新推导）
// PATCH /api/v1/indicators/:id/criteria/:criteriaId
func (h *IndicatorHandler) ToggleCriteria(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	criteriaID, ok := parseIDParam(c, "criteriaId")
	if !ok {
		return
	}

	var req dto.ToggleCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	indicator, err := h.indicatorSvc.ToggleCriteria(c.Request.Context(), id, criteriaID, *req.IsCompleted, callerID)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, indicator)
}

// CreateWitness 为指标新增佐证材料
// POST /api/v1/indicators/:id/witnesses
func (h *IndicatorHandler) CreateWitness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateWitnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	witness, err := h.indicatorSvc.CreateWitness(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.Created(c, witness)
}

// DeleteWitness 删除佐证材料
// DELETE /api/v1/witnesses/:id
func (h *IndicatorHandler) DeleteWitness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.indicatorSvc.DeleteWitness(c.Request.Context(), id, callerID, callerRole); err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, nil)
}

// ReEvaluate 批量重置指标评价（逐个处理，部分失败不影响其余）
// POST /api/v1/indicators/re-evaluate
func (h *IndicatorHandler) ReEvaluate(c *gin.Context) {
	var req dto.ReEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.indicatorSvc.ReEvaluate(c.Request.Context(), req.IndicatorIDs, callerID, callerRole)
	if err != nil {
		h.handleIndicatorError(c, err)
		return
	}

	response.OK(c, result)
}

// handleIndicatorError 统一处理绩效指标模块业务错误
func (h *IndicatorHandler) handleIndicatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIndicatorNotFound):
		response.NotFound(c, 15001, "绩效指标不存在")
	case errors.Is(err, service.ErrCriteriaNotFound):
		response.NotFound(c, 15002, "评价细则不存在")
	case errors.Is(err, service.ErrWitnessNotFound):
		response.NotFound(c, 15003, "佐证材料不存在")
	case errors.Is(err, service.ErrNotIndicatorOwner):
		response.Forbidden(c, 15004, "只能操作本人的绩效指标")
	case errors.Is(err, service.ErrEvidenceRequired):
		response.BadRequest(c, 15005, "佐证材料需提供文件或外部链接")
	case errors.Is(err, service.ErrCriteriaMismatch):
		response.BadRequest(c, 15006, "评价细则不属于该指标")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/indicator_handler.go
