package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"edu-eval/backend/internal/dto"
	"edu-eval/backend/internal/service"
	"edu-eval/backend/pkg/response"
)

// SignatureHandler 签核模块 HTTP 处理器
type SignatureHandler struct {
	signatureSvc service.SignatureService
}

// NewSignatureHandler 创建 SignatureHandler
func NewSignatureHandler(signatureSvc service.SignatureService) *SignatureHandler {
	return &SignatureHandler{signatureSvc: signatureSvc}
}

// Submit 教师送审指标
// POST /api/v1/signatures
func (h *SignatureHandler) Submit(c *gin.Context) {
	var req dto.SubmitSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	signature, err := h.signatureSvc.Submit(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleSignatureError(c, err)
		return
	}

	response.Created(c, signature)
}

// ListMine 当前教师的签核记录
// GET /api/v1/my-signatures
func (h *SignatureHandler) ListMine(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	signatures, err := h.signatureSvc.ListMine(c.Request.Context(), teacherID)
	if err != nil {
		h.handleSignatureError(c, err)
		return
	}

	response.OK(c, gin.H{"list": signatures})
}

// List 当前周期全部签核记录（校长/管理员）
// GET /api/v1/signatures?status=pending
func (h *SignatureHandler) List(c *gin.Context) {
	var status *string
	if q := c.Query("status"); q != "" {
		if q != "pending" && q != "approved" && q != "rejected" {
			response.BadRequest(c, 10001, "status 参数无效")
			return
		}
		status = &q
	}

	signatures, err := h.signatureSvc.List(c.Request.Context(), status)
	if err != nil {
		h.handleSignatureError(c, err)
		return
	}

	response.OK(c, gin.H{"list": signatures})
}

// Approve 批准签核（校长/管理员）
// POST /api/v1/signatures/:id/approve
func (h *SignatureHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ApproveSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	principalID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	signature, err := h.signatureSvc.Approve(c.Request.Context(), id, principalID, req.Notes, c.ClientIP())
	if err != nil {
		h.handleSignatureError(c, err)
		return
	}

	response.OK(c, signature)
}

// Reject 驳回签核，意见必填（校长/管理员）
// POST /api/v1/signatures/:id/reject
func (h *SignatureHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16004, "驳回必须填写意见")
		return
	}

	principalID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	signature, err := h.signatureSvc.Reject(c.Request.Context(), id, principalID, req.Notes, c.ClientIP())
	if err != nil {
		h.handleSignatureError(c, err)
		return
	}

	response.OK(c, signature)
}

// AuditTrail 签核的终审审计轨迹（校长/管理员）
// GET /api/v1/signatures/:id/audit-logs
func (h *SignatureHandler) AuditTrail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.signatureSvc.AuditTrail(c.Request.Context(), id)
	if err != nil {
		h.handleSignatureError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// handleSignatureError 统一处理签核模块业务错误
func (h *SignatureHandler) handleSignatureError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSignatureNotFound):
		response.NotFound(c, 16001, "签核记录不存在")
	case errors.Is(err, service.ErrSignaturePending):
		response.BadRequest(c, 16002, "该指标已有待审签核，请等待审批结果")
	case errors.Is(err, service.ErrSignatureDecided):
		response.BadRequest(c, 16003, "签核已有终审结果，不可再次操作")
	case errors.Is(err, service.ErrNotesRequired):
		response.BadRequest(c, 16004, "驳回必须填写意见")
	case errors.Is(err, service.ErrIndicatorNotFound):
		response.NotFound(c, 15001, "绩效指标不存在")
	case errors.Is(err, service.ErrNotIndicatorOwner):
		response.Forbidden(c, 15004, "只能送审本人的绩效指标")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/signature_handler.go
