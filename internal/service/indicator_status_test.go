package service

import (
	"testing"

	"edu-eval/backend/internal/model"
)

func criteriaWith(completed ...bool) []model.Criteria {
	items := make([]model.Criteria, 0, len(completed))
	for i, c := range completed {
		items = append(items, model.Criteria{
			CriteriaID:  int64(i + 1),
			IndicatorID: 1,
			IsCompleted: c,
		})
	}
	return items
}

func TestDeriveIndicatorStatus(t *testing.T) {
	tests := []struct {
		name     string
		criteria []model.Criteria
		want     string
	}{
		{"无细则", nil, model.StatusPending},
		{"空切片", []model.Criteria{}, model.StatusPending},
		{"全部未完成", criteriaWith(false, false, false), model.StatusPending},
		{"部分完成", criteriaWith(true, false), model.StatusInProgress},
		{"仅一条且未完成", criteriaWith(false), model.StatusPending},
		{"仅一条且完成", criteriaWith(true), model.StatusCompleted},
		{"全部完成", criteriaWith(true, true, true), model.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveIndicatorStatus(tt.criteria)
			if got != tt.want {
				t.Errorf("期望status=%s，实际=%s", tt.want, got)
			}
		})
	}
}
