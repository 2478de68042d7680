package usecase

import (
	"context"

	"app/internal/domain/model"
)

// 監査の記録先。ベストエフォートでerrorを返さない。
// 実装はinternal/infra/audit（失敗は自分でログに残す）。
type AuditSink interface {
	Record(ctx context.Context, log model.AuditLog)
}
