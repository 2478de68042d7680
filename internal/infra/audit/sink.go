package audit

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
)

// 監査の記録先。errorを返さないのが約束で、
// 失敗しても本体の書き込みを巻き戻さない（ログに残すだけ）。
type Sink interface {
	Record(ctx context.Context, log model.AuditLog)
}

type repoSink struct {
	repo   repo.AuditLogRepository
	logger zerolog.Logger
}

// DI
func NewRepoSink(r repo.AuditLogRepository, logger zerolog.Logger) Sink {
	return &repoSink{repo: r, logger: logger}
}

func (s *repoSink) Record(ctx context.Context, log model.AuditLog) {
	if err := s.repo.Create(ctx, log); err != nil {
		//ベストエフォート。落とすのはログだけで処理は続行
		s.logger.Error().
			Err(err).
			Str("action", string(log.Action)).
			Str("resource_type", string(log.ResourceType)).
			Int64("resource_id", log.ResourceID).
			Int64("actor_user_id", log.ActorUserID).
			Msg("audit record failed")
	}
}
