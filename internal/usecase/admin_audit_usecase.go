package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 監査ログの読み取り側。書き込みはAuditSink経由でしか起きない。
type AdminAuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAdminAuditUsecase(auditRepo repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{auditRepo: auditRepo}
}

type AdminAuditListInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	Limit        int
	Offset       int
}

// 監査ログを新しい順に返す
func (u *AdminAuditUsecase) List(ctx context.Context, actorAdminUserID int64, in AdminAuditListInput) ([]model.AuditLog, error) {
	if actorAdminUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Limit < 0 || in.Limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if s := strings.TrimSpace(in.Action); s != "" {
		a := model.AuditAction(strings.ToUpper(s))
		f.Action = &a
	}
	if s := strings.TrimSpace(in.ResourceType); s != "" {
		rt := model.AuditResourceType(strings.ToLower(s))
		f.ResourceType = &rt
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
