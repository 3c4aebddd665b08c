package job

import (
	"Inkstone/internal/pkg/logger"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// CountAuditJob 每日审计冗余计数。正常路径下计数与集合在同一次
// 原子写入中维护，这里兜底修复历史数据或人工改库造成的漂移
type CountAuditJob struct {
	postRepo repository.PostRepo
}

func NewCountAuditJob(postRepo repository.PostRepo) *CountAuditJob {
	return &CountAuditJob{
		postRepo: postRepo,
	}
}

func (s *CountAuditJob) Run() {
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, "job-"+uuid.NewString())
	log.InfoContext(ctx, "count audit job started")

	ids, err := s.postRepo.FindDriftedPostIds(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to scan drifted posts", "err", err)
		return
	}
	if len(ids) == 0 {
		log.InfoContext(ctx, "count audit job finished", "repaired", 0)
		return
	}

	repaired := 0
	for _, id := range ids {
		if err := s.postRepo.RepairCounts(ctx, id); err != nil {
			log.ErrorContext(ctx, "failed to repair post counts", "post_id", id.Hex(), "err", err)
			continue
		}
		repaired++
	}
	log.InfoContext(ctx, "count audit job finished", "drifted", len(ids), "repaired", repaired)
}
