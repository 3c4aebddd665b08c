package service

import (
	"Inkstone/internal/model"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
)

// lookupUsersByIds 批量查询用户展示信息。
// 查询失败只降级为空映射，调用方回退冗余字段或默认值，不让读请求失败
func lookupUsersByIds(ctx context.Context, userRepo repository.UserRepo, ids []uint64) map[uint64]*model.User {
	userMap := make(map[uint64]*model.User)
	if len(ids) == 0 {
		return userMap
	}

	seen := make(map[uint64]struct{}, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := userRepo.GetUserByIds(ctx, unique)
	if err != nil {
		log.WarnContext(ctx, "failed to look up user display info", "err", err)
		return userMap
	}
	for _, u := range users {
		userMap[u.ID] = u
	}
	return userMap
}
