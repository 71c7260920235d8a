package job

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const reconcileLockTTL = 5 * time.Minute

// CounterReconcileJob 按 interactions 重算被标记为脏的帖子/评论点赞数
type CounterReconcileJob struct {
	interactionSvc service.InteractionService
}

func NewCounterReconcileJob(interactionSvc service.InteractionService) *CounterReconcileJob {
	return &CounterReconcileJob{interactionSvc: interactionSvc}
}

func (s *CounterReconcileJob) Run() {
	traceID := "job-counter-reconcile-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	ok, err := redis.TryLock(ctx, consts.CounterReconcileLock, traceID, reconcileLockTTL, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire reconcile lock error", "err", err)
		return
	}
	if !ok {
		log.InfoContext(ctx, "counter reconcile is running elsewhere, skip")
		return
	}
	defer redis.UnLock(ctx, consts.CounterReconcileLock, traceID)

	posts := s.reconcile(ctx, consts.PostDirtyKey, model.TargetPost)
	comments := s.reconcile(ctx, consts.CommentLikeDirtyKey, model.TargetComment)

	log.InfoContext(ctx, "reconcile like counters success",
		"post_count", posts,
		"comment_count", comments)
}

// reconcile 先把脏集合改名再处理，期间新产生的标记写入新集合，下一轮处理
func (s *CounterReconcileJob) reconcile(ctx context.Context, dirtyKey, targetType string) int {
	processingKey := dirtyKey + ":processing"

	exists, err := redis.Exists(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "check processing set error", "key", processingKey, "err", err)
		return 0
	}
	if !exists {
		if err = redis.Rename(ctx, dirtyKey, processingKey); err != nil {
			// 脏集合不存在
			return 0
		}
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get dirty set error", "key", processingKey, "err", err)
		return 0
	}
	ids, err := util.StrSliceToUInt64Slice(members)
	if err != nil {
		log.ErrorContext(ctx, "convert dirty set to int slice error", "key", processingKey, "err", err)
		return 0
	}

	if err = s.interactionSvc.SyncLikeCounts(ctx, targetType, ids); err != nil {
		log.ErrorContext(ctx, "sync like counts error", "targetType", targetType, "err", err)
		return 0
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete processing set error", "key", processingKey, "err", err)
	}
	return len(ids)
}
