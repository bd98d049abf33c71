// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
	"github.com/yeisme/mediavault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按 jobs.audit_prune_cron 清理超过保留期的浏览审计行
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	cfg := configs.GetConfig()
	if !cfg.Jobs.Enabled {
		log.Logger().Info().Msg("cron jobs disabled by config")
		return nil
	}

	// 将 storage manager 注入到 context，便于任务内取 repo
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	cronExpr := cfg.Jobs.AuditPruneCron
	if cronExpr == "" {
		cronExpr = configs.DefaultAuditPruneCron
	}

	return sched.AddCron(JobAuditPrune, cronExpr, func(ctx context.Context) {
		runAuditPrune(ctx, mgr, cfg.Upload.AuditRetentionDays)
	}, baseCtx)
}

// runAuditPrune 删除保留期之前的浏览审计行，并发布清理事件.
func runAuditPrune(ctx context.Context, mgr *storage.Manager, retentionDays int) {
	l := log.Logger().With().Str("job", JobAuditPrune).Logger()

	media := mgr.GetMediaRepo()
	if media == nil {
		l.Error().Msg("media repo not initialized")
		return
	}

	before := time.Now().UTC().AddDate(0, 0, -retentionDays)

	pruned, err := media.PruneViews(ctx, before)
	if err != nil {
		l.Error().Err(err).Time("before", before).Msg("prune view audit failed")
		return
	}

	if pruned > 0 {
		l.Info().Int64("pruned", pruned).Time("before", before).Msg("pruned view audit rows")
	}

	if err := queue.PublishAuditPruned(mgr.GetMQClient(), queue.AuditPrunedPayload{
		Before: before,
		Pruned: pruned,
	}); err != nil {
		l.Warn().Err(err).Msg("publish audit pruned event failed")
	}
}
