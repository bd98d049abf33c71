package configs

import "github.com/spf13/viper"

const (
	// DefaultAuditPruneCron 每天凌晨清理过期的浏览审计行.
	DefaultAuditPruneCron = "0 4 * * *"
)

// JobsConfig 定时任务配置.
type JobsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// AuditPruneCron 浏览审计清理任务的 cron 表达式
	AuditPruneCron string `mapstructure:"audit_prune_cron"`
}

func (c *JobsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.audit_prune_cron", DefaultAuditPruneCron)
}
