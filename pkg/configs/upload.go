package configs

import (
	"github.com/spf13/viper"
)

// DefaultMaxUploadBytes 代理上传的入站载荷上限（4.5MB，和托管方的
// 无服务器函数限制保持一致）；更大的文件走客户端直传外部托管的旁路.
const DefaultMaxUploadBytes = int64(4.5 * 1024 * 1024)

// UploadConfig 上传限制配置.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" rule:"min=1"`
	// AllowedImageTypes 允许代理上传的图片 MIME 类型
	AllowedImageTypes []string `mapstructure:"allowed_image_types"`
	// AllowedVideoTypes 允许代理上传的视频 MIME 类型
	AllowedVideoTypes []string `mapstructure:"allowed_video_types"`
	// AuditRetentionDays 浏览审计行的保留天数，定时任务按此清理
	AuditRetentionDays int `mapstructure:"audit_retention_days" rule:"min=1"`
}

// Allowed 判断 MIME 类型是否在允许列表中.
func (c *UploadConfig) Allowed(contentType string) bool {
	for _, t := range c.AllowedImageTypes {
		if t == contentType {
			return true
		}
	}

	for _, t := range c.AllowedVideoTypes {
		if t == contentType {
			return true
		}
	}

	return false
}

// setDefaults 设置上传限制配置的默认值.
func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.max_bytes", DefaultMaxUploadBytes)
	v.SetDefault("upload.allowed_image_types", []string{
		"image/jpeg", "image/jpg", "image/png", "image/gif",
		"image/webp", "image/bmp", "image/svg+xml",
	})
	v.SetDefault("upload.allowed_video_types", []string{
		"video/mp4", "video/webm", "video/mov", "video/avi",
		"video/mkv", "video/wmv", "video/flv", "video/3gp",
	})
	v.SetDefault("upload.audit_retention_days", 90)
}
