// Package configs 管理应用程序配置，包括外部文件托管的配置信息.
// 文件托管服务只提供上传能力，没有删除接口；上传成功后返回永久访问 URL.
package configs

import (
	"time"

	"github.com/spf13/viper"
)

// HostType 外部文件托管类型.
type HostType string

const (
	// HostTypeCatbox catbox.moe 匿名文件托管.
	HostTypeCatbox HostType = "catbox"
	// HostTypeS3 自托管 S3 兼容对象存储（MinIO 等）.
	HostTypeS3 HostType = "s3"
)

const (
	DefaultHostType          = HostTypeCatbox
	DefaultCatboxAPIURL      = "https://catbox.moe/user/api.php"
	DefaultHostTimeout       = 30 // 上传/探测请求超时，单位秒
	DefaultS3Endpoint        = "localhost:9000"
	DefaultS3AccessKeyID     = "minioadmin"
	DefaultS3SecretAccessKey = "minioadmin"
	DefaultS3UseSSL          = false
	DefaultS3BucketName      = "mediavault"
	DefaultS3Region          = "us-east-1"
)

// HostConfig 外部文件托管配置.
type HostConfig struct {
	Type    HostType     `mapstructure:"type"    rule:"oneof=catbox s3"`
	Timeout int          `mapstructure:"timeout" rule:"min=1,max=300"`
	Catbox  CatboxConfig `mapstructure:"catbox"`
	S3      S3Config     `mapstructure:"s3"`
}

// CatboxConfig catbox.moe 托管配置.
type CatboxConfig struct {
	APIURL string `mapstructure:"api_url" rule:"url"`
	// UserHash 可选的用户标识，留空为匿名上传
	UserHash string `mapstructure:"user_hash"`
}

// S3Config MinIO/S3 存储配置（host.type=s3 时生效）.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
	// PublicBaseURL 对象的公开访问前缀；留空则由 endpoint+bucket 推导
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// GetTimeoutDuration 返回托管请求超时时间.
func (c *HostConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// setDefaults 设置文件托管配置的默认值.
func (c *HostConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("host.type", DefaultHostType)
	v.SetDefault("host.timeout", DefaultHostTimeout)

	v.SetDefault("host.catbox.api_url", DefaultCatboxAPIURL)
	v.SetDefault("host.catbox.user_hash", "")

	v.SetDefault("host.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("host.s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("host.s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("host.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("host.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("host.s3.region", DefaultS3Region)
	v.SetDefault("host.s3.public_base_url", "")
}
