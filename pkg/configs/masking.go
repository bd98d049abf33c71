package configs

import (
	"github.com/spf13/viper"
)

const (
	// DefaultMaskDomain 伪装后 URL 使用的一级域名.
	DefaultMaskDomain = "i.dhrv.dev"
	// DefaultExternalBaseURL 无法提供原始 URL 时反解使用的外部托管前缀.
	DefaultExternalBaseURL = "https://files.catbox.moe"
)

// MaskingConfig URL 伪装配置：把外部托管 URL 重写为第一方域名.
type MaskingConfig struct {
	// MaskDomain 伪装输出使用的域名
	MaskDomain string `mapstructure:"mask_domain" rule:"hostname"`
	// FirstPartyDomains 视为第一方的所有域名（历史域名也列入，保证幂等）
	FirstPartyDomains []string `mapstructure:"first_party_domains"`
	// ExternalDomains 识别为外部托管的域名
	ExternalDomains []string `mapstructure:"external_domains"`
	// ExternalBaseURL 反解时重建外部 URL 的前缀
	ExternalBaseURL string `mapstructure:"external_base_url"`
}

// setDefaults 设置 URL 伪装配置的默认值.
func (c *MaskingConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("masking.mask_domain", DefaultMaskDomain)
	v.SetDefault("masking.first_party_domains", []string{DefaultMaskDomain, "img.intercomm.in"})
	v.SetDefault("masking.external_domains", []string{"catbox.moe", "litterbox.catbox.moe"})
	v.SetDefault("masking.external_base_url", DefaultExternalBaseURL)
}
