// Package masking 实现外部托管 URL 的第一方域名伪装与反解.
//
// 外部托管（如 catbox）的直链会暴露托管方域名，且可能被部分网络屏蔽；
// 对外展示时统一重写为第一方域名下的路径，由边缘层按文件名回源.
package masking

import (
	"net/url"
	"path"
	"strings"

	"github.com/yeisme/mediavault/pkg/configs"
)

// Masker 按配置执行 URL 伪装与反解，无内部状态，可并发使用.
type Masker struct {
	maskDomain      string
	firstParty      map[string]struct{}
	external        []string
	externalBaseURL string
}

// New 根据伪装配置创建 Masker.
func New(cfg configs.MaskingConfig) *Masker {
	fp := make(map[string]struct{}, len(cfg.FirstPartyDomains)+1)
	for _, d := range cfg.FirstPartyDomains {
		fp[strings.ToLower(d)] = struct{}{}
	}
	// 伪装域名自身总是第一方，保证 Mask 幂等
	fp[strings.ToLower(cfg.MaskDomain)] = struct{}{}

	return &Masker{
		maskDomain:      cfg.MaskDomain,
		firstParty:      fp,
		external:        cfg.ExternalDomains,
		externalBaseURL: strings.TrimRight(cfg.ExternalBaseURL, "/"),
	}
}

// Mask 把外部托管 URL 重写为第一方域名下的同名路径.
//
// 已经是第一方域名的 URL 原样返回（幂等）；既非第一方也非已知外部托管的
// URL 同样原样返回，不做猜测性改写.
func (m *Masker) Mask(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := m.firstParty[host]; ok {
		return rawURL
	}

	if !m.isExternal(host) {
		return rawURL
	}

	filename := filenameFromPath(u.Path)
	if filename == "" {
		return rawURL
	}

	return "https://" + m.maskDomain + "/" + filename
}

// Unmask 把伪装 URL 还原为外部托管直链.
//
// originalURL 为已知的原始直链（可为空）；提供且属于外部托管时优先返回，
// 否则用配置的外部前缀按文件名重建. 非第一方 URL 原样返回.
func (m *Masker) Unmask(maskedURL, originalURL string) string {
	u, err := url.Parse(maskedURL)
	if err != nil || u.Host == "" {
		return maskedURL
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := m.firstParty[host]; !ok {
		return maskedURL
	}

	if originalURL != "" {
		if ou, err := url.Parse(originalURL); err == nil && m.isExternal(strings.ToLower(ou.Hostname())) {
			return originalURL
		}
	}

	filename := filenameFromPath(u.Path)
	if filename == "" {
		return maskedURL
	}

	return m.externalBaseURL + "/" + filename
}

// ExternalURL 按配置的外部托管前缀重建文件名对应的直链.
func (m *Masker) ExternalURL(filename string) string {
	return m.externalBaseURL + "/" + filename
}

// IsMasked 判断 URL 是否已经是第一方域名.
func (m *Masker) IsMasked(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	_, ok := m.firstParty[strings.ToLower(u.Hostname())]

	return ok
}

// isExternal 判断 host 是否属于已知外部托管域名（含子域名）.
func (m *Masker) isExternal(host string) bool {
	for _, d := range m.external {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}

	return false
}

// FilenameFromURL 提取 URL 路径的最后一段作为文件名，无法解析时返回空串.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return filenameFromPath(u.Path)
}

func filenameFromPath(p string) string {
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}

	return name
}

// extContentTypes 常见媒体扩展名到 MIME 类型的映射，
// 作为 HEAD 探测失败时的兜底推断.
var extContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".3gp":  "video/3gpp",
}

// ContentTypeFromFilename 按扩展名推断 MIME 类型，未知扩展名返回
// application/octet-stream.
func ContentTypeFromFilename(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ct, ok := extContentTypes[ext]; ok {
		return ct
	}

	return "application/octet-stream"
}

// IsVideoFile 按扩展名判断是否为视频文件.
func IsVideoFile(filename string) bool {
	return strings.HasPrefix(ContentTypeFromFilename(filename), "video/")
}

// IsImageFile 按扩展名判断是否为图片文件.
func IsImageFile(filename string) bool {
	return strings.HasPrefix(ContentTypeFromFilename(filename), "image/")
}
