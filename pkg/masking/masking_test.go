package masking_test

import (
	"testing"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/masking"
)

func newTestMasker() *masking.Masker {
	return masking.New(configs.MaskingConfig{
		MaskDomain:        "i.dhrv.dev",
		FirstPartyDomains: []string{"i.dhrv.dev", "img.intercomm.in"},
		ExternalDomains:   []string{"catbox.moe", "litterbox.catbox.moe"},
		ExternalBaseURL:   "https://files.catbox.moe",
	})
}

// TestMask 测试外部托管 URL 的伪装.
func TestMask(t *testing.T) {
	m := newTestMasker()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"catbox 子域名", "https://files.catbox.moe/abc123.jpg", "https://i.dhrv.dev/abc123.jpg"},
		{"litterbox", "https://litter.catbox.moe/xyz.mp4", "https://i.dhrv.dev/xyz.mp4"},
		{"已是伪装域名（幂等）", "https://i.dhrv.dev/abc123.jpg", "https://i.dhrv.dev/abc123.jpg"},
		{"历史第一方域名不改写", "https://img.intercomm.in/old.png", "https://img.intercomm.in/old.png"},
		{"未知域名原样返回", "https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"相对路径原样返回", "/local/a.jpg", "/local/a.jpg"},
		{"无法解析原样返回", "::bad::", "::bad::"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Mask(tc.in); got != tc.want {
				t.Errorf("Mask(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestMaskIdempotent 测试 Mask 的幂等性：二次伪装不改变结果.
func TestMaskIdempotent(t *testing.T) {
	m := newTestMasker()

	once := m.Mask("https://files.catbox.moe/abc123.jpg")

	twice := m.Mask(once)
	if once != twice {
		t.Errorf("Mask not idempotent: %q != %q", once, twice)
	}
}

// TestUnmask 测试伪装 URL 的反解.
func TestUnmask(t *testing.T) {
	m := newTestMasker()

	// 提供原始 URL 时优先返回原始 URL
	got := m.Unmask("https://i.dhrv.dev/abc123.jpg", "https://files.catbox.moe/abc123.jpg")
	if got != "https://files.catbox.moe/abc123.jpg" {
		t.Errorf("Unmask with original = %q", got)
	}

	// 无原始 URL 时按文件名重建
	got = m.Unmask("https://i.dhrv.dev/abc123.jpg", "")
	if got != "https://files.catbox.moe/abc123.jpg" {
		t.Errorf("Unmask fallback = %q", got)
	}

	// 原始 URL 非外部托管时忽略，走重建
	got = m.Unmask("https://i.dhrv.dev/abc123.jpg", "https://example.com/abc123.jpg")
	if got != "https://files.catbox.moe/abc123.jpg" {
		t.Errorf("Unmask with non-external original = %q", got)
	}

	// 非第一方 URL 原样返回
	got = m.Unmask("https://example.com/a.jpg", "")
	if got != "https://example.com/a.jpg" {
		t.Errorf("Unmask non-first-party = %q", got)
	}
}

// TestMaskUnmaskRoundTrip 测试伪装后反解能还原出外部直链.
func TestMaskUnmaskRoundTrip(t *testing.T) {
	m := newTestMasker()

	original := "https://files.catbox.moe/round.webm"

	masked := m.Mask(original)
	if masked == original {
		t.Fatalf("Mask did not rewrite %q", original)
	}

	if got := m.Unmask(masked, original); got != original {
		t.Errorf("round trip with original = %q, want %q", got, original)
	}

	if got := m.Unmask(masked, ""); got != original {
		t.Errorf("round trip without original = %q, want %q", got, original)
	}
}

// TestIsMasked 测试第一方域名判定.
func TestIsMasked(t *testing.T) {
	m := newTestMasker()

	if !m.IsMasked("https://i.dhrv.dev/a.jpg") {
		t.Error("expected i.dhrv.dev to be masked")
	}

	if !m.IsMasked("https://img.intercomm.in/a.jpg") {
		t.Error("expected img.intercomm.in to be masked")
	}

	if m.IsMasked("https://files.catbox.moe/a.jpg") {
		t.Error("expected catbox to not be masked")
	}
}

// TestFilenameFromURL 测试文件名提取.
func TestFilenameFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://files.catbox.moe/abc123.jpg", "abc123.jpg"},
		{"https://i.dhrv.dev/x.png?w=200", "x.png"},
		{"https://example.com/", ""},
		{"https://example.com", ""},
	}

	for _, tc := range cases {
		if got := masking.FilenameFromURL(tc.in); got != tc.want {
			t.Errorf("FilenameFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestContentTypeFromFilename 测试扩展名推断 MIME 类型.
func TestContentTypeFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.webp", "image/webp"},
		{"a.mp4", "video/mp4"},
		{"a.mov", "video/quicktime"},
		{"a.mkv", "video/x-matroska"},
		{"a.unknown", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tc := range cases {
		if got := masking.ContentTypeFromFilename(tc.in); got != tc.want {
			t.Errorf("ContentTypeFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestIsVideoImageFile 测试视频/图片判定.
func TestIsVideoImageFile(t *testing.T) {
	if !masking.IsVideoFile("clip.mp4") {
		t.Error("expected clip.mp4 to be video")
	}

	if masking.IsVideoFile("pic.png") {
		t.Error("expected pic.png to not be video")
	}

	if !masking.IsImageFile("pic.gif") {
		t.Error("expected pic.gif to be image")
	}

	if masking.IsImageFile("clip.webm") {
		t.Error("expected clip.webm to not be image")
	}
}
