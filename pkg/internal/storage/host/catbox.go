package host

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/yeisme/mediavault/pkg/configs"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/masking"
)

// init 注册 catbox 工厂.
func init() {
	RegisterFactory(configs.HostTypeCatbox, newCatbox)
}

// Catbox catbox.moe 托管客户端，通过其表单 API 上传.
type Catbox struct {
	apiURL   string
	userHash string
	client   *http.Client
}

func newCatbox(_ context.Context, cfg *configs.HostConfig) (Host, error) {
	if cfg.Catbox.APIURL == "" {
		return nil, fmt.Errorf("catbox api url is empty")
	}

	return &Catbox{
		apiURL:   cfg.Catbox.APIURL,
		userHash: cfg.Catbox.UserHash,
		client:   &http.Client{Timeout: cfg.GetTimeoutDuration()},
	}, nil
}

// Name 实现 Host 接口.
func (c *Catbox) Name() string { return "catbox" }

// Store 通过 multipart 表单上传，响应体即为直链.
func (c *Catbox) Store(ctx context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	if err := w.WriteField("reqtype", "fileupload"); err != nil {
		return "", fmt.Errorf("write reqtype field: %w", err)
	}

	if c.userHash != "" {
		if err := w.WriteField("userhash", c.userHash); err != nil {
			return "", fmt.Errorf("write userhash field: %w", err)
		}
	}

	fw, err := w.CreateFormFile("fileToUpload", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("copy file content: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &buf)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to catbox: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	result := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(result, "http") {
		return "", fmt.Errorf("catbox upload failed: status=%d body=%q", resp.StatusCode, result)
	}

	return result, nil
}

// Probe HEAD 探测直链；探测失败时按扩展名推断内容类型兜底.
func (c *Catbox) Probe(ctx context.Context, rawURL string) (*ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build head request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil || resp.StatusCode >= http.StatusBadRequest {
		if resp != nil {
			_ = resp.Body.Close()
		}
		// 兜底：扩展名推断，大小未知
		return &ProbeResult{
			ContentType: masking.ContentTypeFromFilename(masking.FilenameFromURL(rawURL)),
		}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = masking.ContentTypeFromFilename(masking.FilenameFromURL(rawURL))
	}

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	return &ProbeResult{ContentType: ct, Size: size}, nil
}

// Open 下载直链内容，流式返回响应体.
func (c *Catbox) Open(ctx context.Context, rawURL string) (io.ReadCloser, *ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch from catbox: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()

		return nil, nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return nil, nil, fmt.Errorf("catbox fetch failed: status=%d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = masking.ContentTypeFromFilename(masking.FilenameFromURL(rawURL))
	}

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	return resp.Body, &ProbeResult{ContentType: ct, Size: size}, nil
}

// Delete 通过表单 API 删除文件；匿名上传（无 userhash）不支持删除，直接跳过.
func (c *Catbox) Delete(ctx context.Context, rawURL string) error {
	if c.userHash == "" {
		nlog.Logger().Debug().Str("url", rawURL).Msg("catbox 匿名模式，跳过远端删除")

		return nil
	}

	filename := masking.FilenameFromURL(rawURL)
	if filename == "" {
		return fmt.Errorf("cannot extract filename from url: %s", rawURL)
	}

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	if err := w.WriteField("reqtype", "deletefiles"); err != nil {
		return fmt.Errorf("write reqtype field: %w", err)
	}

	if err := w.WriteField("userhash", c.userHash); err != nil {
		return fmt.Errorf("write userhash field: %w", err)
	}

	if err := w.WriteField("files", filename); err != nil {
		return fmt.Errorf("write files field: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &buf)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete from catbox: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catbox delete failed: status=%d", resp.StatusCode)
	}

	return nil
}
