package host

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/mediavault/pkg/configs"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/masking"
)

// init 注册 S3 工厂.
func init() {
	RegisterFactory(configs.HostTypeS3, newS3)
}

// S3 自托管 S3 兼容存储（MinIO 等）的托管实现.
type S3 struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func newS3(ctx context.Context, cfg *configs.HostConfig) (Host, error) {
	s3cfg := cfg.S3

	endpoint := s3cfg.Endpoint
	useSSL := s3cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("mediavault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, s3cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s3cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, s3cfg.BucketName, minio.MakeBucketOptions{Region: s3cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s3cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", s3cfg.BucketName).Msg("bucket created")
	}

	base := s3cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}

		base = fmt.Sprintf("%s://%s/%s", scheme, endpoint, s3cfg.BucketName)
	}

	nlog.Logger().Info().Str("endpoint", endpoint).Str("bucket", s3cfg.BucketName).Msg("s3 host connected")

	return &S3{
		client:        cli,
		bucket:        s3cfg.BucketName,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

// Name 实现 Host 接口.
func (s *S3) Name() string { return "s3" }

// Store 上传对象并返回公开直链.
func (s *S3) Store(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = masking.ContentTypeFromFilename(filename)
	}

	if _, err := s.client.PutObject(ctx, s.bucket, filename, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object %s: %w", filename, err)
	}

	return s.publicBaseURL + "/" + filename, nil
}

// Probe 对自管对象直接 Stat，失败时回落 HEAD 请求.
func (s *S3) Probe(ctx context.Context, rawURL string) (*ProbeResult, error) {
	filename := masking.FilenameFromURL(rawURL)

	if filename != "" && strings.HasPrefix(rawURL, s.publicBaseURL) {
		info, err := s.client.StatObject(ctx, s.bucket, filename, minio.StatObjectOptions{})
		if err == nil {
			return &ProbeResult{ContentType: info.ContentType, Size: info.Size}, nil
		}
	}

	// 非自管 URL（或 Stat 失败）走普通 HEAD
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build head request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil || resp.StatusCode >= http.StatusBadRequest {
		if resp != nil {
			_ = resp.Body.Close()
		}

		return &ProbeResult{ContentType: masking.ContentTypeFromFilename(filename)}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = masking.ContentTypeFromFilename(filename)
	}

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	return &ProbeResult{ContentType: ct, Size: size}, nil
}

// Open 打开自管对象流；非自管 URL 走普通 GET.
func (s *S3) Open(ctx context.Context, rawURL string) (io.ReadCloser, *ProbeResult, error) {
	filename := masking.FilenameFromURL(rawURL)

	if filename != "" && strings.HasPrefix(rawURL, s.publicBaseURL) {
		obj, err := s.client.GetObject(ctx, s.bucket, filename, minio.GetObjectOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("get object %s: %w", filename, err)
		}

		info, err := obj.Stat()
		if err != nil {
			_ = obj.Close()

			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				return nil, nil, ErrNotFound
			}

			return nil, nil, fmt.Errorf("stat object %s: %w", filename, err)
		}

		return obj, &ProbeResult{ContentType: info.ContentType, Size: info.Size}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()

		return nil, nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return nil, nil, fmt.Errorf("fetch failed: status=%d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = masking.ContentTypeFromFilename(filename)
	}

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	return resp.Body, &ProbeResult{ContentType: ct, Size: size}, nil
}

// Delete 删除自管对象；非自管 URL 跳过.
func (s *S3) Delete(ctx context.Context, rawURL string) error {
	if !strings.HasPrefix(rawURL, s.publicBaseURL) {
		return nil
	}

	filename := masking.FilenameFromURL(rawURL)
	if filename == "" {
		return fmt.Errorf("cannot extract filename from url: %s", rawURL)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, filename, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", filename, err)
	}

	return nil
}
