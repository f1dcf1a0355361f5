// Package storage 提供图片等二进制对象的文件系统存储
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器

	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/metrics"
)

var tracer = otel.Tracer("storage")

// DefaultNamespace 未指定目录时使用
const DefaultNamespace = "uploads"

var namespacePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// 允许的图片 MIME 类型与解码格式
var allowedMIME = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// LocalStore 本地文件系统对象存储，文件名为内容 sha256
type LocalStore struct {
	root      string
	publicURL string
	maxBytes  int64
}

// NewLocalStore 创建本地存储
func NewLocalStore(cfg *config.LocalStorageConfig) (*LocalStore, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{
		root:      cfg.Root,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxBytes:  cfg.MaxBytes,
	}, nil
}

// Root 存储根目录
func (s *LocalStore) Root() string {
	return s.root
}

// Put 解码 data URL 并写入 <root>/<namespace>/<sha256>.<ext>
func (s *LocalStore) Put(ctx context.Context, dataURL, namespace string) (*service.BlobRef, error) {
	_, span := tracer.Start(ctx, "storage.LocalStore.Put")
	defer span.End()

	if namespace == "" {
		namespace = DefaultNamespace
	}
	span.SetAttributes(attribute.String("storage.namespace", namespace))

	ref, err := s.put(dataURL, namespace)
	if err != nil {
		span.RecordError(err)
		metrics.BlobUploadsTotal.WithLabelValues(namespace, "error").Inc()
		return nil, err
	}
	metrics.BlobUploadsTotal.WithLabelValues(namespace, "ok").Inc()
	return ref, nil
}

func (s *LocalStore) put(dataURL, namespace string) (*service.BlobRef, error) {
	if !namespacePattern.MatchString(namespace) {
		return nil, apperrors.Validation("invalid upload folder")
	}

	data, format, err := s.decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	cfg, decoded, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Validation("invalid image data")
	}
	if decoded != format {
		return nil, apperrors.Validation(fmt.Sprintf("image content is %s, declared %s", decoded, format))
	}

	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:]) + "." + extension(format)
	dir := filepath.Join(s.root, namespace)
	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err != nil {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.ErrStorage.WithError(err)
		}
		if err := writeFileAtomic(path, data); err != nil {
			return nil, apperrors.ErrStorage.WithError(err)
		}
	}

	metrics.BlobUploadBytes.Observe(float64(len(data)))
	key := namespace + "/" + name
	return &service.BlobRef{
		URL:    s.publicURL + "/" + key,
		Key:    key,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// decodeDataURL 解析 data:<mime>;base64,<payload>
func (s *LocalStore) decodeDataURL(dataURL string) ([]byte, string, error) {
	if !service.IsInlineImage(dataURL) {
		return nil, "", apperrors.Validation("image must be a data URL")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return nil, "", apperrors.Validation("malformed data URL")
	}
	mime, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, "", apperrors.Validation("data URL must be base64 encoded")
	}
	format, ok := allowedMIME[strings.ToLower(mime)]
	if !ok {
		return nil, "", apperrors.Validation(fmt.Sprintf("unsupported image type %q", mime))
	}

	if s.maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > s.maxBytes+2 {
		return nil, "", apperrors.Validation("image too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperrors.Validation("invalid base64 payload")
	}
	if len(data) == 0 {
		return nil, "", apperrors.Validation("image data cannot be empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, "", apperrors.Validation("image too large")
	}
	return data, format, nil
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// writeFileAtomic 先写临时文件再重命名
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
