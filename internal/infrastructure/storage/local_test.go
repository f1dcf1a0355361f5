package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilkalam-api/internal/config"
	apperrors "quilkalam-api/pkg/errors"
)

func setupTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(&config.LocalStorageConfig{
		Root:      t.TempDir(),
		PublicURL: "http://cdn.test/uploads/",
		MaxBytes:  1 << 20,
	})
	require.NoError(t, err)
	return store
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestLocalStore_Put(t *testing.T) {
	t.Run("stores content addressed file", func(t *testing.T) {
		store := setupTestStore(t)
		dataURL := pngDataURL(t, 4, 3)

		ref, err := store.Put(context.Background(), dataURL, "covers")
		require.NoError(t, err)
		assert.Equal(t, 4, ref.Width)
		assert.Equal(t, 3, ref.Height)
		assert.Regexp(t, `^covers/[0-9a-f]{64}\.png$`, ref.Key)
		assert.Equal(t, "http://cdn.test/uploads/"+ref.Key, ref.URL)

		_, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(ref.Key)))
		require.NoError(t, err)

		// 相同内容得到相同地址
		again, err := store.Put(context.Background(), dataURL, "covers")
		require.NoError(t, err)
		assert.Equal(t, ref.Key, again.Key)
	})

	t.Run("defaults namespace", func(t *testing.T) {
		store := setupTestStore(t)
		ref, err := store.Put(context.Background(), pngDataURL(t, 1, 1), "")
		require.NoError(t, err)
		assert.Regexp(t, `^uploads/`, ref.Key)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		store := setupTestStore(t)
		cases := map[string]struct {
			dataURL   string
			namespace string
		}{
			"not a data url":     {"https://example.com/a.png", "covers"},
			"not base64":         {"data:image/png,abc", "covers"},
			"unsupported type":   {"data:text/plain;base64,aGVsbG8=", "covers"},
			"garbage payload":    {"data:image/png;base64,aGVsbG8=", "covers"},
			"bad base64":         {"data:image/png;base64,!!!", "covers"},
			"namespace escaping": {pngDataURL(t, 1, 1), "../etc"},
		}
		for name, tc := range cases {
			_, err := store.Put(context.Background(), tc.dataURL, tc.namespace)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam), name)
		}
	})

	t.Run("rejects declared type mismatch", func(t *testing.T) {
		store := setupTestStore(t)
		dataURL := pngDataURL(t, 2, 2)
		mislabeled := "data:image/jpeg;base64," + dataURL[len("data:image/png;base64,"):]

		_, err := store.Put(context.Background(), mislabeled, "covers")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
	})

	t.Run("rejects oversize image", func(t *testing.T) {
		store, err := NewLocalStore(&config.LocalStorageConfig{Root: t.TempDir(), MaxBytes: 16})
		require.NoError(t, err)

		_, err = store.Put(context.Background(), pngDataURL(t, 32, 32), "covers")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
	})
}
