package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	f.objects[key] = body
	f.types[key] = contentType
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://bucket.example.com/" + key, nil
}

func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadAvatarResizesAndStoresPNG(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewImageService(store)

	key, err := svc.UploadAvatar(context.Background(), "me.jpg", encodeTestImage(t, 800, 600))
	require.NoError(t, err)
	assert.Contains(t, key, ".png")
	assert.Equal(t, "image/png", store.types[key])

	stored, err := imaging.Decode(bytes.NewReader(store.objects[key]))
	require.NoError(t, err)
	bounds := stored.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 250)
	assert.LessOrEqual(t, bounds.Dy(), 250)
}

func TestUploadProductImageUsesThumbnailFrame(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewImageService(store)

	key, err := svc.UploadProductImage(context.Background(), "item.png", encodeTestImage(t, 400, 400))
	require.NoError(t, err)

	stored, err := imaging.Decode(bytes.NewReader(store.objects[key]))
	require.NoError(t, err)
	assert.LessOrEqual(t, stored.Bounds().Dx(), 50)
	assert.LessOrEqual(t, stored.Bounds().Dy(), 50)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	svc := NewImageService(newFakeObjectStore())

	_, err := svc.UploadProductImage(context.Background(), "animation.gif", encodeTestImage(t, 10, 10))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	svc := NewImageService(newFakeObjectStore())

	oversized := make([]byte, maxImageBytes+1)
	_, err := svc.UploadProductImage(context.Background(), "big.png", oversized)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
