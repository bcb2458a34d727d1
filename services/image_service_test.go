package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishImageKey(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "dishes/4/1700000000_photo.png", DishImageKey(4, "photo.png", ts))
	assert.Equal(t, "dishes/4/1700000000_photo.png", DishImageKey(4, "../../photo.png", ts))
}

func TestS3ImageService(t *testing.T) {
	storage := NewMockS3Service()
	images := NewS3ImageService(storage)
	images.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	key, err := images.UploadDishImage(ctx, 9, multipartFile(t, "calzone.png", pngBytes()))
	require.NoError(t, err)
	assert.Equal(t, "dishes/9/1700000000_calzone.png", key)
	assert.True(t, storage.FileExists(key))

	url, err := images.GetImageURL(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, url, key)

	empty, err := images.GetImageURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = images.GetImageURL(ctx, "dishes/9/missing.png")
	assert.Error(t, err)

	require.NoError(t, images.DeleteImage(ctx, key))
	assert.False(t, storage.FileExists(key))
	require.NoError(t, images.DeleteImage(ctx, ""))

	_, err = images.UploadDishImage(ctx, 9, nil)
	assert.Error(t, err)
	assert.Empty(t, storage.Keys())
}
