package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (s *stubUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &manager.UploadOutput{Location: "http://bucket.local/" + aws.ToString(input.Key)}, nil
}

type stubDeleter struct {
	keys []string
	err  error
}

func (s *stubDeleter) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	s.keys = append(s.keys, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, s.err
}

type stubProber struct {
	duration float64
	calls    int
}

func (s *stubProber) Duration(context.Context, string) (float64, error) {
	s.calls++
	return s.duration, nil
}

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	mp4Header = append([]byte{0, 0, 0, 0x18}, []byte("ftypisom\x00\x00\x02\x00isomiso2mp41")...)
)

func writeTemp(t *testing.T, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	return path
}

func TestUploadImage(t *testing.T) {
	uploader := &stubUploader{}
	prober := &stubProber{duration: 12}
	store := newS3Storage(uploader, &stubDeleter{}, prober, "media", "")
	path := writeTemp(t, "avatar.png", pngHeader)

	object, err := store.Upload(context.Background(), path, MediaImage)
	require.NoError(t, err)

	require.Len(t, uploader.inputs, 1)
	assert.Equal(t, "image/png", aws.ToString(uploader.inputs[0].ContentType))
	assert.True(t, strings.HasPrefix(object.ID, "images/"), object.ID)
	assert.True(t, strings.HasSuffix(object.ID, ".png"), object.ID)
	assert.Equal(t, "http://bucket.local/"+object.ID, object.URL)
	assert.Equal(t, "https://bucket.local/"+object.ID, object.SecureURL)
	assert.Zero(t, object.Duration)
	assert.Zero(t, prober.calls, "images are not probed")

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "local file should be removed")
}

func TestUploadVideoReportsDuration(t *testing.T) {
	uploader := &stubUploader{}
	prober := &stubProber{duration: 42.5}
	store := newS3Storage(uploader, &stubDeleter{}, prober, "media", "https://cdn.example.com/")
	path := writeTemp(t, "clip.mp4", mp4Header)

	object, err := store.Upload(context.Background(), path, MediaVideo)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(object.ID, "videos/"), object.ID)
	assert.Equal(t, 42.5, object.Duration)
	assert.Equal(t, "https://cdn.example.com/"+object.ID, object.SecureURL)
}

func TestUploadRejectsUnsupportedMedia(t *testing.T) {
	uploader := &stubUploader{}
	store := newS3Storage(uploader, &stubDeleter{}, nil, "media", "")
	path := writeTemp(t, "notes.txt", []byte("just some text"))

	_, err := store.Upload(context.Background(), path, MediaImage)
	require.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Empty(t, uploader.inputs)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "local file should be removed on failure too")
}

func TestUploadPropagatesStoreFailure(t *testing.T) {
	uploader := &stubUploader{err: errors.New("bucket unavailable")}
	store := newS3Storage(uploader, &stubDeleter{}, nil, "media", "")
	path := writeTemp(t, "avatar.png", pngHeader)

	_, err := store.Upload(context.Background(), path, MediaImage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestDelete(t *testing.T) {
	deleter := &stubDeleter{}
	store := newS3Storage(&stubUploader{}, deleter, nil, "media", "")

	require.NoError(t, store.Delete(context.Background(), "/images/a.png"))
	assert.Equal(t, []string{"images/a.png"}, deleter.keys)

	require.Error(t, store.Delete(context.Background(), ""))
}

func TestParseProbeDuration(t *testing.T) {
	duration, err := parseProbeDuration(`{"streams":[],"format":{"filename":"a.mp4","duration":"12.480000"}}`)
	require.NoError(t, err)
	assert.InDelta(t, 12.48, duration, 0.0001)

	_, err = parseProbeDuration(`{"format":{}}`)
	require.Error(t, err)

	_, err = parseProbeDuration(`not json`)
	require.Error(t, err)
}

func TestUploadRejectsMismatchedKind(t *testing.T) {
	cases := []struct {
		name     string
		file     string
		contents []byte
		kind     MediaKind
	}{
		{"image as video", "frame.png", pngHeader, MediaVideo},
		{"video as image", "clip.mp4", mp4Header, MediaImage},
		{"unknown kind", "frame.png", pngHeader, MediaKind("audio")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uploader := &stubUploader{}
			prober := &stubProber{duration: 3}
			store := newS3Storage(uploader, &stubDeleter{}, prober, "media", "")
			path := writeTemp(t, tc.file, tc.contents)

			_, err := store.Upload(context.Background(), path, tc.kind)
			require.ErrorIs(t, err, ErrUnsupportedMedia)
			assert.Empty(t, uploader.inputs)
			assert.Zero(t, prober.calls)

			_, statErr := os.Stat(path)
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "local file should be removed")
		})
	}
}
