package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader builds a multipart.FileHeader the way gin hands it to handlers
func createTestFileHeader(t *testing.T, filename string, size int64, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.NotEmpty(t, form.File["image"])
	fileHeader := form.File["image"][0]
	// Override size for testing purposes
	fileHeader.Size = size
	return fileHeader
}

func pngBytes() []byte {
	return append(append([]byte{}, PNGSignature...), []byte("rest of the image")...)
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		content  []byte
		wantCode string
	}{
		{
			name:     "valid png",
			filename: "margherita.png",
			content:  pngBytes(),
		},
		{
			name:     "uppercase extension",
			filename: "MARGHERITA.PNG",
			content:  pngBytes(),
		},
		{
			name:     "too large",
			filename: "huge.png",
			size:     MaxFileSize + 1,
			content:  pngBytes(),
			wantCode: "FILE_TOO_LARGE",
		},
		{
			name:     "wrong extension",
			filename: "photo.jpg",
			content:  pngBytes(),
			wantCode: "INVALID_FILE_FORMAT",
		},
		{
			name:     "png extension with other content",
			filename: "fake.png",
			content:  []byte("GIF89a not really a png"),
			wantCode: "INVALID_FILE_CONTENT",
		},
		{
			name:     "shorter than the signature",
			filename: "tiny.png",
			content:  []byte{0x89, 'P'},
			wantCode: "INVALID_FILE_CONTENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.size
			if size == 0 {
				size = int64(len(tt.content))
			}
			fh := createTestFileHeader(t, tt.filename, size, tt.content)

			err := ValidateImageFile(fh)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var uploadErr *FileUploadError
			require.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantCode, uploadErr.Code)
		})
	}
}

func TestValidateImageFile_Nil(t *testing.T) {
	var uploadErr *FileUploadError
	require.ErrorAs(t, ValidateImageFile(nil), &uploadErr)
	assert.Equal(t, "MISSING_FILE", uploadErr.Code)
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{Code: "TEST_ERROR", Message: "Test error message"}
	assert.Equal(t, "Test error message", err.Error())
}
