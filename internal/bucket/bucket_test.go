package bucket

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestUpload(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		want     UploadData
		wantCode string
	}{
		{
			name: "reports path and full path",
			path: "avatars/ada.png",
			body: "png bytes",
			want: UploadData{Path: "avatars/ada.png", FullPath: "attachments/avatars/ada.png"},
		},
		{
			name: "leading slash is dropped",
			path: "/report.pdf",
			want: UploadData{Path: "report.pdf", FullPath: "attachments/report.pdf"},
		},
		{
			name:     "empty path is rejected",
			path:     "",
			wantCode: types.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("http://localhost:54321", zerolog.Nop())
			res := s.From("attachments").Upload(tt.path, strings.NewReader(tt.body))
			if tt.wantCode != "" {
				require.NotNil(t, res.Error)
				assert.Equal(t, tt.wantCode, res.Error.Code)
				return
			}
			require.Nil(t, res.Error)
			assert.Equal(t, tt.want, res.Data)
		})
	}
}

func TestUploadReadError(t *testing.T) {
	s := New("http://localhost:54321", zerolog.Nop())
	res := s.From("attachments").Upload("a.txt", failingReader{})
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodeInternal, res.Error.Code)
	assert.Nil(t, res.Data)
}

func TestGetPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		bucket string
		path   string
		want   string
	}{
		{
			name:   "plain path",
			base:   "http://localhost:54321",
			bucket: "avatars",
			path:   "ada.png",
			want:   "http://localhost:54321/storage/v1/object/public/avatars/ada.png",
		},
		{
			name:   "trailing slash on base",
			base:   "https://cdn.example.com/",
			bucket: "docs",
			path:   "2026/plan.pdf",
			want:   "https://cdn.example.com/storage/v1/object/public/docs/2026/plan.pdf",
		},
		{
			name:   "segments are escaped",
			base:   "http://localhost:54321",
			bucket: "docs",
			path:   "q1 report.pdf",
			want:   "http://localhost:54321/storage/v1/object/public/docs/q1%20report.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.base, zerolog.Nop()).From(tt.bucket).GetPublicURL(tt.path)
			require.Nil(t, res.Error)
			assert.Equal(t, PublicURLData{PublicURL: tt.want}, res.Data)
		})
	}
}
