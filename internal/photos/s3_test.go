package photos

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"desicargo-backend/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(bucket string) *Store {
	cfg := aws.Config{
		Region:      "ap-south-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDTEST", "secret", ""),
	}
	return NewWithConfig(cfg, Options{Bucket: bucket, Endpoint: "http://localhost:4566", Expiry: 10 * time.Minute})
}

func TestGenerateUploadURL(t *testing.T) {
	s := testStore("condition-photos")
	fixed := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ogplID, bookingID := uuid.New(), uuid.New()

	up, err := s.GenerateUploadURL(context.Background(), ogplID, bookingID, "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.Key, "unloading/"+ogplID.String()+"/"+bookingID.String()+"/"))
	assert.True(t, strings.HasSuffix(up.Key, ".jpg"))
	assert.Equal(t, fixed.Add(10*time.Minute), up.ExpiresAt)

	u, err := url.Parse(up.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:4566", u.Host)
	assert.Equal(t, "/condition-photos/"+up.Key, u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestGenerateUploadURL_Rejections(t *testing.T) {
	_, err := testStore("b").GenerateUploadURL(context.Background(), uuid.New(), uuid.New(), "application/pdf")
	assert.True(t, apperr.IsValidation(err))

	_, err = testStore("").GenerateUploadURL(context.Background(), uuid.New(), uuid.New(), "image/png")
	assert.True(t, apperr.IsValidation(err))
}
