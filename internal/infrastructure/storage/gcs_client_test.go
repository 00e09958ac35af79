package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	name := ObjectName("/tasks/", "image/png", now)
	assert.True(t, strings.HasPrefix(name, "tasks/"))
	assert.True(t, strings.HasSuffix(name, "-20240301123000.png"))

	assert.True(t, strings.HasSuffix(ObjectName("proofs", "image/jpg", now), ".jpg"))
	assert.True(t, strings.HasSuffix(ObjectName("proofs", "text/plain", now), ".bin"))
	assert.NotEqual(t, ObjectName("a", "image/gif", now), ObjectName("a", "image/gif", now))
}

func TestObjectFromURL(t *testing.T) {
	name, err := ObjectFromURL("bucket", "https://storage.googleapis.com/bucket/tasks/x.png")
	require.NoError(t, err)
	assert.Equal(t, "tasks/x.png", name)

	for _, bad := range []string{
		"https://example.com/bucket/tasks/x.png",
		"https://storage.googleapis.com/other/tasks/x.png",
		"https://storage.googleapis.com/bucket/",
	} {
		_, err := ObjectFromURL("bucket", bad)
		assert.Error(t, err, bad)
	}
}
