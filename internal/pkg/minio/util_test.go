package minio

import (
	"Inkwell/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURLRoundTrip(t *testing.T) {
	old := publicBase
	defer func() { publicBase = old }()

	publicBase = buildPublicBase(config.MinIOConfig{
		Endpoint:       "minio:9000",
		PublicEndpoint: "cdn.example.com",
		Bucket:         "blog",
		UseSSL:         true,
	})
	assert.Equal(t, "https://cdn.example.com/blog/", publicBase)

	url := GetPublicURL("blog-images/2024/01/02/a.png")
	assert.Equal(t, "https://cdn.example.com/blog/blog-images/2024/01/02/a.png", url)

	name, ok := ObjectNameFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "blog-images/2024/01/02/a.png", name)

	_, ok = ObjectNameFromURL("https://elsewhere.com/x.png")
	assert.False(t, ok)
}

func TestBuildPublicBase_FallsBackToEndpoint(t *testing.T) {
	base := buildPublicBase(config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.Equal(t, "http://localhost:9000/b/", base)
}
