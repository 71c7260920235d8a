package util

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDecodeFilePayload_DataURL(t *testing.T) {
	raw := pngBytes(t, 3, 2)
	data, declared, err := DecodeFilePayload("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "image/png", declared)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", SniffContentType(data))

	out, w, h, err := PrepareImage(data, "image/png")
	require.NoError(t, err)
	assert.Equal(t, data, out)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestPrepareImage_ShrinksLargeImage(t *testing.T) {
	out, w, h, err := PrepareImage(pngBytes(t, 2400, 630), "image/png")
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, w)
	assert.Equal(t, 315, h)

	_, w2, h2, err := PrepareImage(out, "image/png")
	require.NoError(t, err)
	assert.Equal(t, w, w2)
	assert.Equal(t, h, h2)
}

func TestPrepareImage_Unsupported(t *testing.T) {
	_, _, _, err := PrepareImage([]byte("plain"), "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Equal(t, "", ImageExt("text/plain"))
	assert.Equal(t, ".jpg", ImageExt("image/jpeg"))
}

func TestDecodeFilePayload_Invalid(t *testing.T) {
	_, _, err := DecodeFilePayload("data:image/png,notbase64")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, _, err = DecodeFilePayload("%%%")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, _, err = DecodeFilePayload("")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestValidateDTO(t *testing.T) {
	type input struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}
	assert.NoError(t, ValidateDTO(&input{Email: "a@b.co", Password: "secret1"}))
	assert.EqualError(t, ValidateDTO(&input{Email: "nope", Password: "secret1"}), "Invalid email address")
	assert.EqualError(t, ValidateDTO(&input{Email: "a@b.co", Password: "123"}), "password must be at least 6 characters")
}

func TestPtrHelpers(t *testing.T) {
	assert.Equal(t, 5, *Ptr(5))
	assert.Equal(t, "", Deref[string](nil))
	assert.Nil(t, TrimPtr(Ptr("   ")))
	assert.Equal(t, "x", *TrimPtr(Ptr(" x ")))
}
