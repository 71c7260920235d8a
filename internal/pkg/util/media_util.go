package util

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidPayload = errors.New("invalid file payload")

// DecodeFilePayload 解析 data URL 或纯 base64 字符串，返回内容与声明的 MIME
func DecodeFilePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	declared := ""

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", ErrInvalidPayload
		}
		meta := payload[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", ErrInvalidPayload
		}
		declared = strings.TrimSuffix(meta, ";base64")
		payload = payload[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, "", ErrInvalidPayload
		}
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidPayload
	}
	return data, declared, nil
}

// SniffContentType 按文件头识别 MIME
func SniffContentType(data []byte) string {
	ct := mimetype.Detect(data).String()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// 上传图片的最大展示尺寸，超出时等比缩小
const (
	MaxImageWidth  = 1200
	MaxImageHeight = 630
)

// PrepareImage 解码图片并按 EXIF 方向校正，超出最大尺寸时等比缩小后重新编码
func PrepareImage(data []byte, contentType string) ([]byte, int, int, error) {
	format, ok := imageFormats[contentType]
	if !ok {
		return nil, 0, 0, ErrUnsupportedImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, err
	}

	b := img.Bounds()
	// gif 重新编码会丢失动画帧，保持原样
	if format == imaging.GIF || (b.Dx() <= MaxImageWidth && b.Dy() <= MaxImageHeight) {
		return data, b.Dx(), b.Dy(), nil
	}

	resized := imaging.Fit(img, MaxImageWidth, MaxImageHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, 0, 0, err
	}
	rb := resized.Bounds()
	return buf.Bytes(), rb.Dx(), rb.Dy(), nil
}

var ErrUnsupportedImage = errors.New("unsupported image format")

var imageFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

// ImageExt 根据 MIME 返回扩展名，不支持的类型返回空串
func ImageExt(contentType string) string {
	return imageExts[contentType]
}
