package tools

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type ImageType string

const (
	ImageTypeUnknown ImageType = ""
	ImageTypePNG     ImageType = "png"
	ImageTypeJPEG    ImageType = "jpeg"
	ImageTypeGIF     ImageType = "gif"
	ImageTypeWEBP    ImageType = "webp"
	ImageTypeBMP     ImageType = "bmp"
	ImageTypeSVG     ImageType = "svg"
)

func (t ImageType) String() string {
	return string(t)
}

// DetectImageType sniffs the file at path and returns its MIME type together
// with the image type it maps to. Non-image content yields ImageTypeUnknown.
func DetectImageType(path string) (string, ImageType, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", ImageTypeUnknown, err
	}
	mime := mtype.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "image/png":
		return mime, ImageTypePNG, nil
	case "image/jpeg":
		return mime, ImageTypeJPEG, nil
	case "image/gif":
		return mime, ImageTypeGIF, nil
	case "image/webp":
		return mime, ImageTypeWEBP, nil
	case "image/bmp":
		return mime, ImageTypeBMP, nil
	case "image/svg+xml":
		return mime, ImageTypeSVG, nil
	}
	if strings.HasPrefix(mime, "image/") {
		return mime, ImageType(strings.TrimPrefix(mime, "image/")), nil
	}
	return mime, ImageTypeUnknown, nil
}
