package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage marks any failure to produce a decodable image from the
// given input: missing file, unreadable file, or unsupported format.
var ErrInvalidImage = errors.New("invalid image")

// Image is a validated image ready to be sent to the model. Data holds the
// original encoded bytes; the decode pass only proves they are an image.
type Image struct {
	Path   string
	Data   []byte
	MIME   string
	Format string
	Width  int
	Height int
}

// Load reads and validates the image at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no such file: %s", ErrInvalidImage, path)
		}
		return nil, fmt.Errorf("%w: could not read %s: %v", ErrInvalidImage, path, err)
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	img.Path = path
	return img, nil
}

// LoadReader validates image bytes from r, e.g. a pipe on stdin.
func LoadReader(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read input: %v", ErrInvalidImage, err)
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	img.Path = "stdin"
	return img, nil
}

func decode(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		detected := mimetype.Detect(data)
		return nil, fmt.Errorf("%w: not a supported image format (detected %s)", ErrInvalidImage, detected)
	}
	return &Image{
		Data:   data,
		MIME:   mimetype.Detect(data).String(),
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
