package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// sniffLen is the header length filetype needs to match every image kind it knows.
const sniffLen = 261

// averageSample is the side of the square an image is scaled to before averaging.
const averageSample = 8

// FileResolver loads textures from a directory. Resolved textures are cached
// by handle, so the six faces of a background sharing one image decode once.
type FileResolver struct {
	root  string
	mu    sync.Mutex
	cache map[Handle]*Texture
}

func NewFileResolver(root string) *FileResolver {
	return &FileResolver{root: root, cache: make(map[Handle]*Texture)}
}

func (r *FileResolver) Resolve(h Handle) (*Texture, error) {
	if h.IsZero() {
		return nil, ErrEmptyHandle
	}

	r.mu.Lock()
	if t, ok := r.cache[h]; ok {
		r.mu.Unlock()
		return t, nil
	}
	r.mu.Unlock()

	path, err := r.Path(h)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
		}
		return nil, fmt.Errorf("asset: read %s: %w", h, err)
	}

	t, err := Decode(h, data)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[h] = t
	r.mu.Unlock()
	return t, nil
}

// Path maps a handle onto the resolver's root. Leading "/" and "./" are
// treated as relative to the root; handles climbing out of it are rejected.
func (r *FileResolver) Path(h Handle) (string, error) {
	p := filepath.Clean(filepath.FromSlash(strings.TrimLeft(string(h), "/")))
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, h)
	}
	if r.root == "" {
		return p, nil
	}
	return filepath.Join(r.root, p), nil
}

// Decode sniffs and decodes raw image bytes into a texture.
func Decode(h Handle, data []byte) (*Texture, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if !filetype.IsImage(head) {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, h)
	}
	kind, _ := filetype.Match(head)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s (%s): %w", h, kind.MIME.Value, err)
	}

	b := img.Bounds()
	return &Texture{
		Handle:  h,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Format:  format,
		Average: averageColor(img),
		Image:   img,
	}, nil
}

func averageColor(img image.Image) colorful.Color {
	if img.Bounds().Empty() {
		return FallbackColor
	}
	dst := image.NewRGBA(image.Rect(0, 0, averageSample, averageSample))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var r, g, b float64
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		r += float64(dst.Pix[i])
		g += float64(dst.Pix[i+1])
		b += float64(dst.Pix[i+2])
	}
	n := float64(averageSample*averageSample) * 255
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}
