package caption

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/visionex-project/captioner/pkg/utils"
)

var supportedTypes = []string{"image/png", "image/jpeg"}

// File is an upload as seen by the loader: a declared MIME type and size, and a way to
// read the content once.
type File interface {
	Name() string
	MimeType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// Load validates the upload and decodes it. The reader opened for decoding is closed
// before Load returns, whatever the outcome.
func Load(file File) (*SourceImage, error) {
	if !utils.Contains(supportedTypes, file.MimeType()) {
		return nil, fmt.Errorf("%w: %q, only PNG/JPG images are supported", ErrUnsupportedFormat, file.MimeType())
	}
	if file.Size() > MaxFileSize {
		return nil, fileTooLarge(uint64(file.Size()))
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrDecode, file.Name(), err)
	}
	defer reader.Close()

	// The declared size is not trusted; one extra byte is enough to detect overflow.
	data, err := io.ReadAll(io.LimitReader(reader, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrDecode, file.Name(), err)
	}
	if len(data) > MaxFileSize {
		return nil, fileTooLarge(uint64(len(data)))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, file.Name(), err)
	}

	return &SourceImage{
		Image:  img,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Name:   file.Name(),
	}, nil
}

func fileTooLarge(size uint64) error {
	return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge, humanize.IBytes(size), humanize.IBytes(MaxFileSize))
}

type localFile struct {
	path     string
	mimeType string
	size     int64
}

// OpenFile describes a file on disk. The MIME type is declared from the extension, the
// same way a browser file picker does.
func OpenFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &localFile{
		path:     path,
		mimeType: mime.TypeByExtension(filepath.Ext(path)),
		size:     info.Size(),
	}, nil
}

func (f *localFile) Name() string                 { return filepath.Base(f.path) }
func (f *localFile) MimeType() string             { return f.mimeType }
func (f *localFile) Size() int64                  { return f.size }
func (f *localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

type memoryFile struct {
	name     string
	mimeType string
	data     []byte
}

// NewMemoryFile wraps bytes already in memory, with an explicitly declared MIME type.
func NewMemoryFile(name string, mimeType string, data []byte) File {
	return &memoryFile{name: name, mimeType: mimeType, data: data}
}

func (f *memoryFile) Name() string     { return f.name }
func (f *memoryFile) MimeType() string { return f.mimeType }
func (f *memoryFile) Size() int64      { return int64(len(f.data)) }
func (f *memoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
