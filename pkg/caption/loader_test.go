package caption

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buffer := new(bytes.Buffer)
	require.NoError(t, png.Encode(buffer, img))
	return buffer.Bytes()
}

func solidImage(width, height int, fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	return img
}

// noiseImage compresses badly, so its PNG is close to its raw size.
func noiseImage(width, height int) *image.NRGBA {
	random := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	random.Read(img.Pix)
	return img
}

type trackingFile struct {
	File
	closed bool
}

type trackingReader struct {
	io.ReadCloser
	file *trackingFile
}

func (r *trackingReader) Close() error {
	r.file.closed = true
	return r.ReadCloser.Close()
}

func (f *trackingFile) Open() (io.ReadCloser, error) {
	reader, err := f.File.Open()
	if err != nil {
		return nil, err
	}
	return &trackingReader{ReadCloser: reader, file: f}, nil
}

// understatedFile declares a smaller size than it really has.
type understatedFile struct {
	File
}

func (f understatedFile) Size() int64 { return 1024 }

func TestLoadPNG(t *testing.T) {
	data := encodePNG(t, solidImage(64, 48, color.White))

	source, err := Load(NewMemoryFile("white.png", "image/png", data))
	require.NoError(t, err)

	assert.Equal(t, 64, source.Width)
	assert.Equal(t, 48, source.Height)
	assert.Equal(t, "white.png", source.Name)
}

func TestLoadJPEG(t *testing.T) {
	buffer := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buffer, solidImage(30, 20, color.Black), nil))

	source, err := Load(NewMemoryFile("black.jpg", "image/jpeg", buffer.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, 30, source.Width)
	assert.Equal(t, 20, source.Height)
}

func TestLoadThreeMegabytePNG(t *testing.T) {
	data := encodePNG(t, noiseImage(1000, 750))
	require.Greater(t, len(data), 2*1024*1024)
	require.Less(t, len(data), MaxFileSize)

	source, err := Load(NewMemoryFile("noise.png", "image/png", data))
	require.NoError(t, err)
	assert.Equal(t, 1000, source.Width)
	assert.Equal(t, 750, source.Height)
}

func TestLoadRejectsLargeFile(t *testing.T) {
	data := make([]byte, 11*1024*1024)

	_, err := Load(NewMemoryFile("huge.png", "image/png", data))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoadRejectsLargeContentBehindSmallDeclaredSize(t *testing.T) {
	file := understatedFile{NewMemoryFile("huge.png", "image/png", make([]byte, MaxFileSize+10))}

	_, err := Load(file)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoadAcceptsExactLimit(t *testing.T) {
	// Exactly at the limit passes validation and fails only at decoding.
	_, err := Load(NewMemoryFile("limit.png", "image/png", make([]byte, MaxFileSize)))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadRejectsUnsupportedTypes(t *testing.T) {
	for _, mimeType := range []string{"image/gif", "image/webp", "", "IMAGE/PNG", "image/jpg"} {
		_, err := Load(NewMemoryFile("file", mimeType, []byte("data")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "mime type %q", mimeType)
	}
}

func TestLoadCorruptData(t *testing.T) {
	_, err := Load(NewMemoryFile("broken.png", "image/png", []byte("definitely not a png")))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadClosesReader(t *testing.T) {
	good := &trackingFile{File: NewMemoryFile("ok.png", "image/png", encodePNG(t, solidImage(2, 2, color.White)))}
	_, err := Load(good)
	require.NoError(t, err)
	assert.True(t, good.closed)

	bad := &trackingFile{File: NewMemoryFile("bad.png", "image/png", []byte("junk"))}
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, bad.closed)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(pngPath, encodePNG(t, solidImage(8, 4, color.White)), 0o644))

	file, err := OpenFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "photo.png", file.Name())
	assert.Equal(t, "image/png", file.MimeType())

	source, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 8, source.Width)

	gifPath := filepath.Join(dir, "anim.gif")
	require.NoError(t, os.WriteFile(gifPath, []byte("GIF89a"), 0o644))
	file, err = OpenFile(gifPath)
	require.NoError(t, err)
	_, err = Load(file)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = OpenFile(dir)
	assert.Error(t, err)
}
