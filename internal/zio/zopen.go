package zio

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

var gzipMagic = []byte{0x1f, 0x8b}
var bzip2Magic = []byte{0x42, 0x5a, 0x68}
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// Stream identifier chunk of the snappy framing format
var snappyMagic = []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}

// Long enough for the longest magic above
const magicLength = 10

// Read up to magicLength bytes from the start of input
func readMagic(input io.Reader) ([]byte, error) {
	firstBytes := make([]byte, magicLength)
	n, err := io.ReadFull(input, firstBytes)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// Short or empty input, fine
		err = nil
	}
	return firstBytes[:n], err
}

// The second return value is the file name with any compression extension removed.
func ZOpen(filename string) (io.ReadCloser, string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}

	firstBytes, err := readMagic(file)
	if err != nil {
		_ = file.Close()
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	// Reset file reader to start of file
	_, err = file.Seek(0, 0)
	if err != nil {
		_ = file.Close()
		return nil, "", fmt.Errorf("failed to seek to start of file: %w", err)
	}

	switch {
	case bytes.HasPrefix(firstBytes, gzipMagic):
		reader, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, "", err
		}

		return struct {
			io.Reader
			io.Closer
		}{reader, file}, strings.TrimSuffix(filename, ".gz"), nil

	case bytes.HasPrefix(firstBytes, bzip2Magic):
		return struct {
			io.Reader
			io.Closer
		}{bzip2.NewReader(file), file}, strings.TrimSuffix(filename, ".bz2"), nil

	case bytes.HasPrefix(firstBytes, zstdMagic):
		decoder, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, "", err
		}

		newName := strings.TrimSuffix(filename, ".zst")
		newName = strings.TrimSuffix(newName, ".zstd")
		return &zstdReadCloser{decoder: decoder, file: file}, newName, nil

	case bytes.HasPrefix(firstBytes, xzMagic):
		xzReader, err := xz.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, "", err
		}

		return struct {
			io.Reader
			io.Closer
		}{xzReader, file}, strings.TrimSuffix(filename, ".xz"), nil

	case bytes.HasPrefix(firstBytes, snappyMagic):
		return struct {
			io.Reader
			io.Closer
		}{snappy.NewReader(file), file}, strings.TrimSuffix(filename, ".sz"), nil
	}

	return file, filename, nil
}

// The zstd decoder's own io.ReadCloser doesn't close the file
type zstdReadCloser struct {
	decoder *zstd.Decoder
	file    *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.decoder.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.decoder.Close()
	return z.file.Close()
}

// ZReader returns a reader that decompresses the input stream. Any input stream
// compression will be automatically detected. Uncompressed streams will be
// returned as-is.
func ZReader(input io.Reader) (io.Reader, error) {
	firstBytes, err := readMagic(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	// Reset input reader to start of stream
	input = io.MultiReader(bytes.NewReader(firstBytes), input)

	switch {
	case bytes.HasPrefix(firstBytes, gzipMagic):
		log.Debug("Input stream is gzip compressed")
		return gzip.NewReader(input)
	case bytes.HasPrefix(firstBytes, zstdMagic):
		log.Debug("Input stream is zstd compressed")
		return zstd.NewReader(input)
	case bytes.HasPrefix(firstBytes, bzip2Magic):
		log.Debug("Input stream is bzip2 compressed")
		return bzip2.NewReader(input), nil
	case bytes.HasPrefix(firstBytes, xzMagic):
		log.Debug("Input stream is xz compressed")
		return xz.NewReader(input)
	case bytes.HasPrefix(firstBytes, snappyMagic):
		log.Debug("Input stream is snappy compressed")
		return snappy.NewReader(input), nil
	default:
		// No magic numbers matched
		log.Debug("Input stream is assumed to be uncompressed")
		return input, nil
	}
}
