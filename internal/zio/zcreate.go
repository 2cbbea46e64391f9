package zio

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ZCreate creates filename for writing, compressing whatever gets written based
// on the file name extension: .gz, .zst / .zstd, .xz or .sz. Other names are
// written uncompressed.
//
// Closing the returned writer flushes the compressor and closes the file.
func ZCreate(filename string) (io.WriteCloser, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	var compressor io.WriteCloser
	switch {
	case strings.HasSuffix(filename, ".gz"):
		compressor = gzip.NewWriter(file)
	case strings.HasSuffix(filename, ".zst"), strings.HasSuffix(filename, ".zstd"):
		compressor, err = zstd.NewWriter(file)
	case strings.HasSuffix(filename, ".xz"):
		compressor, err = xz.NewWriter(file)
	case strings.HasSuffix(filename, ".sz"):
		compressor = snappy.NewBufferedWriter(file)
	default:
		return file, nil
	}

	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &compressingWriter{compressor: compressor, file: file}, nil
}

type compressingWriter struct {
	compressor io.WriteCloser
	file       *os.File
}

func (w *compressingWriter) Write(p []byte) (int, error) {
	return w.compressor.Write(p)
}

func (w *compressingWriter) Close() error {
	return errors.Join(w.compressor.Close(), w.file.Close())
}
