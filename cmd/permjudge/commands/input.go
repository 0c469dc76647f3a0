package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

const lz4Suffix = ".lz4"

// compressedFile closes the underlying file of an lz4 frame reader.
type compressedFile struct {
	*lz4.Reader

	file *os.File
}

func (c *compressedFile) Close() error {
	return c.file.Close()
}

// openInput opens path for reading. Files ending in .lz4 are decoded as
// LZ4 frames, which is how large transcripts are usually shipped.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	if !strings.HasSuffix(path, lz4Suffix) {
		return f, nil
	}

	return &compressedFile{Reader: lz4.NewReader(f), file: f}, nil
}
