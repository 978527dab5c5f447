package xcodeproj

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// DefaultModTime is stamped on every archive entry unless overridden, so
// equal trees always produce equal archives.
var DefaultModTime = time.Date(2021, time.April, 26, 0, 0, 0, 0, time.UTC)

// Archive packs the tree into a zip with every entry deflated, in path order.
func (t FileTree) Archive(modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, p := range t.Paths() {
		if err := writeZipEntry(zw, p, []byte(t[p]), modified); err != nil {
			_ = zw.Close()
			return nil, &ArchiveError{Path: p, Message: "failed to add entry", Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &ArchiveError{Message: "failed to finish archive", Cause: err}
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry %q: %w", name, err)
	}
	return nil
}

// Entry describes one member of an archive.
type Entry struct {
	Name           string
	Method         uint16
	CompressedSize uint64
	Size           uint64
	Modified       time.Time
}

// Deflated reports whether the entry is stored with DEFLATE.
func (e Entry) Deflated() bool {
	return e.Method == zip.Deflate
}

// ReadArchive unpacks an archive produced by Archive.
func ReadArchive(data []byte) (FileTree, []Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, &ArchiveError{Message: "failed to open archive", Cause: err}
	}

	tree := make(FileTree, len(zr.File))
	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		content, err := readZipEntry(f)
		if err != nil {
			return nil, nil, &ArchiveError{Path: f.Name, Message: "failed to read entry", Cause: err}
		}
		tree[f.Name] = string(content)
		entries = append(entries, Entry{
			Name:           f.Name,
			Method:         f.Method,
			CompressedSize: f.CompressedSize64,
			Size:           f.UncompressedSize64,
			Modified:       f.Modified,
		})
	}
	return tree, entries, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
