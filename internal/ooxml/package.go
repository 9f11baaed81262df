package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	ErrNotZip       = errors.New("not a ZIP package: expected signature 50 4B")
	ErrPartNotFound = errors.New("part not found")
	ErrNotText      = errors.New("part is not valid UTF-8 text")
)

// zipSignature is the leading "PK" of a ZIP local file header.
var zipSignature = []byte{0x50, 0x4B}

// Package is an in-memory OOXML package: part path -> part bytes.
// Entry order of the source archive is kept; new parts are appended.
type Package struct {
	order []string
	parts map[string][]byte
}

// New returns an empty package.
func New() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// Open validates the ZIP signature and loads every entry of data.
func Open(data []byte) (*Package, error) {
	if !bytes.HasPrefix(data, zipSignature) {
		return nil, ErrNotZip
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}

	pkg := New()
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		pkg.put(normalizePath(f.Name), content)
	}

	return pkg, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Has reports whether the part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.parts[normalizePath(name)]
	return ok
}

// Names returns all part paths in archive order.
func (p *Package) Names() []string {
	return append([]string(nil), p.order...)
}

// List returns the part paths under prefix, in archive order.
func (p *Package) List(prefix string) []string {
	var names []string
	for _, name := range p.order {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

// ReadBinary returns a copy of the raw part bytes.
func (p *Package) ReadBinary(name string) ([]byte, error) {
	data, ok := p.parts[normalizePath(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return append([]byte(nil), data...), nil
}

// ReadText returns the part decoded as UTF-8 text.
func (p *Package) ReadText(name string) (string, error) {
	data, ok := p.parts[normalizePath(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, name)
	}
	return string(data), nil
}

// WriteBinary creates or replaces a part.
func (p *Package) WriteBinary(name string, data []byte) {
	p.put(normalizePath(name), append([]byte(nil), data...))
}

// WriteText creates or replaces a textual part.
func (p *Package) WriteText(name, text string) {
	p.put(normalizePath(name), []byte(text))
}

func (p *Package) put(name string, data []byte) {
	if p.parts == nil {
		p.parts = make(map[string][]byte)
	}
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// Bytes re-packs every part with Deflate compression.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package as a ZIP archive to w.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, name := range p.order {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			return cw.n, fmt.Errorf("failed to create entry %s: %w", name, err)
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return cw.n, fmt.Errorf("failed to write entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finalize package: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// SortedNames returns all part paths sorted lexically.
func (p *Package) SortedNames() []string {
	names := p.Names()
	sort.Strings(names)
	return names
}

// normalizePath strips a leading "./" or "/" from part names.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}
