package mnist

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	imagesMagic = 2051
	labelsMagic = 2049

	// preallocLimit bounds the up-front allocation for a header count.
	preallocLimit = 1 << 16
)

// openIDX opens an IDX file, transparently decompressing gzip content.
//
// The returned closer releases both the gzip reader and the file.
func openIDX(filename string) (io.Reader, func() error, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReader(file)
	head, err := br.Peek(2)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	if head[0] != 0x1f || head[1] != 0x8b {
		return br, file.Close, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return zr, func() error {
		zr.Close()
		return file.Close()
	}, nil
}

// readIDXImages reads an image file in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
func readIDXImages(r io.Reader) ([][]byte, error) {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != imagesMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, magic, imagesMagic)
	}

	var numImages, numRows, numCols uint32
	for _, v := range []*uint32{&numImages, &numRows, &numCols} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, fmt.Errorf("failed to read dimensions: %w", err)
		}
	}
	if numRows != Rows || numCols != Cols {
		return nil, fmt.Errorf("unexpected image size %dx%d, want %dx%d", numRows, numCols, Rows, Cols)
	}

	// The header count is untrusted; grow the slice as images arrive.
	images := make([][]byte, 0, min(numImages, preallocLimit))
	for i := range numImages {
		img := make([]byte, ImageSize)
		if _, err := io.ReadFull(r, img); err != nil {
			return nil, fmt.Errorf("failed to read image %d of %d: %w", i, numImages, err)
		}
		images = append(images, img)
	}

	return images, nil
}

// readIDXLabels reads a label file in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabels(r io.Reader) ([]byte, error) {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != labelsMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, magic, labelsMagic)
	}

	var numLabels uint32
	if err := binary.Read(r, binary.BigEndian, &numLabels); err != nil {
		return nil, fmt.Errorf("failed to read label count: %w", err)
	}

	labels, err := io.ReadAll(io.LimitReader(r, int64(numLabels)))
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(labels) != int(numLabels) {
		return nil, fmt.Errorf("failed to read labels: got %d of %d: %w", len(labels), numLabels, io.ErrUnexpectedEOF)
	}
	for i, l := range labels {
		if l > 9 {
			return nil, fmt.Errorf("label out of range [0, 9] at index %d: %d", i, l)
		}
	}

	return labels, nil
}

// writeIDX encodes images and labels in IDX format. Used by tests and
// by tooling that exports synthetic splits.
func writeIDX(images, labels io.Writer, split *Split) error {
	n := uint32(split.Len())

	for _, v := range []uint32{imagesMagic, n, Rows, Cols} {
		if err := binary.Write(images, binary.BigEndian, v); err != nil {
			return err
		}
	}
	buf := make([]byte, ImageSize)
	for _, img := range split.Images {
		for j, p := range img {
			buf[j] = byte(p*255 + 0.5)
		}
		if _, err := images.Write(buf); err != nil {
			return err
		}
	}

	for _, v := range []uint32{labelsMagic, n} {
		if err := binary.Write(labels, binary.BigEndian, v); err != nil {
			return err
		}
	}
	raw := make([]byte, len(split.Labels))
	for i, l := range split.Labels {
		raw[i] = byte(l)
	}
	_, err := labels.Write(raw)
	return err
}
