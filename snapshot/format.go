package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/somgo/codec"
	"github.com/hupe1980/somgo/internal/hash"
	"github.com/hupe1980/somgo/resource"
)

const (
	// Magic identifies snapshot blobs.
	Magic = "SOMS"
	// Version is the current envelope version.
	Version uint16 = 1

	fixedHeaderSize = 4 + 2 + 1 + 1
	trailerSize     = 4 + 8 + 8

	// MaxRawLen bounds the decoded payload size.
	MaxRawLen = 1 << 30

	// lz4MaxRatio bounds the expansion of an LZ4 block.
	lz4MaxRatio = 255
)

var (
	// ErrInvalidFormat is returned for data that is not a snapshot this
	// version can read.
	ErrInvalidFormat = errors.New("snapshot: invalid format")
	// ErrCorrupt is returned when a snapshot fails integrity checks.
	ErrCorrupt = errors.New("snapshot: corrupt")
)

// Option configures encoding and persistence.
type Option func(*options)

type options struct {
	codec       codec.Codec
	compression Compression
	rc          *resource.Controller
	now         func() time.Time
}

// WithCodec sets the payload codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the payload compression. Default: CompressionZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithResourceController throttles snapshot IO through rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithClock overrides the clock used for CreatedAt and snapshot names.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
		now:         time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Encode serializes s into a snapshot envelope.
func Encode(s *Snapshot, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeTo(&buf, s, applyOptions(opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the snapshot envelope for s to w.
func EncodeTo(w io.Writer, s *Snapshot, opts ...Option) error {
	return encodeTo(w, s, applyOptions(opts))
}

func encodeTo(w io.Writer, s *Snapshot, o options) error {
	if s == nil {
		return errors.New("snapshot: nil snapshot")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	name := o.codec.Name()
	if len(name) == 0 || len(name) > 255 {
		return fmt.Errorf("snapshot: invalid codec name %q", name)
	}

	raw, err := o.codec.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	stored, applied, err := compress(raw, o.compression)
	if err != nil {
		return fmt.Errorf("snapshot: compress: %w", err)
	}

	header := make([]byte, 0, fixedHeaderSize+len(name)+trailerSize)
	header = append(header, Magic...)
	header = binary.LittleEndian.AppendUint16(header, Version)
	header = append(header, byte(applied), byte(len(name)))
	header = append(header, name...)
	header = binary.LittleEndian.AppendUint32(header, hash.CRC32C(stored))
	header = binary.LittleEndian.AppendUint64(header, uint64(len(raw)))
	header = binary.LittleEndian.AppendUint64(header, uint64(len(stored)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// Header describes a snapshot envelope.
type Header struct {
	Version     uint16
	Compression Compression
	Codec       string
	Checksum    uint32
	RawLen      uint64
	StoredLen   uint64
}

// ReadHeader parses the envelope header and returns it with the header size.
func ReadHeader(data []byte) (Header, int, error) {
	var h Header
	if len(data) < fixedHeaderSize || string(data[:4]) != Magic {
		return h, 0, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}

	h.Version = binary.LittleEndian.Uint16(data[4:])
	if h.Version != Version {
		return h, 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, h.Version)
	}
	h.Compression = Compression(data[6])
	nameLen := int(data[7])

	off := fixedHeaderSize
	if len(data) < off+nameLen+trailerSize {
		return h, 0, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	h.Codec = string(data[off : off+nameLen])
	off += nameLen

	h.Checksum = binary.LittleEndian.Uint32(data[off:])
	h.RawLen = binary.LittleEndian.Uint64(data[off+4:])
	h.StoredLen = binary.LittleEndian.Uint64(data[off+12:])
	off += trailerSize

	return h, off, nil
}

// Decode parses and verifies a snapshot envelope.
func Decode(data []byte) (*Snapshot, error) {
	h, off, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalidFormat, h.Codec)
	}
	if h.Compression > CompressionZSTD {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFormat, h.Compression)
	}

	stored := data[off:]
	if uint64(len(stored)) != h.StoredLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(stored), h.StoredLen)
	}
	if !hash.Verify(stored, h.Checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	if err := checkRawLen(h); err != nil {
		return nil, err
	}

	raw, err := decompress(stored, h.Compression, int(h.RawLen))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	if uint64(len(raw)) != h.RawLen {
		return nil, fmt.Errorf("%w: payload decompressed to %d bytes, header says %d", ErrCorrupt, len(raw), h.RawLen)
	}

	s := new(Snapshot)
	if err := c.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrCorrupt, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s, nil
}

// checkRawLen rejects headers whose decoded size is impossible for the stored
// payload. The checksum does not cover RawLen.
func checkRawLen(h Header) error {
	if h.RawLen > MaxRawLen {
		return fmt.Errorf("%w: decoded size %d exceeds %d", ErrCorrupt, h.RawLen, MaxRawLen)
	}
	switch h.Compression {
	case CompressionNone:
		if h.RawLen != h.StoredLen {
			return fmt.Errorf("%w: uncompressed payload is %d bytes, header says %d", ErrCorrupt, h.StoredLen, h.RawLen)
		}
	case CompressionLZ4:
		if h.RawLen > h.StoredLen*lz4MaxRatio+16 {
			return fmt.Errorf("%w: decoded size %d too large for %d byte lz4 block", ErrCorrupt, h.RawLen, h.StoredLen)
		}
	}
	return nil
}

// DecodeFrom reads a whole envelope from r and decodes it.
func DecodeFrom(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
