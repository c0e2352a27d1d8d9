package io

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/phil-mansfield/vecinterp/math/interpolate"
)

/*
The binary format used for model files is as follows:

	|-- 1 --||-- ... 2 ... --|

	1 - (ModelHeader) Little endian header describing the payload. The
	    HeaderSize field should be checked for consistency.
	2 - ([]byte) The interpolator's stream, compressed as described by the
	    header.
*/
type ModelHeader struct {
	Magic        [4]byte
	Version      uint32
	HeaderSize   uint32
	Kind         Kind
	Compression  Compression
	_            [7]byte
	Uncompressed uint64
	Compressed   uint64
	Checksum     uint64 // xxhash of the uncompressed stream
}

const (
	modelVersion = 1
	// maxPayload is the largest payload accepted when reading a model.
	maxPayload = 1 << 32
	// Payloads that compress to more than this fraction of their size are
	// stored uncompressed.
	maxRatio = 0.9
)

var (
	modelMagic = [4]byte{'V', 'I', 'N', 'T'}
	end        = binary.LittleEndian

	// ErrBadModel is returned when a model file is malformed.
	ErrBadModel = errors.New("io: malformed model file")
)

// Kind identifies the interpolator stored in a model file.
type Kind uint32

const (
	KindLinear Kind = iota
	KindNearest
	KindAkima
	KindSlerp
	KindBiLinear
	KindBiNearest
	KindBiAkima
	numKinds
)

var kindNames = [numKinds]string{
	"Linear", "Nearest", "Akima", "Slerp", "BiLinear", "BiNearest", "BiAkima",
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
	return kindNames[k]
}

// Compression is the algorithm used for model payloads.
type Compression uint8

const (
	None Compression = iota
	LZ4
	Zstd
	numCompressions
)

var compressionNames = [numCompressions]string{"None", "LZ4", "Zstd"}

func (c Compression) String() string {
	if c >= numCompressions {
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
	return compressionNames[c]
}

// UnmarshalText parses a compression name, ignoring case.
func (c *Compression) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	for i, name := range compressionNames {
		if strings.EqualFold(s, name) {
			*c = Compression(i)
			return nil
		}
	}
	return fmt.Errorf(
		"Unrecognized compression '%s'. Accepted values are 'None', 'LZ4', "+
			"and 'Zstd'.", s,
	)
}

// Model is an interpolator which can be stored in a model file.
type Model interface {
	io.WriterTo
	encoding.BinaryUnmarshaler
	Hash() (uint64, error)
	ExtrapolationMode() interpolate.ExtrapolationMode
	Len() int
	Empty() bool
	String() string
}

// KindOf returns the Kind of the given interpolator.
func KindOf(m Model) (Kind, error) {
	switch m.(type) {
	case *interpolate.Linear:
		return KindLinear, nil
	case *interpolate.NearestNeighbor:
		return KindNearest, nil
	case *interpolate.Akima:
		return KindAkima, nil
	case *interpolate.Slerp:
		return KindSlerp, nil
	case *interpolate.BiVector[*interpolate.Linear]:
		return KindBiLinear, nil
	case *interpolate.BiVector[*interpolate.NearestNeighbor]:
		return KindBiNearest, nil
	case *interpolate.BiVector[*interpolate.Akima]:
		return KindBiAkima, nil
	}
	return 0, fmt.Errorf("Cannot store interpolators of type %T.", m)
}

// NewModel returns an empty interpolator of the given kind.
func NewModel(k Kind) (Model, error) {
	mode := interpolate.Extrapolate
	switch k {
	case KindLinear:
		return &interpolate.Linear{}, nil
	case KindNearest:
		return &interpolate.NearestNeighbor{}, nil
	case KindAkima:
		return &interpolate.Akima{}, nil
	case KindSlerp:
		return &interpolate.Slerp{}, nil
	case KindBiLinear:
		return interpolate.NewBiLinear(mode)
	case KindBiNearest:
		return interpolate.NewBiNearest(mode)
	case KindBiAkima:
		return interpolate.NewBiAkima(mode)
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrBadModel, uint32(k))
}

// WriteModel writes m to w in the model file format and returns the number
// of bytes written.
func WriteModel(w io.Writer, m Model, c Compression) (int64, error) {
	kind, err := KindOf(m)
	if err != nil {
		return 0, err
	} else if c >= numCompressions {
		return 0, fmt.Errorf("Unknown compression %d.", uint8(c))
	}

	raw := &bytes.Buffer{}
	if _, err := m.WriteTo(raw); err != nil {
		return 0, err
	}
	payload, c, err := compress(raw.Bytes(), c)
	if err != nil {
		return 0, err
	}

	hd := ModelHeader{
		Magic:        modelMagic,
		Version:      modelVersion,
		HeaderSize:   uint32(unsafe.Sizeof(ModelHeader{})),
		Kind:         kind,
		Compression:  c,
		Uncompressed: uint64(raw.Len()),
		Compressed:   uint64(len(payload)),
		Checksum:     xxhash.Sum64(raw.Bytes()),
	}
	if err := binary.Write(w, end, &hd); err != nil {
		return 0, err
	}
	n, err := w.Write(payload)
	return int64(binary.Size(&hd)) + int64(n), err
}

// ReadModel reads a model written by WriteModel.
func ReadModel(r io.Reader) (Model, error) {
	hd := &ModelHeader{}
	if err := binary.Read(r, end, hd); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrBadModel, err)
	}

	switch {
	case hd.Magic != modelMagic:
		return nil, fmt.Errorf("%w: bad magic number %q", ErrBadModel, hd.Magic[:])
	case hd.Version != modelVersion:
		return nil, fmt.Errorf(
			"%w: version %d is not supported", ErrBadModel, hd.Version,
		)
	case hd.HeaderSize != uint32(unsafe.Sizeof(ModelHeader{})):
		return nil, fmt.Errorf(
			"%w: expected a header size of %d, found %d",
			ErrBadModel, unsafe.Sizeof(ModelHeader{}), hd.HeaderSize,
		)
	case hd.Compression >= numCompressions:
		return nil, fmt.Errorf(
			"%w: unknown compression %d", ErrBadModel, uint8(hd.Compression),
		)
	case hd.Uncompressed > maxPayload || hd.Compressed > maxPayload:
		return nil, fmt.Errorf(
			"%w: payload of %d bytes is too large", ErrBadModel, hd.Uncompressed,
		)
	case hd.Compression == None && hd.Compressed != hd.Uncompressed:
		return nil, fmt.Errorf(
			"%w: uncompressed payload sizes %d and %d differ",
			ErrBadModel, hd.Compressed, hd.Uncompressed,
		)
	}

	m, err := NewModel(hd.Kind)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, hd.Compressed)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: reading payload: %w", ErrBadModel, err)
	}
	raw, err := decompress(payload, hd.Compression, int(hd.Uncompressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadModel, err)
	}
	if xxhash.Sum64(raw) != hd.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadModel)
	}

	if err := m.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadModel, err)
	}
	return m, nil
}

// SaveModel writes m to the file fname and returns the file's size.
func SaveModel(fname string, m Model, c Compression) (int64, error) {
	f, err := os.Create(fname)
	if err != nil {
		return 0, err
	}
	n, err := WriteModel(f, m, c)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

// LoadModel reads the model file fname.
func LoadModel(fname string) (Model, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return m, nil
}

// compress returns the compressed payload and the compression actually used.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if c == None || len(data) == 0 {
		return data, None, nil
	}

	var out []byte
	switch c {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, None, err
		}
		out = buf[:n]
	case Zstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, None, err
		}
		out = enc.EncodeAll(data, nil)
		enc.Close()
	}

	// n == 0 means lz4 found the block incompressible.
	if len(out) == 0 || float64(len(out)) > float64(len(data))*maxRatio {
		return data, None, nil
	}
	return out, c, nil
}

func decompress(data []byte, c Compression, size int) ([]byte, error) {
	switch c {
	case LZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		} else if n != size {
			return nil, fmt.Errorf(
				"decompressed %d bytes, expected %d", n, size,
			)
		}
		return out, nil
	case Zstd:
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(size)+1))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, err
		} else if len(out) != size {
			return nil, fmt.Errorf(
				"decompressed %d bytes, expected %d", len(out), size,
			)
		}
		return out, nil
	}
	return data, nil
}

// ModelInfo summarizes a model for the -Inspect mode.
type ModelInfo struct {
	Kind     Kind
	Mode     interpolate.ExtrapolationMode
	Len      int
	Min, Max float64
	Hash     uint64
}

// Describe summarizes m. Min and Max span the stored coordinates (rows, for
// grids) and are zero for empty models.
func Describe(m Model) (*ModelInfo, error) {
	kind, err := KindOf(m)
	if err != nil {
		return nil, err
	}
	h, err := m.Hash()
	if err != nil {
		return nil, err
	}
	info := &ModelInfo{Kind: kind, Mode: m.ExtrapolationMode(), Len: m.Len(), Hash: h}

	var xs []float64
	switch m := m.(type) {
	case interface{ X() []float64 }:
		xs = m.X()
	case interface{ Rows() []float64 }:
		xs = m.Rows()
	}
	if len(xs) > 0 {
		info.Min, info.Max = xs[0], xs[len(xs)-1]
	}
	return info, nil
}

func (info *ModelInfo) String() string {
	return fmt.Sprintf(
		"Kind: %s\nExtrapolationMode: %s\nPoints: %d\nDomain: [%g, %g]\n"+
			"Hash: %016x",
		info.Kind, info.Mode, info.Len, info.Min, info.Max, info.Hash,
	)
}
