package interpolate

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
)

// All streams are little endian. A series is a uint64 length followed by its
// elements.

const (
	// maxSeriesLen bounds the length of series read from streams.
	maxSeriesLen = 1 << 28
	// Series are read in chunks of at most this many elements, so memory
	// grows with the data actually present rather than the length prefix.
	seriesChunk = 1 << 14
)

var order = binary.LittleEndian

var (
	_ encoding.BinaryMarshaler   = &Linear{}
	_ encoding.BinaryUnmarshaler = &Linear{}
	_ encoding.BinaryMarshaler   = &Akima{}
	_ encoding.BinaryUnmarshaler = &Akima{}
	_ encoding.BinaryMarshaler   = &Slerp{}
	_ encoding.BinaryUnmarshaler = &Slerp{}
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// pairHeader is the fixed-size prefix of a pair interpolator's stream.
type pairHeader struct {
	Mode        uint32
	LowIndex    uint64
	HighIndex   uint64
	Low, High   float64
	InverseSpan float64
}

func writeSeries[Y any](w io.Writer, ys []Y) error {
	if err := binary.Write(w, order, uint64(len(ys))); err != nil {
		return err
	}
	return binary.Write(w, order, ys)
}

func readSeries[Y any](r io.Reader) ([]Y, error) {
	var n uint64
	if err := binary.Read(r, order, &n); err != nil {
		return nil, err
	}
	if n > maxSeriesLen {
		return nil, fmt.Errorf(
			"%w: series length %d exceeds the maximum of %d",
			ErrCorrupt, n, maxSeriesLen,
		)
	}
	ys := make([]Y, 0, min(n, seriesChunk))
	buf := make([]Y, min(n, seriesChunk))
	for left := n; left > 0; {
		chunk := buf[:min(left, seriesChunk)]
		if err := binary.Read(r, order, chunk); err != nil {
			return nil, err
		}
		ys = append(ys, chunk...)
		left -= uint64(len(chunk))
	}
	return ys, nil
}

func corrupt(what string, err error) error {
	if errors.Is(err, ErrCorrupt) {
		return err
	} else if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: reading %s: %w", ErrCorrupt, what, err)
}

func readMode(r io.Reader) (ExtrapolationMode, error) {
	var mode uint32
	if err := binary.Read(r, order, &mode); err != nil {
		return 0, corrupt("extrapolation mode", err)
	}
	if m := ExtrapolationMode(mode); !m.valid() {
		return 0, fmt.Errorf("%w: unknown extrapolation mode %d", ErrCorrupt, mode)
	}
	return ExtrapolationMode(mode), nil
}

// readData reads a coordinate series followed by a value series and validates
// them like SetData.
func readData[Y any](r io.Reader) ([]float64, []Y, error) {
	xs, err := readSeries[float64](r)
	if err != nil {
		return nil, nil, corrupt("coordinates", err)
	}
	ys, err := readSeries[Y](r)
	if err != nil {
		return nil, nil, corrupt("values", err)
	}
	if err := validateSeries(xs, ys, math.Inf(-1)); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return xs, ys, nil
}

// WriteTo writes the interpolator's mode, lookup cache and points to w.
func (p *Pair[Y, S]) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	hd := pairHeader{
		Mode:        uint32(p.mode),
		LowIndex:    uint64(p.last.lo),
		HighIndex:   uint64(p.last.hi),
		Low:         p.last.xLo,
		High:        p.last.xHi,
		InverseSpan: p.last.inverseSpan,
	}
	if err := binary.Write(cw, order, &hd); err != nil {
		return cw.n, err
	}
	if err := writeSeries(cw, p.xs); err != nil {
		return cw.n, err
	}
	err := writeSeries(cw, p.ys)
	return cw.n, err
}

// ReadFrom replaces the interpolator's state with a stream written by WriteTo.
// The interpolator is unchanged if an error is returned.
func (p *Pair[Y, S]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	hd := pairHeader{}
	if err := binary.Read(cr, order, &hd); err != nil {
		return cr.n, corrupt("header", err)
	}
	mode := ExtrapolationMode(hd.Mode)
	if !mode.valid() {
		return cr.n, fmt.Errorf("%w: unknown extrapolation mode %d", ErrCorrupt, hd.Mode)
	}
	xs, ys, err := readData[Y](cr)
	if err != nil {
		return cr.n, err
	}

	next := Pair[Y, S]{xs: xs, ys: ys, mode: mode}
	if err := next.restoreBracket(&hd); err != nil {
		return cr.n, err
	}
	*p = next
	return cr.n, nil
}

// restoreBracket installs a cached bracket read from a stream after checking
// it against the points.
func (p *Pair[Y, S]) restoreBracket(hd *pairHeader) error {
	n := uint64(len(p.xs))
	if n < 2 {
		if hd.LowIndex != 0 || hd.HighIndex != 0 {
			return fmt.Errorf(
				"%w: bracket (%d, %d) cached for %d points",
				ErrCorrupt, hd.LowIndex, hd.HighIndex, n,
			)
		}
		p.last = bracket{}
		return nil
	}

	if hd.LowIndex >= n || hd.HighIndex >= n || hd.HighIndex != hd.LowIndex+1 ||
		p.xs[hd.LowIndex] != hd.Low || p.xs[hd.HighIndex] != hd.High {
		return fmt.Errorf(
			"%w: bracket (%d, %d) = [%g, %g] is inconsistent with %d points",
			ErrCorrupt, hd.LowIndex, hd.HighIndex, hd.Low, hd.High, n,
		)
	}
	p.setBracket(int(hd.LowIndex), int(hd.HighIndex))
	return nil
}

func (p *Pair[Y, S]) MarshalBinary() ([]byte, error) { return marshal(p) }

func (p *Pair[Y, S]) UnmarshalBinary(data []byte) error { return unmarshal(data, p) }

// Hash returns a 64-bit content hash of the interpolator. It is computed by
// serializing the interpolator, so it is as expensive as WriteTo.
func (p *Pair[Y, S]) Hash() (uint64, error) { return hash(p) }

func marshal(w io.WriterTo) ([]byte, error) {
	buf := &bytes.Buffer{}
	if _, err := w.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshal(data []byte, r io.ReaderFrom) error {
	rd := bytes.NewReader(data)
	if _, err := r.ReadFrom(rd); err != nil {
		return err
	}
	if rd.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, rd.Len())
	}
	return nil
}

func hash(w io.WriterTo) (uint64, error) {
	h := xxhash.New()
	if _, err := w.WriteTo(h); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
