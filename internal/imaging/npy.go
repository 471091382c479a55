package imaging

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/object-measure/internal/buffer"
)

var npyMagic = []byte("\x93NUMPY")

var (
	npyDescr   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	npyFortran = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	npyShape   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

var npyKinds = map[string]buffer.Kind{
	"u1": buffer.KindU8,
	"u2": buffer.KindU16,
	"u4": buffer.KindU32,
	"u8": buffer.KindU64,
	"i4": buffer.KindI32,
	"i8": buffer.KindI64,
	"f4": buffer.KindF32,
	"f8": buffer.KindF64,
}

func npyDescrOf(k buffer.Kind) string {
	for d, kind := range npyKinds {
		if kind == k {
			if k == buffer.KindU8 {
				return "|" + d
			}
			return "<" + d
		}
	}
	return ""
}

// npyHeader is the parsed array header of a .npy file.
type npyHeader struct {
	kind  buffer.Kind
	shape []int
}

func parseNpyHeader(r io.Reader) (npyHeader, error) {
	var h npyHeader

	prefix := make([]byte, 8)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return h, fmt.Errorf("%w: %v", ErrNpyFormat, err)
	}
	if !bytes.Equal(prefix[:6], npyMagic) {
		return h, fmt.Errorf("%w: bad magic", ErrNpyFormat)
	}

	var size int
	switch prefix[6] {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return h, fmt.Errorf("%w: %v", ErrNpyFormat, err)
		}
		size = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return h, fmt.Errorf("%w: %v", ErrNpyFormat, err)
		}
		size = int(n)
	default:
		return h, fmt.Errorf("%w: version %d.%d", ErrNpyFormat, prefix[6], prefix[7])
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return h, fmt.Errorf("%w: %v", ErrNpyFormat, err)
	}
	header := string(raw)

	m := npyDescr.FindStringSubmatch(header)
	if m == nil || len(m[1]) < 2 {
		return h, fmt.Errorf("%w: missing descr", ErrNpyFormat)
	}
	if m[1][0] == '>' {
		return h, fmt.Errorf("%w: big-endian dtype %s", ErrNpyFormat, m[1])
	}
	kind, ok := npyKinds[strings.TrimLeft(m[1], "<|=")]
	if !ok {
		return h, fmt.Errorf("%w: dtype %s", ErrNpyFormat, m[1])
	}
	h.kind = kind

	if f := npyFortran.FindStringSubmatch(header); f != nil && f[1] == "True" {
		return h, fmt.Errorf("%w: fortran order", ErrNpyFormat)
	}

	s := npyShape.FindStringSubmatch(header)
	if s == nil {
		return h, fmt.Errorf("%w: missing shape", ErrNpyFormat)
	}
	for _, part := range strings.Split(s[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return h, fmt.Errorf("%w: shape %q", ErrNpyFormat, s[1])
		}
		h.shape = append(h.shape, n)
	}
	return h, nil
}

// ReadNpy decodes a little-endian C-order array of shape (H, W) or
// (H, W, C) into a buffer of the matching kind.
func ReadNpy(r io.Reader) (buffer.Image, error) {
	br := bufio.NewReader(r)
	h, err := parseNpyHeader(br)
	if err != nil {
		return nil, err
	}

	var width, height, channels int
	switch len(h.shape) {
	case 2:
		height, width, channels = h.shape[0], h.shape[1], 1
	case 3:
		height, width, channels = h.shape[0], h.shape[1], h.shape[2]
	default:
		return nil, fmt.Errorf("%w: %d dimensions", ErrNpyFormat, len(h.shape))
	}
	n := width * height * channels

	switch h.kind {
	case buffer.KindU8:
		return readNpyData[uint8](br, width, height, channels, n)
	case buffer.KindU16:
		return readNpyData[uint16](br, width, height, channels, n)
	case buffer.KindU32:
		return readNpyData[uint32](br, width, height, channels, n)
	case buffer.KindU64:
		return readNpyData[uint64](br, width, height, channels, n)
	case buffer.KindI32:
		return readNpyData[int32](br, width, height, channels, n)
	case buffer.KindI64:
		return readNpyData[int64](br, width, height, channels, n)
	case buffer.KindF32:
		return readNpyData[float32](br, width, height, channels, n)
	case buffer.KindF64:
		return readNpyData[float64](br, width, height, channels, n)
	}
	return nil, fmt.Errorf("%w: kind %s", ErrNpyFormat, h.kind)
}

func readNpyData[T buffer.Scalar](r io.Reader, width, height, channels, n int) (buffer.Image, error) {
	data := make([]T, n)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("%w: reading %d values: %v", ErrNpyFormat, n, err)
	}
	return buffer.New(width, height, channels, data)
}

// WriteNpy encodes img as a version 1.0 .npy array. Single-channel images
// are written with shape (H, W).
func WriteNpy(w io.Writer, img buffer.Image) error {
	descr := npyDescrOf(img.Kind())
	if descr == "" {
		return fmt.Errorf("%w: kind %s", ErrNpyFormat, img.Kind())
	}

	shape := fmt.Sprintf("(%d, %d)", img.Height(), img.Width())
	if img.Channels() != 1 {
		shape = fmt.Sprintf("(%d, %d, %d)", img.Height(), img.Width(), img.Channels())
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shape)

	// magic(6) + version(2) + length(2) + header + '\n' padded to 64 bytes
	pad := 64 - (10+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)

	var err error
	switch b := img.(type) {
	case *buffer.Buffer[uint8]:
		_, err = bw.Write(b.Raw())
	case *buffer.Buffer[uint16]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	case *buffer.Buffer[uint32]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	case *buffer.Buffer[uint64]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	case *buffer.Buffer[int32]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	case *buffer.Buffer[int64]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	case *buffer.Buffer[float32]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	case *buffer.Buffer[float64]:
		err = binary.Write(bw, binary.LittleEndian, b.Raw())
	default:
		err = fmt.Errorf("%w: %T", ErrNpyFormat, img)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// ReadNpyFile opens path and decodes it with ReadNpy.
func ReadNpyFile(path string) (buffer.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	defer f.Close()
	return ReadNpy(f)
}

// WriteNpyFile creates path and encodes img with WriteNpy.
func WriteNpyFile(path string, img buffer.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageWrite, err)
	}
	if err := WriteNpy(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrImageWrite, err)
	}
	return f.Close()
}
