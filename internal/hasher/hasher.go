package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/sorabito-takano/imgopt/internal/lanczos"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. For content-addressed filenames we
// use 16 hex chars (64 bits), which is collision-safe for practical
// asset counts.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// BufferDigest hashes the shape and pixels of a buffer. Two buffers have
// the same digest only if they have the same dimensions, channel count and
// bytes.
func BufferDigest(b *lanczos.Buffer) uint64 {
	var hdr [24]byte
	binary.BigEndian.PutUint64(hdr[0:], uint64(b.Width))
	binary.BigEndian.PutUint64(hdr[8:], uint64(b.Height))
	binary.BigEndian.PutUint64(hdr[16:], uint64(b.Channels))
	d := xxhash.New()
	d.Write(hdr[:])
	d.Write(b.Pix)
	return d.Sum64()
}

func truncate(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
