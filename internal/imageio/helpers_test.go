package imageio

import "github.com/sorabito-takano/imgopt/internal/lanczos"

var lanczosBufferWithChannels2 = lanczos.Buffer{Width: 1, Height: 1, Channels: 2, Pix: []byte{0, 0}}

func lanczosBuffer(w, h, ch int, pix []byte) *lanczos.Buffer {
	b, err := lanczos.FromPix(w, h, ch, pix)
	if err != nil {
		panic(err)
	}
	return b
}
