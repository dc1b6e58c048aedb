//go:build !tinygo

package hal

import "sync"

// hostFramebuffer mimics a GOP-handed framebuffer: BGR8, 4 bytes per pixel.
type hostFramebuffer struct {
	mu     sync.Mutex
	config FrameBufferConfig
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	return &hostFramebuffer{
		config: FrameBufferConfig{
			Width:             width,
			Height:            height,
			PixelsPerScanLine: width,
			Format:            PixelFormatBGR8,
		},
		buf: make([]byte, width*height*4),
	}
}

func (f *hostFramebuffer) Config() FrameBufferConfig { return f.config }
func (f *hostFramebuffer) Buffer() []byte            { return f.buf }
func (f *hostFramebuffer) Present() error            { return nil }

func (f *hostFramebuffer) snapshot(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
