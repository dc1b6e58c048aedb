package graphics

import "ember/emberos/kerror"

// Config describes a frame buffer the way the bootloader hands it over:
// geometry, stride and pixel format. Buf points at the pixel store; leave it
// nil to have New allocate a private one (shadow buffers do this).
type Config struct {
	Width             int
	Height            int
	PixelsPerScanLine int
	Format            PixelFormat
	Buf               []byte
}

// FrameBuffer is a row-major 4-byte-per-pixel surface.
type FrameBuffer struct {
	config Config
	buf    []byte
}

// New wraps or allocates a pixel store for the config.
func New(config Config) (*FrameBuffer, error) {
	switch config.Format {
	case PixelRGB8, PixelBGR8:
	default:
		return nil, kerror.UnknownPixelFormat
	}
	if config.PixelsPerScanLine < config.Width {
		config.PixelsPerScanLine = config.Width
	}
	buf := config.Buf
	if buf == nil {
		buf = make([]byte, config.PixelsPerScanLine*config.Height*bytesPerPixel)
	}
	return &FrameBuffer{config: config, buf: buf}, nil
}

// NewShadow allocates a buffer with the same format as fb but its own size.
func NewShadow(size Point, fb *FrameBuffer) (*FrameBuffer, error) {
	return New(Config{
		Width:  size.X,
		Height: size.Y,
		Format: fb.config.Format,
	})
}

func (f *FrameBuffer) Width() int          { return f.config.Width }
func (f *FrameBuffer) Height() int         { return f.config.Height }
func (f *FrameBuffer) Size() Point         { return Point{f.config.Width, f.config.Height} }
func (f *FrameBuffer) Format() PixelFormat { return f.config.Format }

// Buffer exposes the raw pixel store (the HAL presents from it).
func (f *FrameBuffer) Buffer() []byte { return f.buf }

func (f *FrameBuffer) byteOffset(p Point) int {
	return (p.Y*f.config.PixelsPerScanLine + p.X) * bytesPerPixel
}

// Write stores one pixel; out-of-bounds writes are dropped.
func (f *FrameBuffer) Write(p Point, c PixelColor) {
	if p.X < 0 || p.X >= f.config.Width || p.Y < 0 || p.Y >= f.config.Height {
		return
	}
	b := f.buf[f.byteOffset(p):]
	switch f.config.Format {
	case PixelRGB8:
		b[0], b[1], b[2] = c.R, c.G, c.B
	case PixelBGR8:
		b[0], b[1], b[2] = c.B, c.G, c.R
	}
}

// At reads one pixel back; out-of-bounds reads return black.
func (f *FrameBuffer) At(p Point) PixelColor {
	if p.X < 0 || p.X >= f.config.Width || p.Y < 0 || p.Y >= f.config.Height {
		return PixelColor{}
	}
	b := f.buf[f.byteOffset(p):]
	switch f.config.Format {
	case PixelRGB8:
		return PixelColor{R: b[0], G: b[1], B: b[2]}
	default:
		return PixelColor{R: b[2], G: b[1], B: b[0]}
	}
}

// Copy blits srcArea of src to dstPos, clipping both rectangles to their
// surfaces. The two buffers must share a pixel format.
func (f *FrameBuffer) Copy(dstPos Point, src *FrameBuffer, srcArea Rect) error {
	if f.config.Format != src.config.Format {
		return kerror.UnknownPixelFormat
	}

	sa := srcArea.Intersect(Rect{Size: src.Size()})
	da := Rect{Pos: dstPos, Size: sa.Size}.Intersect(Rect{Size: f.Size()})
	if da.Empty() {
		return nil
	}
	srcStart := sa.Pos.Add(da.Pos.Sub(dstPos))

	rowBytes := da.Size.X * bytesPerPixel
	for dy := 0; dy < da.Size.Y; dy++ {
		d := f.byteOffset(Point{da.Pos.X, da.Pos.Y + dy})
		s := src.byteOffset(Point{srcStart.X, srcStart.Y + dy})
		copy(f.buf[d:d+rowBytes], src.buf[s:s+rowBytes])
	}
	return nil
}

// MoveRect shifts the src rectangle inside the buffer so its origin lands on
// dstPos. Row order is chosen so overlapping moves stay correct.
func (f *FrameBuffer) MoveRect(dstPos Point, src Rect) {
	sa := src.Intersect(Rect{Size: f.Size()})
	da := Rect{Pos: dstPos, Size: sa.Size}.Intersect(Rect{Size: f.Size()})
	if da.Empty() {
		return
	}
	srcStart := sa.Pos.Add(da.Pos.Sub(dstPos))
	rowBytes := da.Size.X * bytesPerPixel

	if da.Pos.Y <= srcStart.Y {
		for dy := 0; dy < da.Size.Y; dy++ {
			d := f.byteOffset(Point{da.Pos.X, da.Pos.Y + dy})
			s := f.byteOffset(Point{srcStart.X, srcStart.Y + dy})
			copy(f.buf[d:d+rowBytes], f.buf[s:s+rowBytes])
		}
	} else {
		for dy := da.Size.Y - 1; dy >= 0; dy-- {
			d := f.byteOffset(Point{da.Pos.X, da.Pos.Y + dy})
			s := f.byteOffset(Point{srcStart.X, srcStart.Y + dy})
			copy(f.buf[d:d+rowBytes], f.buf[s:s+rowBytes])
		}
	}
}
