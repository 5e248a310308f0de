package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// maxChannelValue is the largest channel value written to PPM headers.
const maxChannelValue = 255

// ChannelOrder is the byte order of one pixel in an external buffer.
type ChannelOrder int

const (
	OrderRGBA ChannelOrder = iota // R, G, B, 0xFF
	OrderBGRA                     // B, G, R, 0xFF
	OrderRGB                      // R, G, B
)

// PixelSize returns the number of bytes one pixel occupies.
func (o ChannelOrder) PixelSize() int {
	if o == OrderRGB {
		return 3
	}
	return 4
}

// Layout describes the pixel buffer a presenter expects.
type Layout struct {
	Order ChannelOrder
	// FlipY puts the top scanline first, as images and most window
	// surfaces expect. Without it rows keep the framebuffer order
	// (bottom scanline first).
	FlipY bool
}

// TopDownRGBA is the layout of image.RGBA pixel data.
var TopDownRGBA = Layout{Order: OrderRGBA, FlipY: true}

// BufferSize returns the number of bytes CopyTo writes for this layout.
func (fb *Framebuffer) BufferSize(layout Layout) int {
	return fb.Width * fb.Height * layout.Order.PixelSize()
}

// CopyTo copies the color plane into dst using the given layout.
// dst must hold at least BufferSize(layout) bytes.
func (fb *Framebuffer) CopyTo(dst []byte, layout Layout) {
	if len(dst) < fb.BufferSize(layout) {
		panic(fmt.Sprintf("render: CopyTo buffer holds %d bytes, need %d", len(dst), fb.BufferSize(layout)))
	}

	size := layout.Order.PixelSize()
	for y := range fb.Height {
		dy := y
		if layout.FlipY {
			dy = fb.Height - 1 - y
		}
		src := fb.Color[y*fb.Width*bytesPerPixel : (y+1)*fb.Width*bytesPerPixel]
		row := dst[dy*fb.Width*size : (dy+1)*fb.Width*size]

		for x := range fb.Width {
			r, g, b := src[x*3], src[x*3+1], src[x*3+2]
			p := row[x*size : (x+1)*size]
			switch layout.Order {
			case OrderBGRA:
				p[0], p[1], p[2], p[3] = b, g, r, 0xFF
			case OrderRGB:
				p[0], p[1], p[2] = r, g, b
			default:
				p[0], p[1], p[2], p[3] = r, g, b, 0xFF
			}
		}
	}
}

// ToImage converts the framebuffer to a top-down image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyTo(img.Pix, TopDownRGBA)
	return img
}

// WritePPM writes the color plane as a plain-text PPM (P3) image.
// Rows are emitted top to bottom, so framebuffer row 0 comes last.
func (fb *Framebuffer) WritePPM(w io.Writer) error {
	return fb.writePPM(w, func(x, y int) (int, int, int) {
		c := fb.ReadColor(x, y)
		return int(c.R), int(c.G), int(c.B)
	})
}

// WriteDepthPPM writes the depth plane as a P3 image with depth*255 in the
// red channel.
func (fb *Framebuffer) WriteDepthPPM(w io.Writer) error {
	return fb.writePPM(w, func(x, y int) (int, int, int) {
		return int(fb.ReadDepth(x, y) * maxChannelValue), 0, 0
	})
}

func (fb *Framebuffer) writePPM(w io.Writer, pixel func(x, y int) (int, int, int)) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n%d\n", fb.Width, fb.Height, maxChannelValue)
	for y := fb.Height - 1; y >= 0; y-- {
		for x := range fb.Width {
			r, g, b := pixel(x, y)
			fmt.Fprintf(bw, "%d %d %d ", r, g, b)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

// SavePPM writes the color plane to a PPM file.
func (fb *Framebuffer) SavePPM(path string) error {
	return fb.saveFile(path, fb.WritePPM)
}

// SaveDepthPPM writes the depth plane to a PPM file.
func (fb *Framebuffer) SaveDepthPPM(path string) error {
	return fb.saveFile(path, fb.WriteDepthPPM)
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return fb.saveFile(path, func(w io.Writer) error {
		return png.Encode(w, fb.ToImage())
	})
}

func (fb *Framebuffer) saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	Logger().Info("wrote image", "path", path, "width", fb.Width, "height", fb.Height)
	return nil
}
