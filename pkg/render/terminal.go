package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each cell shows two scanlines with an upper half block, so the
// framebuffer height should be 2x the area height.
//
// Terminal rows run top to bottom while framebuffer row 0 is the bottom
// scanline, so scanline sy from the top is framebuffer row Height-1-sy.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := (row - area.Min.Y) * 2

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: fb.screenColor(x, top),
					Bg: fb.screenColor(x, top+1),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// screenColor returns the color of the pixel at column x, scanline sy
// counted from the top, or nil outside the framebuffer.
func (fb *Framebuffer) screenColor(x, sy int) color.Color {
	if x < 0 || x >= fb.Width || sy < 0 || sy >= fb.Height {
		return nil
	}
	return fb.ReadColor(x, fb.Height-1-sy)
}
