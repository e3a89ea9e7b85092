package overlay

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	skyColor     = color.RGBA{R: 16, G: 24, B: 48, A: 255}
	horizonColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	sunColor     = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const sunRadiusPx = 6

// Render draws the overlay frame: a horizon line shifted by the device
// pitch, the sun marker at its offset from the view center, and the readout
// text. The vertical scale is the same pixelsPerDegree used for the marker
// offset in BuildState.
func Render(st State, width, height int, pixelsPerDegree float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, skyColor)
		}
	}

	centerY := height / 2

	// Horizon: pitch 0 puts it at the view center, looking up pushes it down.
	horizonY := centerY + int(st.Pitch*pixelsPerDegree)
	if horizonY >= 0 && horizonY < height {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, horizonY, horizonColor)
		}
	}

	if st.HaveSun {
		sunY := centerY + int(st.MarkerOffsetPx)
		drawDisc(img, width/2, sunY, sunRadiusPx, sunColor)
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{textColor},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(4, 13)
	// basicfont only covers ASCII, so no degree signs here.
	drawer.DrawBytes([]byte(fmt.Sprintf("%s %3.0f  pitch %5.1f", st.CompassPoint, st.Heading, st.Pitch)))

	drawer.Dot = fixed.P(4, 26)
	if st.HaveSun {
		drawer.DrawBytes([]byte(fmt.Sprintf("sun %5.1f at %s", st.SunElevation, st.CrossingTime)))
	} else {
		drawer.DrawBytes([]byte("no sun on this heading"))
	}

	drawer.Dot = fixed.P(4, height-6)
	drawer.DrawBytes([]byte(fmt.Sprintf("%.4f, %.4f", st.Latitude, st.Longitude)))

	return img
}

func drawDisc(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				x, y := cx+dx, cy+dy
				if x >= 0 && y >= 0 && x < img.Rect.Dx() && y < img.Rect.Dy() {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
}
