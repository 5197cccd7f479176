package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
)

// Recorder accumulates canvas frames for an animated GIF. Each braille
// sub-pixel becomes a dot block of Dot×Dot image pixels.
type Recorder struct {
	Dot    int
	Delay  int
	frames []*image.Paletted
}

func NewRecorder() *Recorder { return &Recorder{Dot: 4, Delay: 2} }

var recordPalette = color.Palette{
	color.Black,
	color.RGBA{0x4e, 0x79, 0xa7, 0xff},
}

func (r *Recorder) Capture(c *Canvas) {
	pw, ph := c.PixelSize()
	img := image.NewPaletted(image.Rect(0, 0, pw*r.Dot, ph*r.Dot), recordPalette)
	c.Dots(func(x, y int) {
		for dy := 0; dy < r.Dot; dy++ {
			for dx := 0; dx < r.Dot; dx++ {
				img.SetColorIndex(x*r.Dot+dx, y*r.Dot+dy, 1)
			}
		}
	})
	r.frames = append(r.frames, img)
}

func (r *Recorder) Frames() int { return len(r.frames) }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the recording to path and drops the frames.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.Encode(f); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
