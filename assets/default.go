package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const badgePixels = 32

var defaultBadges = []struct {
	icon  Icon
	label string
	bg    color.RGBA
}{
	{IconEmail, "@", color.RGBA{R: 0xD9, G: 0x3F, B: 0x2F, A: 0xFF}},
	{IconPhone, "T", color.RGBA{R: 0x2E, G: 0x8B, B: 0x57, A: 0xFF}},
	{IconLinkedIn, "in", color.RGBA{R: 0x0A, G: 0x66, B: 0xC2, A: 0xFF}},
	{IconGitHub, "gh", color.RGBA{R: 0x24, G: 0x29, B: 0x2E, A: 0xFF}},
}

// DefaultIcons 生成一套圆形徽章 PNG 图标，未提供图标目录时使用。
func DefaultIcons() (IconTable, error) {
	table := make(IconTable, len(defaultBadges))
	for _, b := range defaultBadges {
		data, err := renderBadge(b.label, b.bg)
		if err != nil {
			return nil, fmt.Errorf("生成默认图标 %s 失败: %w", b.icon, err)
		}
		table[b.icon] = data
	}
	return table, nil
}

func renderBadge(label string, bg color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, badgePixels, badgePixels))
	center := float64(badgePixels) / 2
	for y := 0; y < badgePixels; y++ {
		for x := 0; x < badgePixels; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy <= center*center {
				img.SetRGBA(x, y, bg)
			}
		}
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	textWidth := font.MeasureString(face, label).Ceil()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P((badgePixels-textWidth)/2, (badgePixels-ascent-descent)/2+ascent),
	}
	d.DrawString(label)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
