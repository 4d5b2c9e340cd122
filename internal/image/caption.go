// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionMargin is the distance of the caption from the image corner.
const captionMargin = 6

// DrawCaption writes text in white in the top-left corner of img using the
// 7×13 bitmap face.
func DrawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(captionMargin, captionMargin+face.Ascent),
	}
	d.DrawString(text)
}
