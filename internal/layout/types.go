// Package layout extracts the geometric structure of PDF pages: positioned
// text blocks, image references, and form fields.
package layout

// BBox is an axis-aligned bounding box in page units. Coordinates are
// top-down: (0,0) is the top-left corner of the page, Y1 >= Y0.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	u := b
	if o.X0 < u.X0 {
		u.X0 = o.X0
	}
	if o.Y0 < u.Y0 {
		u.Y0 = o.Y0
	}
	if o.X1 > u.X1 {
		u.X1 = o.X1
	}
	if o.Y1 > u.Y1 {
		u.Y1 = o.Y1
	}
	return u
}

// TextBlock is a run of text on a page with its position and font.
// Blocks are immutable once extracted.
type TextBlock struct {
	Text     string  `json:"text"`
	BBox     BBox    `json:"bbox"`
	Font     string  `json:"font"`
	FontSize float64 `json:"font_size"`
	Flags    int     `json:"flags"`
}

// ImageKind classifies an embedded image by size.
type ImageKind string

const (
	// ImageKindLogo marks small images likely to be letterhead logos.
	ImageKindLogo ImageKind = "logo"

	// ImageKindContent marks larger images (figures, scans).
	ImageKindContent ImageKind = "content"
)

// logoMaxDimension is the bbox dimension (in page units) below which an
// image is treated as a logo rather than page content.
const logoMaxDimension = 200.0

// ImageRef records an embedded image without its pixel data.
type ImageRef struct {
	Page  int       `json:"page"`
	Index int       `json:"index"`
	BBox  BBox      `json:"bbox"`
	Kind  ImageKind `json:"kind"`
}

// FormFieldRef records an interactive form field (widget annotation).
type FormFieldRef struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	BBox  BBox   `json:"bbox"`
	Value string `json:"value,omitempty"`
}

// Orientation of a page.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PageLayout is the normalized layout record for one page. When extraction
// of a page fails the record carries Err and empty lists; the rest of the
// document is still usable.
type PageLayout struct {
	Number int         `json:"number"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Orient Orientation `json:"orientation"`

	Blocks []TextBlock    `json:"blocks"`
	Images []ImageRef     `json:"images"`
	Fields []FormFieldRef `json:"fields,omitempty"`

	Err string `json:"error,omitempty"`
}

// classifyImage returns the size classification for an image bbox.
func classifyImage(b BBox) ImageKind {
	larger := b.Width()
	if b.Height() > larger {
		larger = b.Height()
	}
	if larger < logoMaxDimension {
		return ImageKindLogo
	}
	return ImageKindContent
}

// orientationFor reports portrait when the page is taller than wide.
func orientationFor(width, height float64) Orientation {
	if height > width {
		return OrientationPortrait
	}
	return OrientationLandscape
}
