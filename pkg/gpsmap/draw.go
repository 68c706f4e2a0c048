package gpsmap

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/carnetphoto/carnet/pkg/geo"
)

// Render geometry: a 12x9 inch print at 300 dpi. The canvas keeps the
// extent's aspect ratio and fits inside this box.
const (
	RenderWidth  = 3600
	RenderHeight = 2700
	renderDPI    = 300
)

// Annotation sizes, in printer's points like the drawing toolkit the
// original map sheets were tuned on.
const (
	arrowHeadLengthPt = 2
	arrowHeadWidthPt  = 4
	arrowTailWidthPt  = 2
	arrowEdgePt       = 0.5

	flagSizeFrac = 0.03
	flagPolePt   = 3
	flagEdgePt   = 1.5

	cityOuterAreaPt2 = 75
	cityInnerAreaPt2 = 50
	cityEdgePt       = 1.5

	labelFontPt     = 14
	labelOffsetFrac = 0.01
	labelPadPt      = 2
	labelBoxAlpha   = 0.3

	titleFontPt     = 18
	titleOffsetFrac = 0.02
	titlePadPt      = 5
	titleBoxAlpha   = 0.2
)

var (
	arrowFill     = color.NRGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}
	flagPoleColor = color.NRGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	startFlagFill = color.NRGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff}
	startFlagEdge = color.NRGBA{R: 0x1e, G: 0x84, B: 0x49, A: 0xff}
	endFlagFill   = color.NRGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}
	endFlagEdge   = color.NRGBA{R: 0xa9, G: 0x32, B: 0x26, A: 0xff}
	cityInnerFill = color.NRGBA{R: 0x90, G: 0xee, B: 0x90, A: 0xff}
)

func ptToPx(pt float64) float64 { return pt * renderDPI / 72 }

// discRadiusPx converts a marker area in pt² into a pixel radius.
func discRadiusPx(areaPt2 float64) float64 {
	return ptToPx(math.Sqrt(areaPt2 / math.Pi))
}

// canvasSize fits the extent's aspect ratio inside the render box and
// returns the pixels-per-meter scale.
func canvasSize(extent geo.BBox) (w, h int, scale float64) {
	scale = RenderWidth / extent.Width()
	if s := RenderHeight / extent.Height(); s < scale {
		scale = s
	}
	w = int(math.Round(extent.Width() * scale))
	h = int(math.Round(extent.Height() * scale))
	return w, h, scale
}

// placedCity is a geocoded marker ready to draw.
type placedCity struct {
	at     geo.Point
	label  string
	anchor LabelAnchor
}

// scene is everything the renderer needs, with all meters already resolved:
// the basemap crop covers exactly extent, track points are Mercator, and
// spacing is the arrow interval in meters.
type scene struct {
	extent  geo.BBox
	basemap image.Image
	track   []geo.Point
	spacing float64
	cities  []placedCity
	title   string

	labelFace font.Face
	titleFace font.Face
}

// render paints the scene back to front: basemap, direction arrows,
// city discs, start and end flags, city labels, title.
func (sc *scene) render() image.Image {
	w, h, scale := canvasSize(sc.extent)
	dc := gg.NewContext(w, h)

	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if sc.basemap != nil {
		dc.DrawImage(imaging.Resize(sc.basemap, w, h, imaging.Lanczos), 0, 0)
	}

	px := func(p geo.Point) (float64, float64) {
		return (p.X - sc.extent.MinX) * scale, (sc.extent.MaxY - p.Y) * scale
	}

	sc.drawArrows(dc, px)
	sc.drawCityDiscs(dc, px)
	sc.drawFlags(dc, px, float64(w))
	sc.drawCityLabels(dc, px, w, h)
	sc.drawTitle(dc, w, h)

	return dc.Image()
}

// arrowIndices picks the track points where one arrow ends and the next
// begins: the first point, then each point where the cumulative distance
// grew by at least minSpacing, then the last point.
func arrowIndices(track []geo.Point, minSpacing float64) []int {
	idx := []int{0}
	cum, last := 0.0, 0.0
	for i := 1; i < len(track); i++ {
		cum += math.Hypot(track[i].X-track[i-1].X, track[i].Y-track[i-1].Y)
		if cum-last >= minSpacing {
			idx = append(idx, i)
			last = cum
		}
	}
	if idx[len(idx)-1] != len(track)-1 {
		idx = append(idx, len(track)-1)
	}
	return idx
}

func (sc *scene) drawArrows(dc *gg.Context, px func(geo.Point) (float64, float64)) {
	idx := arrowIndices(sc.track, sc.spacing)
	headLen := ptToPx(arrowHeadLengthPt)
	headHalf := ptToPx(arrowHeadWidthPt) / 2
	tailHalf := ptToPx(arrowTailWidthPt) / 2

	for i := 0; i+1 < len(idx); i++ {
		x0, y0 := px(sc.track[idx[i]])
		x1, y1 := px(sc.track[idx[i+1]])
		drawArrow(dc, x0, y0, x1, y1, headLen, headHalf, tailHalf)
	}
}

// drawArrow draws one filled arrow from (x0,y0) to (x1,y1): a rectangular
// tail capped by a triangular head at the destination.
func drawArrow(dc *gg.Context, x0, y0, x1, y1, headLen, headHalf, tailHalf float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	if headLen > length {
		headLen = length
	}
	bx, by := x1-ux*headLen, y1-uy*headLen
	nx, ny := -uy, ux

	dc.MoveTo(x0+nx*tailHalf, y0+ny*tailHalf)
	dc.LineTo(bx+nx*tailHalf, by+ny*tailHalf)
	dc.LineTo(bx+nx*headHalf, by+ny*headHalf)
	dc.LineTo(x1, y1)
	dc.LineTo(bx-nx*headHalf, by-ny*headHalf)
	dc.LineTo(bx-nx*tailHalf, by-ny*tailHalf)
	dc.LineTo(x0-nx*tailHalf, y0-ny*tailHalf)
	dc.ClosePath()

	dc.SetColor(arrowFill)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(ptToPx(arrowEdgePt))
	dc.Stroke()
}

func (sc *scene) drawCityDiscs(dc *gg.Context, px func(geo.Point) (float64, float64)) {
	for _, c := range sc.cities {
		x, y := px(c.at)

		dc.DrawCircle(x, y, discRadiusPx(cityOuterAreaPt2))
		dc.SetRGB(1, 1, 1)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(ptToPx(cityEdgePt))
		dc.Stroke()

		dc.DrawCircle(x, y, discRadiusPx(cityInnerAreaPt2))
		dc.SetColor(cityInnerFill)
		dc.Fill()
	}
}

func (sc *scene) drawFlags(dc *gg.Context, px func(geo.Point) (float64, float64), canvasW float64) {
	size := canvasW * flagSizeFrac
	x, y := px(sc.track[0])
	drawFlag(dc, x, y, size, startFlagFill, startFlagEdge)
	x, y = px(sc.track[len(sc.track)-1])
	drawFlag(dc, x, y, size, endFlagFill, endFlagEdge)
}

// drawFlag plants a flag with its pole base at (x, y): a rounded pole of
// height size with a rectangle hung from the top.
func drawFlag(dc *gg.Context, x, y, size float64, fill, edge color.Color) {
	dc.SetColor(flagPoleColor)
	dc.SetLineWidth(ptToPx(flagPolePt))
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawLine(x, y, x, y-size)
	dc.Stroke()

	dc.DrawRectangle(x, y-size, size*0.5, size*0.4)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(edge)
	dc.SetLineWidth(ptToPx(flagEdgePt))
	dc.Stroke()
}

func (sc *scene) drawCityLabels(dc *gg.Context, px func(geo.Point) (float64, float64), w, h int) {
	if sc.labelFace == nil {
		return
	}
	dc.SetFontFace(sc.labelFace)
	for _, c := range sc.cities {
		x, y := px(c.at)
		sc.drawLabel(dc, x, y, c.label, c.anchor, w, h)
	}
}

// drawLabel draws one city name offset from its marker into the anchor
// quadrant, over a translucent white box.
func (sc *scene) drawLabel(dc *gg.Context, cx, cy float64, label string, a LabelAnchor, w, h int) {
	x := cx + float64(w)*labelOffsetFrac*float64(a.H)
	y := cy - float64(h)*labelOffsetFrac*float64(a.V)

	tw, _ := dc.MeasureString(label)
	m := sc.labelFace.Metrics()
	asc := float64(m.Ascent) / 64
	height := asc + float64(m.Descent)/64

	var x0 float64
	switch {
	case a.H > 0:
		x0 = x
	case a.H < 0:
		x0 = x - tw
	default:
		x0 = x - tw/2
	}
	var yTop float64
	switch {
	case a.V > 0:
		yTop = y - height
	case a.V < 0:
		yTop = y
	default:
		yTop = y - height/2
	}

	pad := ptToPx(labelPadPt)
	dc.SetRGBA(1, 1, 1, labelBoxAlpha)
	dc.DrawRectangle(x0-pad, yTop-pad, tw+2*pad, height+2*pad)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.DrawString(label, x0, yTop+asc)
}

func (sc *scene) drawTitle(dc *gg.Context, w, h int) {
	if sc.title == "" || sc.titleFace == nil {
		return
	}
	x := float64(w) * titleOffsetFrac
	y := float64(h) * titleOffsetFrac

	dc.SetFontFace(sc.titleFace)
	tw, _ := dc.MeasureString(sc.title)
	m := sc.titleFace.Metrics()
	asc := float64(m.Ascent) / 64
	height := asc + float64(m.Descent)/64

	pad := ptToPx(titlePadPt)
	dc.SetRGBA(1, 1, 1, titleBoxAlpha)
	dc.DrawRectangle(x-pad, y-pad, tw+2*pad, height+2*pad)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.DrawString(sc.title, x, y+asc)
}
