// Package render draws an enriched landgrid onto an equirectangular PNG:
// translucent cell polygons, a dashed graticule, continent code labels at
// cell centroids and, when present, centerpoint markers.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/sells-group/landgrid/internal/grid"
	"github.com/sells-group/landgrid/internal/spatial"
)

// DefaultTitle is drawn above the map.
const DefaultTitle = "Landgrid Continent Codes"

const (
	defaultWidth     = 4000
	defaultLabelSize = 14
	graticuleStep    = 30
	dashLen          = 12
	dashGap          = 8
	markerSides      = 12
)

var (
	cellFill     = color.NRGBA{R: 211, G: 211, B: 211, A: 77}
	cellEdge     = color.NRGBA{A: 77}
	gridColor    = color.NRGBA{R: 128, G: 128, B: 128, A: 128}
	labelColor   = color.NRGBA{A: 255}
	markerColor  = color.NRGBA{R: 220, G: 20, B: 20, A: 230}
	background   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	titleColor   = color.NRGBA{A: 255}
	edgeHalfPx   = float32(0.6)
	markerRadius = float32(3)
)

// Options controls the output image.
type Options struct {
	// Width of the map in pixels; the map is Width/2 tall plus a title band.
	Width     int
	LabelSize float64
	// Centerpoints draws a marker for every feature with a centerpoint.
	Centerpoints bool
	Title        string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.LabelSize <= 0 {
		o.LabelSize = defaultLabelSize
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// canvas maps lon/lat onto pixel space below the title band.
type canvas struct {
	img   *image.RGBA
	scale float64
	band  int
}

func (c *canvas) project(lon, lat float64) (float32, float32) {
	x := (lon + 180) * c.scale
	y := float64(c.band) + (90-lat)*c.scale
	return float32(x), float32(y)
}

// Render draws fc and returns the image. fc is not modified.
func Render(fc *geojson.FeatureCollection, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()
	log := zap.L().With(zap.String("component", "render"))

	labelFace, err := goFace(opts.LabelSize)
	if err != nil {
		return nil, err
	}
	titleFace, err := goFace(opts.LabelSize * 2)
	if err != nil {
		return nil, err
	}

	band := titleFace.Metrics().Height.Ceil() * 2
	height := opts.Width/2 + band
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	c := &canvas{img: img, scale: float64(opts.Width) / 360, band: band}

	for _, f := range fc.Features {
		for _, poly := range polygons(f.Geometry) {
			c.fillPolygon(poly, cellFill)
			c.strokePolygon(poly, cellEdge)
		}
	}

	c.graticule()

	var labelled, markers int
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		g, err := spatial.ToGEOS(f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "render: feature %d", i+1)
		}
		centroid := g.Centroid()
		if spatial.IsEmpty(centroid) {
			continue
		}
		x, y := c.project(centroid.X(), centroid.Y())
		drawCentered(img, grid.ContinentOf(f.Properties), int(x), int(y), labelColor, labelFace)
		labelled++
	}

	if opts.Centerpoints {
		for _, f := range fc.Features {
			cp, ok := grid.CenterpointOf(f.Properties)
			if !ok {
				continue
			}
			x, y := c.project(cp.Longitude, cp.Latitude)
			c.marker(x, y, markerColor)
			markers++
		}
	}

	drawCentered(img, opts.Title, opts.Width/2, band/2, titleColor, titleFace)

	log.Debug("rendered",
		zap.Int("width", opts.Width),
		zap.Int("height", height),
		zap.Int("labels", labelled),
		zap.Int("markers", markers),
	)
	return img, nil
}

// WriteFile renders fc and writes it as a PNG at path.
func WriteFile(path string, fc *geojson.FeatureCollection, opts Options) error {
	img, err := Render(fc, opts)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "render: encode %s", path)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "render: close %s", path)
	}
	return nil
}

// polygons flattens a geometry into polygon ring lists.
func polygons(g geom.T) [][][]geom.Coord {
	switch t := g.(type) {
	case *geom.Polygon:
		return [][][]geom.Coord{t.Coords()}
	case *geom.MultiPolygon:
		return t.Coords()
	case *geom.GeometryCollection:
		var out [][][]geom.Coord
		for _, sub := range t.Geoms() {
			out = append(out, polygons(sub)...)
		}
		return out
	default:
		return nil
	}
}

// fillPolygon rasterizes one polygon (outer ring plus holes) with a mask
// sized to its pixel bounding box.
func (c *canvas) fillPolygon(rings [][]geom.Coord, col color.Color) {
	var paths [][][2]float32
	for _, ring := range rings {
		var path [][2]float32
		for _, pt := range ring {
			x, y := c.project(pt.X(), pt.Y())
			path = append(path, [2]float32{x, y})
		}
		if len(path) >= 3 {
			paths = append(paths, path)
		}
	}
	c.fillPaths(paths, col)
}

// strokePolygon draws every ring edge as a thin quad.
func (c *canvas) strokePolygon(rings [][]geom.Coord, col color.Color) {
	var quads [][][2]float32
	for _, ring := range rings {
		for i := 1; i < len(ring); i++ {
			x0, y0 := c.project(ring[i-1].X(), ring[i-1].Y())
			x1, y1 := c.project(ring[i].X(), ring[i].Y())
			if q, ok := segmentQuad(x0, y0, x1, y1, edgeHalfPx); ok {
				quads = append(quads, q)
			}
		}
	}
	c.fillPaths(quads, col)
}

func segmentQuad(x0, y0, x1, y1, half float32) ([][2]float32, bool) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return nil, false
	}
	nx, ny := -dy/l*half, dx/l*half
	return [][2]float32{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	}, true
}

// marker draws a small filled circle at (x, y).
func (c *canvas) marker(x, y float32, col color.Color) {
	path := make([][2]float32, 0, markerSides)
	for i := range markerSides {
		a := 2 * math.Pi * float64(i) / markerSides
		path = append(path, [2]float32{
			x + markerRadius*float32(math.Cos(a)),
			y + markerRadius*float32(math.Sin(a)),
		})
	}
	c.fillPaths([][][2]float32{path}, col)
}

// fillPaths rasterizes closed paths onto the canvas. The mask covers only
// the paths' bounding box clipped to the image.
func (c *canvas) fillPaths(paths [][][2]float32, col color.Color) {
	if len(paths) == 0 {
		return
	}

	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, p := range paths {
		for _, pt := range p {
			minX = min(minX, pt[0])
			minY = min(minY, pt[1])
			maxX = max(maxX, pt[0])
			maxY = max(maxY, pt[1])
		}
	}

	r := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX)))+1, int(math.Ceil(float64(maxY)))+1,
	).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}

	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	for _, p := range paths {
		z.MoveTo(p[0][0]-ox, p[0][1]-oy)
		for _, pt := range p[1:] {
			z.LineTo(pt[0]-ox, pt[1]-oy)
		}
		z.ClosePath()
	}
	z.Draw(c.img, r, image.NewUniform(col), image.Point{})
}

// graticule draws dashed meridians and parallels every 30 degrees.
func (c *canvas) graticule() {
	src := image.NewUniform(gridColor)
	b := c.img.Bounds()

	for lon := -180; lon <= 180; lon += graticuleStep {
		x, _ := c.project(float64(lon), 0)
		px := min(int(x), b.Max.X-1)
		for y := c.band; y < b.Max.Y; y += dashLen + dashGap {
			seg := image.Rect(px, y, px+1, min(y+dashLen, b.Max.Y))
			draw.Draw(c.img, seg, src, image.Point{}, draw.Over)
		}
	}
	for lat := -90; lat <= 90; lat += graticuleStep {
		_, y := c.project(0, float64(lat))
		py := min(int(y), b.Max.Y-1)
		for x := 0; x < b.Max.X; x += dashLen + dashGap {
			seg := image.Rect(x, py, min(x+dashLen, b.Max.X), py+1)
			draw.Draw(c.img, seg, src, image.Point{}, draw.Over)
		}
	}
}

func goFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, eris.Wrap(err, "render: parse font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, eris.Wrap(err, "render: font face")
	}
	return face, nil
}

// drawCentered draws text centered horizontally and vertically on (x, y).
func drawCentered(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	if text == "" {
		return
	}
	w := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	baseline := y + (m.Ascent.Ceil()-m.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x-w/2, baseline),
	}
	d.DrawString(text)
}
