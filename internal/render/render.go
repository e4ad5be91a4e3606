// Package render rasterizes a story into a fixed 1080x1920 share image.
// Missing artist images and empty artist lists degrade to placeholder
// tiles; rendering itself never fails on absent data.
package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas dimensions of every template.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1920
)

// Template identifiers. Unrecognized identifiers fall back to the grid.
const (
	TemplateGrid      = "top-artists-grid"
	TemplateTopArtist = "top-artist"
)

// Data is the subset of a story the renderer consumes.
type Data struct {
	PeriodLabel string
	Artists     []Tile
	TopGenres   []string
}

// Tile is one artist slot.
type Tile struct {
	Name     string
	ImageURL string
}

var (
	background  = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	tileFill    = color.RGBA{R: 44, G: 44, B: 58, A: 255}
	textColor   = color.RGBA{R: 235, G: 235, B: 240, A: 255}
	accentColor = color.RGBA{R: 180, G: 120, B: 255, A: 255}
)

// Renderer turns story data into a raster image.
type Renderer struct {
	client   *http.Client
	logger   *slog.Logger
	maxBytes int64
}

// New creates a Renderer. maxBytes bounds remote tile fetches; zero or
// negative uses the same ceiling as image inlining.
func New(client *http.Client, logger *slog.Logger, maxBytes int64) *Renderer {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = 2_500_000
	}
	return &Renderer{
		client:   client,
		logger:   logger.With(slog.String("component", "render")),
		maxBytes: maxBytes,
	}
}

// Render draws the story onto a fresh canvas using the named template.
func (r *Renderer) Render(ctx context.Context, templateID string, data Data) (image.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	switch templateID {
	case TemplateTopArtist:
		r.renderTopArtist(ctx, canvas, data)
	default:
		r.renderGrid(ctx, canvas, data)
	}
	return canvas, nil
}

// renderGrid lays 12 tiles in a 3x4 grid under the period header, with the
// genre list at the bottom.
func (r *Renderer) renderGrid(ctx context.Context, canvas *image.RGBA, data Data) {
	drawLabel(canvas, data.PeriodLabel, 60, 140, accentColor, 4)

	const (
		cols     = 3
		rows     = 4
		tileSize = 340
		gap      = 20
		top      = 220
	)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			x := gap + col*(tileSize+gap)
			y := top + row*(tileSize+gap)
			rect := image.Rect(x, y, x+tileSize, y+tileSize)

			var tile Tile
			if idx < len(data.Artists) {
				tile = data.Artists[idx]
			}
			r.drawTile(ctx, canvas, rect, tile)
		}
	}

	genreY := top + rows*(tileSize+gap) + 80
	for i, g := range data.TopGenres {
		drawLabel(canvas, g, 60, genreY+i*40, textColor, 2)
	}
}

// renderTopArtist draws a single large tile with the period label above and
// the artist name below.
func (r *Renderer) renderTopArtist(ctx context.Context, canvas *image.RGBA, data Data) {
	drawLabel(canvas, data.PeriodLabel, 60, 180, accentColor, 4)

	var tile Tile
	if len(data.Artists) > 0 {
		tile = data.Artists[0]
	}
	rect := image.Rect(40, 300, CanvasWidth-40, 300+CanvasWidth-80)
	r.drawTile(ctx, canvas, rect, tile)
	drawLabel(canvas, tile.Name, 60, rect.Max.Y+120, textColor, 5)
}

// drawTile paints one artist slot: the fetched image scaled to fit, or a
// flat placeholder with the artist name when no image is available.
func (r *Renderer) drawTile(ctx context.Context, canvas *image.RGBA, rect image.Rectangle, tile Tile) {
	draw.Draw(canvas, rect, image.NewUniform(tileFill), image.Point{}, draw.Src)

	if tile.ImageURL != "" {
		if img, err := r.loadImage(ctx, tile.ImageURL); err == nil {
			xdraw.CatmullRom.Scale(canvas, rect, img, img.Bounds(), xdraw.Over, nil)
		} else {
			r.logger.Debug("tile image unusable",
				slog.String("artist", tile.Name),
				slog.String("error", err.Error()))
		}
	}

	if tile.Name != "" {
		drawLabel(canvas, truncateLabel(tile.Name, 24), rect.Min.X+12, rect.Max.Y-16, textColor, 2)
	}
}

// loadImage decodes a data URI or fetches a remote image within the byte
// ceiling.
func (r *Renderer) loadImage(ctx context.Context, imageURL string) (image.Image, error) {
	if strings.HasPrefix(imageURL, "data:") {
		return decodeDataURI(imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating image request: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg,image/png,image/gif;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("image fetch returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(body)) > r.maxBytes {
		return nil, fmt.Errorf("image exceeds %d byte ceiling", r.maxBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func decodeDataURI(uri string) (image.Image, error) {
	_, encoded, ok := strings.Cut(uri, ";base64,")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding inlined image: %w", err)
	}
	return img, nil
}

// drawLabel draws text at the given baseline with an integer scale factor
// over the basic 7x13 face.
func drawLabel(canvas *image.RGBA, text string, x, y int, c color.Color, scale int) {
	if text == "" {
		return
	}
	if scale <= 1 {
		drawText(canvas, text, x, y, c)
		return
	}

	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	h := face.Metrics().Height.Ceil()
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	drawText(small, text, 0, face.Metrics().Ascent.Ceil(), c)

	dst := image.Rect(x, y-h*scale, x+w*scale, y)
	xdraw.NearestNeighbor.Scale(canvas, dst, small, small.Bounds(), xdraw.Over, nil)
}

func drawText(dst *image.RGBA, text string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
