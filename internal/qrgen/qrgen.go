package qrgen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"qrsafe/internal/config"
	"qrsafe/internal/services"
)

// Image is a rendered QR code ready for display or storage.
type Image struct {
	PNG     []byte
	DataURI string
	Size    int
}

// Generator renders QR codes with the configured size, quiet zone, and
// colors.
type Generator struct {
	size       int
	quietZone  int
	foreground color.Color
	background color.Color
}

// New builds a generator from the QR config section. The config layer
// validates sizes and color strings before this point.
func New(cfg config.QR) (*Generator, error) {
	fg, err := parseHexColor(cfg.Foreground)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "qrgen", "new", "foreground color", err)
	}
	bg, err := parseHexColor(cfg.Background)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "qrgen", "new", "background color", err)
	}
	return &Generator{
		size:       cfg.Size,
		quietZone:  cfg.QuietZone,
		foreground: fg,
		background: bg,
	}, nil
}

// Render encodes content as a QR code PNG. Content that exceeds QR capacity
// comes back tagged services.ErrGeneration so callers can surface the
// standard failure message.
func (g *Generator) Render(content string) (*Image, error) {
	if content == "" {
		return nil, services.Wrap(services.ErrGeneration, "qrgen", "render", "content required", nil)
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, services.Wrap(services.ErrGeneration, "qrgen", "render", "encode content", err)
	}
	qr.DisableBorder = true
	qr.ForegroundColor = g.foreground
	qr.BackgroundColor = g.background

	// Scale so the module grid plus the quiet zone fits the requested size,
	// then center the grid on a background-filled canvas.
	modules := len(qr.Bitmap())
	scale := g.size / (modules + 2*g.quietZone)
	if scale < 1 {
		return nil, services.Wrap(services.ErrGeneration, "qrgen", "render",
			fmt.Sprintf("content needs %d modules, too dense for %dpx", modules, g.size), nil)
	}
	inner := qr.Image(scale * modules)

	canvas := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(g.background), image.Point{}, draw.Src)
	offset := (g.size - scale*modules) / 2
	target := image.Rect(offset, offset, offset+scale*modules, offset+scale*modules)
	draw.Draw(canvas, target, inner, inner.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, services.Wrap(services.ErrGeneration, "qrgen", "render", "encode png", err)
	}
	return &Image{
		PNG:     buf.Bytes(),
		DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Size:    g.size,
	}, nil
}

func parseHexColor(value string) (color.RGBA, error) {
	if len(value) != 7 || value[0] != '#' {
		return color.RGBA{}, fmt.Errorf("expected #RRGGBB, got %q", value)
	}
	parsed, err := strconv.ParseUint(value[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("expected #RRGGBB, got %q", value)
	}
	return color.RGBA{
		R: uint8(parsed >> 16),
		G: uint8(parsed >> 8),
		B: uint8(parsed),
		A: 0xFF,
	}, nil
}
