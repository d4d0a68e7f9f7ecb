package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 600
	canvasHeight = 400
)

var (
	backgroundColor = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	headerColor     = color.RGBA{R: 0x00, G: 0x33, B: 0x66, A: 0xff}
	statsColor      = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	entryColor      = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	footerColor     = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

// Generator renders the cache summary PNG: header, total count, top-5 GDP
// list and a last-refreshed footer.
type Generator struct {
	path string
}

// NewGenerator prepares the cache directory for the summary artifact.
func NewGenerator(path string) (*Generator, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create image cache directory: %w", err)
		}
	}
	return &Generator{path: path}, nil
}

// Path returns where the summary image lives once generated.
func (g *Generator) Path() string {
	return g.path
}

// Exists reports whether a summary image has ever been generated.
func (g *Generator) Exists() bool {
	_, err := os.Stat(g.path)
	return err == nil
}

// Generate draws and writes the summary image. Records with a nil GDP show
// as N/A.
func (g *Generator) Generate(totalCountries int64, top []models.Country, lastRefreshedAt time.Time) error {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	drawText(img, 30, 40, headerColor, "Country Data Summary")
	drawText(img, 30, 100, statsColor, fmt.Sprintf("Total Countries: %d", totalCountries))
	drawText(img, 30, 140, statsColor, "Top 5 by Estimated GDP (USD):")

	y := 170
	for i, country := range top {
		drawText(img, 30, y+i*25, entryColor,
			fmt.Sprintf("  %d. %s: $%s", i+1, country.Name, formatGdp(country.EstimatedGdp)))
	}

	footer := "Last Refreshed: " + lastRefreshedAt.Format("2006-01-02 15:04:05")
	drawText(img, canvasWidth-300, canvasHeight-40, footerColor, footer)

	return g.write(img)
}

func (g *Generator) write(img image.Image) error {
	f, err := os.Create(g.path)
	if err != nil {
		return fmt.Errorf("failed to create summary image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode summary image: %w", err)
	}
	return nil
}

// formatGdp keeps the GDP column narrow enough for the canvas; estimates run
// into the hundreds of billions, so fixed-point notation would not fit.
func formatGdp(gdp *float64) string {
	if gdp == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2e", *gdp)
}

func drawText(img draw.Image, x, y int, c color.Color, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
