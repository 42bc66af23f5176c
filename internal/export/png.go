package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"weekly-meal-planner/internal/meal"
)

const (
	pngMargin      = 24.0
	pngLabelWidth  = 130.0
	pngColumnWidth = 220.0
	pngTitleHeight = 70.0
	pngHeadHeight  = 40.0
	pngRowHeight   = 130.0
	pngLineHeight  = 22.0
	pngGroceryCols = 3
	pngMaxLines    = 4
)

// PNG draws the week as a day-by-category grid followed by the grocery list.
type PNG struct {
	font *truetype.Font
}

// NewPNG loads the TrueType font at fontPath, or the bundled Go font when fontPath is empty.
func NewPNG(fontPath string) (*PNG, error) {
	fontBytes := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = b
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return &PNG{font: parsed}, nil
}

func (*PNG) Format() Format      { return FormatPNG }
func (*PNG) ContentType() string { return "image/png" }
func (*PNG) Extension() string   { return ".png" }

func (p *PNG) face(size float64) font.Face {
	return truetype.NewFace(p.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// gridCategories is the union of categories across all days, in display order.
func gridCategories(days []DayView) []meal.Category {
	seen := make(map[meal.Category]bool)
	var cats []meal.Category
	for _, day := range days {
		for _, cell := range day.Cells {
			if !seen[cell.Category] {
				seen[cell.Category] = true
				cats = append(cats, cell.Category)
			}
		}
	}
	return cats
}

func (p *PNG) Render(w io.Writer, doc Document) error {
	days := doc.Days()
	cats := gridCategories(days)
	items := doc.Index.Items()

	groceryRows := int(math.Ceil(float64(len(items)) / pngGroceryCols))
	if groceryRows == 0 {
		groceryRows = 1
	}
	width := pngMargin*2 + pngLabelWidth + pngColumnWidth*float64(len(days))
	gridTop := pngMargin + pngTitleHeight
	gridBottom := gridTop + pngHeadHeight + pngRowHeight*float64(len(cats))
	height := gridBottom + pngMargin + pngTitleHeight + pngLineHeight*float64(groceryRows) + pngMargin

	dc := gg.NewContext(int(width), int(height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	titleFace, headFace, bodyFace := p.face(32), p.face(18), p.face(15)
	defer titleFace.Close()
	defer headFace.Close()
	defer bodyFace.Close()

	dc.SetRGB(0.13, 0.13, 0.13)
	dc.SetFontFace(titleFace)
	dc.DrawStringAnchored(doc.Title, width/2, pngMargin+pngTitleHeight/2, 0.5, 0.5)

	// header row
	dc.SetFontFace(headFace)
	for i, day := range days {
		x := pngMargin + pngLabelWidth + pngColumnWidth*float64(i)
		dc.SetRGB(0.92, 0.92, 0.92)
		dc.DrawRectangle(x, gridTop, pngColumnWidth, pngHeadHeight)
		dc.Fill()
		dc.SetRGB(0.13, 0.13, 0.13)
		dc.DrawStringAnchored(day.Name, x+pngColumnWidth/2, gridTop+pngHeadHeight/2, 0.5, 0.5)
	}

	for r, c := range cats {
		y := gridTop + pngHeadHeight + pngRowHeight*float64(r)
		dc.SetFontFace(headFace)
		dc.SetRGB(0.13, 0.13, 0.13)
		dc.DrawStringAnchored(c.Label(), pngMargin+pngLabelWidth/2, y+pngRowHeight/2, 0.5, 0.5)

		dc.SetFontFace(bodyFace)
		for i, day := range days {
			x := pngMargin + pngLabelWidth + pngColumnWidth*float64(i)
			text, muted := "no meal assigned", true
			for _, cell := range day.Cells {
				if cell.Category == c && cell.Assigned {
					text, muted = cell.Meal.ItemName, false
				}
			}
			if muted {
				dc.SetRGB(0.55, 0.55, 0.55)
			} else {
				dc.SetRGB(0.13, 0.13, 0.13)
			}
			lines := dc.WordWrap(text, pngColumnWidth-16)
			if len(lines) > pngMaxLines {
				lines = append(lines[:pngMaxLines-1], lines[pngMaxLines-1]+"…")
			}
			for l, line := range lines {
				dc.DrawString(line, x+8, y+24+pngLineHeight*float64(l))
			}
		}
	}

	// grid lines
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	left, right := pngMargin, width-pngMargin
	for r := 0; r <= len(cats); r++ {
		y := gridTop + pngHeadHeight + pngRowHeight*float64(r)
		dc.DrawLine(left, y, right, y)
	}
	dc.DrawLine(left, gridTop, right, gridTop)
	for i := 0; i <= len(days); i++ {
		x := pngMargin + pngLabelWidth + pngColumnWidth*float64(i)
		dc.DrawLine(x, gridTop, x, gridBottom)
	}
	dc.DrawLine(left, gridTop, left, gridBottom)
	dc.Stroke()

	groceryTop := gridBottom + pngMargin
	dc.SetRGB(0.13, 0.13, 0.13)
	dc.SetFontFace(headFace)
	dc.DrawString("Grocery List", pngMargin, groceryTop+pngTitleHeight/2)

	dc.SetFontFace(bodyFace)
	colWidth := (width - pngMargin*2) / pngGroceryCols
	if len(items) == 0 {
		dc.DrawString("Nothing to buy", pngMargin, groceryTop+pngTitleHeight)
	}
	for i, item := range items {
		col, row := i/groceryRows, i%groceryRows
		x := pngMargin + colWidth*float64(col)
		y := groceryTop + pngTitleHeight + pngLineHeight*float64(row)
		dc.DrawString(fmt.Sprintf("□ %s (%d)", meal.TitleCase(item.Ingredient), len(item.Meals)), x, y)
	}

	return dc.EncodePNG(w)
}
