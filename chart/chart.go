// Package chart draws the price difference bar chart.
package chart

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"catalog-pricer/models"
)

const (
	Width  = 1000
	Height = 600

	marginLeft   = 90
	marginRight  = 30
	marginTop    = 60
	marginBottom = 170

	barColor  = "#87CEEB"
	zeroColor = "#FF0000"
)

// Bar is one product in the chart.
type Bar struct {
	Label string
	Value float64
}

// Bars keeps records that have a price difference, sorted ascending by it.
func Bars(records []*models.PricedRecord) []Bar {
	bars := make([]Bar, 0, len(records))
	for _, r := range records {
		if r.PriceDiff == nil {
			continue
		}
		bars = append(bars, Bar{Label: r.ProductName, Value: *r.PriceDiff})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value < bars[j].Value })
	return bars
}

// SVG renders bars as a standalone SVG document.
func SVG(bars []Bar) string {
	plotW := float64(Width - marginLeft - marginRight)
	plotH := float64(Height - marginTop - marginBottom)

	lo, hi := valueRange(bars)
	y := func(v float64) float64 {
		return float64(marginTop) + (hi-v)/(hi-lo)*plotH
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="DejaVu Sans, Arial, sans-serif">`,
		Width, Height, Width, Height)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="#FFFFFF"/>`+"\n", Width, Height)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="18" text-anchor="middle">Price Difference vs. Best Buy Market Price</text>`+"\n",
		Width/2, marginTop/2)

	// y axis ticks and grid
	for _, t := range ticks(lo, hi, 6) {
		ty := y(t)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#DDDDDD" stroke-width="1"/>`+"\n",
			marginLeft, ty, Width-marginRight, ty)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="11" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			marginLeft-6, ty, formatTick(t))
	}
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#000000" stroke-width="1"/>`+"\n",
		marginLeft, marginTop, marginLeft, Height-marginBottom)

	if len(bars) == 0 {
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="14" text-anchor="middle" fill="#666666">No price differences to display</text>`+"\n",
			marginLeft+int(plotW/2), float64(marginTop)+plotH/2)
	}

	slot := plotW / math.Max(1, float64(len(bars)))
	barW := slot * 0.8
	zeroY := y(0)
	for i, bar := range bars {
		x := float64(marginLeft) + float64(i)*slot + (slot-barW)/2
		top, h := zeroY, y(bar.Value)-zeroY
		if bar.Value > 0 {
			top, h = y(bar.Value), zeroY-y(bar.Value)
		}
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s: %.2f</title></rect>`+"\n",
			x, top, barW, h, barColor, html.EscapeString(bar.Label), bar.Value)

		lx := x + barW/2
		ly := float64(Height-marginBottom) + 14
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="end" transform="rotate(-45 %.1f %.1f)">%s</text>`+"\n",
			lx, ly, lx, ly, html.EscapeString(shorten(bar.Label, 28)))
	}

	fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
		marginLeft, zeroY, Width-marginRight, zeroY, zeroColor)

	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="13" text-anchor="middle">Product Name</text>`+"\n",
		marginLeft+int(plotW/2), Height-12)
	fmt.Fprintf(&b, `<text x="20" y="%d" font-size="13" text-anchor="middle" transform="rotate(-90 20 %d)">Price Difference (Our Price - Best Buy Price)</text>`+"\n",
		marginTop+int(plotH/2), marginTop+int(plotH/2))
	b.WriteString("</svg>\n")
	return b.String()
}

// valueRange spans every bar and zero with 10% headroom.
func valueRange(bars []Bar) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, bar := range bars {
		lo = math.Min(lo, bar.Value)
		hi = math.Max(hi, bar.Value)
	}
	if lo == hi {
		return -1, 1
	}
	pad := (hi - lo) * 0.1
	if lo < 0 {
		lo -= pad
	}
	if hi > 0 {
		hi += pad
	}
	return lo, hi
}

// ticks returns round tick values covering [lo, hi].
func ticks(lo, hi float64, n int) []float64 {
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var out []float64
	for t := math.Ceil(lo/step) * step; t <= hi+step*1e-9; t += step {
		if math.Abs(t) < step*1e-9 {
			t = 0
		}
		out = append(out, t)
	}
	return out
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
