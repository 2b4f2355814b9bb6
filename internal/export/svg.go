// Package export renders run data as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
	"github.com/TylerFair/jaxoplanet/internal/orbit"
)

const (
	svgWidth  = 900
	svgHeight = 300
)

func svgHeader(width, height int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func pathElement(xs, ys []float64, width, height int, stroke string) string {
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" d="M`, stroke))
	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
	return sb.String()
}

// LightCurveSVG draws the observed flux, with the model overlaid in a
// second color when one is given.
func LightCurveSVG(ds *dataset.Dataset, model []float64) string {
	if len(ds.Time) < 2 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(svgHeader(svgWidth, svgHeight))
	sb.WriteString(pathElement(ds.Time, ds.Flux, svgWidth, svgHeight, "#00ff88"))
	if len(model) == len(ds.Time) {
		sb.WriteString(pathElement(ds.Time, model, svgWidth, svgHeight, "#ff8800"))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// OMinusCSVG draws one planet's timing residuals in minutes against
// transit index.
func OMinusCSVG(eph orbit.Ephemeris, times []float64, inds []int) string {
	if len(times) < 2 {
		return ""
	}
	xs := make([]float64, len(times))
	ys := make([]float64, len(times))
	for i, t := range times {
		xs[i] = float64(inds[i])
		ys[i] = (t - eph.Predict(inds[i])) * 24 * 60
	}
	var sb strings.Builder
	sb.WriteString(svgHeader(svgWidth, svgHeight))
	sb.WriteString(pathElement(xs, ys, svgWidth, svgHeight, "#00aaff"))
	sb.WriteString("</svg>")
	return sb.String()
}
