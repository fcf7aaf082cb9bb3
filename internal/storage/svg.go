package storage

import (
	"fmt"
	"strings"
)

// TrajectorySVG renders two trajectory columns against each other as an
// SVG polyline, for phase-plane views of saved runs.
func TrajectorySVG(states [][]float64, xIdx, yIdx, width, height int, strokeColor string) (string, error) {
	if len(states) < 2 {
		return "", fmt.Errorf("storage: need at least 2 samples, got %d", len(states))
	}
	if xIdx < 0 || yIdx < 0 {
		return "", fmt.Errorf("storage: axes %d/%d out of range", xIdx, yIdx)
	}
	for i, row := range states {
		if xIdx >= len(row) || yIdx >= len(row) {
			return "", fmt.Errorf("storage: sample %d has %d columns, axes %d/%d out of range", i, len(row), xIdx, yIdx)
		}
	}

	minX, maxX := states[0][xIdx], states[0][xIdx]
	minY, maxY := states[0][yIdx], states[0][yIdx]
	for _, row := range states {
		if row[xIdx] < minX {
			minX = row[xIdx]
		}
		if row[xIdx] > maxX {
			maxX = row[xIdx]
		}
		if row[yIdx] < minY {
			minY = row[yIdx]
		}
		if row[yIdx] > maxY {
			maxY = row[yIdx]
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
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, row := range states {
		x := (row[xIdx] - minX) / rangeX * float64(width)
		y := float64(height) - (row[yIdx]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String(), nil
}
