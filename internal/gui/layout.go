package gui

import (
	"strconv"
	"strings"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	gridMargin   = 20
)

// Layout places the grid's disks inside the left square of the window.
type Layout struct {
	OriginX, OriginY float32
	CellSize         float32
	Radius           float32
}

func NewLayout(side int) Layout {
	extent := float32(WindowHeight - 2*gridMargin)
	cell := extent / float32(side)
	return Layout{
		OriginX:  gridMargin,
		OriginY:  gridMargin,
		CellSize: cell,
		Radius:   cell * 0.45,
	}
}

// Center returns the pixel center of the disk at (col, row).
func (l Layout) Center(col, row int) (float32, float32) {
	x := l.OriginX + (float32(col)+0.5)*l.CellSize
	y := l.OriginY + (float32(row)+0.5)*l.CellSize
	return x, y
}

// RGB parses "#rrggbb". Malformed input yields mid gray.
func RGB(hex string) (r, g, b uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
