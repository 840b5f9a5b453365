//go:build raylib

package main

import (
	"github.com/san-kum/treedrift/internal/gui"
	"github.com/san-kum/treedrift/internal/session"
)

func runGUI(s *session.Session) error {
	gui.Run(s)
	return nil
}
