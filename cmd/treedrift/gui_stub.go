//go:build !raylib

package main

import (
	"errors"

	"github.com/san-kum/treedrift/internal/session"
)

var errNoGUI = errors.New("gui: built without raylib, rebuild with -tags raylib")

func runGUI(*session.Session) error {
	return errNoGUI
}
