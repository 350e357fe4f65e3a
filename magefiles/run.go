//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens a window and renders the scene from config.toml.
func (Run) Engine() error {
	return goCmd("run", ".", "-config", "config.toml")
}

// Renders the configured number of frames without a window.
func (Run) Headless() error {
	return goCmd("run", ".", "-config", "config.headless.toml")
}
