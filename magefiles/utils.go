//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/sh"
)

// glfw and the GL bindings are cgo packages.
var cgoEnv = map[string]string{"CGO_ENABLED": "1"}

// goCmd runs the go tool with cgo enabled and streams its output.
func goCmd(args ...string) error {
	fmt.Printf("Executing: go %s\n", strings.Join(args, " "))
	if err := sh.RunWithV(cgoEnv, "go", args...); err != nil {
		return fmt.Errorf("error executing go %s: %w", args[0], err)
	}
	return nil
}

func goModDownload() error {
	if err := goCmd("mod", "download"); err != nil {
		return fmt.Errorf("failed to run go mod download: %w", err)
	}
	return nil
}
