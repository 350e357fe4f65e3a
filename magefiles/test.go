//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests. None of them needs a GPU or a window.
func (Test) Unit() error {
	return goCmd("test", "-race", "-count=1", "./engine/...", "./testbed/...")
}
