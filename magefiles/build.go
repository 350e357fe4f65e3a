//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds bin/primitives.
func (Build) Engine() error {
	if err := goModDownload(); err != nil {
		return err
	}
	return goCmd("build", "-o", "bin/primitives", ".")
}
