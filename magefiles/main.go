//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

// Check dependent tools are present and the correct version.
func CheckDeps() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"go", goCheck},
		{"golangci-lint", golangciLintCheck},
	}
	failures := false
	for _, check := range checks {
		fmt.Printf("Checking %s... ", check.name)
		if err := check.check(); err != nil {
			fmt.Printf("FAILED\nReason: %v\n", err)
			failures = true
		} else {
			fmt.Println("PASSED")
		}
	}
	if failures {
		return errors.New("one or more dependency checks failed")
	}
	return nil
}

// Build the qpp binary into ./bin.
func Build() error {
	mg.Deps(goCheck, makeLocalBin)
	ldflags := fmt.Sprintf("-X %s.GitCommit=%s", versionPackage, gitCommit())
	return sh.RunWith(
		map[string]string{"CGO_ENABLED": "0"},
		"go", "build", "-ldflags", ldflags, "-o", binaryWithExt(LocalBin+"/qpp"), "./cmd/qpp",
	)
}

// Run the server with the default config from the repository root.
func Run() error {
	mg.Deps(Build)
	return sh.RunV(binaryWithExt(LocalBin+"/qpp"), "run")
}
