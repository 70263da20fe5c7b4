//go:build mage

package main

import (
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const GOLANGCI_LINT_VERSION_CONSTRAINT = ">= 1.52.0"

// lintDirs are the packages qpp lints; magefiles build under their own tag and are left out.
var lintDirs = []string{"./cmd/...", "./internal/...", "./pkg/..."}

// golangci-lint prints "golangci-lint has version 1.52.2 built with ...".
func installedLintVersion() (*semver.Version, error) {
	output, err := golangcilint("--version")
	if err != nil {
		return nil, errors.Wrap(err, "running golangci-lint --version")
	}
	for _, field := range strings.Fields(output) {
		if v, err := semver.NewVersion(strings.TrimPrefix(field, "v")); err == nil {
			return v, nil
		}
	}
	return nil, errors.Errorf("no version in golangci-lint output %q", output)
}

func golangciLintCheck() error {
	version, err := installedLintVersion()
	if err != nil {
		return err
	}
	constraint, err := semver.NewConstraint(GOLANGCI_LINT_VERSION_CONSTRAINT)
	if err != nil {
		return errors.WithStack(err)
	}
	if !constraint.Check(version) {
		return errors.Errorf("golangci-lint %s does not satisfy %s", version, GOLANGCI_LINT_VERSION_CONSTRAINT)
	}
	return nil
}

// CheckLint reports lint findings in the qpp packages without changing any file.
func CheckLint() error {
	mg.Deps(golangciLintCheck)
	return runLint()
}

// LintFix applies golangci-lint autofixes to the qpp packages, then reports what is left.
func LintFix() error {
	mg.Deps(golangciLintCheck)
	return runLint("--fix")
}

func runLint(extra ...string) error {
	args := append([]string{"run", "--timeout", "10m"}, extra...)
	output, err := golangcilint(append(args, lintDirs...)...)
	fmt.Println(output)
	return err
}

func golangcilint(args ...string) (string, error) {
	return sh.Output(binaryWithExt("golangci-lint"), args...)
}
