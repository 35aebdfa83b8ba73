//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
var Default = Build

// Build compiles every command into ./bin
func Build() error {
	mg.Deps(BuildAnalysis, BuildInspect)
	fmt.Println("Compilation finished")
	return nil
}

func BuildAnalysis() error {
	fmt.Println("Building analysis executable...")
	return goCmd("build", "-o", "./bin/analysis", "./analysis")
}

func BuildInspect() error {
	fmt.Println("Building inspect executable...")
	return goCmd("build", "-o", "./bin/inspect", "./inspect")
}

// Test runs the unit tests of every package
func Test() error {
	fmt.Println("Running tests...")
	return goCmd("test", "./...")
}

// goCmd runs the go tool with cgo enabled, as the HDF5 bindings need it
func goCmd(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
