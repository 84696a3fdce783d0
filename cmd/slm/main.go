// Command slm is a short alias for the schedloom binary: it resolves
// schedloom on PATH and replaces the current process with it, passing
// arguments through untouched.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("schedloom")
	if err != nil {
		fmt.Fprintln(os.Stderr, "slm: cannot find schedloom on PATH (is it installed?)")
		os.Exit(1)
	}
	argv := append([]string{"schedloom"}, os.Args[1:]...)
	if err := syscall.Exec(bin, argv, os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "slm: exec %s: %v\n", bin, err)
		os.Exit(1)
	}
}
