package main

import (
	"fmt"
	stdio "io"

	"github.com/phil-mansfield/vecinterp/io"
)

// inspectMain prints a summary of the model file fname.
func inspectMain(w stdio.Writer, fname string) error {
	m, err := io.LoadModel(fname)
	if err != nil {
		return err
	}
	info, err := io.Describe(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, info)
	return err
}
