// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports line differences between two texts for test
// failure messages.
package diff

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"runtime"
)

// Diff returns a unified diff from want to got, or "" if they are
// equal. Without a diff command it returns both texts quoted.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("want: %q\ngot:  %q", want, got)
	}

	wantFile, err := tempFile(want)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(wantFile)
	gotFile, err := tempFile(got)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(gotFile)

	out, err := exec.Command(cmd, "-u", "--label", "want", "--label", "got", wantFile, gotFile).CombinedOutput()
	if len(out) > 0 {
		// diff exits 1 when the inputs differ.
		return string(out)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("want: %q\ngot:  %q", want, got)
}

func tempFile(content string) (string, error) {
	f, err := ioutil.TempFile("", "pfperf-diff")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), f.Close()
}
