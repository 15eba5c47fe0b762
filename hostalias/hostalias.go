// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostalias folds the hostnames reported by individual compute
// nodes into the name of the machine they belong to.
//
// A table is a YAML (or JSON) mapping from an arbitrary entry name to
// the machine name:
//
//	cheyenne:
//	  hostname: cheyenne
//	r2:
//	  hostname: r2.boisestate.edu
//
// Entries are matched in file order.
package hostalias

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// An Entry is one known machine.
type Entry struct {
	Name        string `yaml:"-"`
	Hostname    string `yaml:"hostname"`
	Description string `yaml:"description,omitempty"`
}

// A Table is an ordered list of known machines.
// The zero Table passes every hostname through unchanged.
type Table struct {
	Entries []Entry
}

// Load decodes a table from r. The top level may be a mapping of
// entry names to entries or a sequence of entries.
func Load(r io.Reader) (*Table, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("hostalias: %v", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		doc = doc.Content[0]
	}

	t := new(Table)
	add := func(name string, n *yaml.Node) error {
		var e Entry
		if err := n.Decode(&e); err != nil {
			return fmt.Errorf("hostalias: entry %q: %v", name, err)
		}
		if e.Hostname == "" {
			return fmt.Errorf("hostalias: entry %q: missing hostname", name)
		}
		e.Name = name
		t.Entries = append(t.Entries, e)
		return nil
	}
	switch doc.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if err := add(doc.Content[i].Value, doc.Content[i+1]); err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		for i, n := range doc.Content {
			if err := add(fmt.Sprint(i), n); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("hostalias: line %d: expected a mapping or sequence", doc.Line)
	}
	return t, nil
}

// LoadFile reads the table in the named file.
func LoadFile(name string) (*Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Normalize returns the list of names to offer for hostnames. Every
// hostname containing a machine name is replaced by that machine
// name, which is listed once, at its first match. Hostnames matching
// no machine are kept as they are, in input order.
func (t *Table) Normalize(hostnames []string) []string {
	var out []string
	listed := make(map[string]bool)
	for _, h := range hostnames {
		found := false
		if t != nil {
			for _, e := range t.Entries {
				if !strings.Contains(h, e.Hostname) {
					continue
				}
				found = true
				if !listed[e.Hostname] {
					listed[e.Hostname] = true
					out = append(out, e.Hostname)
				}
			}
		}
		if !found {
			out = append(out, h)
		}
	}
	return out
}

// IsMachine reports whether name is the hostname of a table entry.
// Selections naming a machine must match its nodes by substring.
func (t *Table) IsMachine(name string) bool {
	if t == nil {
		return false
	}
	for _, e := range t.Entries {
		if e.Hostname == name {
			return true
		}
	}
	return false
}
