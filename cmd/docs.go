package cmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootDoc = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childDoc = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// docType codes whether the command is the root or a child
type docType int

const (
	root docType = iota
	child
)

// meta is for describing the position/info for a command doc page
type meta struct {
	docType  docType
	title    string
	navOrder int
	parent   string
}

// map from the base Markdown file name to its build meta
var metaMap = map[string]meta{
	"alnmerge":          {root, "alnmerge", 0, ""},
	"alnmerge_merge":    {child, "merge", 0, "alnmerge"},
	"alnmerge_segments": {child, "segments", 1, "alnmerge"},
}

// docsCmd is for writing the Markdown documentation of every command
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Write Markdown documentation for the commands",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		if err := makeDocs(RootCmd, dir); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	docsCmd.Flags().StringP("dir", "d", "./docs", "directory to write the Markdown files to")

	RootCmd.AddCommand(docsCmd)
}

// makeDocs parses the custom commands and outputs Markdown documentation files
func makeDocs(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %v", dir, err)
	}
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler)
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))
	m, ok := metaMap[base]
	if !ok {
		return ""
	}

	switch m.docType {
	case root:
		return fmt.Sprintf(rootDoc, m.title, m.navOrder)
	case child:
		return fmt.Sprintf(childDoc, m.title, m.parent, m.navOrder)
	}
	return ""
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	if base == "alnmerge" {
		return "/"
	}
	return base
}
