// Package data embeds the bundled sample standards dataset: a manifest and
// one male and one female table per edition.
package data

import (
	"embed"
	"io/fs"
)

// ManifestFile is the manifest's path inside FS.
const ManifestFile = "manifest.json"

//go:embed manifest.json 2020/*.json 2023/*.json
var files embed.FS

// FS returns the embedded dataset.
func FS() fs.FS { return files }
