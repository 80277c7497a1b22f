// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "path/filepath"

// FSInfo links a definition back to the file it was loaded from.
type FSInfo struct {
	FilePath string
}

// NewFSInfo creates an FSInfo for the given file.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// Dir is the directory relative paths in the file are resolved against.
func (f *FSInfo) Dir() string {
	if f == nil {
		return ""
	}
	return filepath.Dir(f.FilePath)
}

// Resolve joins a relative path onto the file's directory. Empty and absolute
// paths are returned unchanged.
func (f *FSInfo) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || f == nil {
		return path
	}
	return filepath.Join(f.Dir(), path)
}
