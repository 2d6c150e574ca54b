package fields

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func fileName(path string, _ fs.FileInfo) []string { return []string{filepath.Base(path)} }

func filePath(path string, _ fs.FileInfo) []string { return []string{path} }

func fileSize(_ string, info fs.FileInfo) []string {
	if info.IsDir() {
		return nil
	}
	return []string{strconv.FormatInt(info.Size(), 10)}
}

func fileModified(_ string, info fs.FileInfo) []string {
	return []string{info.ModTime().UTC().Format(time.RFC3339)}
}

func fileExtension(path string, _ fs.FileInfo) []string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil
	}
	return []string{ext}
}

func init() {
	registerStat("name", "base name of the file", fileName)
	registerStat("path", "full path of the file", filePath)
	registerStat("size", "size in bytes", fileSize)
	registerStat("modified", "modification time (RFC3339, UTC)", fileModified)
	registerStat("extension", "file extension without the dot", fileExtension)
}
