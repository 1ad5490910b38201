package model

import (
	"path/filepath"
	"strings"
	"time"
)

// FileKind is the declared format of an uploaded 3D asset.
type FileKind string

const (
	// FileKindGLB is binary glTF (single-file mesh).
	FileKindGLB FileKind = "glb"
	// FileKindGLTF is JSON glTF (scene interchange).
	FileKindGLTF FileKind = "gltf"
)

// FileKinds lists the accepted formats.
var FileKinds = []FileKind{FileKindGLB, FileKindGLTF}

// Valid reports whether k is an accepted format.
func (k FileKind) Valid() bool {
	return k == FileKindGLB || k == FileKindGLTF
}

// ContentType returns the registered media type for k.
func (k FileKind) ContentType() string {
	switch k {
	case FileKindGLB:
		return "model/gltf-binary"
	case FileKindGLTF:
		return "model/gltf+json"
	default:
		return "application/octet-stream"
	}
}

// FileKindFromName derives the kind from a filename extension, case-insensitively.
// The second result is false when the extension is missing or not accepted.
func FileKindFromName(name string) (FileKind, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	k := FileKind(ext)
	return k, k.Valid()
}

// Media is one uploaded 3D asset.
// StorageKey is the blob store object key; MediaURL is what browsers load.
type Media struct {
	ID           string    `json:"_id" bson:"_id"`
	MediaURL     string    `json:"media_url" bson:"media_url"`
	StorageKey   string    `json:"-" bson:"storage_key"`
	FileType     FileKind  `json:"file_type" bson:"file_type"`
	OriginalName string    `json:"original_name" bson:"original_name"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}
