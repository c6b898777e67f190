package assets

import (
	_ "embed"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

//go:embed prompt.md
var defaultPrompt string

//go:embed avatar.svg
var defaultAvatar []byte

const defaultAvatarType = "image/svg+xml"

// Image is an in-memory picture ready to be served.
type Image struct {
	Data        []byte
	ContentType string
}

// LoadPrompt reads the prompt from path, or returns the bundled one when path is empty.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return defaultPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}
	return string(data), nil
}

// LoadAvatar reads the avatar from path, or returns the bundled one when path is empty.
func LoadAvatar(path string) (Image, error) {
	if path == "" {
		return Image{Data: defaultAvatar, ContentType: defaultAvatarType}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read avatar: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return Image{Data: data, ContentType: contentType}, nil
}
