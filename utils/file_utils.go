package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	uploadBaseDir = "uploads"
	baseURL       = "/uploads"
	// Maximum upload size (5MB); most rural uploads come over mobile data.
	maxFileSize = 5 * 1024 * 1024
	// Avatars are stored as square JPEGs at this edge length.
	avatarSize = 512
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// InitializeStorage creates the directories uploaded files are served from.
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "avatars"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %v", dir, err)
		}
	}
	return nil
}

// ValidateImageFile checks extension and size before any decoding happens.
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > maxFileSize {
		return fmt.Errorf("file too large, maximum size is 5MB")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format, allowed formats: jpg, jpeg, png, webp")
	}
	return nil
}

// SaveAvatar stores the uploaded image as a square JPEG under a random
// filename and returns the URL path it is served from.
func SaveAvatar(file *multipart.FileHeader) (string, error) {
	if err := ValidateImageFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	// Crop-and-scale to a square so clients never deal with aspect ratios.
	img = imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	filename := uuid.NewString() + ".jpg"
	dst := filepath.Join(uploadBaseDir, "avatars", filename)
	if err := imaging.Save(img, dst, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}

	return baseURL + "/avatars/" + filename, nil
}

// RemoveUpload deletes a previously stored file given its URL path. Missing
// files are not an error.
func RemoveUpload(urlPath string) error {
	if !strings.HasPrefix(urlPath, baseURL+"/") {
		return nil
	}
	rel := strings.TrimPrefix(urlPath, baseURL+"/")
	// Reject anything trying to climb out of the uploads directory.
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(uploadBaseDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
