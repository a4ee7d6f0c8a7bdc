// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Directory creation that tolerates an existing directory
//   - Writing a stream to disk through a temporary sibling file
//   - Renaming with explicit cross-device (EXDEV) detection
//   - Image resizing and format conversion
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/Artist/Album")
//
//	// Stream an archive member into place
//	n, err := ioutils.WriteFromReader("/music/Artist/Album", "01_-Song.mp3", rc)
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
