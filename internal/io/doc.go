// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	err := ioutils.EnsureDir("/downloads")
//	err = ioutils.WriteFile("/downloads/cover.jpg", data)
//	done := ioutils.ExistsMatching(".", "*(123456)*")
//
// ExistsMatching backs the skip-already-downloaded check: saved files
// carry their download id in parentheses, so a simple glob finds them.
//
// # Image Processing
//
// The ImageService prepares cover art for saving:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, artData, 1000, 1000)
//	jpegData, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
