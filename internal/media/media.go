// Package media relays uploaded files to the hosted media service.
package media

import (
	"context"
	"strings"
)

const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Asset is one file prepared for the media host
type Asset struct {
	DataURI      string
	Folder       string
	ResourceType string
	Filename     string
}

// UploadResult is what the host reports for a stored asset
type UploadResult struct {
	SecureURL    string
	PublicID     string
	ResourceType string
}

// MediaHost stores assets and returns their public URL
type MediaHost interface {
	Upload(ctx context.Context, asset Asset) (UploadResult, error)
}

// ResourceTypeFor infers the host resource type from a MIME type
func ResourceTypeFor(mime string) string {
	if strings.HasPrefix(strings.ToLower(mime), "video/") {
		return ResourceVideo
	}
	return ResourceImage
}

// SplitMediaURLs partitions host URLs by the resource segment of their path.
// URLs with neither segment are dropped.
func SplitMediaURLs(urls []string) (images, videos []string) {
	images, videos = []string{}, []string{}
	for _, u := range urls {
		switch {
		case strings.Contains(u, "/image/"):
			images = append(images, u)
		case strings.Contains(u, "/video/"):
			videos = append(videos, u)
		}
	}
	return images, videos
}
