package models

import "time"

// ContentItem is a document in the Contents collection. Images are stored
// inline as base64; videos live in object storage and keep only their key
// plus a base64 thumbnail here.
type ContentItem struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	UploadTime      time.Time `json:"upload_time"`
	LastModified    time.Time `json:"last_modified"`
	Image           string    `json:"image,omitempty"` // base64 payload or video thumbnail
	FilePath        string    `json:"file_path,omitempty"`
	IsImage         bool      `json:"is_image"`
	FileContentType string    `json:"file_content_type"`
}

// UploadImageRequest is the payload for POST /media/images.
type UploadImageRequest struct {
	Image       string `json:"image"` // base64
	ContentType string `json:"content_type"`
}

// UpdateImageRequest replaces the payload of an owned image.
type UpdateImageRequest struct {
	Image       string `json:"image"` // base64
	ContentType string `json:"content_type"`
}

// UploadVideoRequest is the payload for POST /media/videos.
type UploadVideoRequest struct {
	Video       string `json:"video"` // base64
	ContentType string `json:"content_type"`
}

// DownloadVideoResponse carries a presigned URL for a stored video.
type DownloadVideoResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ShareResponse carries the share link and its QR code.
type ShareResponse struct {
	ID       string `json:"id"`
	ShareURL string `json:"share_url"`
	QRCode   string `json:"qr_code"` // data URI
}
