package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// runFFmpeg executes ffmpeg with the given arguments. Swapped out by tests
// that cannot assume ffmpeg is installed.
var runFFmpeg = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, out)
	}
	return nil
}

// extractThumbnail writes the video to a temp file, grabs the first frame
// with ffmpeg and returns it as a base64 JPEG. Errors are reported to the
// caller, which treats them as non-fatal: the upload proceeds without a
// thumbnail.
func extractThumbnail(ctx context.Context, video []byte) (string, error) {
	dir, err := os.MkdirTemp("", "media-thumb-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	videoPath := filepath.Join(dir, "input")
	if err := os.WriteFile(videoPath, video, 0o600); err != nil {
		return "", fmt.Errorf("write temp video: %w", err)
	}

	framePath := filepath.Join(dir, "frame.jpg")
	if err := runFFmpeg(ctx,
		"-i", videoPath,
		"-vf", "select=eq(n\\,0)",
		"-frames:v", "1",
		"-q:v", "3",
		"-y", framePath,
	); err != nil {
		return "", fmt.Errorf("extract first frame: %w", err)
	}

	frame, err := os.ReadFile(framePath)
	if err != nil {
		return "", fmt.Errorf("read extracted frame: %w", err)
	}
	return base64.StdEncoding.EncodeToString(frame), nil
}
