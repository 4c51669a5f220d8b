package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempFolder returns a unique folder name for artifacts uploaded before
// an order exists. The timestamp prefix keeps objects listable in
// chronological order.
func TempFolder() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("temp/%d-%s", time.Now().UnixMilli(), suffix)
}

// OrderFolder returns the folder artifacts of a completed order are
// re-homed under.
func OrderFolder(orderID string) string {
	return "orders/" + orderID
}

// ExtFromMime maps an image content type to a file extension, defaulting
// to png for unknown or missing types.
func ExtFromMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/png", "":
		return "png"
	default:
		if ext, ok := strings.CutPrefix(mimeType, "image/"); ok && ext != "" {
			return ext
		}

		return "png"
	}
}
