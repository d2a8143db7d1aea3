// internal/storage/naming.go
package storage

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateName returns a collision-resistant object name of the form
// media-{unixMillis}-{6 random base36 chars}.{ext}. Collisions are made
// practically impossible rather than checked; uploads must still fail
// instead of overwriting if one ever occurs.
func GenerateName(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "mp3"
	}
	return fmt.Sprintf("media-%d-%s.%s", time.Now().UnixMilli(), randomSuffix(6), ext)
}

func randomSuffix(n int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			idx = big.NewInt(int64(time.Now().UnixNano() % 36))
		}
		b.WriteByte(base36[idx.Int64()])
	}
	return b.String()
}

var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// ContentTypeFor infers a content type from a file extension.
func ContentTypeFor(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
