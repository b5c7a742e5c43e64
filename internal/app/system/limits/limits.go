// internal/app/system/limits/limits.go
package limits

// Request body size limits for form posts.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxPostsFormSize bounds the create and delete forms. Captions are at
	// most 2,200 characters; images and links are URLs, not uploads.
	MaxPostsFormSize = 64 << 10 // 64 KB

	// MaxAPIBodySize bounds JSON API request bodies.
	MaxAPIBodySize = 8 << 10 // 8 KB
)
