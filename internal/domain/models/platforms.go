package models

// Platform keys for the social platforms PostDesk knows about.
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// PlatformOption is a selectable platform with its display label.
type PlatformOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SocialPlatforms lists known platforms in display order.
var SocialPlatforms = []PlatformOption{
	{Key: PlatformFacebook, Label: "Facebook"},
	{Key: PlatformInstagram, Label: "Instagram"},
}

// PlatformLabel returns the display label for a platform key.
// Unknown keys are returned unchanged.
func PlatformLabel(key string) string {
	for _, p := range SocialPlatforms {
		if p.Key == key {
			return p.Label
		}
	}
	return key
}

// PlatformRank orders platforms by their position in SocialPlatforms.
// Unknown platforms sort after known ones.
func PlatformRank(key string) int {
	for i, p := range SocialPlatforms {
		if p.Key == key {
			return i
		}
	}
	return len(SocialPlatforms)
}
