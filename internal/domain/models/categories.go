package models

// PostCategories is the fixed list of categories a post can be tagged with.
var PostCategories = []string{
	"Promotion",
	"Product Highlight",
	"Behind the Scenes",
	"Event",
	"Announcement",
	"Seasonal",
	"Customer Story",
}

// IsPostCategory reports whether label is one of PostCategories.
func IsPostCategory(label string) bool {
	for _, c := range PostCategories {
		if c == label {
			return true
		}
	}
	return false
}
