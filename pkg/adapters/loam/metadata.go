package loam

import (
	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// PageMetadata is the frontmatter of a page document. It uses "mapstructure"
// tags to match standard frontmatter/YAML keys.
type PageMetadata struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Description string   `json:"description" mapstructure:"description"`
	Tags        []string `json:"tags" mapstructure:"tags"`

	// Commands optionally carries the script inline in the frontmatter. When
	// empty, the document body is decoded as the script instead.
	Commands []domain.Command `json:"commands" mapstructure:"commands"`
}

// Page is a fully resolved page: identifying metadata plus the decoded
// command script.
type Page struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Commands    []domain.Command
}

// Summary is one row of a library listing.
type Summary struct {
	ID          string
	Title       string
	Description string
	Tags        []string
}
