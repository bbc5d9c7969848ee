package schema

// Document is the central data structure carried through the indexing
// pipeline: a piece of source text plus metadata about where it came from.
type Document struct {
	// ID is the unique identifier for this document.
	ID string

	// Text is the raw string content.
	Text string

	// Metadata holds arbitrary data about the document, such as the source
	// file name or URL.
	Metadata map[string]interface{}
}

// Metadata keys used by the loaders.
const (
	MetadataKeyFileName  = "file_name"
	MetadataKeySourceURL = "source_url"
)
