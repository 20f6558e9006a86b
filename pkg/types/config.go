package types

// RenderConfig holds settings for reading a bibliography database and
// writing the formatted bibliography block.
type RenderConfig struct {
	// Encoding is the character encoding of input files (default "windows-1251").
	Encoding string `json:"encoding" yaml:"encoding"`

	// OutputEncoding is the encoding of written output. Empty means the same
	// as Encoding.
	OutputEncoding string `json:"output_encoding,omitempty" yaml:"output_encoding,omitempty"`

	// Capitals maps full city names to their abbreviated form in the imprint
	// (default: "Москва" -> "М.").
	Capitals map[string]string `json:"capitals,omitempty" yaml:"capitals,omitempty"`
}

// CatalogConfig holds settings for the catalog store.
type CatalogConfig struct {
	// Dir is the directory holding catalog.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of list results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all gostbib settings.
type Config struct {
	Render  RenderConfig  `json:"render" yaml:"render"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
