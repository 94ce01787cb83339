package persona

// Persona captures the character the assistant plays, exposed to the frontend.
// Prompt is the system instruction text and is never serialized.
type Persona struct {
	ID          string `json:"id" toml:"-"`
	Name        string `json:"name" toml:"name"`
	Title       string `json:"title,omitempty" toml:"title"`
	OpeningLine string `json:"openingLine,omitempty" toml:"opening_line"`
	Prompt      string `json:"-" toml:"prompt"`
}
