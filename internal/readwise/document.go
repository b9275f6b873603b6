package readwise

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Document is a saved article as returned by the Reader list endpoint. URL is
// the Reader permalink; SourceURL is the address of the article itself.
type Document struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	SourceURL string    `json:"source_url"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	SiteName  string    `json:"site_name"`
	Summary   string    `json:"summary"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	Tags      TagSet    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagSet holds a document's tag names. The Reader API serves tags either as
// an array of names or as an object keyed by name; both forms decode to a
// sorted list.
type TagSet []string

func (t *TagSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*t = names
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return fmt.Errorf("tags are neither a list nor an object: %w", err)
	}
	names = make([]string, 0, len(keyed))
	for name := range keyed {
		names = append(names, name)
	}
	sort.Strings(names)
	*t = names
	return nil
}
