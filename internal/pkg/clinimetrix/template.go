// Package clinimetrix holds the scale template model and the assessment
// navigation state machine used to administer a scale item by item.
package clinimetrix

type ResponseType string

const (
	ResponseTypeLikert         ResponseType = "likert"
	ResponseTypeBinary         ResponseType = "binary"
	ResponseTypeMultipleChoice ResponseType = "multiple_choice"
	ResponseTypeNumeric        ResponseType = "numeric"
	ResponseTypeText           ResponseType = "text"
	ResponseTypeInteractive    ResponseType = "interactive"
	ResponseTypeMultiFactor    ResponseType = "multi_factor"
)

var knownResponseTypes = map[ResponseType]bool{
	ResponseTypeLikert:         true,
	ResponseTypeBinary:         true,
	ResponseTypeMultipleChoice: true,
	ResponseTypeNumeric:        true,
	ResponseTypeText:           true,
	ResponseTypeInteractive:    true,
	ResponseTypeMultiFactor:    true,
}

// IsOptionBased reports whether answers must be picked from a list of options.
func (rt ResponseType) IsOptionBased() bool {
	return rt == ResponseTypeLikert || rt == ResponseTypeBinary || rt == ResponseTypeMultipleChoice
}

type Option struct {
	Value any      `json:"value" bson:"value" yaml:"value"`
	Label string   `json:"label" bson:"label" yaml:"label"`
	Score *float64 `json:"score,omitempty" bson:"score,omitempty" yaml:"score,omitempty"`
}

type Factor struct {
	ID            string   `json:"id" bson:"id" yaml:"id"`
	Label         string   `json:"label" bson:"label" yaml:"label"`
	ResponseGroup string   `json:"response_group,omitempty" bson:"response_group,omitempty" yaml:"response_group,omitempty"`
	Options       []Option `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"`
}

type Item struct {
	ID            string         `json:"id" bson:"id" yaml:"id"`
	Number        int            `json:"number" bson:"number" yaml:"number"`
	Text          string         `json:"text" bson:"text" yaml:"text"`
	HelpText      string         `json:"help_text,omitempty" bson:"help_text,omitempty" yaml:"help_text,omitempty"`
	ResponseType  ResponseType   `json:"response_type" bson:"response_type" yaml:"response_type"`
	ResponseGroup string         `json:"response_group,omitempty" bson:"response_group,omitempty" yaml:"response_group,omitempty"`
	Options       []Option       `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"`
	Required      bool           `json:"required" bson:"required" yaml:"required"`
	Min           *float64       `json:"min,omitempty" bson:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64       `json:"max,omitempty" bson:"max,omitempty" yaml:"max,omitempty"`
	Factors       []Factor       `json:"factors,omitempty" bson:"factors,omitempty" yaml:"factors,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type Section struct {
	ID           string `json:"id" bson:"id" yaml:"id"`
	Title        string `json:"title" bson:"title" yaml:"title"`
	Instructions string `json:"instructions,omitempty" bson:"instructions,omitempty" yaml:"instructions,omitempty"`
	Items        []Item `json:"items" bson:"items" yaml:"items"`
}

type Template struct {
	ID             string              `json:"id" bson:"id" yaml:"id"`
	Name           string              `json:"name" bson:"name" yaml:"name"`
	Abbreviation   string              `json:"abbreviation,omitempty" bson:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Version        string              `json:"version,omitempty" bson:"version,omitempty" yaml:"version,omitempty"`
	Description    string              `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Instructions   string              `json:"instructions,omitempty" bson:"instructions,omitempty" yaml:"instructions,omitempty"`
	ResponseGroups map[string][]Option `json:"response_groups,omitempty" bson:"response_groups,omitempty" yaml:"response_groups,omitempty"`
	Sections       []Section           `json:"sections" bson:"sections" yaml:"sections"`
}

// TemplateSummary is the catalog entry returned by the scale listing.
type TemplateSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Version      string `json:"version,omitempty"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	TotalItems   int    `json:"total_items,omitempty"`
}

// ResolveOptions returns the inline options of an item, falling back to the
// named response group.
func (t *Template) ResolveOptions(item Item) []Option {
	if len(item.Options) > 0 {
		return item.Options
	}
	if item.ResponseGroup != "" {
		return t.ResponseGroups[item.ResponseGroup]
	}
	return nil
}

func (t *Template) ResolveFactorOptions(factor Factor) []Option {
	if len(factor.Options) > 0 {
		return factor.Options
	}
	if factor.ResponseGroup != "" {
		return t.ResponseGroups[factor.ResponseGroup]
	}
	return nil
}

func (t *Template) TotalItems() int {
	total := 0
	for _, section := range t.Sections {
		total += len(section.Items)
	}
	return total
}

// ItemAt returns the item at a position, or false when out of range.
func (t *Template) ItemAt(sectionIndex, itemIndex int) (Item, bool) {
	if sectionIndex < 0 || sectionIndex >= len(t.Sections) {
		return Item{}, false
	}
	items := t.Sections[sectionIndex].Items
	if itemIndex < 0 || itemIndex >= len(items) {
		return Item{}, false
	}
	return items[itemIndex], true
}

// FindItem looks an item up by id across every section.
func (t *Template) FindItem(itemID string) (Item, bool) {
	for _, section := range t.Sections {
		for _, item := range section.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return Item{}, false
}

// Summary condenses the template into its catalog entry.
func (t *Template) Summary() TemplateSummary {
	return TemplateSummary{
		ID:           t.ID,
		Name:         t.Name,
		Abbreviation: t.Abbreviation,
		Version:      t.Version,
		Description:  t.Description,
		TotalItems:   t.TotalItems(),
	}
}

func (t *Template) firstNonEmptySection() int {
	for i, section := range t.Sections {
		if len(section.Items) > 0 {
			return i
		}
	}
	return -1
}

func (t *Template) lastNonEmptySection() int {
	for i := len(t.Sections) - 1; i >= 0; i-- {
		if len(t.Sections[i].Items) > 0 {
			return i
		}
	}
	return -1
}

// globalIndex is the zero-based position of an item counting across sections.
func (t *Template) globalIndex(sectionIndex, itemIndex int) int {
	index := 0
	for i := 0; i < sectionIndex && i < len(t.Sections); i++ {
		index += len(t.Sections[i].Items)
	}
	return index + itemIndex
}
