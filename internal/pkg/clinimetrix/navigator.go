package clinimetrix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTemplate       = errors.New("template has no items")
	ErrAlreadyCompleted    = errors.New("assessment already completed")
	ErrAtFirstItem         = errors.New("already at the first item")
	ErrPositionOutOfRange  = errors.New("position out of range")
	ErrUnknownItem         = errors.New("item does not belong to the template")
	ErrInvalidStatePointer = errors.New("state position does not point at an item")
)

// RequiredItemError is returned when moving forward from a required item
// that has no answer.
type RequiredItemError struct {
	ItemID string
}

func (e *RequiredItemError) Error() string {
	return fmt.Sprintf("required item %s has no response", e.ItemID)
}

// MissingRequiredError lists required items without an answer at completion.
type MissingRequiredError struct {
	ItemIDs []string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("required items without response: %s", strings.Join(e.ItemIDs, ", "))
}

type State struct {
	CurrentSectionIndex int            `json:"current_section_index" bson:"current_section_index"`
	CurrentItemIndex    int            `json:"current_item_index" bson:"current_item_index"`
	Responses           map[string]any `json:"responses" bson:"responses"`
	Completed           bool           `json:"completed" bson:"completed"`
}

// NewState positions a fresh state on the first item of the first section
// that has items.
func NewState(t *Template) (State, error) {
	first := t.firstNonEmptySection()
	if first < 0 {
		return State{}, ErrEmptyTemplate
	}
	return State{
		CurrentSectionIndex: first,
		CurrentItemIndex:    0,
		Responses:           map[string]any{},
	}, nil
}

type Progress struct {
	Answered   int `json:"answered"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
	Position   int `json:"position"`
}

// Navigator applies navigation rules to a state in place. It is not safe for
// concurrent use; callers serialize access per session.
type Navigator struct {
	template *Template
	state    *State
}

func NewNavigator(t *Template, state *State) *Navigator {
	if state.Responses == nil {
		state.Responses = map[string]any{}
	}
	return &Navigator{template: t, state: state}
}

func (n *Navigator) State() *State {
	return n.state
}

func (n *Navigator) CurrentItem() (Item, error) {
	item, ok := n.template.ItemAt(n.state.CurrentSectionIndex, n.state.CurrentItemIndex)
	if !ok {
		return Item{}, ErrInvalidStatePointer
	}
	return item, nil
}

// CanNavigateNext is false only when the current item is required and
// unanswered.
func (n *Navigator) CanNavigateNext() bool {
	item, err := n.CurrentItem()
	if err != nil {
		return false
	}
	if !item.Required {
		return true
	}
	return !IsEmptyResponse(n.state.Responses[item.ID])
}

func (n *Navigator) IsLastItem() bool {
	last := n.template.lastNonEmptySection()
	if last < 0 {
		return false
	}
	return n.state.CurrentSectionIndex == last &&
		n.state.CurrentItemIndex == len(n.template.Sections[last].Items)-1
}

// Answer validates and stores a value. A nil value clears the answer.
func (n *Navigator) Answer(itemID string, value any) error {
	if n.state.Completed {
		return ErrAlreadyCompleted
	}
	item, ok := n.template.FindItem(itemID)
	if !ok {
		return ErrUnknownItem
	}
	if err := ValidateResponse(n.template, item, value); err != nil {
		return err
	}

	if value == nil {
		delete(n.state.Responses, itemID)
		return nil
	}
	n.state.Responses[itemID] = value
	return nil
}

// Next advances one item. On the last item it attempts completion and
// reports whether the assessment is now complete.
func (n *Navigator) Next() (bool, error) {
	if n.state.Completed {
		return false, ErrAlreadyCompleted
	}
	item, err := n.CurrentItem()
	if err != nil {
		return false, err
	}
	if !n.CanNavigateNext() {
		return false, &RequiredItemError{ItemID: item.ID}
	}

	if n.IsLastItem() {
		if err := n.Complete(); err != nil {
			return false, err
		}
		return true, nil
	}

	section := n.template.Sections[n.state.CurrentSectionIndex]
	if n.state.CurrentItemIndex < len(section.Items)-1 {
		n.state.CurrentItemIndex++
		return false, nil
	}

	for i := n.state.CurrentSectionIndex + 1; i < len(n.template.Sections); i++ {
		if len(n.template.Sections[i].Items) > 0 {
			n.state.CurrentSectionIndex = i
			n.state.CurrentItemIndex = 0
			return false, nil
		}
	}
	return false, ErrInvalidStatePointer
}

// Previous moves one item back, crossing into the last item of the previous
// non-empty section. It never mutates the state on error.
func (n *Navigator) Previous() error {
	if n.state.Completed {
		return ErrAlreadyCompleted
	}
	if _, err := n.CurrentItem(); err != nil {
		return err
	}

	if n.state.CurrentItemIndex > 0 {
		n.state.CurrentItemIndex--
		return nil
	}

	for i := n.state.CurrentSectionIndex - 1; i >= 0; i-- {
		if items := n.template.Sections[i].Items; len(items) > 0 {
			n.state.CurrentSectionIndex = i
			n.state.CurrentItemIndex = len(items) - 1
			return nil
		}
	}
	return ErrAtFirstItem
}

// JumpTo moves directly to a position picked from the section sidebar.
func (n *Navigator) JumpTo(sectionIndex, itemIndex int) error {
	if n.state.Completed {
		return ErrAlreadyCompleted
	}
	if _, ok := n.template.ItemAt(sectionIndex, itemIndex); !ok {
		return ErrPositionOutOfRange
	}
	n.state.CurrentSectionIndex = sectionIndex
	n.state.CurrentItemIndex = itemIndex
	return nil
}

// MissingRequired lists required items without an answer, in template order.
func (n *Navigator) MissingRequired() []string {
	var missing []string
	for _, section := range n.template.Sections {
		for _, item := range section.Items {
			if item.Required && IsEmptyResponse(n.state.Responses[item.ID]) {
				missing = append(missing, item.ID)
			}
		}
	}
	return missing
}

// Complete marks the state completed when every required item is answered.
// Otherwise the state is left untouched.
func (n *Navigator) Complete() error {
	if n.state.Completed {
		return ErrAlreadyCompleted
	}
	if missing := n.MissingRequired(); len(missing) > 0 {
		return &MissingRequiredError{ItemIDs: missing}
	}
	n.state.Completed = true
	return nil
}

func (n *Navigator) Progress() Progress {
	total := n.template.TotalItems()
	answered := 0
	for _, section := range n.template.Sections {
		for _, item := range section.Items {
			if !IsEmptyResponse(n.state.Responses[item.ID]) {
				answered++
			}
		}
	}

	progress := Progress{
		Answered: answered,
		Total:    total,
		Position: n.template.globalIndex(n.state.CurrentSectionIndex, n.state.CurrentItemIndex) + 1,
	}
	if total > 0 {
		progress.Percentage = answered * 100 / total
	}
	return progress
}
