package clinimetrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigator(t *testing.T) (*Navigator, *State) {
	t.Helper()
	template := phqTemplate()
	state, err := NewState(template)
	require.NoError(t, err)
	return NewNavigator(template, &state), &state
}

func TestNewState(t *testing.T) {
	t.Run("starts at first non empty section", func(t *testing.T) {
		template := phqTemplate()
		template.Sections = append([]Section{{ID: "intro"}}, template.Sections...)

		state, err := NewState(template)

		require.NoError(t, err)
		assert.Equal(t, 1, state.CurrentSectionIndex)
		assert.Equal(t, 0, state.CurrentItemIndex)
		assert.NotNil(t, state.Responses)
	})

	t.Run("rejects template without items", func(t *testing.T) {
		_, err := NewState(&Template{ID: "empty", Sections: []Section{{ID: "s1"}}})
		assert.ErrorIs(t, err, ErrEmptyTemplate)
	})
}

func TestNavigatorNext(t *testing.T) {
	t.Run("required item blocks navigation", func(t *testing.T) {
		nav, state := newTestNavigator(t)

		assert.False(t, nav.CanNavigateNext())
		_, err := nav.Next()

		var requiredErr *RequiredItemError
		require.ErrorAs(t, err, &requiredErr)
		assert.Equal(t, "q1", requiredErr.ItemID)
		assert.Equal(t, 0, state.CurrentItemIndex)
	})

	t.Run("zero is a valid answer", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.Answer("q1", 0))

		completed, err := nav.Next()

		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, 1, state.CurrentItemIndex)
	})

	t.Run("skips empty sections", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.Answer("q1", 1))
		require.NoError(t, nav.Answer("q2", 2))

		_, err := nav.Next()
		require.NoError(t, err)
		_, err = nav.Next()
		require.NoError(t, err)

		assert.Equal(t, 2, state.CurrentSectionIndex)
		assert.Equal(t, 0, state.CurrentItemIndex)
	})

	t.Run("n minus one steps reach the last item", func(t *testing.T) {
		nav, _ := newTestNavigator(t)
		for _, id := range []string{"q1", "q2", "q4"} {
			require.NoError(t, nav.Answer(id, anyAnswerFor(id)))
		}

		total := phqTemplate().TotalItems()
		for i := 0; i < total-1; i++ {
			completed, err := nav.Next()
			require.NoError(t, err)
			require.False(t, completed)
		}

		assert.True(t, nav.IsLastItem())
	})

	t.Run("next on last item completes", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.JumpTo(2, 1))
		require.NoError(t, nav.Answer("q1", 1))
		require.NoError(t, nav.Answer("q2", 1))
		require.NoError(t, nav.Answer("q4", "duermo poco"))

		completed, err := nav.Next()

		require.NoError(t, err)
		assert.True(t, completed)
		assert.True(t, state.Completed)
	})

	t.Run("next on last item reports missing required items", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.JumpTo(2, 1))
		require.NoError(t, nav.Answer("q4", "texto"))

		completed, err := nav.Next()

		var missingErr *MissingRequiredError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"q1", "q2"}, missingErr.ItemIDs)
		assert.False(t, completed)
		assert.False(t, state.Completed)
		assert.Equal(t, 2, state.CurrentSectionIndex)
		assert.Equal(t, 1, state.CurrentItemIndex)
	})
}

func TestNavigatorPrevious(t *testing.T) {
	t.Run("first item is an error and leaves state", func(t *testing.T) {
		nav, state := newTestNavigator(t)

		err := nav.Previous()

		assert.ErrorIs(t, err, ErrAtFirstItem)
		assert.Equal(t, 0, state.CurrentSectionIndex)
		assert.Equal(t, 0, state.CurrentItemIndex)
	})

	t.Run("crosses back over empty section", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.JumpTo(2, 0))

		require.NoError(t, nav.Previous())

		assert.Equal(t, 0, state.CurrentSectionIndex)
		assert.Equal(t, 1, state.CurrentItemIndex)
	})

	t.Run("previous does not require an answer", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.JumpTo(0, 1))

		require.NoError(t, nav.Previous())
		assert.Equal(t, 0, state.CurrentItemIndex)
	})
}

func TestNavigatorJumpTo(t *testing.T) {
	tests := []struct {
		name    string
		section int
		item    int
		wantErr error
	}{
		{name: "valid", section: 2, item: 1},
		{name: "negative section", section: -1, item: 0, wantErr: ErrPositionOutOfRange},
		{name: "empty section", section: 1, item: 0, wantErr: ErrPositionOutOfRange},
		{name: "item past end", section: 0, item: 2, wantErr: ErrPositionOutOfRange},
		{name: "section past end", section: 3, item: 0, wantErr: ErrPositionOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, state := newTestNavigator(t)
			err := nav.JumpTo(tt.section, tt.item)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, state.CurrentSectionIndex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.section, state.CurrentSectionIndex)
			assert.Equal(t, tt.item, state.CurrentItemIndex)
		})
	}
}

func TestNavigatorCompletedIsFrozen(t *testing.T) {
	nav, _ := newTestNavigator(t)
	for _, id := range []string{"q1", "q2", "q4"} {
		require.NoError(t, nav.Answer(id, anyAnswerFor(id)))
	}
	require.NoError(t, nav.Complete())

	assert.ErrorIs(t, nav.Answer("q1", 2), ErrAlreadyCompleted)
	assert.ErrorIs(t, nav.Previous(), ErrAlreadyCompleted)
	assert.ErrorIs(t, nav.JumpTo(0, 0), ErrAlreadyCompleted)
	_, err := nav.Next()
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.ErrorIs(t, nav.Complete(), ErrAlreadyCompleted)
}

func TestNavigatorAnswer(t *testing.T) {
	t.Run("nil clears", func(t *testing.T) {
		nav, state := newTestNavigator(t)
		require.NoError(t, nav.Answer("q1", 1))
		require.NoError(t, nav.Answer("q1", nil))

		_, exists := state.Responses["q1"]
		assert.False(t, exists)
	})

	t.Run("unknown item", func(t *testing.T) {
		nav, _ := newTestNavigator(t)
		assert.ErrorIs(t, nav.Answer("nope", 1), ErrUnknownItem)
	})

	t.Run("invalid option", func(t *testing.T) {
		nav, _ := newTestNavigator(t)
		err := nav.Answer("q1", 7)

		var invalidErr *InvalidResponseError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "q1", invalidErr.ItemID)
	})
}

func TestNavigatorProgress(t *testing.T) {
	nav, _ := newTestNavigator(t)
	require.NoError(t, nav.Answer("q1", 1))
	require.NoError(t, nav.JumpTo(2, 0))

	progress := nav.Progress()

	assert.Equal(t, 1, progress.Answered)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 25, progress.Percentage)
	assert.Equal(t, 3, progress.Position)
}

func TestNavigatorProgressRoundsDown(t *testing.T) {
	template := &Template{
		ID: "three",
		Sections: []Section{{ID: "s", Items: []Item{
			{ID: "a", ResponseType: ResponseTypeText},
			{ID: "b", ResponseType: ResponseTypeText},
			{ID: "c", ResponseType: ResponseTypeText},
		}}},
	}
	state, err := NewState(template)
	require.NoError(t, err)
	nav := NewNavigator(template, &state)
	require.NoError(t, nav.Answer("a", "x"))
	require.NoError(t, nav.Answer("b", "y"))

	assert.Equal(t, 66, nav.Progress().Percentage)
}

func anyAnswerFor(itemID string) any {
	if itemID == "q4" {
		return "respuesta"
	}
	return 1
}
