package formx

import "errors"

var (
	ErrFieldNotFound    = errors.New("field not found")
	ErrDuplicateFieldID = errors.New("field id already exists")
	ErrIndexOutOfRange  = errors.New("field index out of range")
	ErrFieldIDRequired  = errors.New("field id is required")
	ErrFieldIDImmutable = errors.New("field id cannot be changed")
)

// AddField inserts a field at position, or appends it when position is nil.
// The input slice is never modified.
func AddField(fields []FieldDefinition, field FieldDefinition, position *int) ([]FieldDefinition, error) {
	if field.ID == "" {
		return nil, ErrFieldIDRequired
	}
	if indexOf(fields, field.ID) >= 0 {
		return nil, ErrDuplicateFieldID
	}

	at := len(fields)
	if position != nil {
		if *position < 0 || *position > len(fields) {
			return nil, ErrIndexOutOfRange
		}
		at = *position
	}

	result := make([]FieldDefinition, 0, len(fields)+1)
	result = append(result, fields[:at]...)
	result = append(result, field)
	result = append(result, fields[at:]...)
	return result, nil
}

// UpdateField replaces the field with the same id, keeping its position.
func UpdateField(fields []FieldDefinition, fieldID string, field FieldDefinition) ([]FieldDefinition, error) {
	index := indexOf(fields, fieldID)
	if index < 0 {
		return nil, ErrFieldNotFound
	}
	if field.ID == "" {
		field.ID = fieldID
	}
	if field.ID != fieldID {
		return nil, ErrFieldIDImmutable
	}

	result := append([]FieldDefinition(nil), fields...)
	result[index] = field
	return result, nil
}

func RemoveField(fields []FieldDefinition, fieldID string) ([]FieldDefinition, error) {
	index := indexOf(fields, fieldID)
	if index < 0 {
		return nil, ErrFieldNotFound
	}

	result := make([]FieldDefinition, 0, len(fields)-1)
	result = append(result, fields[:index]...)
	result = append(result, fields[index+1:]...)
	return result, nil
}

// MoveField reorders a field from one index to another. Both indices must
// be in range; they are never wrapped or clamped.
func MoveField(fields []FieldDefinition, from, to int) ([]FieldDefinition, error) {
	if from < 0 || from >= len(fields) || to < 0 || to >= len(fields) {
		return nil, ErrIndexOutOfRange
	}

	result := append([]FieldDefinition(nil), fields...)
	if from == to {
		return result, nil
	}

	moved := result[from]
	if from < to {
		copy(result[from:to], result[from+1:to+1])
	} else {
		copy(result[to+1:from+1], result[to:from])
	}
	result[to] = moved
	return result, nil
}

func indexOf(fields []FieldDefinition, fieldID string) int {
	for i, field := range fields {
		if field.ID == fieldID {
			return i
		}
	}
	return -1
}
