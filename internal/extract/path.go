package extract

import "encoding/json"

// Resolved is the outcome of walking a field path: the terminal list and the
// object that held it. Parent is nil when the path is empty.
type Resolved struct {
	List   []any
	Parent map[string]any
}

// Navigate walks path from the payload root. Every step but the last must
// land on an object; the last must land on a list, which may be empty.
func Navigate(payload any, path []string) (Resolved, error) {
	if len(path) == 0 {
		list, ok := payload.([]any)
		if !ok {
			return Resolved{}, ErrPathTypeMismatch{Index: -1, Want: "a list", Got: kindOf(payload)}
		}
		return Resolved{List: list}, nil
	}

	current, ok := payload.(map[string]any)
	if !ok {
		return Resolved{}, ErrPathTypeMismatch{Index: -1, Want: "an object", Got: kindOf(payload)}
	}

	last := len(path) - 1
	for i, step := range path {
		value, ok := current[step]
		if !ok {
			return Resolved{}, ErrPathMissing{Index: i, Step: step}
		}
		if i == last {
			list, ok := value.([]any)
			if !ok {
				return Resolved{}, ErrPathTypeMismatch{Index: i, Step: step, Want: "a list", Got: kindOf(value)}
			}
			return Resolved{List: list, Parent: current}, nil
		}
		next, ok := value.(map[string]any)
		if !ok {
			return Resolved{}, ErrPathTypeMismatch{Index: i, Step: step, Want: "an object", Got: kindOf(value)}
		}
		current = next
	}
	// unreachable: the loop returns on the last step
	return Resolved{}, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return "an unknown value"
	}
}
