// File: lixenwraith/flags/helper.go
package flags

import "strings"

// setNestedValue stores value in nested under a dotted path, creating
// intermediate maps. A non-map value in the way is replaced.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for _, segment := range segments[:len(segments)-1] {
		next, isMap := current[segment].(map[string]any)
		if !isMap {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}

	current[segments[len(segments)-1]] = value
}

// navigateToPath returns the value under a dotted path, or nil.
func navigateToPath(nested map[string]any, path string) any {
	if path == "" {
		return nested
	}

	var current any = nested
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[segment]; !ok {
			return nil
		}
	}
	return current
}

// nestedValues returns the typed current values of all flags keyed by dotted
// name segments.
func (r *Registry) nestedValues() map[string]any {
	l := r.lock()
	defer l.unlock()

	nested := make(map[string]any)
	for _, d := range l.sorted() {
		setNestedValue(nested, d.name, d.current.value())
	}
	return nested
}
