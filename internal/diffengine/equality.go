package diffengine

// SemanticEqual reports whether two already-stripped-and-normalized bodies
// are equal under the equivalences in spec.md §4.3.3: numeric-string vs.
// number of the same value, and empty sequence ≡ missing sequence.
// Reflexive, symmetric, and transitive over the same input pair.
func SemanticEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return false
		}

		keys := unionKeys(av, bv)
		for _, k := range keys {
			aVal, aOK := av[k]
			bVal, bOK := bv[k]

			if !aOK {
				if isEmptySequence(bVal) {
					continue
				}

				return false
			}

			if !bOK {
				if isEmptySequence(aVal) {
					continue
				}

				return false
			}

			if !SemanticEqual(aVal, bVal) {
				return false
			}
		}

		return true

	case []any:
		bv, ok := b.([]any)
		if !ok {
			if isEmptySequence(a) && b == nil {
				return true
			}

			return false
		}

		if len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !SemanticEqual(av[i], bv[i]) {
				return false
			}
		}

		return true

	default:
		if a == nil && isEmptySequence(b) {
			return true
		}

		return scalarEqual(a, b)
	}
}

func isEmptySequence(v any) bool {
	seq, ok := v.([]any)
	return ok && len(seq) == 0
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]bool, len(a)+len(b))

	var keys []string

	for k := range a {
		if !seen[k] {
			seen[k] = true

			keys = append(keys, k)
		}
	}

	for k := range b {
		if !seen[k] {
			seen[k] = true

			keys = append(keys, k)
		}
	}

	return keys
}

// scalarEqual compares two scalar leaf values, treating a numeric string and
// its equivalent number as equal (spec.md §4.3.3).
func scalarEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	if a == b {
		return true
	}

	an, aIsNum := asFloat(a)
	bn, bIsNum := asFloat(b)

	if aIsNum && bIsNum {
		return an == bn
	}

	return false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		return parseNumericString(t)
	default:
		return 0, false
	}
}

func parseNumericString(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	var (
		f    float64
		sign float64 = 1
	)

	i := 0
	if s[0] == '-' {
		sign = -1
		i = 1
	}

	if i >= len(s) {
		return 0, false
	}

	seenDigit := false
	seenDot := false
	divisor := 1.0

	for ; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			f = f*10 + float64(c-'0')

			if seenDot {
				divisor *= 10
			}
		case c == '.' && !seenDot:
			seenDot = true
		default:
			return 0, false
		}
	}

	if !seenDigit {
		return 0, false
	}

	return sign * f / divisor, true
}
