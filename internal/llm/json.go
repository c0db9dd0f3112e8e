package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON extracts a JSON object of type T from raw model output.
// Models are instructed to answer with a bare JSON object but routinely wrap
// it in markdown fences, prose, comments or sloppy numeric literals; the raw
// text is therefore treated as untrusted and cleaned up before decoding.
// If validate is non-nil, the decoded value is validated before return.
func ExtractJSON[T any](raw string, validate func(T) error) (T, error) {
	var zero T

	obj := firstObject(raw)
	if obj == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(sanitize(obj)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validate != nil {
		if err := validate(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// firstObject returns the first balanced { ... } block in s, tracking string
// literals so braces inside values do not unbalance the scan. Surrounding
// prose and code-fence markers fall outside the block and are ignored for
// free.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// sanitize repairs the JSON dialects models actually emit: C-style comments
// outside string values, and bare leading-decimal literals such as ".5" or
// "-.3" which strict JSON rejects.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)

		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++

		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && atValueStart(s, i):
			b.WriteByte('0')
			b.WriteByte(c)

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// atValueStart reports whether position i sits where a numeric literal may
// begin: after a colon, comma, opening bracket or minus sign.
func atValueStart(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch s[j] {
		case ' ', '\t', '\r', '\n':
			continue
		case ':', ',', '[', '{', '-':
			return true
		default:
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
