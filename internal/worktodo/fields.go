package worktodo

import (
	"strconv"
	"strings"
)

// splitTopLevel splits a line at the first '=' into its job-type key and the
// comma-separated value spec. Lines without both halves carry no work.
func splitTopLevel(line string) (key, valueSpec string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx <= 0 || idx == len(line)-1 {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

// splitFields splits a value spec on commas while a '"' toggles a quoted
// state; delimiters inside quotes do not split. Quote characters are kept in
// the produced fields so factor lists stay recognizable.
func splitFields(valueSpec string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(valueSpec); i++ {
		c := valueSpec[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}

// trimSentinel drops a leading empty or "N/A" placeholder field.
func trimSentinel(fields []string) []string {
	if len(fields) > 0 && (fields[0] == "" || fields[0] == "N/A") {
		return fields[1:]
	}
	return fields
}

// extractAssignmentID pops the leading field when it is a 32-character hex
// token, or the literal "AID" when the job family permits it.
func extractAssignmentID(fields []string, allowLiteral bool) (string, []string) {
	if len(fields) == 0 {
		return "", fields
	}
	if isHex32(fields[0]) || (allowLiteral && fields[0] == "AID") {
		return fields[0], fields[1:]
	}
	return "", fields
}

func isHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// parseQuotedFactors extracts the comma-separated factor strings from a
// quoted field like "36357263,145429049". A field that is not fully quoted
// yields no factors.
func parseQuotedFactors(field string) []string {
	trimmed := strings.TrimRight(field, " \t\r\n")
	if len(trimmed) < 2 || trimmed[0] != '"' || trimmed[len(trimmed)-1] != '"' {
		return nil
	}
	content := trimmed[1 : len(trimmed)-1]
	if content == "" {
		return nil
	}
	return strings.Split(content, ",")
}

// fieldCursor drains tokenized fields left to right. Every decoding step
// checks its minimum-remaining precondition through the cursor instead of
// re-deriving slice arithmetic.
type fieldCursor struct {
	fields []string
}

func newCursor(fields []string) *fieldCursor {
	return &fieldCursor{fields: fields}
}

func (c *fieldCursor) remaining() int {
	return len(c.fields)
}

func (c *fieldCursor) peek() (string, bool) {
	if len(c.fields) == 0 {
		return "", false
	}
	return c.fields[0], true
}

func (c *fieldCursor) take() (string, bool) {
	if len(c.fields) == 0 {
		return "", false
	}
	field := c.fields[0]
	c.fields = c.fields[1:]
	return field, true
}

// takeLast pops the trailing field.
func (c *fieldCursor) takeLast() (string, bool) {
	if len(c.fields) == 0 {
		return "", false
	}
	field := c.fields[len(c.fields)-1]
	c.fields = c.fields[:len(c.fields)-1]
	return field, true
}

// discard consumes n mandatory placeholder fields without inspecting them.
func (c *fieldCursor) discard(n int) bool {
	if len(c.fields) < n {
		return false
	}
	c.fields = c.fields[n:]
	return true
}

func (c *fieldCursor) takeUint32() (uint32, error) {
	field, ok := c.take()
	if !ok {
		return 0, strconv.ErrSyntax
	}
	value, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}

func (c *fieldCursor) takeInt32() (int32, error) {
	field, ok := c.take()
	if !ok {
		return 0, strconv.ErrSyntax
	}
	value, err := strconv.ParseInt(strings.TrimSpace(field), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(value), nil
}

func (c *fieldCursor) takeUint64() (uint64, error) {
	field, ok := c.take()
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(strings.TrimSpace(field), 10, 64)
}

// takeBound parses a bound that the server may emit with a fractional part
// (e.g. "1.3"); the value is truncated to an integer bound.
func (c *fieldCursor) takeBound() (uint64, error) {
	field, ok := c.take()
	if !ok {
		return 0, strconv.ErrSyntax
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, strconv.ErrRange
	}
	return uint64(value), nil
}
