package fits

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// BlockSize is the size of a FITS logical record.
	BlockSize = 2880

	// CardSize is the size of one header card.
	CardSize = 80
)

// Card is a single header record. Value is one of bool, int64, float64 or
// string; commentary cards (COMMENT, HISTORY) carry only a Comment.
type Card struct {
	Key     string
	Value   any
	Comment string
}

// reserved keys are derived from the Image itself and never taken from a
// Header when encoding.
var reserved = map[string]bool{
	"SIMPLE": true, "BITPIX": true, "NAXIS": true, "NAXIS1": true,
	"NAXIS2": true, "EXTEND": true, "BZERO": true, "BSCALE": true, "END": true,
}

func isCommentary(key string) bool {
	return key == "COMMENT" || key == "HISTORY" || key == ""
}

// Header is an ordered list of cards.
type Header struct {
	cards []Card
}

// Cards returns the cards in order.
func (h *Header) Cards() []Card { return h.cards }

// Len returns the number of cards.
func (h *Header) Len() int { return len(h.cards) }

// Set adds a keyword card, replacing the first card with the same key.
// Keys are upper-cased and must be at most 8 characters.
func (h *Header) Set(key string, value any, comment string) error {
	key = strings.ToUpper(strings.TrimSpace(key))
	if len(key) == 0 || len(key) > 8 {
		return fmt.Errorf("fits: invalid keyword %q", key)
	}
	v, err := normalizeValue(value)
	if err != nil {
		return fmt.Errorf("fits: keyword %s: %w", key, err)
	}
	c := Card{Key: key, Value: v, Comment: comment}
	for i := range h.cards {
		if h.cards[i].Key == key {
			h.cards[i] = c
			return nil
		}
	}
	h.cards = append(h.cards, c)
	return nil
}

// AddComment appends a COMMENT card.
func (h *Header) AddComment(text string) {
	h.cards = append(h.cards, Card{Key: "COMMENT", Comment: text})
}

// AddHistory appends a HISTORY card.
func (h *Header) AddHistory(text string) {
	h.cards = append(h.cards, Card{Key: "HISTORY", Comment: text})
}

// Get returns the first card with the given key.
func (h *Header) Get(key string) (Card, bool) {
	key = strings.ToUpper(key)
	for _, c := range h.cards {
		if c.Key == key {
			return c, true
		}
	}
	return Card{}, false
}

// Int returns an integer keyword value.
func (h *Header) Int(key string) (int64, bool) {
	c, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	v, ok := c.Value.(int64)
	return v, ok
}

// Float returns a numeric keyword value; integer values are converted.
func (h *Header) Float(key string) (float64, bool) {
	c, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String returns a string keyword value.
func (h *Header) String(key string) (string, bool) {
	c, ok := h.Get(key)
	if !ok {
		return "", false
	}
	v, ok := c.Value.(string)
	return v, ok
}

// Bool returns a logical keyword value.
func (h *Header) Bool(key string) (bool, bool) {
	c, ok := h.Get(key)
	if !ok {
		return false, false
	}
	v, ok := c.Value.(bool)
	return v, ok
}

// MaxStringLen is the longest string value that fits in a single card once
// quotes are doubled.
const MaxStringLen = 68

// ValidateString reports whether s can be written as a string card value:
// printable ASCII only, at most MaxStringLen characters after escaping.
func ValidateString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return fmt.Errorf("string value %q contains non-printable or non-ASCII characters", s)
		}
	}
	if n := len(s) + strings.Count(s, "'"); n > MaxStringLen {
		return fmt.Errorf("string value is %d characters, at most %d allowed", n, MaxStringLen)
	}
	return nil
}

func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case bool, int64, float64:
		return v, nil
	case string:
		if err := ValidateString(v); err != nil {
			return nil, err
		}
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		// Seeds use the full 64-bit range; keep them exact as strings
		// when they overflow a signed FITS integer.
		if v > 1<<63-1 {
			return strconv.FormatUint(v, 10), nil
		}
		return int64(v), nil
	case float32:
		return float64(v), nil
	case nil:
		return nil, fmt.Errorf("nil value")
	}
	return nil, fmt.Errorf("unsupported value type %T", value)
}

// formatCard renders c as exactly CardSize bytes.
func formatCard(c Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s", c.Key)

	if isCommentary(c.Key) {
		b.WriteString(c.Comment)
		return pad(b.String())
	}

	b.WriteString("= ")
	switch v := c.Value.(type) {
	case bool:
		if v {
			fmt.Fprintf(&b, "%20s", "T")
		} else {
			fmt.Fprintf(&b, "%20s", "F")
		}
	case int64:
		fmt.Fprintf(&b, "%20d", v)
	case float64:
		fmt.Fprintf(&b, "%20s", formatFloat(v))
	case string:
		s := "'" + fmt.Sprintf("%-8s", strings.ReplaceAll(v, "'", "''")) + "'"
		fmt.Fprintf(&b, "%-20s", s)
	}
	if c.Comment != "" {
		b.WriteString(" / ")
		b.WriteString(c.Comment)
	}
	return pad(b.String())
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	if !strings.ContainsAny(s, ".EIN") {
		s += ".0"
	}
	return s
}

func pad(s string) string {
	if len(s) >= CardSize {
		return s[:CardSize]
	}
	return s + strings.Repeat(" ", CardSize-len(s))
}

// parseCard decodes one 80-byte record.
func parseCard(rec string) (Card, error) {
	key := strings.TrimSpace(rec[:8])
	if isCommentary(key) || rec[8:10] != "= " {
		return Card{Key: key, Comment: strings.TrimRight(rec[8:], " ")}, nil
	}

	body := rec[10:]
	trimmed := strings.TrimLeft(body, " ")
	if strings.HasPrefix(trimmed, "'") {
		s, rest, err := parseString(trimmed)
		if err != nil {
			return Card{}, fmt.Errorf("fits: keyword %s: %w", key, err)
		}
		return Card{Key: key, Value: s, Comment: parseComment(rest)}, nil
	}

	raw, rest, _ := strings.Cut(trimmed, "/")
	raw = strings.TrimSpace(raw)
	c := Card{Key: key, Comment: strings.TrimSpace(rest)}
	switch {
	case raw == "T":
		c.Value = true
	case raw == "F":
		c.Value = false
	default:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.Value = i
		} else if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, "D", "E"), 64); err == nil {
			c.Value = f
		} else {
			return Card{}, fmt.Errorf("fits: keyword %s: cannot parse value %q", key, raw)
		}
	}
	return c, nil
}

// parseString reads a quoted FITS string starting at s[0] == '\''.
// Embedded quotes are doubled; trailing spaces are not significant.
func parseString(s string) (string, string, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return strings.TrimRight(b.String(), " "), s[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated string")
}

func parseComment(rest string) string {
	_, c, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return strings.TrimSpace(c)
}
