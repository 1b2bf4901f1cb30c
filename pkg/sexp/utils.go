package sexp

import (
	"fmt"
	"strconv"
)

// FindNode searches the direct children of s for a list or symbol whose
// first element is key. Example: FindNode(wireNode, "stroke") finds
// (stroke ...) inside a (wire ...) list.
func FindNode(s Sexp, key string) (Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if item == nil {
			continue
		}
		if item.IsLeaf() {
			if sym, ok := item.(Symbol); ok && string(sym) == key {
				return item, true
			}
			continue
		}
		sub := SexpToSlice(item)
		if len(sub) > 0 {
			if sym, ok := sub[0].(Symbol); ok && string(sym) == key {
				return item, true
			}
		}
	}
	return nil, false
}

// FindAllNodes returns every direct child list of s whose first element is key.
func FindAllNodes(s Sexp, key string) []Sexp {
	var results []Sexp
	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		sub := SexpToSlice(item)
		if len(sub) > 0 {
			if sym, ok := sub[0].(Symbol); ok && string(sym) == key {
				results = append(results, item)
			}
		}
	}
	return results
}

// SexpToSlice flattens a list's elements into a Go slice. A leaf or nil
// node yields an empty slice.
func SexpToSlice(s Sexp) []Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	if l, ok := s.(*List); ok {
		return l.elements
	}
	// Fall back to Head/Tail walking for any other List implementation.
	var items []Sexp
	for cur := s; cur != nil && !cur.IsLeaf() && cur.LeafCount() > 0; {
		items = append(items, cur.Head())
		cur = cur.Tail()
	}
	return items
}

// GetString returns the symbol text at index (0 is the node's key).
func GetString(s Sexp, index int) (string, error) {
	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	if sym, ok := items[index].(Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

// GetFloat parses the atom at index as a float64.
func GetFloat(s Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return v, nil
}

// GetInt parses the atom at index as an int.
func GetInt(s Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return v, nil
}

// GetQuotedString extracts a double-quoted string value. The lexer already
// strips the surrounding quotes, so this is equivalent to GetString, but
// named for readability at call sites that expect free text rather than a
// bare symbol.
func GetQuotedString(s Sexp, index int) (string, error) {
	return GetString(s, index)
}

// HasSymbol reports whether s has a direct child symbol equal to symbol.
func HasSymbol(s Sexp, symbol string) bool {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the head symbol of a list, i.e. its node type.
func GetNodeName(s Sexp) (string, error) {
	if s.IsLeaf() {
		if sym, ok := s.(Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}
	if sym, ok := s.Head().(Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at head of list")
}

// GetUUID extracts the value from a (uuid ...) node.
func GetUUID(s Sexp) (UUID, error) {
	key, err := GetString(s, 0)
	if err != nil || key != "uuid" {
		return "", fmt.Errorf("expected 'uuid' node")
	}
	v, err := GetString(s, 1)
	if err != nil {
		return "", err
	}
	return UUID(v), nil
}

// GetPosition extracts a PositionAngle from an `(at X Y [angle])` node.
// Schematic coordinates are already in millimeters; no unit conversion is
// applied.
func GetPosition(s Sexp) (PositionAngle, error) {
	key, err := GetString(s, 0)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}

	x, err := GetFloat(s, 1)
	if err != nil {
		return PositionAngle{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return PositionAngle{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}

	result := PositionAngle{Position: Position{X: x, Y: y}}
	if angle, err := GetFloat(s, 3); err == nil {
		result.Angle = Angle(angle)
	}
	return result, nil
}

// GetPositionXY extracts an X,Y pair from a two-coordinate node such as
// `(xy X Y)`, `(start X Y)`, or `(end X Y)`.
func GetPositionXY(s Sexp) (Position, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}
	return Position{X: x, Y: y}, nil
}

// GetSize extracts width/height from a `(size W H)` node.
func GetSize(s Sexp) (Size, error) {
	w, err := GetFloat(s, 1)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse width: %w", err)
	}
	h, err := GetFloat(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse height: %w", err)
	}
	return Size{Width: w, Height: h}, nil
}

// GetProperty extracts a (property "key" "value" (at X Y angle) (id N) ...)
// node.
func GetProperty(s Sexp) (Property, error) {
	var prop Property

	key, err := GetQuotedString(s, 1)
	if err != nil {
		return prop, fmt.Errorf("failed to parse property key: %w", err)
	}
	prop.Key = key

	value, err := GetQuotedString(s, 2)
	if err != nil {
		value = ""
	}
	prop.Value = value

	if idNode, ok := FindNode(s, "id"); ok {
		id, _ := GetInt(idNode, 1)
		prop.ID = id
	}
	if atNode, ok := FindNode(s, "at"); ok {
		if pos, err := GetPosition(atNode); err == nil {
			prop.Position = pos
		}
	}

	return prop, nil
}
