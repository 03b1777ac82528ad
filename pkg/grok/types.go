package grok

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the semantic type of a captured field.
type Type int

const (
	TypeString Type = iota
	TypeInt         // int64
	TypeFloat       // float64
	TypeBool
)

var typeNames = [...]string{
	TypeString: "string",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// typeTags maps every accepted type tag, lower-cased, to its Type.
var typeTags = map[string]Type{
	"":        TypeString,
	"string":  TypeString,
	"str":     TypeString,
	"int":     TypeInt,
	"integer": TypeInt,
	"long":    TypeInt,
	"float":   TypeFloat,
	"double":  TypeFloat,
	"number":  TypeFloat,
	"bool":    TypeBool,
	"boolean": TypeBool,
}

// ParseType returns the Type named by a reference's type tag. The empty tag
// is TypeString. Matching is case-insensitive.
func ParseType(tag string) (Type, error) {
	t, ok := typeTags[strings.ToLower(tag)]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownType, tag)
	}
	return t, nil
}

var converters = [...]func(raw string) (any, error){
	TypeString: func(raw string) (any, error) { return raw, nil },
	TypeInt: func(raw string) (any, error) {
		return strconv.ParseInt(raw, 10, 64)
	},
	TypeFloat: func(raw string) (any, error) {
		return strconv.ParseFloat(raw, 64)
	},
	TypeBool: func(raw string) (any, error) {
		return strconv.ParseBool(raw)
	},
}

// Convert parses raw as t. Strings are returned unchanged; ints are int64,
// floats are float64 and bools follow strconv.ParseBool.
func (t Type) Convert(raw string) (any, error) {
	if t < 0 || int(t) >= len(converters) {
		return nil, fmt.Errorf("%w %s", ErrUnknownType, t)
	}
	return converters[t](raw)
}
