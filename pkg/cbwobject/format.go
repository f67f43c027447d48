package cbwobject

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const objectTypeName = "cbw_object"

// String renders the canonical form used in assertions and text output:
//
//	cbw_object(id=2, hostname='x', description=None, groups=[])
func (v Value) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

// String renders the object in canonical form. A nil object renders as None.
func (o *Object) String() string {
	var b strings.Builder
	o.writeTo(&b)
	return b.String()
}

func (v Value) writeTo(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("None")
	case KindBool:
		if v.b {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case KindNumber:
		b.WriteString(formatNumber(v.s))
	case KindString:
		writeQuoted(b, v.s)
	case KindList:
		b.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeTo(b)
		}
		b.WriteByte(']')
	case KindObject:
		v.obj.writeTo(b)
	}
}

func (o *Object) writeTo(b *strings.Builder) {
	if o == nil {
		b.WriteString("None")
		return
	}
	b.WriteString(objectTypeName)
	b.WriteByte('(')
	for i, f := range o.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		f.Value.writeTo(b)
	}
	b.WriteByte(')')
}

// formatNumber prints integer literals as they are and fractional or
// exponent literals the way the reference toolbox prints floats: shortest
// round-trip digits, fixed notation with at least one decimal for exponents
// in [-4, 16), scientific with a two digit exponent otherwise.
func formatNumber(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		if strings.TrimLeft(lit, "-0") == "" {
			return "0"
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return lit
	}
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}

// writeQuoted quotes s the way the reference toolbox prints strings: single
// quotes unless the text holds a single quote and no double quote.
func writeQuoted(b *strings.Builder, s string) {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	b.WriteRune(quote)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(b, `\x%02x`, s[i])
			i++
			continue
		}
		i += size

		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == ' ' || unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			fmt.Fprintf(b, `\U%08x`, r)
		}
	}
	b.WriteRune(quote)
}
