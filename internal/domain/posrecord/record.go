// Package posrecord clasifica y decodifica los registros sueltos de una exportación POS.
// No toca almacenamiento: todo aquí es función pura sobre el registro.
package posrecord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ingest-api/internal/domain"
)

// Record registro de exportación tal como llega (JSON o XML ya convertido a mapa).
type Record map[string]any

// FromJSON decodifica un elemento de data. null devuelve un registro nil (forma desconocida);
// cualquier valor que no sea objeto es ErrInvalidInput.
func FromJSON(raw json.RawMessage) (Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: el registro no es un objeto JSON (%s)", domain.ErrInvalidInput, jsonKind(trimmed[0]))
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return rec, nil
}

func jsonKind(first byte) string {
	switch first {
	case '"':
		return "string"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	}
	return "number"
}

// Has indica si la clave existe con un valor "verdadero": no nulo, no cadena vacía, no false, no cero.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return true
}

// Defined indica si la clave existe con un valor no nulo (cero cuenta como definido).
func (r Record) Defined(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String devuelve el valor como texto. Números se formatean sin notación exponencial.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// FirstString devuelve el primer valor no vacío entre varias claves alternativas.
func (r Record) FirstString(keys ...string) string {
	for _, k := range keys {
		if s := r.String(k); s != "" {
			return s
		}
	}
	return ""
}

// Decimal convierte cadenas o números a decimal. Ausente, nulo o "" devuelve def.
func (r Record) Decimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w en %s: %q", domain.ErrInvalidAmount, key, t)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w en %s: %q", domain.ErrInvalidAmount, key, t.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	}
	return decimal.Zero, fmt.Errorf("%w en %s: tipo %T", domain.ErrInvalidAmount, key, v)
}

// BoolDefaultTrue es true salvo que el valor sea explícitamente false (bool o la cadena "false").
func (r Record) BoolDefaultTrue(key string) bool {
	switch t := r[key].(type) {
	case bool:
		return t
	case string:
		return !strings.EqualFold(strings.TrimSpace(t), "false")
	}
	return true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time interpreta fechas ISO-8601 (con o sin zona) o solo fecha. Ausente devuelve nil.
func (r Record) Time(key string) (*time.Time, error) {
	s := strings.TrimSpace(r.String(key))
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w en %s: %q", domain.ErrInvalidDate, key, s)
}

// Records devuelve los elementos objeto de un arreglo anidado (line_items). Si no es arreglo, nil.
func (r Record) Records(key string) []Record {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(arr))
	for _, el := range arr {
		switch m := el.(type) {
		case map[string]any:
			out = append(out, Record(m))
		case Record:
			out = append(out, m)
		}
	}
	return out
}
