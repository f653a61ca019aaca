// Package posexport convierte los archivos de exportación del POS (JSON o XML) en lotes de ingesta.
package posexport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
)

var (
	ErrUnsupportedFormat  = errors.New("formato de exportación no soportado")
	ErrUnsupportedCharset = errors.New("charset no soportado")
	ErrMalformed          = errors.New("exportación mal formada")
)

// Format formato del archivo exportado.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat acepta "json" o "xml" sin distinguir mayúsculas.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FromContentType deduce formato y charset de un header Content-Type. Sin header se asume JSON UTF-8.
func FromContentType(contentType string) (Format, string) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatJSON, ""
	}
	if strings.HasSuffix(mediaType, "/xml") || strings.HasSuffix(mediaType, "+xml") {
		return FormatXML, params["charset"]
	}
	return FormatJSON, params["charset"]
}

// Decode lee un lote completo. charset vacío significa UTF-8 (o lo que declare el prólogo XML).
func Decode(r io.Reader, format Format, charset string) (*dto.IngestRequest, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r, charset)
	case FormatXML:
		return DecodeXML(r, charset)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// DecodeJSON decodifica el sobre {storeId, jobType, sourceFile, data}.
// Los números quedan como json.Number para no perder precisión decimal.
func DecodeJSON(r io.Reader, charset string) (*dto.IngestRequest, error) {
	src, err := utf8Reader(r, charset)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(src)
	dec.UseNumber()

	var env struct {
		StoreID    string            `json:"storeId"`
		JobType    string            `json:"jobType"`
		SourceFile *string           `json:"sourceFile"`
		Data       []json.RawMessage `json:"data"`
	}
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	req := &dto.IngestRequest{
		StoreID:    env.StoreID,
		JobType:    env.JobType,
		SourceFile: env.SourceFile,
		Data:       make([]posrecord.Record, len(env.Data)),
	}
	// Un elemento que no es objeto falla solo ese registro, no el lote.
	for i, raw := range env.Data {
		rec, err := posrecord.FromJSON(raw)
		if err != nil {
			if req.Invalid == nil {
				req.Invalid = make(map[int]string)
			}
			req.Invalid[i] = err.Error()
			continue
		}
		req.Data[i] = rec
	}
	return req, nil
}
