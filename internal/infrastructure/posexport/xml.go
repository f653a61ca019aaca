package posexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
)

const (
	rootTag   = "PosExport"
	recordTag = "Record"
)

// Elementos que siempre se leen como arreglo aunque tengan un solo hijo.
var arrayTags = map[string]bool{
	posrecord.FieldLineItems: true,
}

// DecodeXML decodifica <PosExport storeId=".." jobType=".." sourceFile=".."><Record>…</Record></PosExport>.
// Cada hoja de un Record es un campo de texto; <line_items> es un arreglo de objetos.
func DecodeXML(r io.Reader, charset string) (*dto.IngestRequest, error) {
	doc := etree.NewDocument()
	if charset != "" {
		src, err := utf8Reader(r, charset)
		if err != nil {
			return nil, err
		}
		r = src
		// Ya es UTF-8: se ignora el encoding del prólogo.
		doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	} else {
		doc.ReadSettings.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
			return utf8Reader(input, label)
		}
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != rootTag {
		return nil, fmt.Errorf("%w: se esperaba <%s>", ErrMalformed, rootTag)
	}

	req := &dto.IngestRequest{
		StoreID: root.SelectAttrValue("storeId", ""),
		JobType: root.SelectAttrValue("jobType", ""),
		Data:    []posrecord.Record{},
	}
	if attr := root.SelectAttr("sourceFile"); attr != nil {
		v := attr.Value
		req.SourceFile = &v
	}

	for _, el := range root.ChildElements() {
		if el.Tag != recordTag {
			continue
		}
		rec := posrecord.Record{}
		for _, field := range el.ChildElements() {
			rec[field.Tag] = elementValue(field)
		}
		req.Data = append(req.Data, rec)
	}
	return req, nil
}

func elementValue(el *etree.Element) any {
	children := el.ChildElements()
	if arrayTags[el.Tag] {
		list := make([]any, 0, len(children))
		for _, c := range children {
			list = append(list, elementValue(c))
		}
		return list
	}
	if len(children) == 0 {
		return strings.TrimSpace(el.Text())
	}

	obj := map[string]any{}
	for _, c := range children {
		name := c.Tag
		v := elementValue(c)
		switch prev := obj[name].(type) {
		case nil:
			obj[name] = v
		case []any:
			obj[name] = append(prev, v)
		default:
			obj[name] = []any{prev, v}
		}
	}
	return obj
}
