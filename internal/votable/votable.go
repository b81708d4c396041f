// Package votable serializes tabular results into VOTable 1.3 documents.
package votable

import (
	"encoding/xml"
	"fmt"
	"io"
)

const (
	xmlns    = "http://www.ivoa.net/xml/VOTable/v1.3"
	xmlnsXSI = "http://www.w3.org/2001/XMLSchema-instance"
)

// Field is the per-column metadata carried in the VOTable header: name,
// primitive datatype, physical unit and the IVOA semantic annotations.
type Field struct {
	Name     string
	Datatype string
	Unit     string
	UCD      string
	UType    string
}

type xmlField struct {
	XMLName   xml.Name `xml:"FIELD"`
	Name      string   `xml:"name,attr"`
	Datatype  string   `xml:"datatype,attr"`
	Arraysize string   `xml:"arraysize,attr,omitempty"`
	Unit      string   `xml:"unit,attr,omitempty"`
	UCD       string   `xml:"ucd,attr,omitempty"`
	UType     string   `xml:"utype,attr,omitempty"`
}

type xmlInfo struct {
	XMLName xml.Name `xml:"INFO"`
	ID      string   `xml:"ID,attr,omitempty"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
}

type xmlRow struct {
	XMLName xml.Name `xml:"TR"`
	Cells   []string `xml:"TD"`
}

type xmlTableData struct {
	XMLName xml.Name `xml:"TABLEDATA"`
	Rows    []xmlRow
}

type xmlData struct {
	XMLName   xml.Name `xml:"DATA"`
	TableData xmlTableData
}

type xmlTable struct {
	XMLName xml.Name `xml:"TABLE"`
	Fields  []xmlField
	Data    *xmlData
}

type xmlResource struct {
	XMLName xml.Name `xml:"RESOURCE"`
	Type    string   `xml:"type,attr"`
	Infos   []xmlInfo
	Table   *xmlTable
}

type xmlDocument struct {
	XMLName     xml.Name `xml:"VOTABLE"`
	Version     string   `xml:"version,attr"`
	Xmlns       string   `xml:"xmlns,attr"`
	XmlnsXSI    string   `xml:"xmlns:xsi,attr"`
	Description string   `xml:"DESCRIPTION,omitempty"`
	Resource    xmlResource
}

// Write serializes the rows and their column metadata into a VOTable result
// document. An empty row set still produces a complete document with the
// full FIELD header and an empty TABLEDATA.
func Write(w io.Writer, description string, fields []Field, rows [][]string) error {
	xfs := make([]xmlField, len(fields))
	for i, f := range fields {
		xfs[i] = xmlField{
			Name:     f.Name,
			Datatype: f.Datatype,
			Unit:     f.Unit,
			UCD:      f.UCD,
			UType:    f.UType,
		}
		if f.Datatype == "char" {
			xfs[i].Arraysize = "*"
		}
	}

	xrows := make([]xmlRow, 0, len(rows))
	for _, r := range rows {
		if len(r) != len(fields) {
			return fmt.Errorf("row has %d cells, table has %d fields", len(r), len(fields))
		}
		xrows = append(xrows, xmlRow{Cells: r})
	}

	doc := xmlDocument{
		Version:     "1.3",
		Xmlns:       xmlns,
		XmlnsXSI:    xmlnsXSI,
		Description: description,
		Resource: xmlResource{
			Type:  "results",
			Infos: []xmlInfo{{Name: "QUERY_STATUS", Value: "OK"}},
			Table: &xmlTable{
				Fields: xfs,
				Data:   &xmlData{TableData: xmlTableData{Rows: xrows}},
			},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode votable: %w", err)
	}
	return enc.Close()
}

// ErrorDocument renders the minimal VOTable error body used for every error
// path: a single INFO element carrying the message, as preferred by the DAL
// service specs.
func ErrorDocument(message string) []byte {
	doc := xmlDocument{
		Version:     "1.3",
		Xmlns:       xmlns,
		XmlnsXSI:    xmlnsXSI,
		Description: "Simple Image Access Service",
		Resource: xmlResource{
			Type: "results",
			Infos: []xmlInfo{
				{ID: "Error", Name: "QUERY_STATUS", Value: "ERROR"},
				{ID: "ErrorMessage", Name: "Error", Value: message},
			},
		},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshalling a fixed struct of strings cannot fail in practice.
		return []byte(xml.Header + `<VOTABLE version="1.3"/>`)
	}
	return append([]byte(xml.Header), out...)
}
