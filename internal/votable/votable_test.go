package votable

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

var testFields = []Field{
	{Name: "obs_id", Datatype: "char", UCD: "meta.id"},
	{Name: "s_ra", Datatype: "double", Unit: "deg", UCD: "pos.eq.ra"},
}

func TestWrite_WellFormedWithRows(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"obs-1", "10.684"}, {"obs-2", "200.5"}}
	if err := Write(&buf, "SIA results", testFields, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	var doc struct {
		XMLName xml.Name `xml:"VOTABLE"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not well-formed xml: %v", err)
	}
	for _, want := range []string{
		`version="1.3"`,
		`name="QUERY_STATUS" value="OK"`,
		`name="s_ra"`, `unit="deg"`, `ucd="pos.eq.ra"`,
		"<TD>obs-1</TD>", "<TD>200.5</TD>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_EmptyResultStillCompleteDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "", testFields, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<TABLEDATA>") && !strings.Contains(out, "<TABLEDATA></TABLEDATA>") {
		t.Fatalf("empty result must keep the table skeleton:\n%s", out)
	}
	if !strings.Contains(out, `name="obs_id"`) {
		t.Fatalf("field header missing:\n%s", out)
	}
}

func TestWrite_RowWidthMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "", testFields, [][]string{{"only-one-cell"}})
	if err == nil {
		t.Fatal("expected error for row/field mismatch")
	}
}

func TestErrorDocument(t *testing.T) {
	out := ErrorDocument(`error in query POS "CIRCLE x": invalid float`)
	var doc struct {
		XMLName xml.Name `xml:"VOTABLE"`
	}
	if err := xml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("error doc is not well-formed xml: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `value="ERROR"`) {
		t.Fatalf("missing error status:\n%s", s)
	}
	if !strings.Contains(s, "invalid float") {
		t.Fatalf("missing message:\n%s", s)
	}
	// message content must be escaped, not injected
	if strings.Contains(s, `"CIRCLE x"`) && !strings.Contains(s, "&#34;") && !strings.Contains(s, "&quot;") {
		t.Fatalf("quotes not escaped:\n%s", s)
	}
}
