package jsonpath

import "testing"

const sampleDoc = `{
	"name": "Distributed Systems",
	"max_seats": 20,
	"active": true,
	"trainer": {"first_name": "Ada", "email": "ada@example.org"},
	"sessions": [
		{"room": "A-101", "hour": 9},
		{"room": "B-204", "hour": 14}
	],
	"notes": null
}`

func mustParse(t *testing.T, doc string) any {
	t.Helper()
	node, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return node
}

func TestParse_InvalidDocument(t *testing.T) {
	if _, err := Parse(`{"unterminated": `); err == nil {
		t.Error("expected an error for truncated JSON")
	}
	if _, err := Parse(""); err == nil {
		t.Error("expected an error for an empty document")
	}
}

func TestExtract(t *testing.T) {
	node := mustParse(t, sampleDoc)

	tests := []struct {
		name   string
		path   string
		want   string
		wantOK bool
	}{
		{"top-level string", "name", "Distributed Systems", true},
		{"number renders without exponent", "max_seats", "20", true},
		{"bool", "active", "true", true},
		{"nested field", "trainer.email", "ada@example.org", true},
		{"array index", "sessions[0].room", "A-101", true},
		{"second element", "sessions[1].hour", "14", true},
		{"object lands on empty text", "trainer", "", true},
		{"array lands on empty text", "sessions", "", true},
		{"null does not resolve", "notes", "", false},
		{"missing field", "trainer.phone", "", false},
		{"index out of range", "sessions[5].room", "", false},
		{"negative index", "sessions[-1].room", "", false},
		{"index into non-array", "name[0]", "", false},
		{"field on scalar", "name.length", "", false},
		{"empty path", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(node, tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Extract(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// A non-numeric bracket index falls back to 0 instead of failing.
func TestExtract_NonNumericIndexMeansZero(t *testing.T) {
	node := mustParse(t, sampleDoc)

	got, ok := Extract(node, "sessions[abc].room")
	if !ok || got != "A-101" {
		t.Errorf("Extract = (%q, %v), want (%q, true)", got, ok, "A-101")
	}
}

func TestExtract_NilNode(t *testing.T) {
	if _, ok := Extract(nil, "anything"); ok {
		t.Error("nil node must not resolve")
	}
}

func FuzzExtract(f *testing.F) {
	f.Add(sampleDoc, "trainer.email")
	f.Add(sampleDoc, "sessions[1].hour")
	f.Add(sampleDoc, "sessions[-9].room")
	f.Add(`[1,2,3]`, "[0]")
	f.Add(`{"a":{"b":null}}`, "a.b.c")
	f.Add(`{"":""}`, ".")
	f.Add(`{"a[0]":1}`, "a[0]")

	f.Fuzz(func(t *testing.T, doc string, path string) {
		node, err := Parse(doc)
		if err != nil {
			return
		}
		// Must never panic, whatever the path looks like.
		Extract(node, path)
	})
}
