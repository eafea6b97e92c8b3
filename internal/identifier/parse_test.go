package identifier

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Candidate
	}{
		{
			name:  "json with snake_case aliases",
			input: `{"part_no":"PN-2","order_no":"ORD-2"}`,
			want:  Candidate{PartNumber: "PN-2", OrderNumber: "ORD-2"},
		},
		{
			name:  "json with camelCase aliases",
			input: `{"partNumber":"PN-10","orderNumber":"ORD-10"}`,
			want:  Candidate{PartNumber: "PN-10", OrderNumber: "ORD-10"},
		},
		{
			name:  "json with short aliases",
			input: `{"part":"PN-11","order":"ORD-11"}`,
			want:  Candidate{PartNumber: "PN-11", OrderNumber: "ORD-11"},
		},
		{
			name:  "json alias priority: part_no beats partNumber",
			input: `{"partNumber":"LOSER","part_no":"WINNER"}`,
			want:  Candidate{PartNumber: "WINNER"},
		},
		{
			name:  "json alias priority: orderNumber beats order",
			input: `{"order":"LOSER","orderNumber":"WINNER"}`,
			want:  Candidate{OrderNumber: "WINNER"},
		},
		{
			name:  "json with missing order field",
			input: `{"part_no":"PN-5"}`,
			want:  Candidate{PartNumber: "PN-5", OrderNumber: ""},
		},
		{
			name:  "json non-string alias treated as absent",
			input: `{"part_no":42,"order_no":"ORD-9"}`,
			want:  Candidate{PartNumber: "", OrderNumber: "ORD-9"},
		},
		{
			name:  "json array is not structured, falls through",
			input: `["PN-1","ORD-1"]`,
			want:  Candidate{PartNumber: `["PN-1"`, OrderNumber: `"ORD-1"]`},
		},
		{
			name:  "json null is not structured, falls back to part number",
			input: "null",
			want:  Candidate{PartNumber: "null", OrderNumber: ""},
		},
		{
			name:  "bare json number falls back to part number",
			input: "42",
			want:  Candidate{PartNumber: "42", OrderNumber: ""},
		},
		{
			name:  "pipe split",
			input: "PN-1|ORD-1",
			want:  Candidate{PartNumber: "PN-1", OrderNumber: "ORD-1"},
		},
		{
			name:  "pipe split discards third segment",
			input: "PN-1|ORD-1|EXTRA",
			want:  Candidate{PartNumber: "PN-1", OrderNumber: "ORD-1"},
		},
		{
			name:  "pipe split trims segments",
			input: "  PN-1  |  ORD-1  ",
			want:  Candidate{PartNumber: "PN-1", OrderNumber: "ORD-1"},
		},
		{
			name:  "trailing pipe yields empty order",
			input: "PN-1|",
			want:  Candidate{PartNumber: "PN-1", OrderNumber: ""},
		},
		{
			name:  "leading pipe yields empty part",
			input: "|ORD-1",
			want:  Candidate{PartNumber: "", OrderNumber: "ORD-1"},
		},
		{
			name:  "comma delimiter",
			input: "PN-4,ORD-4",
			want:  Candidate{PartNumber: "PN-4", OrderNumber: "ORD-4"},
		},
		{
			name:  "probe order: comma wins over colon",
			input: "A,B:C",
			want:  Candidate{PartNumber: "A", OrderNumber: "B:C"},
		},
		{
			name:  "probe order: semicolon wins over slash",
			input: "A/B;C",
			want:  Candidate{PartNumber: "A/B", OrderNumber: "C"},
		},
		{
			name:  "slash delimiter",
			input: "PN-7/ORD-7",
			want:  Candidate{PartNumber: "PN-7", OrderNumber: "ORD-7"},
		},
		{
			name:  "no delimiter falls back to part number",
			input: "PN-3",
			want:  Candidate{PartNumber: "PN-3", OrderNumber: ""},
		},
		{
			name:  "empty input",
			input: "",
			want:  Candidate{PartNumber: "", OrderNumber: ""},
		},
		{
			name:  "whitespace-only input is kept verbatim",
			input: "   ",
			want:  Candidate{PartNumber: "   ", OrderNumber: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCandidate_IsEmpty(t *testing.T) {
	if !(Candidate{}).IsEmpty() {
		t.Error("empty candidate should report IsEmpty")
	}
	if (Candidate{PartNumber: "PN-1"}).IsEmpty() {
		t.Error("candidate with part number should not report IsEmpty")
	}
	if (Candidate{OrderNumber: "ORD-1"}).IsEmpty() {
		t.Error("candidate with order number should not report IsEmpty")
	}
}
