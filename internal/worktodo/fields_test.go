package worktodo

import (
	"reflect"
	"testing"
)

func TestSplitTopLevel(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		key   string
		value string
		ok    bool
	}{
		{"simple", "Test=123,74,0", "Test", "123,74,0", true},
		{"equals in value", "PRP=1,2,3,-1", "PRP", "1,2,3,-1", true},
		{"no equals", "Test 123", "", "", false},
		{"empty value", "Test=", "", "", false},
		{"empty key", "=123", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, value, ok := splitTopLevel(tc.line)
			if ok != tc.ok || key != tc.key || value != tc.value {
				t.Fatalf("splitTopLevel(%q) = %q, %q, %v; want %q, %q, %v",
					tc.line, key, value, ok, tc.key, tc.value, tc.ok)
			}
		})
	}
}

func TestSplitFieldsRespectsQuotes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "1,2,3", []string{"1", "2", "3"}},
		{"quoted list stays joined", `1,2,11,-1,"23,89"`, []string{"1", "2", "11", "-1", `"23,89"`}},
		{"quotes retained", `"3"`, []string{`"3"`}},
		{"leading empty field", ",123,74", []string{"", "123", "74"}},
		{"trailing empty dropped", "123,", []string{"123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitFields(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("splitFields(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
		})
	}
}

func TestTrimSentinel(t *testing.T) {
	if got := trimSentinel([]string{"N/A", "123"}); !reflect.DeepEqual(got, []string{"123"}) {
		t.Fatalf("N/A sentinel not trimmed: %#v", got)
	}
	if got := trimSentinel([]string{"", "123"}); !reflect.DeepEqual(got, []string{"123"}) {
		t.Fatalf("empty sentinel not trimmed: %#v", got)
	}
	if got := trimSentinel([]string{"123"}); !reflect.DeepEqual(got, []string{"123"}) {
		t.Fatalf("regular field trimmed: %#v", got)
	}
}

func TestExtractAssignmentID(t *testing.T) {
	hex := "B83DCC34B5D04BE4D58022E7E7FFEE54"
	aid, rest := extractAssignmentID([]string{hex, "123"}, false)
	if aid != hex || len(rest) != 1 {
		t.Fatalf("hex AID not extracted: %q, %#v", aid, rest)
	}

	aid, rest = extractAssignmentID([]string{"AID", "123"}, true)
	if aid != "AID" || len(rest) != 1 {
		t.Fatalf("AID literal not extracted: %q, %#v", aid, rest)
	}

	aid, rest = extractAssignmentID([]string{"AID", "123"}, false)
	if aid != "" || len(rest) != 2 {
		t.Fatalf("AID literal extracted outside PM1 family: %q, %#v", aid, rest)
	}

	aid, rest = extractAssignmentID([]string{"123", "74"}, false)
	if aid != "" || len(rest) != 2 {
		t.Fatalf("plain field mistaken for AID: %q, %#v", aid, rest)
	}
}

func TestIsHex32(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"B83DCC34B5D04BE4D58022E7E7FFEE54", true},
		{"b83dcc34b5d04be4d58022e7e7ffee54", true},
		{"B83DCC34B5D04BE4D58022E7E7FFEE5", false},   // 31 chars
		{"B83DCC34B5D04BE4D58022E7E7FFEE545", false}, // 33 chars
		{"G83DCC34B5D04BE4D58022E7E7FFEE54", false},  // non-hex
		{"", false},
	}
	for _, tc := range cases {
		if got := isHex32(tc.input); got != tc.want {
			t.Errorf("isHex32(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseQuotedFactors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", `"3"`, []string{"3"}},
		{"multiple", `"36357263,145429049,8411216206439"`, []string{"36357263", "145429049", "8411216206439"}},
		{"trailing whitespace", `"23,89" ` + "\t", []string{"23", "89"}},
		{"unquoted", "36357263", nil},
		{"empty quotes", `""`, nil},
		{"half quoted", `"3`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseQuotedFactors(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseQuotedFactors(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFieldCursor(t *testing.T) {
	cur := newCursor([]string{"1", "2", "x", "last"})

	if got := cur.remaining(); got != 4 {
		t.Fatalf("remaining = %d, want 4", got)
	}
	if v, err := cur.takeUint32(); err != nil || v != 1 {
		t.Fatalf("takeUint32 = %d, %v", v, err)
	}
	if v, ok := cur.peek(); !ok || v != "2" {
		t.Fatalf("peek = %q, %v", v, ok)
	}
	if last, ok := cur.takeLast(); !ok || last != "last" {
		t.Fatalf("takeLast = %q, %v", last, ok)
	}
	if !cur.discard(2) {
		t.Fatal("discard(2) failed with 2 fields remaining")
	}
	if cur.discard(1) {
		t.Fatal("discard(1) succeeded on empty cursor")
	}
	if _, err := cur.takeUint32(); err == nil {
		t.Fatal("takeUint32 succeeded on empty cursor")
	}
}

func TestTakeBoundTruncatesFraction(t *testing.T) {
	cur := newCursor([]string{"1.9"})
	bound, err := cur.takeBound()
	if err != nil {
		t.Fatalf("takeBound: %v", err)
	}
	if bound != 1 {
		t.Fatalf("bound = %d, want 1", bound)
	}
}
