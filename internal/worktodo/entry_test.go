package worktodo

import (
	"strings"
	"testing"
)

func TestEntryForms(t *testing.T) {
	mersenne := Entry{K: 1, B: 2, Exponent: 127, C: -1}
	if !mersenne.IsMersenne() {
		t.Error("2^127-1 not recognized as Mersenne")
	}
	if mersenne.IsWagstaff() {
		t.Error("2^127-1 recognized as Wagstaff")
	}

	wagstaff := Entry{K: 1, B: 2, Exponent: 127, C: 1, KnownFactors: []string{"3"}}
	if !wagstaff.IsWagstaff() {
		t.Error("(2^127+1)/3 not recognized as Wagstaff")
	}

	// The factor 3 must be recorded for the Wagstaff form.
	bare := Entry{K: 1, B: 2, Exponent: 127, C: 1}
	if bare.IsWagstaff() {
		t.Error("2^127+1 without factor 3 recognized as Wagstaff")
	}

	generic := Entry{K: 3, B: 5, Exponent: 10, C: 7}
	if generic.IsMersenne() || generic.IsWagstaff() {
		t.Error("3*5^10+7 matched a special form")
	}
}

func TestSummaryAlwaysComposed(t *testing.T) {
	cases := []struct {
		name  string
		entry Entry
		want  []string
	}{
		{
			name: "prp mersenne",
			entry: Entry{
				JobType: JobPRP, K: 1, B: 2, Exponent: 9999999, C: -1,
				Options: PrimalityOptions{ResidueType: 1},
			},
			want: []string{"PRP", "1*2^9999999-1", "(Mersenne)", "residueType=1"},
		},
		{
			name: "pm1 with bounds and aid",
			entry: Entry{
				JobType: JobPMinus1, K: 1, B: 2, Exponent: 9999999, C: -1,
				AssignmentID: "B83DCC34B5D04BE4D58022E7E7FFEE54",
				Options:      FactoringOptions{B1: 40000, B2: 1000000},
			},
			want: []string{"P-1", "B1=40000, B2=1000000", "AID=B83DCC34B5D04BE4D58022E7E7FFEE54"},
		},
		{
			name: "ll",
			entry: Entry{
				JobType: JobLucasLehmer, K: 1, B: 2, Exponent: 70100001, C: -1,
				Options: PrimalityOptions{ResidueType: 1},
			},
			want: []string{"LL", "1*2^70100001-1"},
		},
		{
			name: "cofactor with known factors",
			entry: Entry{
				JobType: JobPRP, K: 1, B: 2, Exponent: 11, C: -1,
				KnownFactors: []string{"23", "89"},
				Options:      PrimalityOptions{ResidueType: ResidueTypeMersenneCofactor},
			},
			want: []string{"with 2 known factors", "residueType=5"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.entry.Summary()
			if got == "" {
				t.Fatal("empty summary")
			}
			for _, fragment := range tc.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("summary %q missing %q", got, fragment)
				}
			}
		})
	}
}

func TestModeOptionAccessors(t *testing.T) {
	prp := Entry{JobType: JobPRP, Options: PrimalityOptions{ResidueType: 1}}
	if _, ok := prp.Factoring(); ok {
		t.Error("PRP entry exposed a factoring arm")
	}
	if opts, ok := prp.Primality(); !ok || opts.ResidueType != 1 {
		t.Errorf("primality arm = %#v, %v", opts, ok)
	}

	pm1 := Entry{JobType: JobPMinus1, Options: FactoringOptions{B1: 1, B2: 2}}
	if _, ok := pm1.Primality(); ok {
		t.Error("P-1 entry exposed a primality arm")
	}
	if opts, ok := pm1.Factoring(); !ok || opts.B2 != 2 {
		t.Errorf("factoring arm = %#v, %v", opts, ok)
	}
}
