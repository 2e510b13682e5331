package worktodo

// lineKind distinguishes the four line grammars. PFactor and Pminus1 share a
// job type but consume different field sequences.
type lineKind int

const (
	kindLucasLehmer lineKind = iota
	kindPRP
	kindPFactor
	kindPMinus1
)

// classify maps a line key to its grammar and job type.
func classify(key string) (lineKind, JobType, bool) {
	switch key {
	case "Test", "DoubleCheck":
		return kindLucasLehmer, JobLucasLehmer, true
	case "PRP", "PRPDC":
		return kindPRP, JobPRP, true
	case "PFactor":
		return kindPFactor, JobPMinus1, true
	case "Pminus1":
		return kindPMinus1, JobPMinus1, true
	default:
		return 0, "", false
	}
}

// takeKBNC consumes the k,b,n,c quadruple defining the candidate.
func takeKBNC(e *Entry, cur *fieldCursor) *Diagnostic {
	if cur.remaining() < 4 {
		return skip(ReasonMissingFields, "not enough fields for k,b,n,c")
	}
	var err error
	if e.K, err = cur.takeUint32(); err != nil {
		return skip(ReasonBadNumber, "bad k: %v", err)
	}
	if e.B, err = cur.takeUint32(); err != nil {
		return skip(ReasonBadNumber, "bad b: %v", err)
	}
	if e.Exponent, err = cur.takeUint32(); err != nil {
		return skip(ReasonBadNumber, "bad n: %v", err)
	}
	if e.C, err = cur.takeInt32(); err != nil {
		return skip(ReasonBadNumber, "bad c: %v", err)
	}
	if e.K == 0 || e.B < 2 || e.Exponent == 0 {
		return skip(ReasonInvalidKBNC, "invalid k,b,n,c values %d,%d,%d,%d", e.K, e.B, e.Exponent, e.C)
	}
	return nil
}

// takeExponent consumes a bare exponent; the Mersenne form k=1, b=2, c=-1 is
// implied.
func takeExponent(e *Entry, cur *fieldCursor) *Diagnostic {
	if cur.remaining() < 1 {
		return skip(ReasonMissingFields, "missing exponent")
	}
	exponent, err := cur.takeUint32()
	if err != nil {
		return skip(ReasonBadNumber, "bad exponent: %v", err)
	}
	if exponent == 0 {
		return skip(ReasonInvalidKBNC, "invalid exponent 0")
	}
	e.K, e.B, e.Exponent, e.C = 1, 2, exponent, -1
	return nil
}

// takeExponentOrKBNC handles the polymorphic first step of PFactor lines: a
// literal "1" opens a full quadruple, anything else is a bare exponent.
func takeExponentOrKBNC(e *Entry, cur *fieldCursor) *Diagnostic {
	if first, ok := cur.peek(); ok && first == "1" && cur.remaining() >= 4 {
		return takeKBNC(e, cur)
	}
	return takeExponent(e, cur)
}

// takeBounds consumes the B1,B2 stage bounds. B2 may arrive with a fractional
// part and is truncated before the B2 >= B1 check.
func takeBounds(e *Entry, cur *fieldCursor) *Diagnostic {
	if cur.remaining() < 2 {
		return skip(ReasonMissingFields, "not enough fields for B1,B2")
	}
	b1, err := cur.takeUint64()
	if err != nil {
		return skip(ReasonBadNumber, "bad B1: %v", err)
	}
	b2, err := cur.takeBound()
	if err != nil {
		return skip(ReasonBadNumber, "bad B2: %v", err)
	}
	if b1 == 0 || b2 < b1 {
		return skip(ReasonInvalidBounds, "invalid B1,B2 values %d,%d", b1, b2)
	}
	e.Options = FactoringOptions{B1: b1, B2: b2}
	return nil
}

// takeTrailingFactors pops the trailing field when it is a quoted factor
// list. A trailing field that is not a quoted list is left in place.
func takeTrailingFactors(e *Entry, cur *fieldCursor) {
	if cur.remaining() == 0 {
		return
	}
	factors := parseQuotedFactors(cur.fields[cur.remaining()-1])
	if len(factors) == 0 {
		return
	}
	e.KnownFactors = factors
	cur.takeLast()
}

// decodePFactor parses a trial-factor-bound request:
//
//	PFactor=[AID,]{exponent|1,k,b,n,c},how_far_factored,tests_saved,B1,B2[,"factors"]
func (p *Parser) decodePFactor(e *Entry, cur *fieldCursor) *Diagnostic {
	if diag := takeExponentOrKBNC(e, cur); diag != nil {
		return diag
	}
	if !e.IsMersenne() {
		return skip(ReasonUnsupportedForm, "only Mersenne candidates supported for PFactor")
	}
	if !cur.discard(1) {
		return skip(ReasonMissingFields, "missing how_far_factored")
	}
	if !cur.discard(1) {
		return skip(ReasonMissingFields, "missing tests_saved")
	}
	if diag := takeBounds(e, cur); diag != nil {
		return diag
	}
	takeTrailingFactors(e, cur)
	return nil
}

// decodePMinus1 parses a direct P-1 request:
//
//	Pminus1=[AID,]k,b,n,c,B1,B2,how_far_factored[,B2_start][,"factors"]
//
// The fields between how_far_factored and the optional factor list have no
// fixed arity; only the trailing quoted list is inspected.
func (p *Parser) decodePMinus1(e *Entry, cur *fieldCursor) *Diagnostic {
	if diag := takeKBNC(e, cur); diag != nil {
		return diag
	}
	if !e.IsMersenne() {
		return skip(ReasonUnsupportedForm, "only Mersenne candidates supported for Pminus1")
	}
	if diag := takeBounds(e, cur); diag != nil {
		return diag
	}
	if !cur.discard(1) {
		return skip(ReasonMissingFields, "missing how_far_factored")
	}
	takeTrailingFactors(e, cur)
	return nil
}

// decodeLucasLehmer parses a first-time or double-check LL request:
//
//	{Test|DoubleCheck}=[AID,]exponent,how_far_factored,has_been_pminus1ed
func (p *Parser) decodeLucasLehmer(e *Entry, cur *fieldCursor) *Diagnostic {
	if diag := takeExponent(e, cur); diag != nil {
		return diag
	}
	if !cur.discard(1) {
		return skip(ReasonMissingFields, "missing how_far_factored")
	}
	if !cur.discard(1) {
		return skip(ReasonMissingFields, "missing has_been_pminus1ed")
	}
	return nil
}

// decodePRP parses a PRP or PRP double-check request:
//
//	PRP[DC]=[AID,]k,b,n,c[,how_far_factored,tests_saved[,base,residue_type]][,"factors"]
//
// A remaining field count of exactly 1, 3, or 5 marks a trailing factor list.
// Known factors on a Mersenne candidate switch the entry to a cofactor test
// after every factor passes the divisibility check.
func (p *Parser) decodePRP(e *Entry, cur *fieldCursor) (skipDiag, warnDiag *Diagnostic) {
	if diag := takeKBNC(e, cur); diag != nil {
		return diag, nil
	}
	if n := cur.remaining(); n == 1 || n == 3 || n == 5 {
		takeTrailingFactors(e, cur)
		if len(e.KnownFactors) > 0 && e.IsMersenne() {
			if err := p.validator.ValidateFactors(e.Exponent, e.KnownFactors); err != nil {
				return skip(ReasonBadFactors, "invalid known factors for exponent %d: %v", e.Exponent, err), nil
			}
			e.Options = PrimalityOptions{ResidueType: ResidueTypeMersenneCofactor}
		}
	}
	if !e.IsMersenne() && !e.IsWagstaff() {
		return skip(ReasonUnsupportedForm, "only Mersenne and Wagstaff candidates supported for PRP"), nil
	}
	if cur.remaining() >= 2 {
		cur.discard(2) // how_far_factored, tests_saved
	}
	if cur.remaining() >= 2 {
		base, err := cur.takeUint32()
		if err != nil {
			return skip(ReasonBadNumber, "bad base: %v", err), nil
		}
		lineResidue, err := cur.takeUint32()
		if err != nil {
			return skip(ReasonBadNumber, "bad residue type: %v", err), nil
		}
		if base < 2 {
			return skip(ReasonUnsupportedBase, "invalid base %d < 2", base), nil
		}
		if _, ok := p.bases[base]; !ok {
			return skip(ReasonUnsupportedBase, "base %d not supported", base), nil
		}
		expected := e.Options.(PrimalityOptions).ResidueType
		if lineResidue != expected {
			// Warn and keep the computed value; the on-disk field is not
			// trusted over the entry's own classification.
			warnDiag = warning(ReasonResidueMismatch,
				"residue type %d does not match expected %d", lineResidue, expected)
		}
	}
	return nil, warnDiag
}
