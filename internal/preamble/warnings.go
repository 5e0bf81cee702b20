package preamble

import "fmt"

// WarningCode classifies the recoverable findings a load can accumulate.
// Warnings never abort a load; they are returned for the caller to present.
type WarningCode string

const (
	WarnUnknownField  WarningCode = "UNKNOWN_FIELD"   // persisted name absent from the target collection
	WarnOutOfList     WarningCode = "OUT_OF_LIST"     // enumerated value not in the candidate set
	WarnMalformedLine WarningCode = "MALFORMED_LINE"  // interior line without a name/value separator
	WarnNoPreamble    WarningCode = "NO_PREAMBLE"     // start marker never found before end of input
	WarnRejectedLoad  WarningCode = "REJECTED_LOAD"   // oracle rejected the parsed candidate wholesale
)

// Warning records one recoverable finding.
type Warning struct {
	Code   WarningCode
	Field  string
	Detail string
}

func (w Warning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("%s: %s: %s", w.Code, w.Field, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Detail)
}
