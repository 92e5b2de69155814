package directory

import (
	"fmt"
	"sort"
)

// ResultCode is an LDAP operation result code with a known meaning.
//
// The set of defined codes is closed: Classify returns false for anything
// outside it, and callers must treat such codes as fatal rather than as a
// rejection. Descriptions are for diagnostics only.
type ResultCode int

// Defined result codes. The table is sparse: 10, 15, 22-31, 35, 37-47,
// 55-63, 72-79 and everything above 80 are intentionally absent.
const (
	ResultCodeSuccess                      ResultCode = 0
	ResultCodeOperationsError              ResultCode = 1
	ResultCodeProtocolError                ResultCode = 2
	ResultCodeTimeLimitExceeded            ResultCode = 3
	ResultCodeSizeLimitExceeded            ResultCode = 4
	ResultCodeCompareFalse                 ResultCode = 5
	ResultCodeCompareTrue                  ResultCode = 6
	ResultCodeAuthMethodNotSupported       ResultCode = 7
	ResultCodeStrongAuthRequired           ResultCode = 8
	ResultCodeReferral                     ResultCode = 9
	ResultCodeAdminLimitExceeded           ResultCode = 11
	ResultCodeUnavailableCriticalExtension ResultCode = 12
	ResultCodeConfidentialityRequired      ResultCode = 13
	ResultCodeSaslBindInProgress           ResultCode = 14
	ResultCodeNoSuchAttribute              ResultCode = 16
	ResultCodeUndefinedAttributeType       ResultCode = 17
	ResultCodeInappropriateMatching        ResultCode = 18
	ResultCodeConstraintViolation          ResultCode = 19
	ResultCodeAttributeOrValueExists       ResultCode = 20
	ResultCodeInvalidAttributeSyntax       ResultCode = 21
	ResultCodeNoSuchObject                 ResultCode = 32
	ResultCodeAliasProblem                 ResultCode = 33
	ResultCodeInvalidDNSyntax              ResultCode = 34
	ResultCodeAliasDereferencingProblem    ResultCode = 36
	ResultCodeInappropriateAuthentication  ResultCode = 48
	ResultCodeInvalidCredentials           ResultCode = 49
	ResultCodeInsufficientAccessRights     ResultCode = 50
	ResultCodeBusy                         ResultCode = 51
	ResultCodeUnavailable                  ResultCode = 52
	ResultCodeUnwillingToPerform           ResultCode = 53
	ResultCodeLoopDetect                   ResultCode = 54
	ResultCodeNamingViolation              ResultCode = 64
	ResultCodeObjectClassViolation         ResultCode = 65
	ResultCodeNotAllowedOnNonLeaf          ResultCode = 66
	ResultCodeNotAllowedOnRDN              ResultCode = 67
	ResultCodeEntryAlreadyExists           ResultCode = 68
	ResultCodeObjectClassModsProhibited    ResultCode = 69
	ResultCodeResultsTooLarge              ResultCode = 70
	ResultCodeAffectsMultipleDSAs          ResultCode = 71
	ResultCodeOther                        ResultCode = 80
)

var resultCodeDescriptions = map[ResultCode]string{
	ResultCodeSuccess:                      "Success",
	ResultCodeOperationsError:              "Operations Error",
	ResultCodeProtocolError:                "Protocol Error",
	ResultCodeTimeLimitExceeded:            "Time Limit Exceeded",
	ResultCodeSizeLimitExceeded:            "Size Limit Exceeded",
	ResultCodeCompareFalse:                 "Compare False",
	ResultCodeCompareTrue:                  "Compare True",
	ResultCodeAuthMethodNotSupported:       "Auth Method Not Supported",
	ResultCodeStrongAuthRequired:           "Strong Authentication Required",
	ResultCodeReferral:                     "Referral",
	ResultCodeAdminLimitExceeded:           "Admin Limit Exceeded",
	ResultCodeUnavailableCriticalExtension: "Unavailable Critical Extension",
	ResultCodeConfidentialityRequired:      "Confidentiality Required",
	ResultCodeSaslBindInProgress:           "SASL Bind In Progress",
	ResultCodeNoSuchAttribute:              "No Such Attribute",
	ResultCodeUndefinedAttributeType:       "Undefined Attribute Type",
	ResultCodeInappropriateMatching:        "Inappropriate Matching",
	ResultCodeConstraintViolation:          "Constraint Violation",
	ResultCodeAttributeOrValueExists:       "Attribute Or Value Exists",
	ResultCodeInvalidAttributeSyntax:       "Invalid Attribute Syntax",
	ResultCodeNoSuchObject:                 "No Such Object",
	ResultCodeAliasProblem:                 "Alias Problem",
	ResultCodeInvalidDNSyntax:              "Invalid DN Syntax",
	ResultCodeAliasDereferencingProblem:    "Alias Dereferencing Problem",
	ResultCodeInappropriateAuthentication:  "Inappropriate Authentication",
	ResultCodeInvalidCredentials:           "Invalid Credentials",
	ResultCodeInsufficientAccessRights:     "Insufficient Access Rights",
	ResultCodeBusy:                         "Busy",
	ResultCodeUnavailable:                  "Unavailable",
	ResultCodeUnwillingToPerform:           "Unwilling To Perform",
	ResultCodeLoopDetect:                   "Loop Detect",
	ResultCodeNamingViolation:              "Naming Violation",
	ResultCodeObjectClassViolation:         "Object Class Violation",
	ResultCodeNotAllowedOnNonLeaf:          "Not Allowed On Non-Leaf",
	ResultCodeNotAllowedOnRDN:              "Not Allowed On RDN",
	ResultCodeEntryAlreadyExists:           "Entry Already Exists",
	ResultCodeObjectClassModsProhibited:    "Object Class Mods Prohibited",
	ResultCodeResultsTooLarge:              "Results Too Large",
	ResultCodeAffectsMultipleDSAs:          "Affects Multiple DSAs",
	ResultCodeOther:                        "Other",
}

// Classify maps a raw numeric result code onto the registry.
// Returns false when the code is not defined.
func Classify(code int) (ResultCode, bool) {
	rc := ResultCode(code)
	if _, ok := resultCodeDescriptions[rc]; !ok {
		return 0, false
	}
	return rc, true
}

// Description returns the human-readable description of the code.
func (c ResultCode) Description() string {
	if d, ok := resultCodeDescriptions[c]; ok {
		return d
	}
	return "Unmapped"
}

// String returns "<code> (<description>)".
func (c ResultCode) String() string {
	return fmt.Sprintf("%d (%s)", int(c), c.Description())
}

// IsSuccess reports whether the code is ResultCodeSuccess.
func (c ResultCode) IsSuccess() bool {
	return c == ResultCodeSuccess
}

// ResultCodes returns every defined code in ascending order.
func ResultCodes() []ResultCode {
	codes := make([]ResultCode, 0, len(resultCodeDescriptions))
	for c := range resultCodeDescriptions {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
