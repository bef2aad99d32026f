package matching

import (
	"errors"
	"regexp"
	"strings"
)

type CodeKind string

const (
	CodeKindEducation  CodeKind = "education"
	CodeKindOccupation CodeKind = "occupation"
)

var ErrInvalidCode = errors.New("invalid classification code")

var (
	cipRe = regexp.MustCompile(`^\d{2}\.\d{4}$`)
	socRe = regexp.MustCompile(`^\d{2}-\d{4}(\.\d{2})?$`)
)

// ClassificationCode is a normalized CIP-style education code or SOC-style
// occupation code.
type ClassificationCode struct {
	Value string
	Kind  CodeKind
}

func ParseClassificationCode(raw string) (ClassificationCode, error) {
	v := strings.TrimSpace(raw)
	switch {
	case cipRe.MatchString(v):
		return ClassificationCode{Value: v, Kind: CodeKindEducation}, nil
	case socRe.MatchString(v):
		return ClassificationCode{Value: v, Kind: CodeKindOccupation}, nil
	default:
		return ClassificationCode{}, ErrInvalidCode
	}
}

// BaseSOC strips the O*NET detail suffix: "15-1252.00" -> "15-1252".
func BaseSOC(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexByte(code, '.'); i > 0 && socRe.MatchString(code) {
		return code[:i]
	}
	return code
}

type MatchStrength string

const (
	MatchStrengthPrimary   MatchStrength = "primary"
	MatchStrengthSecondary MatchStrength = "secondary"
	MatchStrengthTertiary  MatchStrength = "tertiary"
)

func ParseMatchStrength(s string) MatchStrength {
	switch MatchStrength(strings.ToLower(strings.TrimSpace(s))) {
	case MatchStrengthPrimary:
		return MatchStrengthPrimary
	case MatchStrengthSecondary:
		return MatchStrengthSecondary
	default:
		return MatchStrengthTertiary
	}
}
