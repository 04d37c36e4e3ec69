package gtp

import (
	"strconv"
	"strings"

	"katasuji/types"
)

// charset reports whether a byte may appear in a token value.
type charset func(c byte) bool

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }

func unsignedFloat(c byte) bool { return isDigit(c) || c == '.' || c == 'e' || c == 'E' }
func signedFloat(c byte) bool   { return unsignedFloat(c) || c == '-' }
func floatList(c byte) bool     { return signedFloat(c) || c == ' ' || c == '\t' }

// labeledToken finds the first "<label> <value>" in record where label
// starts a word and the value is non-empty, and returns the longest run of
// value bytes accepted by accept.
func labeledToken(record, label string, accept charset) (string, bool) {
	needle := label + " "
	from := 0
	for {
		i := strings.Index(record[from:], needle)
		if i < 0 {
			return "", false
		}
		i += from
		from = i + 1
		if i > 0 && record[i-1] != ' ' && record[i-1] != '\t' {
			continue
		}

		start := i + len(needle)
		end := start
		for end < len(record) && accept(record[end]) {
			end++
		}
		if end == start {
			continue
		}
		return record[start:end], true
	}
}

// moveToken returns the "move" field if it is letters followed by digits.
// "pass" has no digits and is rejected.
func moveToken(record string) (string, bool) {
	raw, ok := labeledToken(record, "move", func(c byte) bool { return isLetter(c) || isDigit(c) })
	if !ok {
		return "", false
	}
	split := 0
	for split < len(raw) && isLetter(raw[split]) {
		split++
	}
	if split == 0 || split == len(raw) {
		return "", false
	}
	for i := split; i < len(raw); i++ {
		if !isDigit(raw[i]) {
			return "", false
		}
	}
	return raw, true
}

func floatField(record, label string, accept charset) (float64, bool) {
	raw, ok := labeledToken(record, label, accept)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractInfo pulls one candidate move out of an analysis sub-record.
// All of move, visits, winrate, scoreLead and utilityLcb must be present;
// a record missing any of them yields false.
func ExtractInfo(record string) (types.BoardPoint, types.AnalysisInfo, bool) {
	move, ok := moveToken(record)
	if !ok {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}
	vertex, ok := Decode(move)
	if !ok || vertex.Pass {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}

	rawVisits, ok := labeledToken(record, "visits", isDigit)
	if !ok {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}
	visits, err := strconv.Atoi(rawVisits)
	if err != nil {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}

	winrate, ok := floatField(record, "winrate", signedFloat)
	if !ok {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}
	scoreLead, ok := floatField(record, "scoreLead", signedFloat)
	if !ok {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}
	utilityLcb, ok := floatField(record, "utilityLcb", signedFloat)
	if !ok {
		return types.BoardPoint{}, types.AnalysisInfo{}, false
	}

	return vertex.Point, types.AnalysisInfo{
		Visits:     visits,
		Winrate:    winrate,
		ScoreLead:  scoreLead,
		UtilityLcb: utilityLcb,
	}, true
}

// floatArray parses the whitespace separated numbers after label. The array
// is accepted only if it holds exactly want values.
func floatArray(record, label string, want int) ([]float64, bool) {
	raw, ok := labeledToken(record, label, floatList)
	if !ok {
		return nil, false
	}
	fields := strings.Fields(raw)
	if len(fields) != want || want == 0 {
		return nil, false
	}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// ExtractOwnership returns the ownership mean and stdev arrays of record.
// Each is accepted only if its length is exactly dims.Area().
func ExtractOwnership(record string, dims types.BoardDimensions) (mean []float64, meanOK bool, stdev []float64, stdevOK bool) {
	mean, meanOK = floatArray(record, "ownership", dims.Area())
	stdev, stdevOK = floatArray(record, "ownershipStdev", dims.Area())
	return mean, meanOK, stdev, stdevOK
}
