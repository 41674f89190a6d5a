package engine

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/model"
)

const (
	// DefaultMatchLimit caps the number of similar codes returned.
	DefaultMatchLimit = 10
	// DefaultMatchCutoff is the minimum similarity ratio, in [0, 1].
	DefaultMatchCutoff = 0.5
)

// Match is a candidate code with its similarity ratio to the query.
type Match struct {
	Code  string  `json:"code" yaml:"code"`
	Score float64 `json:"score" yaml:"score"`
}

// CloseMatches returns up to n candidates whose matching-blocks ratio to
// query (2·M / (len(query)+len(candidate)), over characters) is at least
// cutoff, best first. Equal scores are ordered by code.
func CloseMatches(query string, candidates []string, n int, cutoff float64) []Match {
	if n <= 0 {
		n = DefaultMatchLimit
	}
	q := chars(query)
	if len(q) == 0 {
		return nil
	}

	m := difflib.NewMatcher(nil, q)
	var out []Match
	for _, c := range candidates {
		m.SetSeq1(chars(c))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			out = append(out, Match{Code: c, Score: r})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// SearchCodes matches query against every distinct tariff code of t. Pass
// the unfiltered table: suggestions are independent of the active filters.
func SearchCodes(t *model.Table, query string, n int, cutoff float64) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if cutoff < 0 || cutoff > 1 {
		return nil, eris.Errorf("engine: cutoff %v outside [0, 1]", cutoff)
	}
	if err := requireFields(t, model.TariffCode); err != nil {
		return nil, err
	}
	return CloseMatches(query, t.Distinct(model.TariffCode), n, cutoff), nil
}

// Codes returns the codes of matches in order.
func Codes(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Code
	}
	return out
}

func chars(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}
