package services

import (
	"strings"

	"attendance/constants"
	"attendance/errors"
	"attendance/models"
	"attendance/services/payroll"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// minSimilarity is the fuzzy threshold for a query word to match a name word
const minSimilarity = 0.75

var departmentMatcher = createMatcher(normalizedDepartments())

func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

func normalizedDepartments() []string {
	out := make([]string, 0, len(constants.Departments))
	for _, d := range constants.Departments {
		out = append(out, normalizeInput(d))
	}
	return out
}

// calculateSimilarity is 1 - levenshtein distance / longer length
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len([]rune(a)))
	if l := float64(len([]rune(b))); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

// MatchDepartment returns the canonical department for name, case and accent insensitive.
// Unknown names fail with the closest known department as a hint.
func MatchDepartment(name string) (string, error) {
	normalized := normalizeInput(name)
	for _, d := range constants.Departments {
		if normalizeInput(d) == normalized {
			return d, nil
		}
	}
	msg := "unknown department " + strings.TrimSpace(name)
	if closest := departmentMatcher.Closest(normalized); closest != "" {
		for _, d := range constants.Departments {
			if normalizeInput(d) == closest {
				msg += ", did you mean " + d + "?"
				break
			}
		}
	}
	return "", errors.NewAppError(errors.ErrCodeInvalidDepartment, msg, nil)
}

func employeeFields(e models.Employee) []string {
	fields := []string{
		normalizeInput(e.FirstName),
		normalizeInput(e.LastName),
		normalizeInput(e.FirstName + " " + e.LastName),
		normalizeInput(e.EmployeeCode),
		normalizeInput(e.Email),
	}
	if e.Department != nil {
		fields = append(fields, normalizeInput(*e.Department))
	}
	return fields
}

func matchesEmployee(query string, e models.Employee) bool {
	return matchesFields(query, employeeFields(e))
}

func matchesLine(query string, l payroll.Line) bool {
	fields := []string{normalizeInput(l.EmployeeName), normalizeInput(l.EmployeeCode)}
	if l.Department != nil {
		fields = append(fields, normalizeInput(*l.Department))
	}
	return matchesFields(query, fields)
}

// matchesFields is a substring match on any normalized field, falling back to a
// per-word fuzzy match so small typos still find the row.
func matchesFields(query string, fields []string) bool {
	q := normalizeInput(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(f, q) {
			return true
		}
	}

	words := strings.Fields(q)
	for _, w := range words {
		matched := false
		for _, f := range fields {
			for _, fw := range strings.Fields(f) {
				if calculateSimilarity(w, fw) >= minSimilarity {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}
	return len(words) > 0
}
