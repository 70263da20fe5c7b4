package compute

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
)

// ParseVars decodes a json object of variable name to numeric value. The empty string means no variables.
func ParseVars(encoded string) (map[string]float64, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, nil
	}
	vars := map[string]float64{}
	if err := json.Unmarshal([]byte(encoded), &vars); err != nil {
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "vars",
			Value:   encoded,
			Message: "expected a json object of name to number",
		})
	}
	return vars, nil
}

// Substitute replaces every occurrence of each variable name in program with its value.
// Longer names are replaced first, so a name that is a prefix of another does not clobber it.
func Substitute(program string, vars map[string]float64) string {
	if len(vars) == 0 {
		return program
	}
	names := maps.Keys(vars)
	slices.SortFunc(names, func(a, b string) bool {
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	for _, name := range names {
		if name == "" {
			continue
		}
		program = strings.ReplaceAll(program, name, FormatValue(vars[name]))
	}
	return program
}

// FormatValue renders v in the shortest decimal form that round-trips, e.g. 5 or 0.25.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
