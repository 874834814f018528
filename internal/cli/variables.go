package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pfadmin/pfadmin/pkg/types"
)

var keyValuePattern = regexp.MustCompile(`^[a-zA-Z0-9]+=[a-zA-Z0-9]+`)

// BuildVariables turns parameter tokens into a variable map. A token that
// starts with KEY=VALUE sets one string variable; any other token names a
// JSON file whose object is merged in. Later tokens win.
func BuildVariables(tokens []string) (types.Variables, error) {
	vars := types.Variables{}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if keyValuePattern.MatchString(tok) {
			parts := strings.Split(tok, "=")
			vars[parts[0]] = parts[1]
			continue
		}

		fileVars, err := readVariablesFile(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %q, cannot read json file: %w", tok, err)
		}
		vars.Merge(fileVars)
	}
	return vars, nil
}

func readVariablesFile(path string) (types.Variables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vars types.Variables
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}
