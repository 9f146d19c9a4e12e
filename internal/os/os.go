// Package os holds the environment variable helpers the bridge needs beyond
// those brigade-foundations provides.
package os

import (
	"os"
	"strconv"
	"strings"

	libOS "github.com/brigadecore/brigade-foundations/os"
	"github.com/pkg/errors"
)

// GetTrimmedStringSliceFromEnvVar retrieves comma-delimited values from an
// environment variable having the specified name. Surrounding whitespace is
// trimmed from each value and empty values are dropped.
func GetTrimmedStringSliceFromEnvVar(
	name string,
	defaultValue []string,
) []string {
	if os.Getenv(name) == "" {
		return defaultValue
	}
	vals := []string{}
	for _, val := range libOS.GetStringSliceFromEnvVar(name, nil) {
		if val = strings.TrimSpace(val); val != "" {
			vals = append(vals, val)
		}
	}
	return vals
}

// GetRequiredInt64FromEnvVar attempts to parse a 64 bit integer from the
// specified environment variable. An error is returned if the variable is unset
// or its value cannot be parsed.
func GetRequiredInt64FromEnvVar(name string) (int64, error) {
	valStr, err := libOS.GetRequiredEnvVar(name)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseInt(strings.TrimSpace(valStr), 10, 64)
	if err != nil {
		return 0, errors.Errorf(
			"value %q for environment variable %s was not parsable as an int",
			valStr,
			name,
		)
	}
	return val, nil
}

// GetRequiredPEMFromEnvVar retrieves a PEM encoded key from the specified
// environment variable. Hosting platforms commonly flatten multi-line secrets,
// so literal "\n" sequences are converted back into newlines.
func GetRequiredPEMFromEnvVar(name string) ([]byte, error) {
	val, err := libOS.GetRequiredEnvVar(name)
	if err != nil {
		return nil, err
	}
	return []byte(strings.ReplaceAll(val, `\n`, "\n")), nil
}
