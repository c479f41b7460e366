package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var keyComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._=-]{0,127}$`)

// BuildExportKey names an exported result by day, time of export and a short
// digest of the query that produced it.
func BuildExportKey(exportedAt time.Time, sqlText, extension string) (string, error) {
	extension = strings.TrimPrefix(extension, ".")
	if err := validateKeyComponent(extension, "extension"); err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(sqlText))
	ts := exportedAt.UTC()
	return path.Join(
		"exports",
		fmt.Sprintf("date=%04d-%02d-%02d", ts.Year(), ts.Month(), ts.Day()),
		fmt.Sprintf("answer-%02d%02d%02d-%s.%s", ts.Hour(), ts.Minute(), ts.Second(), hex.EncodeToString(digest[:4]), extension),
	), nil
}

// ValidateKey accepts slash separated keys whose components are plain names.
func ValidateKey(key string) error {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return fmt.Errorf("object key is required")
	}
	for _, component := range strings.Split(key, "/") {
		if err := validateKeyComponent(component, "key component"); err != nil {
			return err
		}
	}
	return nil
}

func validateKeyComponent(value, field string) error {
	if !keyComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
