package lib

import (
	"os"
	"strings"

	set "github.com/deckarep/golang-set/v2"
)

// IsReadableFile checks whether argument is a readable file
func IsReadableFile(path string) bool {
	fileInfo, statErr := os.Stat(path)
	if statErr != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}

// LineSeparatedStrToSet converts a line-separated string to a set, skipping blank lines
func LineSeparatedStrToSet(lineSeparatedString string) set.Set[string] {
	s := set.NewThreadUnsafeSetWithSize[string](20)
	contents := strings.ReplaceAll(lineSeparatedString, "\r\n", "\n") // Windows
	for _, e := range strings.Split(contents, "\n") {
		if strings.TrimSpace(e) == "" {
			continue
		}
		s.Add(e)
	}
	return s
}

// ReadLineSeparatedFile reads a file of newline separated names into a set
func ReadLineSeparatedFile(path string) (set.Set[string], error) {
	rawContents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LineSeparatedStrToSet(string(rawContents)), nil
}
