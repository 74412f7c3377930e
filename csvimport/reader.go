package csvimport

import (
	"io"
	"os"

	"labelprint-service/apperrors"
)

// Read drains r and returns its content as text. Failures are reported as
// an *apperrors.Error of kind io wrapping the original error.
func Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", apperrors.IO(err)
	}
	return string(data), nil
}

// ReadFile opens path, reads it and closes it again on every path.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.IO(err)
	}
	defer f.Close()

	return Read(f)
}

// ReadAndParse reads r and parses the result.
func ReadAndParse(r io.Reader) ([]Record, error) {
	data, err := Read(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
