package renderer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteLetter writes the assembled letter to outputPath, creating parent
// directories as needed. A trailing newline is added to the file.
func WriteLetter(letter, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(letter+"\n"), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write letter file: %s", outputPath)
		return err
	}

	return err
}

// ReadLetter reads a letter file previously written by WriteLetter, or any
// plain-text letter supplied for scoring.
func ReadLetter(path string) (letter string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read letter file: %s", path)
		return letter, err
	}

	letter = string(data)
	return letter, err
}
