// Package validation checks the untrusted strings that reach the bot: local
// corpus paths from configuration, corpus file contents, and the user and
// channel names carried by administrative requests.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits on untrusted input (CWE-400).
const (
	// MaxCorpusSize is the largest local corpus file accepted (256 MB).
	MaxCorpusSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxSubjectLength bounds user and channel names.
	MaxSubjectLength = 64
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrInvalidSubject   = errors.New("invalid subject name")
	ErrCorpusType       = errors.New("unsupported corpus file")
)

// SanitizePath validates a corpus path taken from configuration and
// resolves it inside baseDir. It returns the cleaned path relative to
// baseDir, or an error if the path would escape it.
func SanitizePath(baseDir, userPath string) (string, error) {
	if err := ValidatePath(userPath); err != nil {
		return "", err
	}

	cleanPath := filepath.Clean(userPath)

	if filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("%w: absolute path not allowed", ErrPathTraversal)
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(baseDir, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	relPath, err := filepath.Rel(absBase, absPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return cleanPath, nil
}

// ResolvePath joins a configured path to baseDir. Absolute paths are
// accepted as-is after ValidatePath; relative ones go through SanitizePath.
func ResolvePath(baseDir, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	rel, err := SanitizePath(baseDir, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, rel), nil
}

// ValidatePath rejects empty, overlong and control-character paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateSubject checks a user or channel name from an administrative
// request: 1 to 64 letters, digits, '_' or '-'.
func ValidateSubject(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSubject)
	}
	if len(name) > MaxSubjectLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSubject, MaxSubjectLength)
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return fmt.Errorf("%w: %q not allowed", ErrInvalidSubject, r)
		}
	}
	return nil
}

// CorpusType is the on-disk encoding of a local corpus.
type CorpusType string

// Corpus types.
const (
	CorpusXML     CorpusType = "xml"
	CorpusXZ      CorpusType = "xz"
	CorpusUnknown CorpusType = "unknown"
)

var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// DetectCorpusType checks that a corpus file's content agrees with its name.
// "*.xml" and "*.osis" must look like text; "*.xz" must carry the xz magic.
// It reads at most 512 bytes from r.
func DetectCorpusType(r io.Reader, filename string) (CorpusType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return CorpusUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	isXZ := bytes.HasPrefix(buf, xzMagic)

	switch expected := corpusTypeFromExtension(filename); expected {
	case CorpusXZ:
		if !isXZ {
			return CorpusUnknown, fmt.Errorf("%w: %s is not xz-compressed", ErrCorpusType, filename)
		}
		return CorpusXZ, nil
	case CorpusXML:
		if isXZ || !isLikelyText(buf) {
			return CorpusUnknown, fmt.Errorf("%w: %s is not a text file", ErrCorpusType, filename)
		}
		return CorpusXML, nil
	default:
		return CorpusUnknown, fmt.Errorf("%w: %s", ErrCorpusType, filename)
	}
}

func corpusTypeFromExtension(filename string) CorpusType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xz":
		return CorpusXZ
	case ".xml", ".osis":
		return CorpusXML
	default:
		return CorpusUnknown
	}
}

// isLikelyText reports whether more than 95% of buf is printable ASCII or
// whitespace and it holds no NUL bytes. UTF-8 multibyte sequences are neutral.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
