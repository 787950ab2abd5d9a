package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/stripasm/internal/asm"
)

// isRegularFile reports whether path names an existing regular file.
func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// readDocument reads an assembly file and normalizes line endings to "\n".
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	doc := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(doc, "\r", "\n"), nil
}

// writeDocument writes normalized text to path.
func writeDocument(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

// normalizeFile reads and normalizes one input file.
func normalizeFile(path string, opts asm.Options) (*asm.Result, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := asm.Process(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", path, err)
	}
	if res.Labels.Mixed {
		log.Warn("mixed local label conventions, output follows the first declaration",
			"input", path, "sampled", res.Labels.Sampled, "declared", len(res.Labels.Declared))
	}
	log.Debug("normalized", "input", path,
		"lines", res.Stats.InputLines, "kept", res.Stats.OutputLines,
		"dead_labels", res.Stats.DeadLabels, "identifiers", res.Stats.Identifiers)
	return res, nil
}

// checksum is the hex SHA-256 of normalized text.
func checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
