package automatic

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/frand"
)

// GenerateSeeds creates n random 32-byte seeds. Seeding a self-play run
// makes its random players and zobrist tables repeatable.
func GenerateSeeds(n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		frand.Read(seeds[i][:])
	}
	return seeds
}

// SaveSeeds writes one seed per line, unpadded URL-safe base64, under a
// comment header.
func SaveSeeds(seeds [][32]byte, path string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d self-play seeds\n", len(seeds))
	for _, seed := range seeds {
		sb.WriteString(base64.RawURLEncoding.EncodeToString(seed[:]))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing seed file: %w", err)
	}
	return nil
}

// LoadSeeds reads a file written by SaveSeeds. Blank lines and lines
// starting with # are skipped.
func LoadSeeds(path string) ([][32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds [][32]byte
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("failed to decode seed at line %d: %w", lineNum, err)
		}

		if len(decoded) != 32 {
			return nil, fmt.Errorf("invalid seed length at line %d: got %d bytes, expected 32", lineNum, len(decoded))
		}

		var seed [32]byte
		copy(seed[:], decoded)
		seeds = append(seeds, seed)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	return seeds, nil
}
