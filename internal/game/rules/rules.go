// Package rules provides the gomoku rule set and its YAML loader.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// StandardBoardSize is the edge length of a standard gomoku board.
	StandardBoardSize = 15
	// StandardWinLength is the run length required to win.
	StandardWinLength = 5

	maxBoardSize = 64
	minWinLength = 3
)

// Rules describes the parameters of a game.
type Rules struct {
	// BoardSize is the board edge length.
	BoardSize int `yaml:"board_size"`
	// WinLength is the contiguous run length required to win.
	WinLength int `yaml:"win_length"`
}

// yamlRulesFile is the top-level YAML structure for rule-set files.
type yamlRulesFile struct {
	Rules Rules `yaml:"rules"`
}

// Standard returns the standard 15x15, five-in-a-row rule set.
func Standard() Rules {
	return Rules{
		BoardSize: StandardBoardSize,
		WinLength: StandardWinLength,
	}
}

// Validate checks the rule-set invariants.
//
// Postcondition: Returns nil if the rules are playable, or an error
// describing the violation.
func (r Rules) Validate() error {
	if r.BoardSize < minWinLength || r.BoardSize > maxBoardSize {
		return fmt.Errorf("board_size must be %d-%d, got %d", minWinLength, maxBoardSize, r.BoardSize)
	}
	if r.WinLength < minWinLength {
		return fmt.Errorf("win_length must be >= %d, got %d", minWinLength, r.WinLength)
	}
	if r.WinLength > r.BoardSize {
		return fmt.Errorf("win_length %d exceeds board_size %d", r.WinLength, r.BoardSize)
	}
	return nil
}

// LoadFromFile reads and validates a rule-set YAML file.
//
// Precondition: path must point to a valid YAML rules file.
// Postcondition: Returns a validated rule set or a non-nil error.
func LoadFromFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file %s: %w", path, err)
	}
	r, err := LoadFromBytes(data)
	if err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return r, nil
}

// LoadFromBytes parses and validates a rule set from YAML bytes. Fields
// omitted from the document default to the standard rules.
//
// Postcondition: Returns a validated rule set or a non-nil error.
func LoadFromBytes(data []byte) (Rules, error) {
	var file yamlRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("unmarshalling rules: %w", err)
	}

	r := file.Rules
	if r.BoardSize == 0 {
		r.BoardSize = StandardBoardSize
	}
	if r.WinLength == 0 {
		r.WinLength = StandardWinLength
	}

	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}
