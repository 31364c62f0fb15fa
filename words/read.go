package words

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Seed is an opening guess paired with a known or approximate expected
// number of moves. Seeds bootstrap the pruning bound of a search.
type Seed struct {
	Word Word
	Cost float64
}

// ReadWords reads one word per line. Blank lines and lines starting with #
// are skipped. Duplicates are kept; NewVocabulary removes them.
func ReadWords(r io.Reader) ([]Word, error) {
	scanner := bufio.NewScanner(r)
	var ws []Word
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		w, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ws = append(ws, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}
	return ws, nil
}

// ReadSeeds reads "WORD cost" lines. The cost column is optional and
// defaults to +Inf, meaning the seed only fixes evaluation order.
func ReadSeeds(r io.Reader) ([]Seed, error) {
	scanner := bufio.NewScanner(r)
	var seeds []Seed
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: expected \"WORD [cost]\", got %d fields", line, len(fields))
		}
		w, err := Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cost := math.Inf(1)
		if len(fields) == 2 {
			cost, err = strconv.ParseFloat(fields[1], 64)
			if err != nil || cost < 0 || math.IsNaN(cost) {
				return nil, fmt.Errorf("line %d: invalid cost %q", line, fields[1])
			}
		}
		seeds = append(seeds, Seed{Word: w, Cost: cost})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}
	return seeds, nil
}
