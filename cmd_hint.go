package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/words"
)

var (
	hintAnswer string
	hintList   int

	hintCmd = &cobra.Command{
		Use:   "hint GUESS",
		Short: "Show how a guess splits the word list",
		Long: `Prints every hint GUESS can produce against the word list, largest group
first, together with the entropy of the split and the expected number of
candidates left. With --answer it prints the single hint for that answer.`,
		Args: cobra.ExactArgs(1),
		RunE: runHint,
	}
)

func init() {
	hintCmd.Flags().StringVar(&hintAnswer, "answer", "", "print only the hint against this answer")
	hintCmd.Flags().IntVar(&hintList, "list", 0, "list up to this many words per group")
	rootCmd.AddCommand(hintCmd)
}

type hintGroup struct {
	hint    hint.Hint
	members []words.Word
}

// hintGroups partitions vocab by the hint guess gets, largest group first.
// Groups of equal size are in hint order.
func hintGroups(vocab *words.Vocabulary, guess words.Word) ([]hintGroup, error) {
	byHint := map[hint.Hint][]words.Word{}
	for _, answer := range vocab.Words() {
		h, err := hint.New(string(guess), string(answer))
		if err != nil {
			return nil, err
		}
		byHint[h] = append(byHint[h], answer)
	}

	groups := make([]hintGroup, 0, len(byHint))
	for h, ws := range byHint {
		groups = append(groups, hintGroup{hint: h, members: ws})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].members) != len(groups[j].members) {
			return len(groups[i].members) > len(groups[j].members)
		}
		return groups[i].hint < groups[j].hint
	})
	return groups, nil
}

// splitQuality is the entropy of a split in bits and the expected number
// of candidates left after it.
func splitQuality(groups []hintGroup) (bits, remaining float64) {
	var n int
	for _, g := range groups {
		n += len(g.members)
	}
	p := make([]float64, len(groups))
	for i, g := range groups {
		p[i] = float64(len(g.members)) / float64(n)
		remaining += p[i] * float64(len(g.members))
	}
	return stat.Entropy(p) / math.Ln2, remaining
}

func runHint(cmd *cobra.Command, args []string) error {
	guess, err := words.Parse(args[0])
	if err != nil {
		return err
	}

	if hintAnswer != "" {
		answer, err := words.Parse(hintAnswer)
		if err != nil {
			return err
		}
		h, err := hint.New(string(guess), string(answer))
		if err != nil {
			return err
		}
		fmt.Println(h.ColoredWord(string(guess)), h, h.Squares())
		return nil
	}

	vocab, err := loadVocabulary(cfg.WordsFile)
	if err != nil {
		return err
	}
	groups, err := hintGroups(vocab, guess)
	if err != nil {
		return err
	}

	for _, g := range groups {
		line := fmt.Sprint(g.hint.ColoredWord(string(guess)), " ", len(g.members))
		if hintList > 0 {
			shown := g.members[:min(hintList, len(g.members))]
			line += "  " + strings.Join(wordStrings(shown), " ")
			if len(shown) < len(g.members) {
				line += " ..."
			}
		}
		fmt.Println(line)
	}

	bits, remaining := splitQuality(groups)
	fmt.Printf("%s: %d hints, %.3f bits, %.2f candidates expected to remain\n",
		guess, len(groups), bits, remaining)
	return nil
}

func wordStrings(ws []words.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = string(w)
	}
	return out
}
