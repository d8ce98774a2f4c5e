// Package prompt implements the interactive selection questions on a plain
// line-oriented terminal: yes/no confirmations and numbered toggle lists.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/typhoonworks/claude-config/internal/catalog"
)

// Terminal asks selection questions on a reader/writer pair.
// It satisfies selection.Chooser.
type Terminal struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewTerminal creates a Terminal reading answers from r and writing prompts to w.
// All questions share one buffered reader, so piped answers are consumed line by line.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{scanner: bufio.NewScanner(r), out: w}
}

// ConfirmAll asks whether to install every available item.
func (t *Terminal) ConfirmAll(total int) (bool, error) {
	return t.confirm(fmt.Sprintf("Install all Claude configurations? (%d items)", total))
}

// ChooseCategories shows the categories as a toggle list and returns the chosen keys.
func (t *Terminal) ChooseCategories(cat catalog.Catalog) ([]string, error) {
	keys := cat.Keys()
	labels := make([]string, len(keys))
	for i, key := range keys {
		labels[i] = fmt.Sprintf("%s (%d items)", key, len(cat[key]))
	}

	chosen, err := t.multiSelect("Select categories to install:", labels)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(chosen))
	for _, idx := range chosen {
		result = append(result, keys[idx])
	}
	return result, nil
}

// ConfirmCategory asks whether to install every item of one category.
func (t *Terminal) ConfirmCategory(key string, count int) (bool, error) {
	return t.confirm(fmt.Sprintf("Install all %s? (%d items)", key, count))
}

// ChooseItems shows the items of a category as a toggle list.
func (t *Terminal) ChooseItems(key string, items []catalog.Item) ([]catalog.Item, error) {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Name
	}

	chosen, err := t.multiSelect(fmt.Sprintf("Select %s to install:", key), labels)
	if err != nil {
		return nil, err
	}

	result := make([]catalog.Item, 0, len(chosen))
	for _, idx := range chosen {
		result = append(result, items[idx])
	}
	return result, nil
}

// readLine returns the next trimmed input line and false at end of input.
func (t *Terminal) readLine() (string, bool, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("reading answer: %w", err)
		}
		return "", false, nil
	}
	return strings.TrimSpace(t.scanner.Text()), true, nil
}

// confirm asks a question that defaults to yes.
// Empty input (just pressing Enter) or end of input returns true.
func (t *Terminal) confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s (Y/n): ", question)

	answer, _, err := t.readLine()
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "" || answer == "y" || answer == "yes", nil
}

// multiSelect displays a numbered list with checkboxes, toggles entries by
// space-separated numbers and returns the selected indexes in list order
// once the user enters an empty line or 'done'.
//
// Example output:
//
//	Select commands to install:
//	  [1] [ ] commit
//	  [2] [x] review-pr
//
//	Toggle selections (space-separated numbers), or press Enter when done:
func (t *Terminal) multiSelect(title string, labels []string) ([]int, error) {
	selected := make([]bool, len(labels))

	for {
		fmt.Fprintf(t.out, "\n%s\n", title)
		for i, label := range labels {
			checkbox := "[ ]"
			if selected[i] {
				checkbox = "[x]"
			}
			fmt.Fprintf(t.out, "  [%d] %s %s\n", i+1, checkbox, label)
		}
		fmt.Fprint(t.out, "\nToggle selections (space-separated numbers), or press Enter when done: ")

		input, ok, err := t.readLine()
		if err != nil {
			return nil, err
		}
		if !ok || input == "" || strings.EqualFold(input, "done") {
			break
		}
		toggle(selected, input)
	}

	var result []int
	for i, sel := range selected {
		if sel {
			result = append(result, i)
		}
	}
	return result, nil
}

// toggle flips the entries named by 1-indexed numbers in input.
// Invalid numbers are silently ignored.
func toggle(selected []bool, input string) {
	for _, part := range strings.Fields(input) {
		num, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if idx := num - 1; idx >= 0 && idx < len(selected) {
			selected[idx] = !selected[idx]
		}
	}
}
