package questionbank

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DefaultSolutionsKeyword follows the date stamp on the first solutions page
// of the official catalogue ("01.06.2024 Lösungen").
const DefaultSolutionsKeyword = "Lösungen"

func solutionsMarker(keyword string) *regexp.Regexp {
	if keyword == "" {
		keyword = DefaultSolutionsKeyword
	}
	return regexp.MustCompile(`^\d\d\.\d\d\.\d{4}\s+` + regexp.QuoteMeta(keyword))
}

// LocateSolutions returns the index of the first page holding a line that
// starts with a DD.MM.YYYY date stamp followed by keyword. An empty keyword
// means DefaultSolutionsKeyword. All pages are scanned, header pages
// included.
func LocateSolutions(pages []Page, keyword string) (int, error) {
	page, _, err := LocateSolutionsLine(pages, keyword)
	return page, err
}

// LocateSolutionsLine is LocateSolutions that also returns the index of the
// marker line on that page.
func LocateSolutionsLine(pages []Page, keyword string) (page, line int, err error) {
	marker := solutionsMarker(keyword)
	for i, p := range pages {
		for j, l := range p.Lines() {
			if marker.MatchString(l) {
				return i, j, nil
			}
		}
	}
	return -1, -1, ErrSolutionsNotFound
}

// SolutionsSection returns the solutions text: the lines of pages[page] from
// the marker line on, followed by every later page.
func SolutionsSection(pages []Page, page, line int) []Page {
	if page < 0 || page >= len(pages) {
		return nil
	}
	lines := pages[page].Lines()
	line = min(max(line, 0), len(lines))
	out := make([]Page, 0, len(pages)-page)
	out = append(out, TextPage(lines[line:]))
	return append(out, pages[page+1:]...)
}

// Solutions maps a question number to its correct option letters, sorted.
type Solutions map[int][]string

// Letters returns the correct letters for question n.
func (s Solutions) Letters(n int) ([]string, bool) {
	l, ok := s[n]
	return l, ok
}

// Numbers returns the question numbers with an entry, ascending.
func (s Solutions) Numbers() []int {
	nums := make([]int, 0, len(s))
	for n := range s {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

func (s Solutions) add(n int, letters []string) {
	merged := append(s[n], letters...)
	slices.Sort(merged)
	s[n] = slices.Compact(merged)
}

// An entry is a question number, an optional dot, then one or more single
// lowercase letters separated by blanks, commas, semicolons or slashes:
// "7 a", "12. b, c", "3 a c". A line may hold several entries.
var solutionEntryRe = regexp.MustCompile(
	`\b([1-9][0-9]*)\.?[ \t]+([a-z]\b(?:[ \t]*[,;/][ \t]*[a-z]\b|[ \t]+[a-z]\b)*)`)

// ParseSolutionLine returns the entries found on one solutions line.
func ParseSolutionLine(line string) Solutions {
	out := Solutions{}
	for _, m := range solutionEntryRe.FindAllStringSubmatch(line, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		letters := strings.FieldsFunc(m[2], func(r rune) bool { return r < 'a' || r > 'z' })
		out.add(n, letters)
	}
	return out
}

// ParseSolutions collects entries from every line of pages. Repeated entries
// for one number are merged.
func ParseSolutions(pages []Page) Solutions {
	out := Solutions{}
	for _, p := range pages {
		for _, l := range p.Lines() {
			for n, letters := range ParseSolutionLine(l) {
				out.add(n, letters)
			}
		}
	}
	return out
}
