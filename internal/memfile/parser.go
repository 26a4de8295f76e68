package memfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bft-labs/memship/internal/domain"
	"github.com/bft-labs/memship/pkg/log"
)

const (
	// directivePrefix marks an address directive such as "@0100".
	directivePrefix = "@"

	// maxTokenDigits is the widest binary token strconv can hold; wider
	// tokens keep their low-order digits.
	maxTokenDigits = 64
)

var commentMarkers = []string{"//", "--"}

var errNotBinary = errors.New("not a binary number")

// Result is the outcome of parsing a memory file.
type Result struct {
	// Words holds every valid token in file order, masked to the layout width.
	Words []domain.Word

	// Skipped counts tokens that were not binary numbers.
	Skipped int

	// Lines is the number of lines read, including comments and blanks.
	Lines int
}

// Parse reads and parses the memory file at path.
// A missing or unreadable file yields an *InputError.
func Parse(path string, layout domain.Layout, logger log.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	res, err := ParseReader(f, layout, logger)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	return res, nil
}

// ParseReader parses memory-file content from any io.Reader.
// Only read failures are returned as errors; bad tokens are logged and counted.
// Lines have no length limit; a whole image may sit on a single line.
func ParseReader(r io.Reader, layout domain.Layout, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	mask := layout.Mask()
	br := bufio.NewReader(r)

	res := &Result{Words: make([]domain.Word, 0, max(layout.TargetWords, 0))}
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			res.Lines++
			parseLine(res, raw, mask, logger)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", res.Lines+1, err)
		}
	}

	return res, nil
}

// parseLine appends the words of one raw line to res.
func parseLine(res *Result, raw string, mask uint64, logger log.Logger) {
	line := stripLine(raw)
	if line == "" || strings.HasPrefix(line, directivePrefix) {
		return
	}

	for _, tok := range strings.Fields(line) {
		v, err := parseToken(tok)
		if err != nil {
			res.Skipped++
			logger.Warn("skipping invalid token",
				log.Int("line", res.Lines),
				log.String("token", tok),
			)
			continue
		}
		res.Words = append(res.Words, domain.Word(v&mask))
	}
}

// stripLine removes trailing comments and surrounding whitespace.
func stripLine(line string) string {
	for _, marker := range commentMarkers {
		if i := strings.Index(line, marker); i >= 0 {
			line = line[:i]
		}
	}
	return strings.TrimSpace(line)
}

// parseToken parses a base-2 token. Every character must be 0 or 1; tokens
// longer than 64 digits are reduced to their low 64 digits, which is all a
// 16-bit mask can observe anyway.
func parseToken(tok string) (uint64, error) {
	for i := 0; i < len(tok); i++ {
		if tok[i] != '0' && tok[i] != '1' {
			return 0, fmt.Errorf("%w: %q", errNotBinary, tok)
		}
	}
	if len(tok) > maxTokenDigits {
		tok = tok[len(tok)-maxTokenDigits:]
	}
	return strconv.ParseUint(tok, 2, 64)
}
