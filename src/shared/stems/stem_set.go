package stems

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
)

var InvalidCountMark = errors.New("invalid stem count")

type Count int

const (
	InvalidCount Count = 0
	TwoStems     Count = 2
	FourStems    Count = 4
	FiveStems    Count = 5
)

// role order matters, it decides the lane offset of each stem
var stemSets = map[Count][]string{
	TwoStems:  {"accompaniment", "vocals"},
	FourStems: {"drums", "bass", "other", "vocals"},
	FiveStems: {"drums", "bass", "other", "piano", "vocals"},
}

func Counts() []Count {
	return []Count{TwoStems, FourStems, FiveStems}
}

func NewCount(n int) (Count, error) {
	count := Count(n)
	if _, ok := stemSets[count]; !ok {
		return InvalidCount, mark.Message(InvalidCountMark,
			fmt.Sprintf("Stem count %d is not one of 2, 4 or 5", n))
	}

	return count, nil
}

// ParseCount accepts "4" as well as "4stems"
func ParseCount(s string) (Count, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "stems")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return InvalidCount, mark.Wrap(err, InvalidCountMark,
			fmt.Sprintf("Stem count %q is not a number", s))
	}

	return NewCount(n)
}

func (c Count) Valid() bool {
	_, ok := stemSets[c]
	return ok
}

// Roles returns a copy of the ordered stem names for this count
func (c Count) Roles() []string {
	roles := stemSets[c]
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}

func (c Count) DirName() string {
	return fmt.Sprintf("%dstems", int(c))
}

func (c Count) ModelName() string {
	return "spleeter:" + c.DirName()
}

func (c Count) String() string {
	return strconv.Itoa(int(c))
}

func (c Count) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, mark.Message(InvalidCountMark, "Cannot marshal an invalid stem count")
	}

	return []byte(c.DirName()), nil
}

func (c *Count) UnmarshalText(text []byte) error {
	count, err := ParseCount(string(text))
	if err != nil {
		return err
	}

	*c = count
	return nil
}
