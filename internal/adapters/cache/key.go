package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/teamfit/internal/domain/builder"
	"github.com/okian/teamfit/internal/domain/model"
)

// Key identifies a build request.
type Key uint64

// separator keeps adjacent fields from running together in the digest.
const separator = "\x1f"

// BuildKey hashes the inputs that decide a build result: the pool, the
// target size, the constraints, and scope, which callers use for engine
// settings that also change the outcome. Pool order does not affect the key.
func BuildKey(scope string, pool []model.Profile, targetSize int, c builder.Constraints) Key {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.WriteString(separator)
	}

	write(scope)
	write(strconv.Itoa(targetSize))
	write(strconv.FormatBool(c.RequireElementBalance))
	write(strconv.FormatBool(c.AvoidConflicts))
	write(strconv.FormatFloat(c.MinCompatibilityScore, 'g', -1, 64))
	write(strconv.Itoa(len(pool)))
	for _, p := range model.SortByID(pool) {
		write(p.ID)
		write(p.Name)
		write(p.Sign.String())
		write(strconv.FormatBool(p.Active))
	}
	return Key(d.Sum64())
}
