package seating

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/iliyamo/gala-seating/internal/model"
)

// keySep joins the name and phone halves of a duplicate key.  It is the
// ASCII unit separator, which never appears in typed names or phones.
const keySep = "\x1f"

// DuplicateKey returns the normalised (name, phone) key used to spot
// repeated submissions.  The name is NFKC-folded, lower-cased and
// stripped of all whitespace; the phone is NFKC-folded and trimmed.
//
// Two registrations with the same name and no phone share a key.  That
// is a known source of false positives and is kept on purpose.
func DuplicateKey(r model.Registration) string {
	name := strings.ToLower(norm.NFKC.String(strings.TrimSpace(r.ContactName)))
	name = strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return -1
		}
		return c
	}, name)
	phone := strings.TrimSpace(norm.NFKC.String(r.Phone))
	return name + keySep + phone
}

// DuplicateGroups returns the ids of every key group with more than one
// member, each group in input order.  Groups are ordered by the position
// of their first member.
func DuplicateGroups(regs []model.Registration) [][]string {
	byKey := make(map[string][]string, len(regs))
	order := make([]string, 0, len(regs))
	for _, r := range regs {
		k := DuplicateKey(r)
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], r.ID)
	}
	var out [][]string
	for _, k := range order {
		if ids := byKey[k]; len(ids) > 1 {
			out = append(out, ids)
		}
	}
	return out
}

// DetectDuplicates returns the set of registration ids that share their
// duplicate key with at least one other registration.
func DetectDuplicates(regs []model.Registration) map[string]struct{} {
	dups := make(map[string]struct{})
	for _, group := range DuplicateGroups(regs) {
		for _, id := range group {
			dups[id] = struct{}{}
		}
	}
	return dups
}
