package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/gala-seating/internal/model"
)

func contact(id, name, phone string) model.Registration {
	return model.Registration{ID: id, ContactName: name, Phone: phone, Type: model.TypeExternal, Headcount: 1}
}

func TestDetectDuplicates_WhitespaceVariants(t *testing.T) {
	regs := []model.Registration{
		contact("a", "王小明", "0912345678"),
		contact("b", " 王小明 ", "0912345678"),
		contact("c", "王 小 明", "0912345678"),
	}

	got := DetectDuplicates(regs)

	assert.Len(t, got, 3)
	assert.Contains(t, got, "a")
	assert.Contains(t, got, "b")
	assert.Contains(t, got, "c")
}

func TestDetectDuplicates_CaseAndFullWidth(t *testing.T) {
	regs := []model.Registration{
		contact("a", "Mary Lin", "0912345678"),
		contact("b", "mary　lin", "０９１２３４５６７８"), // ideographic space, full-width digits
	}

	assert.Len(t, DetectDuplicates(regs), 2)
}

func TestDetectDuplicates_DifferentPhoneIsNotDuplicate(t *testing.T) {
	regs := []model.Registration{
		contact("a", "王小明", "0912345678"),
		contact("b", "王小明", "0987654321"),
	}

	assert.Empty(t, DetectDuplicates(regs))
}

func TestDetectDuplicates_EmptyPhonesMatch(t *testing.T) {
	regs := []model.Registration{
		contact("a", "Chen", ""),
		contact("b", "Chen", "   "),
		contact("c", "Chen", "0911000000"),
	}

	got := DetectDuplicates(regs)

	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, got)
}

func TestDetectDuplicates_SymmetricForEqualKeys(t *testing.T) {
	regs := []model.Registration{
		contact("1", "Amy", "1"),
		contact("2", "Bob", "2"),
		contact("3", " amy", "1"),
		contact("4", "BOB ", "2"),
		contact("5", "Cid", "3"),
	}

	got := DetectDuplicates(regs)
	for i := range regs {
		for j := range regs {
			if i == j || DuplicateKey(regs[i]) != DuplicateKey(regs[j]) {
				continue
			}
			_, inI := got[regs[i].ID]
			_, inJ := got[regs[j].ID]
			assert.Equal(t, inI, inJ, "%s vs %s", regs[i].ID, regs[j].ID)
			assert.True(t, inI)
		}
	}
	assert.NotContains(t, got, "5")
}

func TestDuplicateGroups_Order(t *testing.T) {
	regs := []model.Registration{
		contact("x", "Solo", "9"),
		contact("b1", "B", "2"),
		contact("a1", "A", "1"),
		contact("b2", "b", "2"),
		contact("a2", "a", "1"),
		contact("b3", " B", "2"),
	}

	assert.Equal(t, [][]string{{"b1", "b2", "b3"}, {"a1", "a2"}}, DuplicateGroups(regs))
}

func TestDuplicateGroups_Empty(t *testing.T) {
	assert.Empty(t, DuplicateGroups(nil))
	assert.Empty(t, DetectDuplicates(nil))
}
