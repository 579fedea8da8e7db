package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestBuildHeader(t *testing.T) {
	t.Parallel()

	got := buildHeader([]string{" 발주번호 ", "", "금액", "금액", "금액.1", "금액"}, 7)
	want := []string{"발주번호", "Unnamed: 1", "금액", "금액.1", "금액.1.1", "금액.2", "Unnamed: 6"}
	assert.Equal(t, want, got)
}

func TestNormalizeColumnName_NFC(t *testing.T) {
	t.Parallel()

	nfd := norm.NFD.String("\uc7a5\ubd80\ub2e8\uac00")
	assert.NotEqual(t, "\uc7a5\ubd80\ub2e8\uac00", nfd)
	assert.Equal(t, "\uc7a5\ubd80\ub2e8\uac00", NormalizeColumnName(nfd))
	assert.Equal(t, "납기예정일", NormalizeColumnName(" 납기예정일\n"))
}
