package snapshot

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSite_Paths(t *testing.T) {
	site := Site{File: "/src/pkg/user_test.go", Test: "TestUser/admin case"}

	assert.Equal(t, "/src/pkg/__Snapshots__/user_test", site.Dir())
	assert.Equal(t, "TestUser_admin_case.0.json", site.FileName("0", "json"))
	assert.Equal(t, "TestUser_admin_case.named", site.FileName("named", ""))
	assert.Equal(t, "/src/pkg/__Snapshots__/user_test/TestUser_admin_case.1.txt", site.Path("1", "txt"))
}

func TestSite_SanitizesIdentifiers(t *testing.T) {
	site := Site{File: "/src/pkg/user_test.go", Test: "TestUser"}

	assert.Equal(t, "TestUser.a_b.txt", site.FileName("a/b", "txt"))
	assert.Equal(t, "/src/pkg/__Snapshots__/user_test/TestUser..._x.txt", site.Path("../x", "txt"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TestPlain", "TestPlain"},
		{"TestA/b", "TestA_b"},
		{"Test with spaces", "Test_with_spaces"},
		{"Test-1.2_x", "Test-1.2_x"},
		{"Test:é", "Test__"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in), tt.in)
	}
}

func TestCallerFile_FindsTestFile(t *testing.T) {
	file := callerFile()

	assert.True(t, strings.HasSuffix(file, "site_test.go"), file)
	assert.Equal(t, packageDir, filepath.Dir(file))
}
