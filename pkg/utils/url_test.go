package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	u, err := ParseTarget("  https://a.test/p?q=1#frag ")
	require.NoError(t, err)
	require.Equal(t, "https://a.test/p?q=1", u.String())

	u, err = ParseTarget("HTTP://a.test:8080")
	require.NoError(t, err)
	require.Equal(t, "a.test", u.Hostname())

	for _, bad := range []string{"/relative", "a.test/p", "ftp://a.test/", "https://", "http://%zz"} {
		_, err := ParseTarget(bad)
		require.Error(t, err, bad)
	}
}

func TestReadTargets(t *testing.T) {
	in := `
# seeds
https://a.test/

  https://b.test/x  
#https://c.test/
`
	raws, err := ReadTargets(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.test/", "https://b.test/x"}, raws)
}
