package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_ContainsUI(t *testing.T) {
	static := Static()
	for _, name := range []string{"index.html", "app.js", "styles.css"} {
		data, err := fs.ReadFile(static, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}
