package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	raw := `[
	  {"name": "session", "value": "abc", "domain": ".example.com", "path": "/", "expires": 1893456000, "httpOnly": true, "secure": true, "sameSite": "Lax"},
	  {"name": "pref", "value": "dark", "domain": ".example.com", "path": "/"}
	]`

	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "session", first.Name)
	assert.Equal(t, "abc", first.Value)
	assert.Equal(t, ".example.com", *first.Domain)
	assert.Equal(t, playwright.Bool(true), first.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1]
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.HttpOnly)
	assert.Nil(t, second.SameSite)
}

func TestLoadCookiesMissingFile(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadCookiesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadCookies(path)
	assert.Error(t, err)
}
