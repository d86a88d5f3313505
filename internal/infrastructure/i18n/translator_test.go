package i18n_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/dcshell/internal/infrastructure/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslator_English(t *testing.T) {
	tr := i18n.NewEnglish()

	assert.Equal(t, "Load remote content", tr.Translate("load_remote_content"))
	assert.Equal(t, "Do you really want to open xn--e1awd7f.example?",
		tr.Translate("puny_code_warning_question", "xn--e1awd7f.example"))
	assert.Equal(t, "no_such_key", tr.Translate("no_such_key"))
}

func TestLoad_MatchesCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.toml"), []byte(
		"open = \"Öffnen\"\npuny_code_warning_question = \"Wirklich %1$s öffnen?\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	tr, err := i18n.Load(dir, "de-AT")
	require.NoError(t, err)

	base, _ := tr.Language().Base()
	assert.Equal(t, "de", base.String())
	assert.Equal(t, "Öffnen", tr.Translate("open"))
	assert.Equal(t, "Wirklich a.example öffnen?", tr.Translate("puny_code_warning_question", "a.example"))
	// Keys missing from the catalog fall back to English.
	assert.Equal(t, "Cancel", tr.Translate("cancel"))
}

func TestLoad_FallsBackToEnglish(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.toml"), []byte("open = \"Öffnen\"\n"), 0o644))

	tests := []struct {
		name   string
		dir    string
		locale string
	}{
		{name: "no directory", dir: filepath.Join(dir, "missing"), locale: "de"},
		{name: "no locale", dir: dir, locale: ""},
		{name: "unmatched locale", dir: dir, locale: "ja"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := i18n.Load(tt.dir, tt.locale)
			require.NoError(t, err)
			assert.Equal(t, language.English, tr.Language())
			assert.Equal(t, "Open", tr.Translate("open"))
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.toml"), []byte("open = "), 0o644))

	_, err := i18n.Load(dir, "fr")
	require.Error(t, err)

	_, err = i18n.Load(dir, "not a locale!")
	require.Error(t, err)
}
