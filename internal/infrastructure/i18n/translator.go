// Package i18n resolves the UI strings shown by the shell core. English is
// built in; other locales are read from TOML catalogs in a locale directory.
package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// catalogExt is the extension of locale catalogs, e.g. de.toml.
const catalogExt = ".toml"

var english = map[string]string{
	"load_remote_content":                  "Load remote content",
	"load_remote_content_blocked_by_proxy": "Remote content is disabled because a proxy is configured",
	"load_remote_content_ask":              "Loading remote content can reveal your IP address and that you read this message. Continue?",
	"always_load_remote_images":            "Always load remote images",
	"show_warning":                         "Show warning",
	"puny_code_warning_header":             "Suspicious link detected",
	"puny_code_warning_question":           "Do you really want to open %1$s?",
	"puny_code_warning_description":        "The link points to %1$s, which uses characters that can imitate another web address.",
	"open":                                 "Open",
	"cancel":                               "Cancel",
}

// Translator implements port.Translator. Missing keys fall back to English,
// then to the key itself.
type Translator struct {
	mu      sync.RWMutex
	tag     language.Tag
	strings map[string]string
}

// NewEnglish returns a translator with the built-in strings only.
func NewEnglish() *Translator {
	return &Translator{tag: language.English, strings: map[string]string{}}
}

// Load picks the catalog in dir that best matches locale. An empty or
// missing directory yields English.
func Load(dir, locale string) (*Translator, error) {
	t := NewEnglish()
	if dir == "" || locale == "" {
		return t, nil
	}

	want, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	available, err := catalogs(dir)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return t, nil
	}

	tags := make([]language.Tag, 0, len(available)+1)
	tags = append(tags, language.English)
	for tag := range available {
		tags = append(tags, tag)
	}
	matched, index, confidence := language.NewMatcher(tags).Match(want)
	if index == 0 || confidence == language.No {
		return t, nil
	}

	picked := tags[index]
	strs, err := readCatalog(available[picked])
	if err != nil {
		return nil, err
	}
	t.tag = matched
	t.strings = strs
	return t, nil
}

func catalogs(dir string) (map[language.Tag]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list locales in %s: %w", dir, err)
	}
	out := make(map[language.Tag]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, catalogExt) {
			continue
		}
		tag, err := language.Parse(strings.TrimSuffix(name, catalogExt))
		if err != nil {
			continue
		}
		out[tag] = filepath.Join(dir, name)
	}
	return out, nil
}

func readCatalog(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locale %s: %w", path, err)
	}
	strs := map[string]string{}
	if err := toml.Unmarshal(data, &strs); err != nil {
		return nil, fmt.Errorf("failed to parse locale %s: %w", path, err)
	}
	return strs, nil
}

// Language returns the tag of the loaded catalog.
func (t *Translator) Language() language.Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tag
}

// Translate resolves key and substitutes %1$s style placeholders with args.
func (t *Translator) Translate(key string, args ...string) string {
	t.mu.RLock()
	s, ok := t.strings[key]
	t.mu.RUnlock()
	if !ok {
		s, ok = english[key]
	}
	if !ok {
		return key
	}
	return substitute(s, args)
}

func substitute(s string, args []string) string {
	if len(args) == 0 {
		return s
	}
	for i, arg := range args {
		s = strings.ReplaceAll(s, "%"+strconv.Itoa(i+1)+"$s", arg)
	}
	return strings.ReplaceAll(s, "%s", args[0])
}

var _ port.Translator = (*Translator)(nil)
