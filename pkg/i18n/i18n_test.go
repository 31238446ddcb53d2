package i18n

import (
	"strconv"
	"testing"

	"golang.org/x/text/language"
)

func envOf(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name   string
		locale string
		env    map[string]string
		want   language.Tag
	}{
		{"explicit en", "en", map[string]string{"LANG": "ru_RU.UTF-8"}, language.English},
		{"explicit ru", "RU", nil, language.Russian},
		{"sys LANG ru", "sys", map[string]string{"LANG": "ru_RU.UTF-8"}, language.Russian},
		{"sys LC_ALL wins", "sys", map[string]string{"LC_ALL": "en_US.UTF-8", "LANG": "ru_RU.UTF-8"}, language.English},
		{"sys LC_MESSAGES before LANG", "sys", map[string]string{"LC_MESSAGES": "ru_UA@euro", "LANG": "en_GB"}, language.Russian},
		{"sys C locale", "sys", map[string]string{"LANG": "C.UTF-8"}, language.English},
		{"sys unsupported", "sys", map[string]string{"LANG": "de_DE.UTF-8"}, language.English},
		{"sys garbage", "sys", map[string]string{"LANG": "!!"}, language.English},
		{"sys empty env", "sys", nil, language.English},
		{"empty locale means sys", "", map[string]string{"LANG": "ru"}, language.Russian},
		{"unknown locale", "klingon", map[string]string{"LANG": "ru"}, language.English},
	}
	for _, tc := range cases {
		if got := Resolve(tc.locale, envOf(tc.env)); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolve_NilEnv(t *testing.T) {
	if got := Resolve("sys", nil); got != language.English {
		t.Fatalf("expected English, got %v", got)
	}
}

func TestTranslator_RussianAndEnglish(t *testing.T) {
	c := NewCatalog()

	ru := c.Translator(language.Russian)
	if got := ru.T("History"); got != "История" {
		t.Fatalf("unexpected russian %q", got)
	}
	if got := ru.T("saved %s commands to %s", "3", "/tmp/x.yaml"); got != "сохранено команд: 3, файл /tmp/x.yaml" {
		t.Fatalf("unexpected russian format %q", got)
	}

	en := c.Translator(language.English)
	if got := en.T("saved %s commands to %s", "3", "/tmp/x.yaml"); got != "saved 3 commands to /tmp/x.yaml" {
		t.Fatalf("unexpected english format %q", got)
	}
	if en.Tag() != language.English || ru.Tag() != language.Russian {
		t.Fatalf("unexpected tags %v %v", en.Tag(), ru.Tag())
	}
}

func TestTranslator_UnknownKeyPrintsItself(t *testing.T) {
	ru := NewCatalog().Translator(language.Russian)
	if got := ru.T("no such message"); got != "no such message" {
		t.Fatalf("expected key echoed, got %q", got)
	}
}

func TestTranslator_UnsupportedTagIsEnglish(t *testing.T) {
	tr := NewCatalog().Translator(language.German)
	if tr.Tag() != language.English {
		t.Fatalf("expected English fallback, got %v", tr.Tag())
	}
	if got := tr.T("History"); got != "History" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslator_NilFormatsKey(t *testing.T) {
	var tr *Translator
	if got := tr.T("entry truncated to %s bytes", "12"); got != "entry truncated to 12 bytes" {
		t.Fatalf("got %q", got)
	}
	if tr.Tag() != language.English {
		t.Fatalf("expected English for nil translator")
	}
}

func TestTranslator_CountsAreNotGrouped(t *testing.T) {
	c := NewCatalog()
	en := c.Translator(language.English)
	if got := en.T("entry truncated to %s bytes", strconv.Itoa(4091)); got != "entry truncated to 4091 bytes" {
		t.Fatalf("unexpected english count %q", got)
	}
	ru := c.Translator(language.Russian)
	if got := ru.T("saved %s commands to %s", strconv.Itoa(1234), "/tmp/x.yaml"); got != "сохранено команд: 1234, файл /tmp/x.yaml" {
		t.Fatalf("unexpected russian count %q", got)
	}
}

func TestTranslator_Text(t *testing.T) {
	c := NewCatalog()
	if got := c.Translator(language.Russian).Text("Quit"); got != "Выход" {
		t.Fatalf("unexpected russian text %q", got)
	}
	if got := c.Translator(language.English).Text("Quit"); got != "Quit" {
		t.Fatalf("unexpected english text %q", got)
	}
	if got := c.Translator(language.Russian).Text("not in catalog"); got != "not in catalog" {
		t.Fatalf("unknown key should print itself, got %q", got)
	}
	var nilTr *Translator
	if got := nilTr.Text("Quit"); got != "Quit" {
		t.Fatalf("nil translator should return key, got %q", got)
	}
}
