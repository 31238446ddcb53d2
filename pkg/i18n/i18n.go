// Package i18n holds the English and Russian UI strings and resolves which of
// them to use. Message keys are the English text, so an unknown key prints as
// itself.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale names accepted by configuration and flags.
const (
	LocaleEnglish = "en"
	LocaleRussian = "ru"
	LocaleSystem  = "sys"
)

// Supported lists the tags a catalog carries, English first.
var Supported = []language.Tag{language.English, language.Russian}

var russian = map[string]string{
	"History":       "История",
	"Configuration": "Конфигурация",
	"Info":          "Информация",
	"empty":         "пусто",

	"Wrapper around vppctl":            "Обёртка над vppctl",
	"Commands":                         "Команды",
	"Enter vppctl mode":                "Перейти в режим vppctl",
	"Enter vppctl interactive mode":    "Вход в интерактивный режим vppctl",
	"Press Esc to return to the menu":  "Нажмите Esc для возврата в меню",
	"Quit":                             "Выход",
	"Set english locale":               "Английский язык",
	"Set russian locale":               "Русский язык",
	"Home":                             "Главная",
	"Copy":                             "Копировать",
	"Toggle":                           "Переключить",
	"Scroll":                           "Прокрутка",
	"Reorder":                          "Переместить",
	"Delete":                           "Удалить",
	"Undelete":                         "Восстановить",
	"Save":                             "Сохранить",
	"Redraw":                           "Перерисовать",
	"Could not connect vpp ctl socket": "Не удалось подключиться к сокету vppctl",

	"connection lost, reconnecting": "соединение потеряно, переподключение",
	"reconnected":                   "соединение восстановлено",
	"saved %s commands to %s":       "сохранено команд: %s, файл %s",
	"nothing to save":               "нечего сохранять",
	"save failed: %v":               "ошибка сохранения: %v",
	"entry truncated to %s bytes":   "запись обрезана до %s байт",
	"Connect to socket %s":          "Подключение к сокету %s",
}

// Catalog is the set of translated messages.
type Catalog struct {
	builder *catalog.Builder
}

// NewCatalog builds the English and Russian message catalog.
func NewCatalog() *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ru := range russian {
		// SetString only fails on malformed tags; both tags are constants.
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Russian, key, ru)
	}
	return &Catalog{builder: b}
}

// Translator returns a translator for tag. Unsupported tags print English.
func (c *Catalog) Translator(tag language.Tag) *Translator {
	tag = match(tag)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

// Translator formats messages in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// Tag returns the language this translator prints.
func (t *Translator) Tag() language.Tag {
	if t == nil {
		return language.English
	}
	return t.tag
}

// T looks up key and formats it with args. A nil translator formats key
// itself. Counts are passed as strings so no locale digit grouping applies.
func (t *Translator) T(key string, args ...any) string {
	if t == nil {
		if len(args) == 0 {
			return key
		}
		return fmt.Sprintf(key, args...)
	}
	return t.printer.Sprintf(key, args...)
}

// Text returns the translation of key without formatting it.
func (t *Translator) Text(key string) string {
	if t == nil {
		return key
	}
	return t.printer.Sprintf(message.Key(key, key))
}

// Resolve maps a configured locale to a supported tag. "en" and "ru" are taken
// literally; "sys" consults LC_ALL, LC_MESSAGES and LANG through env, in that
// order. Anything unresolvable is English.
func Resolve(locale string, env func(string) string) language.Tag {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case LocaleEnglish:
		return language.English
	case LocaleRussian:
		return language.Russian
	case LocaleSystem, "":
	default:
		return language.English
	}
	if env == nil {
		return language.English
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(env(name)); v != "" {
			return fromPOSIX(v)
		}
	}
	return language.English
}

// fromPOSIX parses values such as "ru_RU.UTF-8" or "en_US@euro".
func fromPOSIX(v string) language.Tag {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.English
	}
	return match(tag)
}

var matcher = language.NewMatcher(Supported)

func match(tag language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}
