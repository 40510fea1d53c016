package pokeapi

import "strings"

const (
	LangEnglish = "en"
	// LangChinese is simplified Chinese, the display language of the team builder.
	LangChinese = "zh-Hans"
)

// LocalName returns the name in lang, or fallback when the source has none.
func LocalName(names []Name, lang, fallback string) string {
	for _, n := range names {
		if n.Language.Name == lang && n.Name != "" {
			return n.Name
		}
	}
	return fallback
}

// FlavorTextIn returns the first flavor text in lang with line breaks removed.
func FlavorTextIn(entries []FlavorText, lang string) string {
	for _, e := range entries {
		if e.Language.Name != lang {
			continue
		}
		text := e.FlavorText
		if text == "" {
			text = e.Text
		}
		if text != "" {
			return cleanText(text, lang)
		}
	}
	return ""
}

// EffectIn returns the effect text of a resource in lang. short prefers short_effect.
func EffectIn(entries []Effect, lang string, short bool) string {
	for _, e := range entries {
		if e.Language.Name != lang {
			continue
		}
		if short && e.ShortEffect != "" {
			return cleanText(e.ShortEffect, lang)
		}
		if e.Effect != "" {
			return cleanText(e.Effect, lang)
		}
		return cleanText(e.ShortEffect, lang)
	}
	return ""
}

// Description picks the Chinese flavor text, falling back to English.
func Description(entries []FlavorText) string {
	if zh := FlavorTextIn(entries, LangChinese); zh != "" {
		return zh
	}
	return FlavorTextIn(entries, LangEnglish)
}

var (
	zhCleaner = strings.NewReplacer("\n", "", "\f", "", "\u00ad", "")
	enCleaner = strings.NewReplacer("\n", " ", "\f", " ", "\u00ad", "")
)

func cleanText(s, lang string) string {
	if lang == LangChinese {
		return strings.TrimSpace(zhCleaner.Replace(s))
	}
	return strings.Join(strings.Fields(enCleaner.Replace(s)), " ")
}
