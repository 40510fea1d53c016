// Package localize derives Chinese display names for Pokémon forms.
//
// A form name such as "charizard-mega-x" is matched against a table of rules
// loaded from YAML. Rules are tried in order and the first match wins; its
// display template is rendered with the localized species name:
//
//	pikachu-alola     皮卡丘-阿罗拉
//	charizard-mega-x  喷火龙-Mega-X
//	rotom-heat        加热洛托姆
//
// Names no rule covers keep their English suffix, title-cased per hyphen
// segment ("deoxys-attack" becomes "代欧奇希斯-Attack"). A name without a
// suffix yields the species name unchanged.
//
// The built-in table is embedded from rules.yaml. Config.RulesPath replaces it
// with a table on disk so new families can be added without a rebuild.
package localize
