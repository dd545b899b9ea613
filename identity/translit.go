package identity

// cyrToLat maps Cyrillic letters that are visually identical to Latin
// letters onto their Latin counterparts. Archive transcriptions mix the
// two alphabets freely inside ATU codes ("510А" with a Cyrillic А), so
// codes are folded to Latin before any comparison or minting.
var cyrToLat = map[rune]rune{
	'А': 'A', 'В': 'B', 'Е': 'E', 'К': 'K', 'М': 'M', 'Н': 'H',
	'О': 'O', 'Р': 'P', 'С': 'C', 'Т': 'T', 'Х': 'X', 'У': 'Y',
	'а': 'A', 'в': 'B', 'е': 'E', 'к': 'K', 'м': 'M', 'н': 'H',
	'о': 'O', 'р': 'P', 'с': 'C', 'т': 'T', 'х': 'X', 'у': 'Y',
}

// Transliterate replaces Cyrillic lookalike letters with their Latin
// equivalents, leaving every other rune untouched.
func Transliterate(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if lat, ok := cyrToLat[r]; ok {
			out = append(out, lat)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
