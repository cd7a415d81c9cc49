package rag

// synonymTable maps root syllables to near-equivalent variants,
// curated for the IT-support domain. Vietnamese tokenizes to
// syllables, so compound synonyms appear as their syllable parts.
// Used only by the paragraph-level scorer; the whole-document scorer
// matches raw tokens.
var synonymTable = map[string][]string{
	"giỏi":  {"tốt", "thành", "thạo", "xuất", "sắc"},      // competence
	"lợi":   {"ích", "ưu", "điểm", "mạnh"},                // advantage
	"ảnh":   {"hưởng", "tác", "động"},                     // impact
	"cần":   {"thiết", "quan", "trọng"},                   // necessity
	"không": {"chẳng", "chưa", "đâu"},                     // negation
	"có":    {"sở", "hữu", "mang"},                        // possession
	"học":   {"luyện", "ôn", "đào", "tạo"},                // study
	"toán":  {"đại", "số", "hình", "giải"},                // mathematics
	"cntt":  {"tin", "công", "nghệ", "thông", "it"},       // information technology
}

// ExpandTokens unions each token's synonym variants into the output.
// Order follows the input sequence (token first, then its variants);
// duplicates are removed.
func ExpandTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	expanded := make([]string, 0, len(tokens))

	add := func(token string) {
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		expanded = append(expanded, token)
	}

	for _, token := range tokens {
		add(token)
		for _, variant := range synonymTable[token] {
			add(variant)
		}
	}

	return expanded
}
