package domain

import (
	"math"
	"strings"
)

// interestKeywords maps a user interest tag to the keywords it is matched against.
var interestKeywords = map[string][]string{
	"food":      {"restaurant", "food", "음식점", "맛집", "한식", "해산물", "seafood", "local"},
	"nature":    {"park", "beach", "mountain", "forest", "lake", "trail", "공원", "해수욕장", "산", "숲", "오름", "폭포", "waterfall"},
	"culture":   {"museum", "gallery", "temple", "palace", "heritage", "박물관", "미술관", "사찰", "유적", "문화"},
	"history":   {"heritage", "palace", "fortress", "historic", "유적", "궁", "고궁", "궁궐", "성곽", "역사"},
	"shopping":  {"market", "mall", "shopping", "outlet", "시장", "쇼핑", "백화점"},
	"cafe":      {"cafe", "coffee", "dessert", "bakery", "카페", "디저트", "베이커리"},
	"nightlife": {"bar", "pub", "club", "night", "술집", "야경"},
	"activity":  {"experience", "theme park", "tour", "activity", "체험", "테마파크", "레저"},
	"family":    {"zoo", "aquarium", "theme park", "동물원", "아쿠아리움", "테마파크"},
}

// PreferenceScore sums, per interest tag: 10 per keyword found in the category label,
// 5 per keyword found in any derived tag, and 15 if the tag text occurs in the name.
func PreferenceScore(p RecommendedPlace, interests []string) int {
	label := strings.ToLower(p.Category)
	name := strings.ToLower(p.Name)
	score := 0
	for _, raw := range interests {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		for _, kw := range interestKeywords[tag] {
			if matchKeyword(label, kw) {
				score += 10
			}
			for _, t := range p.Tags {
				if matchKeyword(strings.ToLower(t), kw) {
					score += 5
					break
				}
			}
		}
		if strings.Contains(name, tag) {
			score += 15
		}
	}
	return score
}

// CompositeScore adds rating (0-5, weighted x10) and review volume (capped at 20) to the preference score.
func CompositeScore(p RecommendedPlace, interests []string) int {
	rating := math.Max(0, math.Min(5, p.RatingValue()))
	reviews := math.Min(20, float64(p.ReviewCount)/10)
	return PreferenceScore(p, interests) + int(math.Round(rating*10)) + int(reviews)
}
