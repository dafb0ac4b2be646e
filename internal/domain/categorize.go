package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type categoryRule struct {
	keywords []string
	bucket   Bucket
}

// Evaluated top to bottom; first match wins. Cafe precedes food so
// "음식점 > 카페" lands in cafe, nightlife precedes food for "음식점 > 술집".
var categoryRules = []categoryRule{
	{[]string{"숙박", "호텔", "모텔", "펜션", "게스트하우스", "리조트", "hotel", "motel", "hostel", "guesthouse", "resort", "lodging", "pension"}, BucketAccommodation},
	{[]string{"교통", "기차역", "지하철역", "터미널", "공항", "주차장", "station", "terminal", "airport", "parking", "subway"}, BucketTransport},
	{[]string{"카페", "커피", "디저트", "베이커리", "제과", "cafe", "café", "coffee", "dessert", "bakery", "tea house"}, BucketCafe},
	{[]string{"술집", "호프", "와인바", "클럽", "bar", "pub", "club", "nightlife", "brewery", "izakaya"}, BucketNightlife},
	{[]string{"음식점", "식당", "맛집", "한식", "일식", "중식", "양식", "restaurant", "food", "dining", "bistro", "diner", "grill"}, BucketFood},
	{[]string{"쇼핑", "시장", "백화점", "아울렛", "마트", "shopping", "market", "mall", "department store", "outlet", "boutique"}, BucketShopping},
	{[]string{"문화", "박물관", "미술관", "전시", "공연", "갤러리", "유적", "사찰", "museum", "gallery", "exhibition", "theater", "theatre", "culture", "heritage", "temple", "palace"}, BucketCulture},
}

// Categorize maps a raw provider category label onto a bucket. Unknown labels fall through to attraction.
func Categorize(label string) Bucket {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return BucketAttraction
	}
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if matchKeyword(l, kw) {
				return r.bucket
			}
		}
	}
	return BucketAttraction
}

// matchKeyword treats short latin keywords ("bar", "pub") as whole words and
// single-syllable hangul keywords ("산") as whole label segments, so that
// "barbecue" or "수산시장" do not match; everything else is a substring test.
func matchKeyword(label, kw string) bool {
	switch {
	case isASCII(kw) && len(kw) <= 4:
		return hasField(label, kw, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		})
	case !isASCII(kw) && utf8.RuneCountInString(kw) == 1:
		return hasField(label, kw, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(">,/()·", r)
		})
	}
	return strings.Contains(label, kw)
}

func hasField(label, kw string, sep func(rune) bool) bool {
	for _, w := range strings.FieldsFunc(label, sep) {
		if w == kw {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// DeriveTags splits a hierarchical label ("여행 > 관광,명소 > 해수욕장") into lowercase
// segments and appends the bucket name.
func DeriveTags(label string, b Bucket) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, part := range strings.FieldsFunc(label, func(r rune) bool { return r == '>' || r == ',' || r == '/' }) {
		add(part)
	}
	add(string(b))
	return out
}
