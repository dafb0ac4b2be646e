package domain_test

import (
	"testing"

	"travel_planner/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestPreferenceScore(t *testing.T) {
	p := domain.RecommendedPlace{
		Name:     "Hyeopjae Beach",
		Category: "여행 > 관광,명소 > 해수욕장",
		Tags:     domain.DeriveTags("여행 > 관광,명소 > 해수욕장", domain.BucketAttraction),
	}
	// "해수욕장" once in the label (+10) and once in the tags (+5)
	if got := domain.PreferenceScore(p, []string{"nature"}); got != 15 {
		t.Fatalf("nature score = %d", got)
	}
	if got := domain.PreferenceScore(p, []string{"shopping"}); got != 0 {
		t.Fatalf("shopping score = %d", got)
	}
	if got := domain.PreferenceScore(p, nil); got != 0 {
		t.Fatalf("no interests = %d", got)
	}
}

func TestPreferenceScore_NameBonus(t *testing.T) {
	p := domain.RecommendedPlace{Name: "Seaside Cafe Mono", Category: "Bakery"}
	// cafe: "bakery" in label (+10); tag text "cafe" in name (+15)
	if got := domain.PreferenceScore(p, []string{"Cafe "}); got != 25 {
		t.Fatalf("score = %d", got)
	}
}

func TestPreferenceScore_TagBonusOncePerKeyword(t *testing.T) {
	label := "여행 > 공원 > 도립공원"
	p := domain.RecommendedPlace{Category: label, Tags: domain.DeriveTags(label, domain.BucketAttraction)}
	// "공원" in the label (+10) and in two tags, counted once (+5)
	if got := domain.PreferenceScore(p, []string{"nature"}); got != 15 {
		t.Fatalf("nature score = %d", got)
	}
}

func TestPreferenceScore_ShortKeywordsMatchWholeSegments(t *testing.T) {
	cases := []struct {
		label    string
		bucket   domain.Bucket
		interest string
		want     int
	}{
		{"가정,생활 > 시장 > 수산시장", domain.BucketShopping, "nature", 0},
		{"음식점 > 한식 > 해산물", domain.BucketFood, "nature", 0},
		{"여행 > 관광,명소 > 산", domain.BucketAttraction, "nature", 15},
		{"Korean Barbecue", domain.BucketFood, "nightlife", 0},
	}
	for _, c := range cases {
		p := domain.RecommendedPlace{Category: c.label, Tags: domain.DeriveTags(c.label, c.bucket)}
		if got := domain.PreferenceScore(p, []string{c.interest}); got != c.want {
			t.Errorf("%s score for %q = %d, want %d", c.interest, c.label, got, c.want)
		}
	}
}

func TestCompositeScore(t *testing.T) {
	p := domain.RecommendedPlace{Name: "x", Rating: ptr(4.5), ReviewCount: 95}
	// 0 + 45 + int(9.5)
	if got := domain.CompositeScore(p, nil); got != 45+9 {
		t.Fatalf("composite = %d", got)
	}
	p.Rating = ptr(9.0)
	p.ReviewCount = 5000
	if got := domain.CompositeScore(p, nil); got != 50+20 {
		t.Fatalf("clamped composite = %d", got)
	}
	p.Rating = nil
	p.ReviewCount = 0
	if got := domain.CompositeScore(p, nil); got != 0 {
		t.Fatalf("unrated composite = %d", got)
	}
}
