package domain_test

import (
	"reflect"
	"testing"

	"travel_planner/internal/domain"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		label string
		want  domain.Bucket
	}{
		{"음식점 > 한식 > 해물,생선", domain.BucketFood},
		{"음식점 > 카페", domain.BucketCafe},
		{"음식점 > 술집 > 호프,요리주점", domain.BucketNightlife},
		{"여행 > 관광,명소 > 해수욕장", domain.BucketAttraction},
		{"문화,예술 > 문화시설 > 박물관", domain.BucketCulture},
		{"가정,생활 > 시장 > 전통시장", domain.BucketShopping},
		{"여행 > 숙박 > 호텔", domain.BucketAccommodation},
		{"교통,수송 > 기차역", domain.BucketTransport},
		{"Museum", domain.BucketCulture},
		{"Korean BBQ Restaurant", domain.BucketFood},
		{"Barbecue", domain.BucketAttraction}, // "bar" is a whole-word keyword
		{"Cocktail Bar", domain.BucketNightlife},
		{"", domain.BucketAttraction},
		{"something unheard of", domain.BucketAttraction},
	}
	for _, c := range cases {
		if got := domain.Categorize(c.label); got != c.want {
			t.Errorf("Categorize(%q) = %s, want %s", c.label, got, c.want)
		}
	}
}

func TestCategorize_HistoryIsNotTransport(t *testing.T) {
	// "역사" contains the character used for stations
	if got := domain.Categorize("문화,예술 > 역사유적"); got != domain.BucketCulture {
		t.Fatalf("got %s", got)
	}
}

func TestDeriveTags(t *testing.T) {
	got := domain.DeriveTags("여행 > 관광,명소 > Beach / beach", domain.BucketAttraction)
	want := []string{"여행", "관광", "명소", "beach", "attraction"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DeriveTags = %v, want %v", got, want)
	}
	if got := domain.DeriveTags("", domain.BucketFood); !reflect.DeepEqual(got, []string{"food"}) {
		t.Fatalf("empty label: %v", got)
	}
}
