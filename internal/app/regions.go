package app

import (
	"fmt"
	"sort"
	"strings"

	"travel_planner/internal/domain"
)

// DefaultCenter is used when nothing better is known: Seoul City Hall.
var DefaultCenter = domain.Coordinate{Lat: 37.5665, Lon: 126.9780}

type seedPlace struct {
	name     string
	category string
	lat, lon float64
	rating   float64
}

type region struct {
	key         string
	displayName string
	aliases     []string
	center      domain.Coordinate
	queries     []string // appended to the generic query set
	seeds       []seedPlace
}

var regions = []region{
	{
		key: "jeju", displayName: "Jeju",
		aliases: []string{"jeju", "jejuisland", "jejudo", "jejucity", "제주", "제주도", "제주시"},
		center:  domain.Coordinate{Lat: 33.4996, Lon: 126.5312},
		queries: []string{"제주 오름", "제주 해수욕장", "제주 흑돼지", "제주 올레길"},
		seeds: []seedPlace{
			{"Seongsan Ilchulbong", "여행 > 관광,명소 > 산", 33.4581, 126.9425, 4.6},
			{"Hallasan National Park", "여행 > 공원 > 국립공원", 33.3617, 126.5292, 4.7},
			{"Manjanggul Cave", "여행 > 관광,명소 > 동굴", 33.5283, 126.7714, 4.4},
			{"Hyeopjae Beach", "여행 > 관광,명소 > 해수욕장", 33.3940, 126.2396, 4.6},
			{"Cheonjiyeon Waterfall", "여행 > 관광,명소 > 폭포", 33.2448, 126.5593, 4.3},
			{"Jeju National Museum", "문화,예술 > 문화시설 > 박물관", 33.5133, 126.5487, 4.2},
			{"Dongmun Traditional Market", "가정,생활 > 시장 > 전통시장", 33.5125, 126.5281, 4.3},
			{"Black Pork Street", "음식점 > 한식 > 육류,고기", 33.5145, 126.5250, 4.2},
			{"Osulloc Tea Museum", "음식점 > 카페 > 전통찻집", 33.3059, 126.2895, 4.5},
		},
	},
	{
		key: "seoul", displayName: "Seoul",
		aliases: []string{"seoul", "서울", "서울시", "서울특별시"},
		center:  DefaultCenter,
		queries: []string{"서울 고궁", "서울 한옥마을", "서울 야경"},
		seeds: []seedPlace{
			{"Gyeongbokgung Palace", "문화,예술 > 역사유적 > 궁", 37.5796, 126.9770, 4.7},
			{"N Seoul Tower", "여행 > 관광,명소 > 전망대", 37.5512, 126.9882, 4.5},
			{"Bukchon Hanok Village", "여행 > 관광,명소 > 한옥마을", 37.5826, 126.9836, 4.4},
			{"National Museum of Korea", "문화,예술 > 문화시설 > 박물관", 37.5239, 126.9803, 4.7},
			{"Myeongdong Shopping Street", "가정,생활 > 쇼핑 > 거리", 37.5636, 126.9827, 4.3},
			{"Gwangjang Market", "음식점 > 한식 > 시장음식", 37.5700, 126.9996, 4.4},
			{"Ikseon-dong Cafe Street", "음식점 > 카페", 37.5743, 126.9895, 4.3},
			{"Hongdae Pub Street", "음식점 > 술집 > 호프,요리주점", 37.5563, 126.9236, 4.2},
		},
	},
	{
		key: "busan", displayName: "Busan",
		aliases: []string{"busan", "pusan", "부산", "부산시", "부산광역시"},
		center:  domain.Coordinate{Lat: 35.1796, Lon: 129.0756},
		queries: []string{"부산 해수욕장", "부산 회센터"},
		seeds: []seedPlace{
			{"Haeundae Beach", "여행 > 관광,명소 > 해수욕장", 35.1587, 129.1604, 4.5},
			{"Gamcheon Culture Village", "여행 > 관광,명소 > 문화마을", 35.0975, 129.0106, 4.4},
			{"Haedong Yonggungsa Temple", "문화,예술 > 사찰", 35.1884, 129.2233, 4.6},
			{"Gwangalli Beach", "여행 > 관광,명소 > 해수욕장", 35.1532, 129.1186, 4.5},
			{"Jagalchi Fish Market", "음식점 > 한식 > 해물,생선", 35.0966, 129.0306, 4.2},
			{"BIFF Square", "가정,생활 > 시장 > 먹자골목", 35.0988, 129.0277, 4.1},
			{"Jeonpo Cafe Street", "음식점 > 카페", 35.1553, 129.0643, 4.3},
		},
	},
	{
		key: "gyeongju", displayName: "Gyeongju",
		aliases: []string{"gyeongju", "kyongju", "경주", "경주시"},
		center:  domain.Coordinate{Lat: 35.8562, Lon: 129.2247},
		queries: []string{"경주 유적지", "경주 황리단길"},
		seeds: []seedPlace{
			{"Bulguksa Temple", "문화,예술 > 사찰", 35.7901, 129.3320, 4.7},
			{"Cheomseongdae Observatory", "문화,예술 > 역사유적", 35.8347, 129.2190, 4.4},
			{"Donggung Palace and Wolji Pond", "문화,예술 > 역사유적 > 궁", 35.8347, 129.2266, 4.6},
			{"Gyeongju National Museum", "문화,예술 > 문화시설 > 박물관", 35.8292, 129.2278, 4.5},
			{"Hwangridan-gil", "음식점 > 카페", 35.8380, 129.2106, 4.3},
			{"Gyochon Traditional Village", "음식점 > 한식", 35.8295, 129.2148, 4.2},
		},
	},
	{
		key: "gangneung", displayName: "Gangneung",
		aliases: []string{"gangneung", "강릉", "강릉시"},
		center:  domain.Coordinate{Lat: 37.7519, Lon: 128.8761},
		queries: []string{"강릉 커피거리", "강릉 해변"},
		seeds: []seedPlace{
			{"Anmok Coffee Street", "음식점 > 카페", 37.7726, 128.9477, 4.4},
			{"Gyeongpo Beach", "여행 > 관광,명소 > 해수욕장", 37.8055, 128.9080, 4.4},
			{"Ojukheon House", "문화,예술 > 역사유적", 37.7793, 128.8786, 4.3},
			{"Jumunjin Fish Market", "음식점 > 한식 > 해물,생선", 37.8906, 128.8260, 4.2},
		},
	},
}

var regionIndex = func() map[string]*region {
	m := make(map[string]*region)
	for i := range regions {
		for _, a := range regions[i].aliases {
			m[normalizeRegion(a)] = &regions[i]
		}
	}
	return m
}()

// normalizeRegion lowercases and drops spaces, underscores and hyphens so that
// "Jeju Island", "jeju_island" and "JejuIsland" share one key.
func normalizeRegion(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lookupRegion(name string) (*region, bool) {
	r, ok := regionIndex[normalizeRegion(name)]
	return r, ok
}

// KnownRegions returns the canonical keys of every region with a static table entry.
func KnownRegions() []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.key)
	}
	sort.Strings(out)
	return out
}

// RegionCenter returns the static center of a known region.
func RegionCenter(name string) (domain.Coordinate, bool) {
	if r, ok := lookupRegion(name); ok {
		return r.center, true
	}
	return domain.Coordinate{}, false
}

var genericQueries = []string{"food", "attraction", "cafe", "shopping", "museum", "park", "landmark", "experience"}

// BuildQueries returns the search texts for a region: the generic category set
// plus either the region's specialized list or two generic fallbacks.
func BuildQueries(regionName string) []string {
	name := strings.TrimSpace(regionName)
	r, known := lookupRegion(name)
	if known {
		name = r.displayName
	}
	out := make([]string, 0, len(genericQueries)+4)
	for _, q := range genericQueries {
		out = append(out, fmt.Sprintf("%s %s", name, q))
	}
	if known {
		return append(out, r.queries...)
	}
	return append(out, name+" tourist attractions", name+" restaurants")
}

func seedPlaces(regionName string) ([]domain.PlaceCandidate, bool) {
	r, ok := lookupRegion(regionName)
	if !ok {
		return nil, false
	}
	out := make([]domain.PlaceCandidate, 0, len(r.seeds))
	for i, s := range r.seeds {
		rating := s.rating
		out = append(out, domain.PlaceCandidate{
			ID:       fmt.Sprintf("seed-%s-%02d", r.key, i+1),
			Name:     s.name,
			Category: s.category,
			Lat:      s.lat,
			Lon:      s.lon,
			Rating:   &rating,
		})
	}
	return out, true
}
