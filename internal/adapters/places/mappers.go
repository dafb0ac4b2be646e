package places

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"travel_planner/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Keyword-search documents differ between provider versions and mirrors.
var placeAliases = map[string][]string{
	"id":           {"id", "place_id", "placeId"},
	"name":         {"place_name", "name", "title", "displayName.text"},
	"category":     {"category_name", "category", "categoryName", "primaryTypeDisplayName.text"},
	"address":      {"address_name", "address", "jibunAddress", "formattedAddress"},
	"road_address": {"road_address_name", "roadAddress", "road_address"},
	"phone":        {"phone", "tel", "telephone", "nationalPhoneNumber"},
	"lon":          {"x", "lon", "lng", "mapx", "location.longitude"},
	"lat":          {"y", "lat", "mapy", "location.latitude"},
	"rating":       {"rating", "score", "rating.value", "avg_rating"},
	"review_count": {"review_count", "reviewCount", "userRatingCount", "rating.count"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set.
func firstAlias(m map[string]any, key string) string {
	for _, p := range placeAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// floatAlias: number from an alias set (float64/int/string like "4,5").
func floatAlias(m map[string]any, key string) *float64 {
	for _, k := range placeAliases[key] {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

/********** place mapper **********/

// mapPlace converts one provider document. Documents without a name or a
// usable coordinate are rejected.
func mapPlace(doc map[string]any) (domain.PlaceCandidate, bool) {
	name := firstAlias(doc, "name")
	lon, lat := floatAlias(doc, "lon"), floatAlias(doc, "lat")
	if name == "" || lon == nil || lat == nil || (*lon == 0 && *lat == 0) {
		return domain.PlaceCandidate{}, false
	}

	c := domain.PlaceCandidate{
		Name:        name,
		Category:    firstAlias(doc, "category"),
		Address:     firstAlias(doc, "address"),
		RoadAddress: firstAlias(doc, "road_address"),
		Phone:       firstAlias(doc, "phone"),
		Lon:         *lon,
		Lat:         *lat,
		Rating:      floatAlias(doc, "rating"),
	}
	if n := floatAlias(doc, "review_count"); n != nil && *n > 0 {
		c.ReviewCount = int(*n)
	}

	// ID: prefer explicit; else synthesize a stable hash.
	if id := firstAlias(doc, "id"); id != "" {
		c.ID = id
	} else {
		sum := sha1.Sum([]byte(strings.Join([]string{name, c.Address, c.RoadAddress}, "|")))
		c.ID = hex.EncodeToString(sum[:8])
	}
	return c, true
}

func mapDocuments(docs []map[string]any) []domain.PlaceCandidate {
	out := make([]domain.PlaceCandidate, 0, len(docs))
	for _, d := range docs {
		if c, ok := mapPlace(d); ok {
			out = append(out, c)
		}
	}
	return out
}

// categoryCodes maps buckets to the provider's category group codes.
var categoryCodes = map[domain.Bucket]string{
	domain.BucketAccommodation: "AD5",
	domain.BucketFood:          "FD6",
	domain.BucketCafe:          "CE7",
	domain.BucketAttraction:    "AT4",
	domain.BucketCulture:       "CT1",
	domain.BucketShopping:      "MT1",
}
