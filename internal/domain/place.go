package domain

type Bucket string

const (
	BucketAttraction    Bucket = "attraction"
	BucketFood          Bucket = "food"
	BucketCafe          Bucket = "cafe"
	BucketShopping      Bucket = "shopping"
	BucketCulture       Bucket = "culture"
	BucketNightlife     Bucket = "nightlife"
	BucketTransport     Bucket = "transport"
	BucketAccommodation Bucket = "accommodation"
)

type TransportMode string

const (
	ModeDriving TransportMode = "driving"
	ModeWalking TransportMode = "walking"
	ModeBicycle TransportMode = "bicycle"
	ModeTransit TransportMode = "transit"
	ModeTaxi    TransportMode = "taxi"
)

// Source marks where a place came from; seed and fallback entries signal degraded output.
const (
	SourceProvider = "provider"
	SourceSeed     = "seed"
	SourceFallback = "fallback"
	SourceBooking  = "booking"
)

const (
	TagMustVisit       = "must-visit"
	TagBookedLodging   = "booked-lodging"
	TagSearchedLodging = "searched-lodging"
	TagSearchManually  = "search-manually"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceCandidate is the raw provider record. It is discarded after normalization.
type PlaceCandidate struct {
	ID          string
	Name        string
	Category    string // raw label, e.g. "음식점 > 카페" or "Museum"
	Address     string
	RoadAddress string
	Lon, Lat    float64
	Phone       string
	Rating      *float64
	ReviewCount int
}

type TravelSegment struct {
	DistanceKm      float64       `json:"distance_km"`
	DurationMinutes int           `json:"duration_minutes"`
	Cost            int           `json:"cost"`
	Mode            TransportMode `json:"mode"`
}

type AccommodationEvent string

const (
	CheckIn  AccommodationEvent = "check-in"
	CheckOut AccommodationEvent = "check-out"
)

type AccommodationInfo struct {
	Event             AccommodationEvent `json:"event"`
	Type              string             `json:"type,omitempty"`
	Address           string             `json:"address,omitempty"`
	Booked            bool               `json:"booked"`
	NeedsManualSearch bool               `json:"needs_manual_search"`
}

// RecommendedPlace is the normalized unit carried through the pipeline.
type RecommendedPlace struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Category      string             `json:"category"`
	Bucket        Bucket             `json:"bucket"`
	Address       string             `json:"address,omitempty"`
	Coord         Coordinate         `json:"coord"`
	Phone         string             `json:"phone,omitempty"`
	Rating        *float64           `json:"rating,omitempty"`
	ReviewCount   int                `json:"review_count"`
	MatchScore    int                `json:"match_score"`
	Tags          []string           `json:"tags,omitempty"`
	Source        string             `json:"source"`
	Segment       *TravelSegment     `json:"segment,omitempty"`
	VisitMinutes  int                `json:"visit_minutes"`
	Accommodation *AccommodationInfo `json:"accommodation,omitempty"`
}

func (p RecommendedPlace) IsAccommodationEvent() bool { return p.Accommodation != nil }

func (p RecommendedPlace) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (p RecommendedPlace) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DayItinerary holds at most one check-out at the head and one check-in at the tail.
type DayItinerary struct {
	Day   int                `json:"day"`
	Stops []RecommendedPlace `json:"stops"`
}

// RegularStops returns the stops that are not lodging events.
func (d DayItinerary) RegularStops() []RecommendedPlace {
	out := make([]RecommendedPlace, 0, len(d.Stops))
	for _, s := range d.Stops {
		if !s.IsAccommodationEvent() {
			out = append(out, s)
		}
	}
	return out
}

func (d DayItinerary) CheckIn() *RecommendedPlace  { return d.event(CheckIn) }
func (d DayItinerary) CheckOut() *RecommendedPlace { return d.event(CheckOut) }

func (d DayItinerary) event(e AccommodationEvent) *RecommendedPlace {
	for i := range d.Stops {
		if a := d.Stops[i].Accommodation; a != nil && a.Event == e {
			return &d.Stops[i]
		}
	}
	return nil
}

type DaySummary struct {
	TravelMinutes int     `json:"travel_minutes"`
	VisitMinutes  int     `json:"visit_minutes"`
	TotalMinutes  int     `json:"total_minutes"`
	DistanceKm    float64 `json:"distance_km"`
	Cost          int     `json:"cost"`
}

// Summary is derived from the stops alone.
func (d DayItinerary) Summary() DaySummary {
	var s DaySummary
	for _, p := range d.Stops {
		s.VisitMinutes += p.VisitMinutes
		if p.Segment != nil {
			s.TravelMinutes += p.Segment.DurationMinutes
			s.DistanceKm += p.Segment.DistanceKm
			s.Cost += p.Segment.Cost
		}
	}
	s.TotalMinutes = s.TravelMinutes + s.VisitMinutes
	return s
}

// Itinerary is indexed by zero-based day: Days[i].Day == i.
type Itinerary struct {
	Destination string         `json:"destination"`
	Days        []DayItinerary `json:"days"`
	Degraded    bool           `json:"degraded"`
}

// BookedAccommodation is a lodging the traveller already reserved.
type BookedAccommodation struct {
	Name    string
	Address string
	Coord   *Coordinate
}

type ItineraryRequest struct {
	Destination       string
	Tags              []string
	Days              int
	Start             *Coordinate
	Mode              TransportMode
	AccommodationType string
	Booked            *BookedAccommodation
	MustVisit         []string
}
