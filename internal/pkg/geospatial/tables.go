package geospatial

import "github.com/samirrijal/globeview/internal/core/domain"

// namedCoordinate is one row of a lookup table.
type namedCoordinate struct {
	Name  string
	Coord domain.Coordinate
}

// cityTable holds city centers. Names must not collide with country names.
var cityTable = []namedCoordinate{
	{"Paris", domain.Coordinate{Lat: 48.8566, Lng: 2.3522}},
	{"London", domain.Coordinate{Lat: 51.5074, Lng: -0.1278}},
	{"Berlin", domain.Coordinate{Lat: 52.5200, Lng: 13.4050}},
	{"Amsterdam", domain.Coordinate{Lat: 52.3676, Lng: 4.9041}},
	{"Madrid", domain.Coordinate{Lat: 40.4168, Lng: -3.7038}},
	{"Barcelona", domain.Coordinate{Lat: 41.3874, Lng: 2.1686}},
	{"Bilbao", domain.Coordinate{Lat: 43.2630, Lng: -2.9350}},
	{"Lisbon", domain.Coordinate{Lat: 38.7223, Lng: -9.1393}},
	{"Rome", domain.Coordinate{Lat: 41.9028, Lng: 12.4964}},
	{"Milan", domain.Coordinate{Lat: 45.4642, Lng: 9.1900}},
	{"Vienna", domain.Coordinate{Lat: 48.2082, Lng: 16.3738}},
	{"Zurich", domain.Coordinate{Lat: 47.3769, Lng: 8.5417}},
	{"Prague", domain.Coordinate{Lat: 50.0755, Lng: 14.4378}},
	{"Warsaw", domain.Coordinate{Lat: 52.2297, Lng: 21.0122}},
	{"Copenhagen", domain.Coordinate{Lat: 55.6761, Lng: 12.5683}},
	{"Stockholm", domain.Coordinate{Lat: 59.3293, Lng: 18.0686}},
	{"Oslo", domain.Coordinate{Lat: 59.9139, Lng: 10.7522}},
	{"Dublin", domain.Coordinate{Lat: 53.3498, Lng: -6.2603}},
	{"New York", domain.Coordinate{Lat: 40.7128, Lng: -74.0060}},
	{"Los Angeles", domain.Coordinate{Lat: 34.0522, Lng: -118.2437}},
	{"San Francisco", domain.Coordinate{Lat: 37.7749, Lng: -122.4194}},
	{"Seattle", domain.Coordinate{Lat: 47.6062, Lng: -122.3321}},
	{"Denver", domain.Coordinate{Lat: 39.7392, Lng: -104.9903}},
	{"Chicago", domain.Coordinate{Lat: 41.8781, Lng: -87.6298}},
	{"Austin", domain.Coordinate{Lat: 30.2672, Lng: -97.7431}},
	{"Miami", domain.Coordinate{Lat: 25.7617, Lng: -80.1918}},
	{"Portland", domain.Coordinate{Lat: 45.5152, Lng: -122.6784}},
	{"Boston", domain.Coordinate{Lat: 42.3601, Lng: -71.0589}},
	{"Toronto", domain.Coordinate{Lat: 43.6532, Lng: -79.3832}},
	{"Vancouver", domain.Coordinate{Lat: 49.2827, Lng: -123.1207}},
	{"Montreal", domain.Coordinate{Lat: 45.5017, Lng: -73.5673}},
	{"Mexico City", domain.Coordinate{Lat: 19.4326, Lng: -99.1332}},
	{"Bogota", domain.Coordinate{Lat: 4.7110, Lng: -74.0721}},
	{"Lima", domain.Coordinate{Lat: -12.0464, Lng: -77.0428}},
	{"Santiago", domain.Coordinate{Lat: -33.4489, Lng: -70.6693}},
	{"Buenos Aires", domain.Coordinate{Lat: -34.6037, Lng: -58.3816}},
	{"Montevideo", domain.Coordinate{Lat: -34.9011, Lng: -56.1645}},
	{"Sao Paulo", domain.Coordinate{Lat: -23.5505, Lng: -46.6333}},
	{"Rio de Janeiro", domain.Coordinate{Lat: -22.9068, Lng: -43.1729}},
	{"Cape Town", domain.Coordinate{Lat: -33.9249, Lng: 18.4241}},
	{"Johannesburg", domain.Coordinate{Lat: -26.2041, Lng: 28.0473}},
	{"Nairobi", domain.Coordinate{Lat: -1.2921, Lng: 36.8219}},
	{"Lagos", domain.Coordinate{Lat: 6.5244, Lng: 3.3792}},
	{"Cairo", domain.Coordinate{Lat: 30.0444, Lng: 31.2357}},
	{"Tel Aviv", domain.Coordinate{Lat: 32.0853, Lng: 34.7818}},
	{"Dubai", domain.Coordinate{Lat: 25.2048, Lng: 55.2708}},
	{"Mumbai", domain.Coordinate{Lat: 19.0760, Lng: 72.8777}},
	{"Bangkok", domain.Coordinate{Lat: 13.7563, Lng: 100.5018}},
	{"Tokyo", domain.Coordinate{Lat: 35.6762, Lng: 139.6503}},
	{"Seoul", domain.Coordinate{Lat: 37.5665, Lng: 126.9780}},
	{"Beijing", domain.Coordinate{Lat: 39.9042, Lng: 116.4074}},
	{"Shanghai", domain.Coordinate{Lat: 31.2304, Lng: 121.4737}},
	{"Sydney", domain.Coordinate{Lat: -33.8688, Lng: 151.2093}},
	{"Melbourne", domain.Coordinate{Lat: -37.8136, Lng: 144.9631}},
	{"Auckland", domain.Coordinate{Lat: -36.8485, Lng: 174.7633}},
}

// countryTable holds approximate country centers. Order matters: the
// substring tier returns the first row that matches.
var countryTable = []namedCoordinate{
	{"USA", domain.Coordinate{Lat: 39.8283, Lng: -98.5795}},
	{"United States", domain.Coordinate{Lat: 39.8283, Lng: -98.5795}},
	{"Canada", domain.Coordinate{Lat: 56.1304, Lng: -106.3468}},
	{"Mexico", domain.Coordinate{Lat: 23.6345, Lng: -102.5528}},
	{"Brazil", domain.Coordinate{Lat: -14.2350, Lng: -51.9253}},
	{"Argentina", domain.Coordinate{Lat: -38.4161, Lng: -63.6167}},
	{"Chile", domain.Coordinate{Lat: -35.6751, Lng: -71.5430}},
	{"Colombia", domain.Coordinate{Lat: 4.5709, Lng: -74.2973}},
	{"Peru", domain.Coordinate{Lat: -9.1900, Lng: -75.0152}},
	{"Uruguay", domain.Coordinate{Lat: -32.5228, Lng: -55.7658}},
	{"Jamaica", domain.Coordinate{Lat: 18.1096, Lng: -77.2975}},
	{"UK", domain.Coordinate{Lat: 55.3781, Lng: -3.4360}},
	{"United Kingdom", domain.Coordinate{Lat: 55.3781, Lng: -3.4360}},
	{"England", domain.Coordinate{Lat: 52.3555, Lng: -1.1743}},
	{"Scotland", domain.Coordinate{Lat: 56.4907, Lng: -4.2026}},
	{"Ireland", domain.Coordinate{Lat: 53.1424, Lng: -7.6921}},
	{"France", domain.Coordinate{Lat: 46.2276, Lng: 2.2137}},
	{"Germany", domain.Coordinate{Lat: 51.1657, Lng: 10.4515}},
	{"Netherlands", domain.Coordinate{Lat: 52.1326, Lng: 5.2913}},
	{"Belgium", domain.Coordinate{Lat: 50.5039, Lng: 4.4699}},
	{"Luxembourg", domain.Coordinate{Lat: 49.8153, Lng: 6.1296}},
	{"Switzerland", domain.Coordinate{Lat: 46.8182, Lng: 8.2275}},
	{"Austria", domain.Coordinate{Lat: 47.5162, Lng: 14.5501}},
	{"Spain", domain.Coordinate{Lat: 40.4637, Lng: -3.7492}},
	{"Portugal", domain.Coordinate{Lat: 39.3999, Lng: -8.2245}},
	{"Italy", domain.Coordinate{Lat: 41.8719, Lng: 12.5674}},
	{"Greece", domain.Coordinate{Lat: 39.0742, Lng: 21.8243}},
	{"Denmark", domain.Coordinate{Lat: 56.2639, Lng: 9.5018}},
	{"Sweden", domain.Coordinate{Lat: 60.1282, Lng: 18.6435}},
	{"Norway", domain.Coordinate{Lat: 60.4720, Lng: 8.4689}},
	{"Finland", domain.Coordinate{Lat: 61.9241, Lng: 25.7482}},
	{"Poland", domain.Coordinate{Lat: 51.9194, Lng: 19.1451}},
	{"Czech Republic", domain.Coordinate{Lat: 49.8175, Lng: 15.4730}},
	{"Hungary", domain.Coordinate{Lat: 47.1625, Lng: 19.5033}},
	{"Romania", domain.Coordinate{Lat: 45.9432, Lng: 24.9668}},
	{"Ukraine", domain.Coordinate{Lat: 48.3794, Lng: 31.1656}},
	{"Turkey", domain.Coordinate{Lat: 38.9637, Lng: 35.2433}},
	{"Israel", domain.Coordinate{Lat: 31.0461, Lng: 34.8516}},
	{"Egypt", domain.Coordinate{Lat: 26.8206, Lng: 30.8025}},
	{"Morocco", domain.Coordinate{Lat: 31.7917, Lng: -7.0926}},
	{"Nigeria", domain.Coordinate{Lat: 9.0820, Lng: 8.6753}},
	{"Kenya", domain.Coordinate{Lat: -0.0236, Lng: 37.9062}},
	{"South Africa", domain.Coordinate{Lat: -30.5595, Lng: 22.9375}},
	{"United Arab Emirates", domain.Coordinate{Lat: 23.4241, Lng: 53.8478}},
	{"India", domain.Coordinate{Lat: 20.5937, Lng: 78.9629}},
	{"Nepal", domain.Coordinate{Lat: 28.3949, Lng: 84.1240}},
	{"Thailand", domain.Coordinate{Lat: 15.8700, Lng: 100.9925}},
	{"China", domain.Coordinate{Lat: 35.8617, Lng: 104.1954}},
	{"Japan", domain.Coordinate{Lat: 36.2048, Lng: 138.2529}},
	{"South Korea", domain.Coordinate{Lat: 35.9078, Lng: 127.7669}},
	{"Singapore", domain.Coordinate{Lat: 1.3521, Lng: 103.8198}},
	{"Australia", domain.Coordinate{Lat: -25.2744, Lng: 133.7751}},
	{"New Zealand", domain.Coordinate{Lat: -40.9006, Lng: 174.8860}},
}

// CityTable returns a copy of the city lookup table.
func CityTable() map[string]domain.Coordinate {
	return toMap(cityTable)
}

// CountryTable returns a copy of the country lookup table.
func CountryTable() map[string]domain.Coordinate {
	return toMap(countryTable)
}

func toMap(rows []namedCoordinate) map[string]domain.Coordinate {
	m := make(map[string]domain.Coordinate, len(rows))
	for _, r := range rows {
		m[r.Name] = r.Coord
	}
	return m
}
