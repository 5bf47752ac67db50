package soccer

import "sort"

// League is a competition the odds collectors publish under a display name
type League struct {
	Name     string // display name, as it appears in the snapshot
	Region   string
	SportKey string // The Odds API sport key, empty when only scraped
}

// catalog lists the known leagues in board display order
var catalog = []League{
	{Name: "Premier League", Region: "Inglaterra", SportKey: "soccer_england_premier_league"},
	{Name: "FA Cup", Region: "Inglaterra", SportKey: "soccer_england_fa_cup"},
	{Name: "Carabao Cup", Region: "Inglaterra", SportKey: "soccer_england_efl_cup"},
	{Name: "Championship", Region: "Inglaterra", SportKey: "soccer_england_championship"},
	{Name: "League One", Region: "Inglaterra"},

	{Name: "La Liga", Region: "España", SportKey: "soccer_spain_la_liga"},
	{Name: "La Liga 2", Region: "España"},
	{Name: "Copa del Rey", Region: "España", SportKey: "soccer_spain_copa_del_rey"},

	{Name: "Serie A", Region: "Italia", SportKey: "soccer_italy_serie_a"},
	{Name: "Copa Italia", Region: "Italia", SportKey: "soccer_italy_coppa_italia"},
	{Name: "Supercopa de Italia", Region: "Italia"},

	{Name: "Bundesliga", Region: "Alemania", SportKey: "soccer_germany_bundesliga"},
	{Name: "2 Bundesliga", Region: "Alemania"},
	{Name: "Copa Alemana", Region: "Alemania", SportKey: "soccer_germany_dfb_pokal"},

	{Name: "Ligue 1", Region: "Francia", SportKey: "soccer_france_ligue_one"},
	{Name: "Primeira Liga", Region: "Portugal"},
	{Name: "Eredivisie", Region: "Países Bajos"},
	{Name: "Eerste Divisie", Region: "Países Bajos"},

	{Name: "Brasileirao", Region: "Brasil", SportKey: "soccer_brazil_campeonato"},
	{Name: "Copa de Brasil", Region: "Brasil"},
	{Name: "Liga MX", Region: "México", SportKey: "soccer_mexico_liga_mx"},
	{Name: "MLS", Region: "Estados Unidos", SportKey: "soccer_usa_mls"},
	{Name: "Liga 1 Perú", Region: "Perú", SportKey: "soccer_peru_primera_division"},

	{Name: "UEFA Champions League", Region: "Europa", SportKey: "soccer_uefa_champions_league"},
	{Name: "UEFA Europa League", Region: "Europa", SportKey: "soccer_uefa_europa_league"},
	{Name: "UEFA Conference League", Region: "Europa", SportKey: "soccer_uefa_europa_conference_league"},

	{Name: "Copa Libertadores", Region: "Americas", SportKey: "soccer_south_america_copa_libertadores"},
	{Name: "Copa Sudamericana", Region: "Americas", SportKey: "soccer_south_america_copa_sudamericana"},

	{Name: "Eliminatorias Africa - WC26", Region: "Africa"},
	{Name: "Eliminatorias Asia AFC - WC26", Region: "Asia"},
	{Name: "Eliminatorias CONCACAF - WC26", Region: "Americas"},
	{Name: "Eliminatorias Europa - WC26", Region: "Europa"},
}

var rank = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, l := range catalog {
		m[l.Name] = i
	}
	return m
}()

// Catalog returns a copy of the known leagues in display order
func Catalog() []League {
	out := make([]League, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a known league by display name
func Lookup(name string) (League, bool) {
	i, ok := rank[name]
	if !ok {
		return League{}, false
	}
	return catalog[i], true
}

// Order sorts league names for display: catalog leagues first in catalog order,
// then unknown leagues alphabetically. The input slice is not modified.
func Order(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)

	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i]]
		rj, jKnown := rank[out[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i] < out[j]
		}
	})

	return out
}
