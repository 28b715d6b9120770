// Package lookup serves the canned reference tables the triage stages consult:
// emergency contacts, hospitals, primary health centres, medicine prices,
// outbreak notices, weather risk and first-aid guidance.
//
// Every lookup answers with text. A location or item that is not in the tables
// yields a deterministic "not available" message pointing at the national
// defaults, so callers never branch on a missing entry.
package lookup

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/tables.yaml
var defaultTables []byte

// DefaultLocation is used when intake supplies no location.
const DefaultLocation = "Nigeria"

type Contact struct {
	Service string `yaml:"service"`
	Number  string `yaml:"number"`
}

type PHC struct {
	Name     string `yaml:"name"`
	Distance string `yaml:"distance"`
	Rating   string `yaml:"rating"`
}

type Medicine struct {
	Aliases []string          `yaml:"aliases"`
	Prices  map[string]string `yaml:"prices"`
}

type Program struct {
	Name   string `yaml:"name"`
	Detail string `yaml:"detail"`
}

type Insurance struct {
	National []Program            `yaml:"national"`
	States   map[string][]Program `yaml:"states"`
}

type Weather struct {
	Temperature int    `yaml:"temperature"`
	Humidity    int    `yaml:"humidity"`
	AirQuality  string `yaml:"air_quality"`
}

// Tables is the on-disk shape of the reference data.
type Tables struct {
	NationalContacts []Contact                      `yaml:"national_contacts"`
	Contacts         map[string][]Contact           `yaml:"contacts"`
	Hospitals        map[string]map[string][]string `yaml:"hospitals"`
	PHCs             map[string][]PHC               `yaml:"phcs"`
	Medicines        map[string]Medicine            `yaml:"medicines"`
	Outbreaks        map[string][]string            `yaml:"outbreaks"`
	DefaultWeather   Weather                        `yaml:"default_weather"`
	Weather          map[string]Weather             `yaml:"weather"`
	FirstAid         map[string]string              `yaml:"first_aid"`
	Insurance        Insurance                      `yaml:"insurance"`
}

// Directory answers lookups over a fixed set of Tables. It is read-only after
// construction and safe for concurrent use.
type Directory struct {
	tables    Tables
	locations map[string]string
	aliases   []medicineAlias
}

type medicineAlias struct {
	name    string
	pattern *regexp.Regexp
}

// Default returns a Directory over the embedded tables.
func Default() *Directory {
	d, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("lookup: embedded tables are invalid: %v", err))
	}
	return d
}

// Load reads tables from path, or returns the embedded tables when path is empty.
func Load(path string) (*Directory, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup tables %q: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lookup tables %q: %w", path, err)
	}
	return d, nil
}

// Parse decodes YAML tables into a Directory.
func Parse(data []byte) (*Directory, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return New(t), nil
}

func New(t Tables) *Directory {
	d := &Directory{
		tables:    t,
		locations: make(map[string]string),
	}
	index := func(name string) {
		d.locations[normalize(name)] = name
	}
	for name := range t.Contacts {
		index(name)
	}
	for name := range t.Hospitals {
		index(name)
	}
	for name := range t.PHCs {
		index(name)
	}
	for name := range t.Outbreaks {
		index(name)
	}
	for name := range t.Weather {
		index(name)
	}
	for name := range t.Insurance.States {
		index(name)
	}
	for _, m := range t.Medicines {
		for name := range m.Prices {
			index(name)
		}
	}

	names := make([]string, 0, len(t.Medicines))
	for name := range t.Medicines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		aliases := append([]string{name}, t.Medicines[name].Aliases...)
		for _, a := range aliases {
			a = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(a, "_", " ")))
			if a == "" {
				continue
			}
			d.aliases = append(d.aliases, medicineAlias{
				name:    name,
				pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(a) + `\b`),
			})
		}
	}
	return d
}

// normalize maps "Port Harcourt, Rivers, Nigeria" to "port harcourt".
func normalize(location string) string {
	if i := strings.Index(location, ","); i >= 0 {
		location = location[:i]
	}
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// Resolve returns the table name for a free-form location, and whether the
// tables know it.
func (d *Directory) Resolve(location string) (string, bool) {
	name, ok := d.locations[normalize(location)]
	return name, ok
}

// NotAvailable is the fixed miss message for any lookup.
func NotAvailable(subject, location string) string {
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}
	return fmt.Sprintf("%s not available for %s, use national defaults.", subject, location)
}

// EmergencyContacts lists the emergency numbers for a location.
func (d *Directory) EmergencyContacts(location string) string {
	name, ok := d.Resolve(location)
	contacts := d.tables.Contacts[name]
	if !ok || len(contacts) == 0 {
		return NotAvailable("Local emergency contacts", location) + "\n" + formatContacts(d.NationalContacts())
	}
	return fmt.Sprintf("Emergency contacts for %s:\n%s", name, formatContacts(contacts))
}

// NationalContacts returns the nationwide numbers. 112 is always present.
func (d *Directory) NationalContacts() []Contact {
	if len(d.tables.NationalContacts) == 0 {
		return []Contact{{Service: "National Emergency", Number: "112"}}
	}
	return d.tables.NationalContacts
}

func formatContacts(contacts []Contact) string {
	var b strings.Builder
	for _, c := range contacts {
		fmt.Fprintf(&b, "- %s: %s\n", c.Service, c.Number)
	}
	return b.String()
}

// Hospitals lists hospitals of a kind (general, cardiac, pediatric) for a
// location, falling back to general hospitals when the kind is unknown.
func (d *Directory) Hospitals(location, kind string) string {
	name, ok := d.Resolve(location)
	byKind := d.tables.Hospitals[name]
	if !ok || len(byKind) == 0 {
		return NotAvailable("Hospital listings", location) + " Contact local emergency services (112) for the nearest hospital."
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "general"
	}
	list, found := byKind[kind]
	if !found {
		kind = "general"
		list = byKind[kind]
	}
	if len(list) == 0 {
		return NotAvailable("Hospital listings", location) + " Contact local emergency services (112) for the nearest hospital."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Nearest %s hospitals in %s:\n", kind, name)
	for _, h := range list {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	return b.String()
}

// PHCLocations lists nearby primary health centres.
func (d *Directory) PHCLocations(location string) string {
	name, ok := d.Resolve(location)
	phcs := d.tables.PHCs[name]
	if !ok || len(phcs) == 0 {
		return NotAvailable("PHC locations", location)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Nearby PHCs in %s:\n", name)
	for _, p := range phcs {
		fmt.Fprintf(&b, "- %s (%s, Rating: %s/5)\n", p.Name, p.Distance, p.Rating)
	}
	return b.String()
}

// MedicinePrice returns the price band of a medicine in a location.
func (d *Directory) MedicinePrice(medicine, location string) string {
	key := strings.ToLower(strings.TrimSpace(medicine))
	m, ok := d.tables.Medicines[key]
	if !ok {
		return NotAvailable(fmt.Sprintf("Price data for %s", medicine), location)
	}
	name, known := d.Resolve(location)
	price, priced := m.Prices[name]
	if !known || !priced {
		return NotAvailable(fmt.Sprintf("Price data for %s", medicine), location)
	}
	return fmt.Sprintf("%s price in %s: %s", medicine, name, price)
}

// Medicines lists the priced medicine names in sorted order.
func (d *Directory) Medicines() []string {
	names := make([]string, 0, len(d.tables.Medicines))
	for name := range d.tables.Medicines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchMedicines returns the table names of medicines mentioned in text, in
// table order and without duplicates.
func (d *Directory) MatchMedicines(text string) []string {
	text = strings.ToLower(text)
	seen := make(map[string]bool)
	var out []string
	for _, a := range d.aliases {
		if seen[a.name] {
			continue
		}
		if a.pattern.MatchString(text) {
			seen[a.name] = true
			out = append(out, a.name)
		}
	}
	return out
}

// OutbreakInfo reports current (canned) outbreaks for a location.
func (d *Directory) OutbreakInfo(location string) string {
	name, ok := d.Resolve(location)
	list := d.tables.Outbreaks[name]
	if !ok || len(list) == 0 {
		return fmt.Sprintf("No major outbreaks reported in %s", displayLocation(location))
	}
	return fmt.Sprintf("Current outbreaks in %s: %s", name, strings.Join(list, ", "))
}

// WeatherRisk derives health risks from the (canned) weather of a location.
func (d *Directory) WeatherRisk(location string) string {
	w := d.tables.DefaultWeather
	label := displayLocation(location)
	if name, ok := d.Resolve(location); ok {
		if lw, found := d.tables.Weather[name]; found {
			w = lw
			label = name
		}
	}
	var risks []string
	if w.Temperature > 30 {
		risks = append(risks, "Heat stress risk - stay hydrated")
	}
	if w.Humidity > 80 {
		risks = append(risks, "High humidity - increased infection risk")
	}
	if w.AirQuality == "poor" {
		risks = append(risks, "Poor air quality - respiratory issues")
	}
	if len(risks) == 0 {
		return fmt.Sprintf("Weather health risks for %s: No significant risks", label)
	}
	return fmt.Sprintf("Weather health risks for %s: %s", label, strings.Join(risks, "; "))
}

// FirstAid returns first-aid instructions for an injury type.
func (d *Directory) FirstAid(injury string) (string, bool) {
	guide, ok := d.tables.FirstAid[strings.ToLower(strings.TrimSpace(injury))]
	if !ok {
		return fmt.Sprintf("First aid instructions for %s not available. Call emergency services.", injury), false
	}
	return fmt.Sprintf("First aid for %s: %s", injury, guide), true
}

// InsurancePrograms lists the national schemes plus any state scheme for the
// location.
func (d *Directory) InsurancePrograms(location string) string {
	var b strings.Builder
	b.WriteString("National programmes:\n")
	for _, p := range d.tables.Insurance.National {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Detail)
	}
	name, ok := d.Resolve(location)
	state := d.tables.Insurance.States[name]
	if !ok || len(state) == 0 {
		b.WriteString(NotAvailable("State health insurance schemes", location))
		b.WriteString("\n")
		return b.String()
	}
	fmt.Fprintf(&b, "State schemes for %s:\n", name)
	for _, p := range state {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Detail)
	}
	return b.String()
}

func displayLocation(location string) string {
	if strings.TrimSpace(location) == "" {
		return DefaultLocation
	}
	return strings.TrimSpace(location)
}
