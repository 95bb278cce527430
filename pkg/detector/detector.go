// Package detector picks the serial port most likely to belong to the
// device's debug adapter.
package detector

import (
	"sort"
	"strings"

	"github.com/bvat-tools/framelog/pkg/serialport"
)

// Score weights. A description hit outranks a manufacturer hit.
const (
	descriptionWeight  = 2
	manufacturerWeight = 1
)

// Match is a port that matched at least one keyword.
type Match struct {
	Port    serialport.PortInfo
	Score   int
	Keyword string // first keyword that matched
}

// Result holds every matching port, best first.
type Result struct {
	Matches []Match
	Scanned int
}

// Best returns the highest scoring match, or nil if none matched.
func (r *Result) Best() *Match {
	if r == nil || len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// IsBest reports whether name is the best match.
func (r *Result) IsBest(name string) bool {
	b := r.Best()
	return b != nil && b.Port.Name == name
}

// Detector scores ports against adapter keywords.
type Detector struct {
	keywords []string
}

// Option configures the Detector.
type Option func(*Detector)

// WithKeywords replaces the keyword list. Empty lists are ignored.
func WithKeywords(keywords ...string) Option {
	return func(d *Detector) {
		var kw []string
		for _, k := range keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		if len(kw) > 0 {
			d.keywords = kw
		}
	}
}

// New creates a Detector looking for ST-Link adapters unless other
// keywords are given.
func New(opts ...Option) *Detector {
	d := &Detector{keywords: []string{"stlink", "st-link"}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect scores every port. Ports keep their listed order when scores tie.
func (d *Detector) Detect(ports []serialport.PortInfo) *Result {
	result := &Result{Scanned: len(ports)}

	for _, p := range ports {
		desc := strings.ToLower(p.Description)
		manu := strings.ToLower(p.Manufacturer)

		m := Match{Port: p}
		for _, k := range d.keywords {
			hit := false
			if strings.Contains(desc, k) {
				m.Score += descriptionWeight
				hit = true
			}
			if strings.Contains(manu, k) {
				m.Score += manufacturerWeight
				hit = true
			}
			if hit && m.Keyword == "" {
				m.Keyword = k
			}
		}
		if m.Score > 0 {
			result.Matches = append(result.Matches, m)
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Score > result.Matches[j].Score
	})
	return result
}
