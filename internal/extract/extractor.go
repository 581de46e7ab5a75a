// Package extract parses contact fields out of raw page snapshots using
// label-anchored pattern cascades. Anchoring to a nearby label keeps false
// positives down in snapshot text that mixes many numbers and links.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/step1ne/enrich-cli/internal/model"
)

// DefaultAggregatorDomain is the listing site the snapshots come from.
// Links back to it never count as a company website.
const DefaultAggregatorDomain = "104.com.tw"

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// DOM-style snapshots render the website field as a heading followed
	// by a /url: attribute line.
	headingURLPattern = regexp.MustCompile(`(?s)heading "(?:公司網址|官方網站)".*?/url:\s*(\S+)`)

	labeledURLPattern = regexp.MustCompile(`(?i)(?:公司網址|官方網站|官網|網址|Website)[:\s]+([^\s)]+)`)
	absoluteURLPattern = regexp.MustCompile(`https?://[^\s)]+`)
	wwwPattern         = regexp.MustCompile(`www\.[^\s)]+`)

	addressPattern  = regexp.MustCompile(`(?:公司地址|地址|位置|Address)[:\s]+([^\n]{10,100})`)
	industryPattern = regexp.MustCompile(`(?:產業類別|產業|Industry)[:\s]+([^\n]{5,50})`)
	servicesPattern = regexp.MustCompile(`(?:主要商品|服務項目|Products|Services)[:\s]+([^\n]{10,200})`)
)

// urlCutset covers the ASCII and CJK punctuation that trails URLs in
// running text, in both fullwidth and halfwidth forms.
const urlCutset = ".,;、。，；｡､'\")]"

// Extractor parses a snapshot into a ContactRecord.
type Extractor struct {
	aggregatorDomain string
}

// New creates an Extractor that discards links pointing at the given
// aggregator domain. An empty domain falls back to the default.
func New(aggregatorDomain string) *Extractor {
	if aggregatorDomain == "" {
		aggregatorDomain = DefaultAggregatorDomain
	}
	return &Extractor{aggregatorDomain: aggregatorDomain}
}

// Extract pulls all contact fields from snapshot text. It never fails;
// fields that do not match are left empty.
func (e *Extractor) Extract(snapshot string) model.ContactRecord {
	if snapshot == "" {
		return model.ContactRecord{}
	}

	// Fold fullwidth colons, parens and digits so one pattern set covers
	// both widths. CJK ideographs are unaffected.
	text := width.Narrow.String(snapshot)

	return model.ContactRecord{
		Phone:    ExtractPhone(text),
		Email:    extractEmail(text),
		Website:  e.extractWebsite(text),
		Address:  captureLabeled(addressPattern, text),
		Industry: captureLabeled(industryPattern, text),
		Services: captureLabeled(servicesPattern, text),
	}
}

func extractEmail(text string) string {
	m := emailPattern.FindString(text)
	return strings.ToLower(m)
}

// extractWebsite runs the three-tier cascade: DOM heading attribute,
// label-anchored URL, first absolute URL, then bare www token. A match on
// the aggregator's own domain is discarded at every tier.
func (e *Extractor) extractWebsite(text string) string {
	if m := headingURLPattern.FindStringSubmatch(text); m != nil {
		if url := e.cleanURL(m[1]); url != "" {
			return url
		}
	}

	for _, m := range labeledURLPattern.FindAllStringSubmatch(text, -1) {
		if url := e.cleanURL(m[1]); url != "" {
			return url
		}
	}

	for _, raw := range absoluteURLPattern.FindAllString(text, -1) {
		if url := e.cleanURL(raw); url != "" {
			return url
		}
	}

	for _, raw := range wwwPattern.FindAllString(text, -1) {
		if url := e.cleanURL(raw); url != "" {
			return url
		}
	}

	return ""
}

// cleanURL trims trailing punctuation, rejects aggregator self-references,
// and ensures a scheme. Returns "" when the candidate is unusable.
func (e *Extractor) cleanURL(raw string) string {
	url := strings.Trim(raw, urlCutset)
	if url == "" || strings.Contains(url, e.aggregatorDomain) {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

func captureLabeled(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
