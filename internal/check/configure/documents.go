package configure

import (
	"slices"

	"onboard/internal/check/models"
)

// MatchStatus describes how well the image inventory covers a document.
type MatchStatus string

const (
	MatchExact   MatchStatus = "exact"
	MatchPartial MatchStatus = "partial"
	MatchNone    MatchStatus = "none"
)

// DocumentMatch is the suggested identity document. Image IDs are set only
// for exact matches; partial and missing matches are left for manual choice
// from Candidates.
type DocumentMatch struct {
	Status       MatchStatus
	DocumentType models.DocumentKind
	FrontImageID string
	BackImageID  string
	Candidates   []models.IdentityImage
}

var documentPreference = []models.DocumentKind{
	models.DocumentPassport,
	models.DocumentDrivingLicence,
	models.DocumentNationalIDCard,
	models.DocumentResidencePermit,
}

type sidePair struct {
	front *models.IdentityImage
	back  *models.IdentityImage
}

func (p sidePair) complete(kind models.DocumentKind) bool {
	if kind.IsDoubleSided() {
		return p.front != nil && p.back != nil
	}
	return p.front != nil
}

func (p sidePair) latest() int64 {
	var ts int64
	for _, img := range []*models.IdentityImage{p.front, p.back} {
		if img != nil && img.UploadedAt.UnixNano() > ts {
			ts = img.UploadedAt.UnixNano()
		}
	}
	return ts
}

// MatchDocuments finds the most recently uploaded document kind whose
// required sides are all present. The newest image wins for each side.
func MatchDocuments(ctx models.ClientContext) DocumentMatch {
	pairs := make(map[models.DocumentKind]*sidePair)
	for i := range ctx.IdentityImages {
		img := &ctx.IdentityImages[i]
		if !img.DocumentKind.IsKnown() {
			continue
		}
		p, ok := pairs[img.DocumentKind]
		if !ok {
			p = &sidePair{}
			pairs[img.DocumentKind] = p
		}
		slot := &p.front
		if img.Side == models.SideBack {
			slot = &p.back
		}
		if *slot == nil || img.UploadedAt.After((*slot).UploadedAt) {
			*slot = img
		}
	}

	match := DocumentMatch{Status: MatchNone, Candidates: slices.Clone(ctx.IdentityImages)}
	var best models.DocumentKind
	var bestTS int64 = -1
	partial := false
	for _, kind := range documentPreference {
		p, ok := pairs[kind]
		if !ok {
			continue
		}
		if !p.complete(kind) {
			if !partial && bestTS < 0 {
				match.DocumentType = kind
			}
			partial = true
			continue
		}
		if ts := p.latest(); ts > bestTS {
			best, bestTS = kind, ts
		}
	}

	switch {
	case bestTS >= 0:
		p := pairs[best]
		match.Status = MatchExact
		match.DocumentType = best
		match.FrontImageID = p.front.ID
		if best.IsDoubleSided() {
			match.BackImageID = p.back.ID
		}
	case partial:
		match.Status = MatchPartial
	}
	return match
}
