package writers

import (
	"fmt"

	"ksites-core/design"
	"ksites-core/offtarget"
	"ksites-core/pam"
	"ksites/pkg/api"
)

// placeholderSpan is the nominal record length given to placeholder guides.
const placeholderSpan = 20

// Meta identifies the request a Result answers.
type Meta struct {
	RunID    string
	Gene     string
	Organism string
	Cas      pam.CasType
}

// ToAPIDesign converts a design result to the stable wire schema (v1).
func ToAPIDesign(m Meta, r design.Result) api.DesignV1 {
	v := api.DesignV1{
		RunID:    m.RunID,
		Gene:     m.Gene,
		Organism: m.Organism,
		CasType:  string(m.Cas),
		Kind:     string(r.Kind),
		Reason:   r.Reason,
		Guides:   make([]api.GuideV1, 0, len(r.Guides)),
	}
	for _, g := range r.Guides {
		v.Guides = append(v.Guides, ToAPIGuide(g))
	}
	return v
}

func ToAPIGuide(g design.Guide) api.GuideV1 {
	span := len(g.Spacer)
	if g.Placeholder {
		span = placeholderSpan
	}
	v := api.GuideV1{
		Seq:             g.Spacer,
		PAM:             g.PAM,
		Position:        fmt.Sprintf("%d-%d", g.Position, g.Position+span),
		Start:           g.Position,
		Strand:          string(g.Strand),
		CasType:         string(g.Cas),
		DoenchScore:     g.OnTarget,
		Specificity:     g.Specificity,
		OffTargetCount:  g.OffTargetCount,
		GCContent:       g.GCContent,
		HasPolyT:        g.PolyT,
		RepeatCount:     g.MaxRepeat,
		PAMQuality:      g.PAMQuality,
		PathwayConflict: g.PathwayConflict,
		ConflictGenes:   append([]string(nil), g.ConflictGenes...),
		CFDOffTargets:   g.OffTargetCount,
		Severity:        string(g.Severity),
		Recommendation:  g.Recommendation,
		Placeholder:     g.Placeholder,
	}
	if g.ExonNumber > 0 {
		n := g.ExonNumber
		v.ExonNumber = &n
	}
	if g.ExonPosition != "" {
		p := g.ExonPosition
		v.ExonPosition = &p
	}
	if g.CDSFrame >= 0 {
		f := g.CDSFrame
		v.CDSFrame = &f
	}
	for _, ot := range g.OffTargets {
		v.OffTargets = append(v.OffTargets, ToAPIOffTarget(ot))
	}
	return v
}

func ToAPIOffTarget(ot offtarget.OffTarget) api.OffTargetV1 {
	return api.OffTargetV1{
		Sequence:          ot.Sequence,
		Chrom:             ot.Chrom,
		Position:          ot.Position,
		Strand:            string(ot.Strand),
		Mismatches:        ot.Mismatches,
		MismatchPositions: append([]int{}, ot.MismatchPositions...),
		PAM:               ot.PAM,
		PAMQuality:        ot.PAMQuality,
		CFDScore:          ot.Score,
		GeneName:          ot.GeneName,
		GeneID:            ot.GeneID,
		Location:          ot.Location,
		Severity:          string(ot.Severity),
	}
}
