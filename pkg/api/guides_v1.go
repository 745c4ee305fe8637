// pkg/api/guides_v1.go
package api

// OffTargetV1 is the stable JSON/JSONL schema for one off-target site.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type OffTargetV1 struct {
	Sequence          string  `json:"sequence"`
	Chrom             string  `json:"chrom"`
	Position          int     `json:"position"`
	Strand            string  `json:"strand"` // "+" | "-"
	Mismatches        int     `json:"mismatches"`
	MismatchPositions []int   `json:"mismatch_positions"`
	PAM               string  `json:"pam_sequence"`
	PAMQuality        float64 `json:"pam_quality"`
	CFDScore          float64 `json:"cfd_score"` // CFD × PAM quality
	GeneName          string  `json:"gene_name,omitempty"`
	GeneID            string  `json:"gene_id,omitempty"`
	Location          string  `json:"exon_location,omitempty"`
	Severity          string  `json:"severity"`
}

// GuideV1 is the stable schema for one guide RNA record.
type GuideV1 struct {
	Seq             string        `json:"seq"`
	PAM             string        `json:"pam_sequence"`
	Position        string        `json:"position"` // "start-end" of the spacer record
	Start           int           `json:"start"`
	Strand          string        `json:"strand"`
	CasType         string        `json:"cas_type"`
	DoenchScore     float64       `json:"doench_score"`
	Specificity     float64       `json:"specificity_score"`
	OffTargetCount  int           `json:"off_target_count"`
	GCContent       float64       `json:"gc_content"`
	HasPolyT        bool          `json:"has_poly_t"`
	RepeatCount     int           `json:"repeat_count"`
	PAMQuality      float64       `json:"pam_quality"`
	ExonNumber      *int          `json:"exon_number"`
	ExonPosition    *string       `json:"exon_position"`
	CDSFrame        *int          `json:"cds_frame"`
	PathwayConflict bool          `json:"pathway_conflict"`
	ConflictGenes   []string      `json:"pathway_conflict_genes,omitempty"`
	CFDOffTargets   int           `json:"cfd_off_targets"`
	Severity        string        `json:"severity_level"`
	Recommendation  string        `json:"safety_recommendation"`
	Placeholder     bool          `json:"placeholder,omitempty"`
	OffTargets      []OffTargetV1 `json:"off_targets,omitempty"`
}

// DesignV1 wraps the guides designed for one gene and nuclease.
type DesignV1 struct {
	RunID    string    `json:"run_id,omitempty"`
	Gene     string    `json:"gene"`
	Organism string    `json:"organism"`
	CasType  string    `json:"cas_type"`
	Kind     string    `json:"kind"` // "scored" | "fallback"
	Reason   string    `json:"reason,omitempty"`
	Guides   []GuideV1 `json:"guides"`
}
