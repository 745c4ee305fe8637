package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// #region add-membership
// AddMembership records that gene belongs to pathway in organism. Gene
// symbols are stored upper-cased; duplicates are ignored. It reports
// whether a new row was written.
func (s *Store) AddMembership(ctx context.Context, organism, pathway, gene string) (bool, error) {
	gene = strings.ToUpper(strings.TrimSpace(gene))
	pathway = strings.TrimSpace(pathway)
	if organism == "" || pathway == "" || gene == "" {
		return false, fmt.Errorf("membership needs organism, pathway and gene")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO pathway_members (organism, pathway, gene, created_at)
		 VALUES (?, ?, ?, ?)`,
		organism, pathway, gene, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("add membership: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// #endregion add-membership

// #region import
// ImportTSV loads "pathway gene [gene...]" rows for organism in one
// transaction and returns the number of new memberships.
func (s *Store) ImportTSV(ctx context.Context, organism string, r io.Reader) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO pathway_members (organism, pathway, gene, created_at)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	added, ln := 0, 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 2 {
			return 0, fmt.Errorf("line %d: need pathway and at least one gene", ln)
		}
		for _, g := range f[1:] {
			res, err := stmt.ExecContext(ctx, organism, f[0], strings.ToUpper(g), now)
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", ln, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", ln, err)
			}
			added += int(n)
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// #endregion import

// #region neighbors
// PathwayNeighbors returns the genes sharing at least one pathway with gene
// in organism, sorted, excluding gene itself.
func (s *Store) PathwayNeighbors(ctx context.Context, gene, organism string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT m2.gene
		   FROM pathway_members m1
		   JOIN pathway_members m2
		     ON m1.organism = m2.organism AND m1.pathway = m2.pathway
		  WHERE m1.organism = ? AND m1.gene = ? AND m2.gene <> m1.gene
		  ORDER BY m2.gene`,
		organism, strings.ToUpper(gene),
	)
	if err != nil {
		return nil, fmt.Errorf("query neighbors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan neighbor: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// #endregion neighbors

// CheckConflicts reports which of genes share a pathway with target.
// Matching is case-insensitive; genes keep their input spelling and order.
func (s *Store) CheckConflicts(ctx context.Context, genes []string, target, organism string) (bool, []string, error) {
	if len(genes) == 0 {
		return false, nil, nil
	}
	nb, err := s.PathwayNeighbors(ctx, target, organism)
	if err != nil {
		return false, nil, err
	}
	set := make(map[string]struct{}, len(nb))
	for _, g := range nb {
		set[g] = struct{}{}
	}
	seen := map[string]bool{}
	var hits []string
	for _, g := range genes {
		k := strings.ToUpper(g)
		if _, ok := set[k]; ok && !seen[k] {
			seen[k] = true
			hits = append(hits, g)
		}
	}
	return len(hits) > 0, hits, nil
}
