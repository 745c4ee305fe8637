package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"ksites-core/design"
	"ksites-core/fasta"
	"ksites-core/offtarget"
	"ksites-core/pam"
	"ksites/internal/appshell"
	"ksites/internal/localgene"
	"ksites/internal/ncbi"
	"ksites/internal/store"
	"ksites/internal/writers"
	"ksites/pkg/api"
)

// session holds what a design command needs: a configured designer, the
// optional database and validated options.
type session struct {
	a    *app
	d    *design.Designer
	st   *store.Store
	opts design.Options
}

func (a *app) newSession(ctx context.Context) (*session, error) {
	opts, err := a.cfg.DesignOptions()
	if err != nil {
		return nil, appshell.Usage(err)
	}
	st, err := a.openStore(ctx, a.cfg.Store.Record)
	if err != nil {
		return nil, err
	}
	d, err := a.designer(ctx, st)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, err
	}
	return &session{a: a, d: d, st: st, opts: opts}, nil
}

func (s *session) Close() {
	if s.st != nil {
		s.st.Close()
	}
}

// openStore opens the configured database. Unless create is set, a
// database that does not exist yet is treated as absent.
func (a *app) openStore(ctx context.Context, create bool) (*store.Store, error) {
	path := a.cfg.Store.Path
	if path == "" {
		if create {
			return nil, appshell.Usage(errors.New("no database configured (--db)"))
		}
		return nil, nil
	}
	if !create && path != ":memory:" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			a.log.Debug("no database, pathway checks disabled", "path", path)
			return nil, nil
		}
	}
	return store.Open(ctx, path)
}

func (a *app) provider(ctx context.Context) (design.GeneProvider, error) {
	if a.cfg.Provider == "local" {
		p, err := localgene.Open(ctx, a.cfg.Local.FASTA, a.cfg.Local.Exons)
		if err != nil {
			return nil, fmt.Errorf("local provider: %w", err)
		}
		a.log.Debug("local provider ready", "fasta", a.cfg.Local.FASTA, "genes", len(p.Symbols()))
		return p, nil
	}
	n := a.cfg.NCBI
	return ncbi.New(ncbi.Options{
		BaseURL: n.BaseURL,
		APIKey:  n.APIKey,
		Email:   n.Email,
		Tool:    n.Tool,
		Rate:    n.Rate,
		Timeout: n.Timeout,
		Logger:  a.log,
	}), nil
}

func (a *app) designer(ctx context.Context, st *store.Store) (*design.Designer, error) {
	gp, err := a.provider(ctx)
	if err != nil {
		return nil, err
	}
	opts := []design.Option{design.WithLogger(a.log)}
	if st != nil {
		opts = append(opts, design.WithPathwayChecker(st))
	}
	if a.cfg.OffTarget.Source == "reference" {
		recs, err := fasta.ReadFile(ctx, a.cfg.OffTarget.Reference)
		if err != nil {
			return nil, fmt.Errorf("off-target reference: %w", err)
		}
		a.log.Info("loaded off-target reference", "path", a.cfg.OffTarget.Reference, "records", len(recs))
		hitCap := a.cfg.OffTarget.HitCap
		opts = append(opts, design.WithOffTargetSource(func(cfg pam.Config) offtarget.Source {
			r := offtarget.NewReference(recs, cfg)
			r.HitCap = hitCap
			return r
		}))
	}
	return design.New(gp, opts...), nil
}

// toAPI converts r and records the run when recording is enabled.
func (s *session) toAPI(ctx context.Context, gene string, cas pam.CasType, r design.Result) (api.DesignV1, error) {
	d := writers.ToAPIDesign(writers.Meta{
		RunID:    store.NewRunID(),
		Gene:     gene,
		Organism: s.a.cfg.Organism,
		Cas:      cas,
	}, r)
	if s.st == nil || !s.a.cfg.Store.Record {
		return d, nil
	}
	params, err := json.Marshal(s.a.cfg.Design)
	if err != nil {
		return d, err
	}
	_, err = s.st.RecordRun(ctx, store.Run{
		ID:         d.RunID,
		Gene:       d.Gene,
		Organism:   d.Organism,
		Cas:        d.CasType,
		Kind:       d.Kind,
		Reason:     d.Reason,
		GuideCount: len(d.Guides),
		ParamsJSON: string(params),
	})
	return d, err
}

// emit runs produce and writes everything it sends to stdout in the
// configured format. Broken pipes are not errors.
func (a *app) emit(ctx context.Context, produce func(send func(api.DesignV1) error) error) error {
	format := a.cfg.Format
	if !slices.Contains(writers.Formats(), format) {
		return appshell.Usage(fmt.Errorf("unknown format %q (want %s)", format, strings.Join(writers.Formats(), ", ")))
	}
	outw := bufio.NewWriter(a.stdout)
	in, werr := writers.StartDesignWriter(outw, format, 16)
	perr := produce(func(d api.DesignV1) error {
		select {
		case in <- d:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(in)

	if err := <-werr; err != nil && !writers.IsBrokenPipe(err) {
		return err
	}
	if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
		return err
	}
	return perr
}
