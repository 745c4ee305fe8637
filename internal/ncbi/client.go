// Package ncbi resolves gene symbols to transcript sequences through the
// NCBI E-utilities (esearch, elink, efetch).
package ncbi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ksites-core/design"
	"ksites-core/fasta"
)

var (
	ErrGeneNotFound   = errors.New("gene not found")
	ErrNoTranscript   = errors.New("no RefSeq transcript linked to gene")
	ErrEmptySequence  = errors.New("empty sequence returned")
	errUnexpectedCode = errors.New("unexpected response status code")
)

const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

type Options struct {
	BaseURL string
	APIKey  string
	Email   string
	Tool    string
	Rate    float64 // requests per second; NCBI allows 3 without a key
	Timeout time.Duration
	HTTP    *http.Client
	Logger  *slog.Logger
}

// Client is a rate-limited E-utilities client. It is safe for concurrent
// use; all requests share one token bucket.
type Client struct {
	base    string
	params  url.Values
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Rate <= 0 {
		o.Rate = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	hc := o.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	common := url.Values{}
	for k, v := range map[string]string{"api_key": o.APIKey, "email": o.Email, "tool": o.Tool} {
		if v != "" {
			common.Set(k, v)
		}
	}
	return &Client{
		base:    strings.TrimRight(o.BaseURL, "/"),
		params:  common,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(o.Rate), 1),
		log:     o.Logger,
	}
}

// FetchGene implements design.GeneProvider. organism is an NCBI taxonomy
// id. Exon structure is estimated from transcript length and the CDS is
// approximated as the middle two thirds.
func (c *Client) FetchGene(ctx context.Context, symbol, organism string) (design.GeneInfo, error) {
	geneID, err := c.SearchGene(ctx, symbol, organism)
	if err != nil {
		return design.GeneInfo{}, err
	}
	acc, err := c.LinkRefSeqRNA(ctx, geneID)
	if err != nil {
		return design.GeneInfo{}, err
	}
	rec, err := c.FetchFASTA(ctx, acc)
	if err != nil {
		return design.GeneInfo{}, err
	}
	s := strings.ToUpper(string(rec.Seq))
	c.log.Debug("fetched transcript", "gene", symbol, "gene_id", geneID, "accession", acc, "length", len(s))
	return design.GeneInfo{
		GeneID:   geneID,
		Symbol:   symbol,
		Sequence: s,
		Exons:    design.EstimateExons(len(s)),
		CDSStart: len(s) / 6,
		CDSEnd:   len(s) * 5 / 6,
	}, nil
}

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// SearchGene returns the first Gene id for symbol in taxid.
func (c *Client) SearchGene(ctx context.Context, symbol, taxid string) (string, error) {
	q := url.Values{}
	q.Set("db", "gene")
	q.Set("term", fmt.Sprintf("%s[Gene Name] AND %s[Taxonomy ID]", symbol, taxid))
	q.Set("retmax", "1")
	q.Set("retmode", "json")
	res, err := getJSON[esearchResponse](ctx, c, "esearch.fcgi", q)
	if err != nil {
		return "", fmt.Errorf("esearch %s: %w", symbol, err)
	}
	if len(res.Result.IDList) == 0 {
		return "", fmt.Errorf("%w: %s (taxid %s)", ErrGeneNotFound, symbol, taxid)
	}
	return res.Result.IDList[0], nil
}

type elinkResponse struct {
	LinkSets []struct {
		LinkSetDBs []struct {
			LinkName string   `json:"linkname"`
			Links    []string `json:"links"`
		} `json:"linksetdbs"`
	} `json:"linksets"`
}

// LinkRefSeqRNA returns the first RefSeq RNA record linked to geneID.
func (c *Client) LinkRefSeqRNA(ctx context.Context, geneID string) (string, error) {
	q := url.Values{}
	q.Set("dbfrom", "gene")
	q.Set("db", "nuccore")
	q.Set("id", geneID)
	q.Set("linkname", "gene_nuccore_refseqrna")
	q.Set("retmode", "json")
	res, err := getJSON[elinkResponse](ctx, c, "elink.fcgi", q)
	if err != nil {
		return "", fmt.Errorf("elink %s: %w", geneID, err)
	}
	for _, ls := range res.LinkSets {
		for _, db := range ls.LinkSetDBs {
			if len(db.Links) > 0 {
				return db.Links[0], nil
			}
		}
	}
	return "", fmt.Errorf("%w: gene %s", ErrNoTranscript, geneID)
}

// FetchFASTA downloads one nuccore record as FASTA.
func (c *Client) FetchFASTA(ctx context.Context, id string) (fasta.Record, error) {
	q := url.Values{}
	q.Set("db", "nuccore")
	q.Set("id", id)
	q.Set("rettype", "fasta")
	q.Set("retmode", "text")
	body, err := c.get(ctx, "efetch.fcgi", q)
	if err != nil {
		return fasta.Record{}, fmt.Errorf("efetch %s: %w", id, err)
	}
	recs, err := fasta.ReadAll(ctx, bytes.NewReader(body))
	if err != nil {
		return fasta.Record{}, fmt.Errorf("efetch %s: %w", id, err)
	}
	if len(recs) == 0 || len(recs[0].Seq) == 0 {
		return fasta.Record{}, fmt.Errorf("%w: %s", ErrEmptySequence, id)
	}
	return recs[0], nil
}

func getJSON[T any](ctx context.Context, c *Client, endpoint string, q url.Values) (*T, error) {
	body, err := c.get(ctx, endpoint, q)
	if err != nil {
		return nil, err
	}
	var t T
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return &t, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	for k, vs := range c.params {
		q[k] = vs
	}
	u := c.base + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedCode, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
