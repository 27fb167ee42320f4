// Package delver composes the page interpreter, layout grouper, document
// index and template matcher into the single process_pdf entry point:
// bytes + template in, a match tree (plus the working blocks/index a
// caller may want for further ad hoc queries) out.
package delver

import (
	"encoding/json"

	"github.com/delvergo/delver/chunk"
	"github.com/delvergo/delver/config"
	"github.com/delvergo/delver/docindex"
	"github.com/delvergo/delver/interp"
	"github.com/delvergo/delver/layout"
	"github.com/delvergo/delver/pdfsrc"
	"github.com/delvergo/delver/template"
)

// Result is process_pdf's output. Matches is the serialization contract;
// Blocks and Index are exposed for callers that want to run further
// queries against the same document without re-parsing it.
type Result struct {
	Matches []*template.ContentMatch
	Blocks  map[int][]layout.TextBlock
	Index   *docindex.PdfIndex
}

// JSON marshals the match tree; serialization of the output is the only
// thing this call does, leaving field naming and shaping to the caller.
func (r *Result) JSON() ([]byte, error) {
	return json.Marshal(r.Matches)
}

// Process runs the full pipeline: load the PDF, interpret every page
// (in parallel, up to cfg.MaxWorkers), group text runs into lines and
// blocks, build the multi-modal index, resolve named destinations into
// reference counts, then align templateRoot against the index. tokenizer
// may be nil unless the template uses unit="tokens" chunking.
func Process(pdfBytes []byte, templateRoot *template.Root, tokenizer chunk.Tokenizer, opts ...config.Option) (*Result, error) {
	cfg := config.New(opts...)

	doc, err := pdfsrc.Load(pdfBytes, cfg.Password)
	if err != nil {
		return nil, err
	}

	pages, err := interp.ProcessPages(doc, cfg)
	if err != nil {
		return nil, err
	}

	byPage := make(map[int][]interp.PageContent, len(pages))
	textByPage := make(map[int][]*interp.TextElement, len(pages))
	for i, content := range pages {
		page := i + 1
		byPage[page] = content
		for _, c := range content {
			if c.Text != nil {
				textByPage[page] = append(textByPage[page], c.Text)
			}
		}
	}

	blocks := layout.GroupPages(textByPage, cfg.LineJoin, cfg.BlockJoin)
	idx := docindex.Build(byPage)

	dests, err := doc.Destinations()
	if err != nil {
		return nil, err
	}
	idx.UpdateReferenceCounts(dests)

	matcher := template.NewMatcher(idx, blocks, cfg, tokenizer)
	matches := matcher.Match(templateRoot)

	return &Result{Matches: matches, Blocks: blocks, Index: idx}, nil
}
