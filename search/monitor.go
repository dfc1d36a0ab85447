package search

import "github.com/ching011500/coursebot/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(matches []*core.SearchResult)
	AfterLexicalScoring(scored int)
	FusedCandidate(id core.ID, semantic, lexical, fused float64)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                  {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.SearchResult)      {}
func (n *noopMonitor) AfterLexicalScoring(_ int)                       {}
func (n *noopMonitor) FusedCandidate(_ core.ID, _, _, _ float64)       {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)                   {}
