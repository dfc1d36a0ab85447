package lexical

import (
	"math"
	"slices"

	"github.com/ching011500/coursebot/core"
)

// BM25 tuning constants. Standard values from Robertson et al.
const (
	// k1 controls term frequency saturation.
	bm25K1 = 1.5

	// b controls document length normalization.
	bm25B = 0.75
)

// Document is the unit of indexing: a course ID and its rendered text.
type Document struct {
	Id   core.ID
	Text string
}

// Score is a single document's lexical relevance to a query.
type Score struct {
	Id    core.ID
	Value float64
}

type indexedDoc struct {
	id  core.ID
	tf  map[string]int
	len int
}

// Index is an immutable Okapi BM25 index over a course corpus.
// Safe for concurrent use after Build returns.
type Index struct {
	tokenizer Tokenizer
	docs      []indexedDoc

	// idf is Lucene-smoothed: log((N+1)/(df+1)) + 1, always >= 1.
	idf    map[string]float64
	avgLen float64
}

// Build constructs an index over the given documents. Documents are
// ordered by ID internally so that scoring output is deterministic
// regardless of input order.
func Build(documents []Document, tokenizer Tokenizer) *Index {
	index := &Index{
		tokenizer: tokenizer,
		idf:       make(map[string]float64),
	}
	if len(documents) == 0 {
		return index
	}

	sorted := slices.Clone(documents)
	slices.SortFunc(sorted, func(a, b Document) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	df := make(map[string]int)
	totalLen := 0

	docs := make([]indexedDoc, 0, len(sorted))
	for _, document := range sorted {
		terms := tokenizer.Tokenize(document.Text)
		tf := make(map[string]int, len(terms))
		for _, term := range terms {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		docs = append(docs, indexedDoc{id: document.Id, tf: tf, len: len(terms)})
		totalLen += len(terms)
	}

	n := len(docs)
	for term, docFreq := range df {
		index.idf[term] = math.Log(float64(n+1)/float64(docFreq+1)) + 1.0
	}

	index.docs = docs
	index.avgLen = float64(totalLen) / float64(n)
	return index
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// ScoreAll scores every indexed document against the query, including
// documents that share no term with it. Returning the whole corpus lets
// callers min-max normalize over the full score distribution instead of
// only the matching tail. Results are ordered by document ID.
func (idx *Index) ScoreAll(query string) []Score {
	scores := make([]Score, len(idx.docs))
	for i, doc := range idx.docs {
		scores[i] = Score{Id: doc.id}
	}
	if query == "" || len(idx.docs) == 0 {
		return scores
	}

	terms := idx.tokenizer.Tokenize(query)
	if len(terms) == 0 {
		return scores
	}

	// Collapse repeated query terms into counts so a term appearing
	// twice in the query contributes twice.
	queryTF := make(map[string]int, len(terms))
	for _, term := range terms {
		queryTF[term]++
	}

	for i, doc := range idx.docs {
		scores[i].Value = idx.scoreDoc(queryTF, doc)
	}
	return scores
}

// Query returns the k highest-scoring documents for the query, ordered
// by score descending with document ID as the tie-break. Documents with
// zero score are excluded.
func (idx *Index) Query(query string, k int) []Score {
	all := idx.ScoreAll(query)

	matched := make([]Score, 0, len(all))
	for _, score := range all {
		if score.Value > 0 {
			matched = append(matched, score)
		}
	}

	slices.SortFunc(matched, func(a, b Score) int {
		if a.Value > b.Value {
			return -1
		}
		if a.Value < b.Value {
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if k > 0 && len(matched) > k {
		matched = matched[:k]
	}
	return matched
}

func (idx *Index) scoreDoc(queryTF map[string]int, doc indexedDoc) float64 {
	dl := float64(doc.len)
	var score float64

	for term, qtf := range queryTF {
		tf, inDoc := doc.tf[term]
		if !inDoc {
			continue
		}
		termIDF, known := idx.idf[term]
		if !known {
			continue
		}

		tfFloat := float64(tf)
		numerator := tfFloat * (bm25K1 + 1)
		denominator := tfFloat + bm25K1*(1.0-bm25B+bm25B*dl/idx.avgLen)
		score += float64(qtf) * termIDF * (numerator / denominator)
	}
	return score
}
